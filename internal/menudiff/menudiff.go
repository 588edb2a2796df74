// Package menudiff computes minimal operation sequences between menu
// item lists so clients can update in place without re-announcing the
// whole menu to a screen reader.
package menudiff

import "github.com/playpalace/playpalace/internal/protocol"

// OpKind discriminates diff operations.
type OpKind int

const (
	OpDelete OpKind = iota
	OpInsert
	OpUpdate
)

// Op is one edit. Index is an old-list index for deletes and a new-list
// index for inserts and updates.
type Op struct {
	Kind  OpKind
	Index int
	Item  protocol.MenuItem
}

// Diff returns the operations that turn old into new. When every item on
// both sides carries a stable id the id-based algorithm is used;
// otherwise lists of equal length get position-wise updates and lists of
// different length fall back to a text LCS.
//
// Operations are ordered deletes (highest old index first), then inserts
// (lowest new index first), then updates, which is also the order Apply
// executes them in.
func Diff(old, new []protocol.MenuItem) []Op {
	if allHaveIDs(old) && allHaveIDs(new) {
		return diffByID(old, new)
	}
	if len(old) == len(new) {
		return updatesOnly(old, new)
	}
	return diffByText(old, new)
}

func allHaveIDs(items []protocol.MenuItem) bool {
	for _, item := range items {
		if item.ID == "" {
			return false
		}
	}
	return len(items) > 0
}

func diffByID(old, new []protocol.MenuItem) []Op {
	oldIndex := make(map[string]int, len(old))
	for i, item := range old {
		oldIndex[item.ID] = i
	}
	newIndex := make(map[string]int, len(new))
	for i, item := range new {
		newIndex[item.ID] = i
	}

	var ops []Op

	// Deletes, highest old index first so earlier indexes stay valid.
	for i := len(old) - 1; i >= 0; i-- {
		if _, ok := newIndex[old[i].ID]; !ok {
			ops = append(ops, Op{Kind: OpDelete, Index: i, Item: old[i]})
		}
	}

	// Inserts in new-index order.
	for i, item := range new {
		if _, ok := oldIndex[item.ID]; !ok {
			ops = append(ops, Op{Kind: OpInsert, Index: i, Item: item})
		}
	}

	// Updates for common ids whose text changed, or whose slot holds a
	// different common item because the common items were reordered.
	var kept []protocol.MenuItem
	for _, item := range old {
		if _, ok := newIndex[item.ID]; ok {
			kept = append(kept, item)
		}
	}
	k := 0
	for i, item := range new {
		if _, ok := oldIndex[item.ID]; ok {
			if k >= len(kept) || kept[k] != item {
				ops = append(ops, Op{Kind: OpUpdate, Index: i, Item: item})
			}
			k++
		}
	}
	return ops
}

// updatesOnly covers equal-length lists without full ids: positions are
// assumed stable and only changed texts are rewritten.
func updatesOnly(old, new []protocol.MenuItem) []Op {
	var ops []Op
	for i := range new {
		if old[i].Text != new[i].Text || old[i].ID != new[i].ID {
			ops = append(ops, Op{Kind: OpUpdate, Index: i, Item: new[i]})
		}
	}
	return ops
}

func diffByText(old, new []protocol.MenuItem) []Op {
	// Longest common subsequence over item texts.
	rows, cols := len(old)+1, len(new)+1
	table := make([][]int, rows)
	for i := range table {
		table[i] = make([]int, cols)
	}
	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			if old[i-1].Text == new[j-1].Text {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}

	var deletes, inserts []Op
	i, j := len(old), len(new)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && old[i-1].Text == new[j-1].Text:
			i--
			j--
		case j > 0 && (i == 0 || table[i][j-1] >= table[i-1][j]):
			j--
			inserts = append(inserts, Op{Kind: OpInsert, Index: j, Item: new[j]})
		default:
			i--
			deletes = append(deletes, Op{Kind: OpDelete, Index: i, Item: old[i]})
		}
	}

	// Backtracking walks right-to-left, so deletes are already highest
	// index first; inserts need reversing into ascending order.
	for left, right := 0, len(inserts)-1; left < right; left, right = left+1, right-1 {
		inserts[left], inserts[right] = inserts[right], inserts[left]
	}
	return append(deletes, inserts...)
}

// Apply executes ops against old and returns the resulting list, nil
// when it is empty.
func Apply(old []protocol.MenuItem, ops []Op) []protocol.MenuItem {
	items := make([]protocol.MenuItem, len(old))
	copy(items, old)
	for _, op := range ops {
		switch op.Kind {
		case OpDelete:
			items = append(items[:op.Index], items[op.Index+1:]...)
		case OpInsert:
			items = append(items, protocol.MenuItem{})
			copy(items[op.Index+1:], items[op.Index:])
			items[op.Index] = op.Item
		case OpUpdate:
			items[op.Index] = op.Item
		}
	}
	if len(items) == 0 {
		return nil
	}
	return items
}

// AdjustSelection returns the selected index after ops are applied.
// Deletes before the selection shift it down; a delete at the selection
// leaves it on the next item (or the new last item when it was at the
// end); inserts at or before the selection shift it up.
func AdjustSelection(selected int, newLen int, ops []Op) int {
	if selected < 0 {
		return selected
	}
	for _, op := range ops {
		switch op.Kind {
		case OpDelete:
			if op.Index < selected {
				selected--
			}
		case OpInsert:
			if op.Index <= selected {
				selected++
			}
		}
	}
	if selected >= newLen {
		selected = newLen - 1
	}
	return selected
}

// SelectionByID returns the new index of the item carrying id, or -1.
func SelectionByID(items []protocol.MenuItem, id string) int {
	if id == "" {
		return -1
	}
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
