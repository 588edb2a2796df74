package menudiff

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpalace/playpalace/internal/protocol"
)

func items(texts ...string) []protocol.MenuItem {
	result := make([]protocol.MenuItem, len(texts))
	for i, text := range texts {
		result[i] = protocol.MenuItem{Text: text}
	}
	return result
}

func itemsWithIDs(pairs ...string) []protocol.MenuItem {
	var result []protocol.MenuItem
	for i := 0; i < len(pairs); i += 2 {
		result = append(result, protocol.Item(pairs[i], pairs[i+1]))
	}
	return result
}

func TestDiffByIDApplyYieldsNewList(t *testing.T) {
	old := itemsWithIDs("a", "1", "b", "2", "c", "3")
	new := itemsWithIDs("a", "1", "c", "3", "d", "4")

	ops := Diff(old, new)
	assert.Equal(t, new, Apply(old, ops))
}

func TestDiffByIDOpCount(t *testing.T) {
	old := itemsWithIDs("a", "1", "b", "2", "c", "3")
	new := itemsWithIDs("a", "1", "c!", "3", "d", "4")

	// one delete (id 2), one insert (id 4), one update (id 3 text).
	ops := Diff(old, new)
	assert.Len(t, ops, 3)

	counts := map[OpKind]int{}
	for _, op := range ops {
		counts[op.Kind]++
	}
	assert.Equal(t, 1, counts[OpDelete])
	assert.Equal(t, 1, counts[OpInsert])
	assert.Equal(t, 1, counts[OpUpdate])
}

func TestDiffRandomizedIDLists(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 200; trial++ {
		var old, new []protocol.MenuItem
		for i := 0; i < rng.IntN(12); i++ {
			old = append(old, protocol.Item("t"+strconv.Itoa(rng.IntN(20)), "id"+strconv.Itoa(i)))
		}
		for i := 0; i < rng.IntN(12); i++ {
			// overlap roughly half the ids with the old list
			new = append(new, protocol.Item("t"+strconv.Itoa(rng.IntN(20)), "id"+strconv.Itoa(i+rng.IntN(2)*6)))
		}
		if !uniqueIDs(new) {
			continue
		}
		ops := Diff(old, new)
		assert.Equal(t, new, Apply(old, ops), "trial %d", trial)
	}
}

func uniqueIDs(list []protocol.MenuItem) bool {
	seen := map[string]bool{}
	for _, item := range list {
		if seen[item.ID] {
			return false
		}
		seen[item.ID] = true
	}
	return true
}

func TestDiffTextLCSApplyYieldsNewList(t *testing.T) {
	old := items("alpha", "beta", "gamma", "delta")
	new := items("beta", "gamma", "epsilon", "delta", "zeta")

	ops := Diff(old, new)
	assert.Equal(t, new, Apply(old, ops))
}

func TestEqualLengthEmitsUpdatesOnly(t *testing.T) {
	old := items("roll (3 dice)", "scores")
	new := items("roll (2 dice)", "scores")

	ops := Diff(old, new)
	require.Len(t, ops, 1)
	assert.Equal(t, OpUpdate, ops[0].Kind)
	assert.Equal(t, 0, ops[0].Index)
}

func TestSelectionFollowsID(t *testing.T) {
	// Menu refocus: select id 2, delete it, focus should land on id 3.
	old := itemsWithIDs("a", "1", "b", "2", "c", "3")
	new := itemsWithIDs("a", "1", "c", "3")

	ops := Diff(old, new)
	require.Len(t, ops, 1)
	assert.Equal(t, OpDelete, ops[0].Kind)
	assert.Equal(t, 1, ops[0].Index)

	// The deleted item was selected: focus moves to the next item.
	selected := AdjustSelection(1, len(new), ops)
	assert.Equal(t, 1, selected)
	assert.Equal(t, "3", new[selected].ID)
}

func TestSelectionStableAroundInsertions(t *testing.T) {
	old := itemsWithIDs("b", "2", "c", "3")
	new := itemsWithIDs("a", "1", "b", "2", "c", "3", "d", "4")

	ops := Diff(old, new)
	assert.Equal(t, new, Apply(old, ops))

	// Item id 3 was selected at index 1; after the ops it sits at 2.
	selected := AdjustSelection(1, len(new), ops)
	assert.Equal(t, "3", new[selected].ID)
}

func TestSelectionDeleteBeforeDecrements(t *testing.T) {
	old := itemsWithIDs("a", "1", "b", "2", "c", "3")
	new := itemsWithIDs("b", "2", "c", "3")

	ops := Diff(old, new)
	selected := AdjustSelection(2, len(new), ops)
	assert.Equal(t, 1, selected)
	assert.Equal(t, "3", new[selected].ID)
}

func TestSelectionClampsAtEnd(t *testing.T) {
	old := itemsWithIDs("a", "1", "b", "2")
	new := itemsWithIDs("a", "1")

	ops := Diff(old, new)
	selected := AdjustSelection(1, len(new), ops)
	assert.Equal(t, 0, selected)
}

func TestSelectionByID(t *testing.T) {
	list := itemsWithIDs("a", "1", "b", "2")
	assert.Equal(t, 1, SelectionByID(list, "2"))
	assert.Equal(t, -1, SelectionByID(list, "9"))
	assert.Equal(t, -1, SelectionByID(list, ""))
}
