package game

import (
	"strings"

	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
	"github.com/playpalace/playpalace/internal/users"
)

// ActionSet returns (creating on demand) the named action set of a
// player. Sets resolve in the order they were first created: the base's
// "standard" set is created when a player is seated, before the game's
// own sets (by convention "turn", then "options").
func (b *Base) ActionSet(p *Player, name string) *ActionSet {
	sets, ok := b.actionSets[p.ID]
	if !ok {
		sets = newPlayerActions()
		b.actionSets[p.ID] = sets
	}
	return sets.get(name)
}

// FindAction locates an action by id across all of a player's sets.
func (b *Base) FindAction(p *Player, id string) *Action {
	sets, ok := b.actionSets[p.ID]
	if !ok {
		return nil
	}
	return sets.find(id)
}

func (b *Base) resolve(p *Player, a *Action) ResolvedAction {
	resolved := ResolvedAction{Action: a, Visible: true}
	if a.Hidden != nil && a.Hidden(p) == Hidden {
		resolved.Visible = false
	}
	if a.Enabled != nil {
		resolved.DisabledReason = a.Enabled(p)
	}
	switch {
	case a.Label != nil:
		resolved.Label = a.Label(p)
	case a.LabelID != "":
		localeCode := "en"
		if u := b.GetUser(p); u != nil {
			localeCode = u.Locale()
		}
		resolved.Label = locale.Get(localeCode, a.LabelID, nil)
	default:
		resolved.Label = a.ID
	}
	return resolved
}

// GetAllVisibleActions resolves every action of every set for a player
// and returns the visible ones, for building the turn menu.
func (b *Base) GetAllVisibleActions(p *Player) []ResolvedAction {
	sets, ok := b.actionSets[p.ID]
	if !ok {
		return nil
	}
	var visible []ResolvedAction
	for _, a := range sets.all() {
		if resolved := b.resolve(p, a); resolved.Visible {
			visible = append(visible, resolved)
		}
	}
	return visible
}

// GetAllEnabledActions additionally filters to enabled actions that opt
// into the actions menu, hidden or not.
func (b *Base) GetAllEnabledActions(p *Player) []ResolvedAction {
	sets, ok := b.actionSets[p.ID]
	if !ok {
		return nil
	}
	var enabled []ResolvedAction
	for _, a := range sets.all() {
		if !a.ShowInActionsMenu {
			continue
		}
		if resolved := b.resolve(p, a); resolved.DisabledReason == "" {
			enabled = append(enabled, resolved)
		}
	}
	return enabled
}

// RebuildPlayerMenu pushes the turn menu of visible actions to one
// player. Finished and destroyed games never rebuild.
func (b *Base) RebuildPlayerMenu(p *Player) {
	if b.destroyed || b.Status == StatusFinished {
		return
	}
	u := b.GetUser(p)
	if u == nil {
		return
	}
	var items []protocol.MenuItem
	for _, resolved := range b.GetAllVisibleActions(p) {
		items = append(items, protocol.Item(resolved.Label, resolved.Action.ID))
	}
	u.UpdateMenu("turn_menu", items, 0, "")
}

// RebuildAllMenus rebuilds every seated player's turn menu.
func (b *Base) RebuildAllMenus() {
	if b.destroyed || b.Status == StatusFinished {
		return
	}
	for _, p := range b.Players {
		b.RebuildPlayerMenu(p)
	}
}

// StatusBox shows a list of lines to one player. Enter on any line
// closes it; no explicit close item is needed since screen readers
// speak list items directly.
func (b *Base) StatusBox(p *Player, lines []string) {
	u := b.GetUser(p)
	if u == nil {
		return
	}
	items := make([]protocol.MenuItem, len(lines))
	for i, line := range lines {
		items[i] = protocol.Item(line, "status_line")
	}
	b.statusBoxOpen[p.ID] = true
	u.ShowMenu("status_box", items, users.MenuOptions{Escape: protocol.EscapeSelectLast})
}

// ShowActionsMenu builds the F5 context menu: every currently-enabled
// action labeled with its keybind chord, plus a trailing "Go back".
func (b *Base) ShowActionsMenu(p *Player) {
	u := b.GetUser(p)
	if u == nil {
		return
	}
	var items []protocol.MenuItem
	for _, resolved := range b.GetAllEnabledActions(p) {
		label := resolved.Label
		if chord := b.keybinds.ChordFor(resolved.Action.ID); chord != "" {
			label += " (" + strings.ToUpper(chord) + ")"
		}
		items = append(items, protocol.Item(label, resolved.Action.ID))
	}
	if len(items) == 0 {
		u.SpeakL("no-actions-available", nil)
		return
	}
	items = append(items, protocol.Item(locale.Get(u.Locale(), "go-back", nil), "go_back"))
	b.actionsMenuOpen[p.ID] = true
	u.SpeakL("context-menu", nil)
	u.ShowMenu("actions_menu", items, users.MenuOptions{
		Multiletter: true,
		Escape:      protocol.EscapeSelectLast,
	})
}

func (b *Base) closeActionsMenu(p *Player) {
	delete(b.actionsMenuOpen, p.ID)
	if u := b.GetUser(p); u != nil {
		u.RemoveMenu("actions_menu")
	}
	b.RebuildPlayerMenu(p)
}

func (b *Base) closeStatusBox(p *Player) {
	delete(b.statusBoxOpen, p.ID)
	if u := b.GetUser(p); u != nil {
		u.RemoveMenu("status_box")
	}
	b.RebuildPlayerMenu(p)
}
