package game

import (
	"github.com/sirupsen/logrus"

	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
	"github.com/playpalace/playpalace/internal/users"
)

// Menu ids owned by the base runtime.
const (
	menuTurn        = "turn_menu"
	menuActions     = "actions_menu"
	menuStatusBox   = "status_box"
	menuInputPrompt = "input_prompt"
	menuGameOver    = "game_over"
	inputEditbox    = "action_input"
)

// ExecuteAction runs an action for a player: enablement is checked, a
// declared input request is collected first (immediately for bots), and
// the handler runs under panic protection so a bad handler never takes
// the table down.
func (b *Base) ExecuteAction(p *Player, actionID string, ctx *Context) {
	if !b.GameActive() {
		return
	}
	a := b.FindAction(p, actionID)
	if a == nil {
		b.log.WithFields(logrus.Fields{"action": actionID, "player": p.Name}).Debug("unknown action")
		return
	}
	if a.Enabled != nil {
		if reason := a.Enabled(p); reason != "" {
			b.SpeakTo(p, reason, nil)
			return
		}
	}
	if ctx == nil {
		ctx = &Context{}
	}
	ctx.ActionID = actionID

	if a.Input != nil && !ctx.HasInput {
		b.collectInput(p, a, ctx)
		return
	}
	b.invoke(p, a, ctx)
}

func (b *Base) invoke(p *Player, a *Action, ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"action": a.ID,
				"player": p.Name,
				"input":  ctx.Input,
				"panic":  r,
			}).Error("action handler crashed")
			b.SpeakTo(p, "internal-error", nil)
		}
	}()
	if a.Handler != nil {
		a.Handler(p, ctx)
	}
}

// collectInput starts the input-prompt path: bots answer synchronously
// through the action's bot selector, humans get a one-off single-select
// menu or editbox and the action parks in the pending store.
func (b *Base) collectInput(p *Player, a *Action, ctx *Context) {
	var options []protocol.MenuItem
	if a.Input.Options != nil {
		options = a.Input.Options(p)
	}

	if p.IsBot {
		choice := ""
		if a.Input.BotChoose != nil {
			choice = a.Input.BotChoose(p, options)
		} else if len(options) > 0 {
			choice = optionValue(options[0])
		}
		ctx.Input = choice
		ctx.HasInput = true
		b.invoke(p, a, ctx)
		return
	}

	u := b.GetUser(p)
	if u == nil {
		return
	}
	prompt := ""
	if a.Input.PromptID != "" {
		prompt = locale.Get(u.Locale(), a.Input.PromptID, nil)
	}

	if len(options) > 0 {
		b.pending[p.ID] = &pendingInput{actionID: a.ID, ctx: *ctx, options: options}
		if prompt != "" {
			u.Speak(prompt, "misc")
		}
		u.ShowMenu(menuInputPrompt, options, users.MenuOptions{Escape: protocol.EscapeEvent})
		return
	}

	b.pending[p.ID] = &pendingInput{actionID: a.ID, ctx: *ctx, editbox: true}
	u.ShowEditbox(inputEditbox, prompt, "", false, false)
}

// optionValue is what an input-prompt selection resolves to: the stable
// id when present, the display text otherwise.
func optionValue(item protocol.MenuItem) string {
	if item.ID != "" {
		return item.ID
	}
	return item.Text
}

// resumePending invokes the parked action with the collected value and
// clears the pending slot.
func (b *Base) resumePending(p *Player, value string) {
	pending, ok := b.pending[p.ID]
	if !ok {
		return
	}
	delete(b.pending, p.ID)
	if u := b.GetUser(p); u != nil {
		u.RemoveMenu(menuInputPrompt)
		u.RemoveEditbox(inputEditbox)
	}
	a := b.FindAction(p, pending.actionID)
	if a == nil {
		return
	}
	ctx := pending.ctx
	ctx.Input = value
	ctx.HasInput = true
	b.invoke(p, a, &ctx)
	b.RebuildPlayerMenu(p)
}

// cancelPending drops the pending action and returns the player to
// their previous menu.
func (b *Base) cancelPending(p *Player) {
	if _, ok := b.pending[p.ID]; !ok {
		return
	}
	delete(b.pending, p.ID)
	if u := b.GetUser(p); u != nil {
		u.RemoveMenu(menuInputPrompt)
		u.RemoveEditbox(inputEditbox)
	}
	b.RebuildPlayerMenu(p)
}

// HandleMenuSelect routes a menu activation packet.
func (b *Base) HandleMenuSelect(p *Player, menuID string, selection int, selectionID string) {
	if u, ok := b.GetUser(p).(*users.NetworkUser); ok && selection > 0 {
		u.SetMenuSelection(menuID, selection-1)
	}

	// The game-over menu still works after the game has finished; its
	// leave item is how a finished table gets acknowledged and torn
	// down.
	if menuID == menuGameOver {
		if selectionID == "leave_game" && !b.destroyed {
			b.actionLeaveGame(p, &Context{MenuID: menuID})
		}
		return
	}

	if !b.GameActive() {
		return
	}

	switch menuID {
	case menuStatusBox:
		b.closeStatusBox(p)

	case menuActions:
		if selectionID == "go_back" || selectionID == "" {
			b.closeActionsMenu(p)
			return
		}
		b.closeActionsMenu(p)
		b.ExecuteAction(p, selectionID, &Context{MenuID: menuID})

	case menuInputPrompt:
		pending, ok := b.pending[p.ID]
		if !ok {
			return
		}
		value := ""
		if selectionID != "" {
			value = selectionID
		} else if selection >= 1 && selection <= len(pending.options) {
			value = optionValue(pending.options[selection-1])
		}
		if value == "" {
			return
		}
		b.resumePending(p, value)

	default: // turn menu and game-owned menus
		visible := b.GetAllVisibleActions(p)
		var actionID string
		if selectionID != "" {
			actionID = selectionID
		} else if selection >= 1 && selection <= len(visible) {
			actionID = visible[selection-1].Action.ID
		}
		if actionID == "" {
			return
		}
		b.ExecuteAction(p, actionID, &Context{MenuID: menuID, MenuIndex: selection, MenuItemID: selectionID})
	}
}

// HandleKeybind routes a key chord. The dispatcher walks the chord's
// candidate list and picks the first action that is visible and
// enabled; if none is visible it falls back to the first enabled
// hidden action, so keybind-only actions stay reachable while
// contextual overlays (a wild-suit pick, say) win while shown.
func (b *Base) HandleKeybind(p *Player, pkt protocol.ClientPacket) {
	if u, ok := b.GetUser(p).(*users.NetworkUser); ok && pkt.MenuIndex > 0 {
		u.SetMenuSelection(pkt.MenuID, pkt.MenuIndex-1)
	}
	if !b.GameActive() {
		return
	}

	chord := Chord(pkt.Key, pkt.Control, pkt.Alt, pkt.Shift)
	kb := b.keybinds.Get(chord)
	if kb == nil {
		return
	}
	if kb.Filter.ActiveOnly && b.Status != StatusPlaying {
		return
	}
	if p.IsSpectator && !kb.Filter.IncludeSpectators {
		return
	}
	if kb.Filter.HostOnly && p.Name != b.Host {
		return
	}

	ctx := &Context{MenuID: pkt.MenuID, MenuIndex: pkt.MenuIndex, MenuItemID: pkt.MenuItemID}

	var fallback *Action
	firstReason := ""
	for _, actionID := range kb.ActionIDs {
		a := b.FindAction(p, actionID)
		if a == nil {
			continue
		}
		reason := ""
		if a.Enabled != nil {
			reason = a.Enabled(p)
		}
		if reason != "" {
			if firstReason == "" {
				firstReason = reason
			}
			continue
		}
		visible := a.Hidden == nil || a.Hidden(p) != Hidden
		if visible {
			b.ExecuteAction(p, a.ID, ctx)
			return
		}
		if fallback == nil {
			fallback = a
		}
	}
	if fallback != nil {
		b.ExecuteAction(p, fallback.ID, ctx)
		return
	}
	if firstReason != "" {
		b.SpeakTo(p, firstReason, nil)
	}
}

// HandleEditbox routes an editbox submission to the pending action.
func (b *Base) HandleEditbox(p *Player, inputID, text string) {
	if !b.GameActive() {
		return
	}
	if inputID != "" && inputID != inputEditbox {
		return
	}
	pending, ok := b.pending[p.ID]
	if !ok || !pending.editbox {
		return
	}
	b.resumePending(p, text)
}

// HandleEscape routes an explicit escape packet from a menu whose
// escape behavior is escape_event.
func (b *Base) HandleEscape(p *Player, menuID string) {
	switch menuID {
	case menuInputPrompt, inputEditbox:
		b.cancelPending(p)
	case menuActions:
		b.closeActionsMenu(p)
	case menuStatusBox:
		b.closeStatusBox(p)
	}
}
