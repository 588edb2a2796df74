package game

import (
	"strings"

	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
	"github.com/playpalace/playpalace/internal/users"
)

// BotNames is the default roster add_bot picks from.
var BotNames = []string{
	"Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry",
	"Ivy", "Jack", "Kate", "Leo", "Mia", "Noah", "Olivia", "Pete",
	"Quinn", "Rose", "Sam", "Tina", "Uma", "Vic", "Wendy", "Xander",
	"Yara", "Zack",
}

// FirstUnusedBotName returns the first roster name not already seated,
// or "" when all 26 are taken.
func (b *Base) FirstUnusedBotName() string {
	taken := map[string]bool{}
	for _, p := range b.Players {
		taken[strings.ToLower(p.Name)] = true
	}
	for _, name := range BotNames {
		if !taken[strings.ToLower(name)] {
			return name
		}
	}
	return ""
}

// Enablement checks shared by the lobby actions.

func (b *Base) hostWaitingEnabled(p *Player) string {
	if b.Status != StatusWaiting {
		return "action-game-in-progress"
	}
	if p.Name != b.Host {
		return "action-not-host"
	}
	return ""
}

func (b *Base) waitingOnly(*Player) Visibility {
	if b.Status != StatusWaiting {
		return Hidden
	}
	return Visible
}

func alwaysHidden(*Player) Visibility { return Hidden }

func (b *Base) playingEnabled(*Player) string {
	if b.Status != StatusPlaying {
		return "action-not-playing"
	}
	return ""
}

func (b *Base) scoresEnabled(p *Player) string {
	if reason := b.playingEnabled(p); reason != "" {
		return reason
	}
	if len(b.Teams.Teams) == 0 {
		return "action-no-scores"
	}
	return ""
}

// addLobbyActions declares the standard action set every game inherits.
// Almost everything here is keybind-only; start_game is the exception
// and appears in the host's lobby menu.
func (b *Base) addLobbyActions(p *Player) {
	set := b.ActionSet(p, "standard")

	set.Add(&Action{
		ID:      "start_game",
		LabelID: "start-game",
		Hidden:  b.waitingOnly,
		Enabled: func(p *Player) string {
			if reason := b.hostWaitingEnabled(p); reason != "" {
				return reason
			}
			if b.ActivePlayerCount() < b.self.Meta().MinPlayers {
				return "action-need-more-players"
			}
			return ""
		},
		Handler:           b.actionStartGame,
		ShowInActionsMenu: true,
	})

	set.Add(&Action{
		ID:      "add_bot",
		LabelID: "add-bot",
		Hidden:  alwaysHidden,
		Enabled: func(p *Player) string {
			if reason := b.hostWaitingEnabled(p); reason != "" {
				return reason
			}
			if len(b.Players) >= b.self.Meta().MaxPlayers {
				return "action-table-full"
			}
			return ""
		},
		Input: &InputRequest{
			PromptID: "add-bot-prompt",
			BotChoose: func(*Player, []protocol.MenuItem) string {
				return b.FirstUnusedBotName()
			},
		},
		Handler:           b.actionAddBot,
		ShowInActionsMenu: true,
	})

	set.Add(&Action{
		ID:      "remove_bot",
		LabelID: "remove-bot",
		Hidden:  alwaysHidden,
		Enabled: func(p *Player) string {
			if reason := b.hostWaitingEnabled(p); reason != "" {
				return reason
			}
			if b.BotCount() == 0 {
				return "action-no-bots"
			}
			return ""
		},
		Handler:           b.actionRemoveBot,
		ShowInActionsMenu: true,
	})

	set.Add(&Action{
		ID:     "toggle_spectator",
		Hidden: alwaysHidden,
		Label: func(p *Player) string {
			localeCode := "en"
			if u := b.GetUser(p); u != nil {
				localeCode = u.Locale()
			}
			if p.IsSpectator {
				return locale.Get(localeCode, "play", nil)
			}
			return locale.Get(localeCode, "spectate", nil)
		},
		Enabled: func(p *Player) string {
			if b.Status != StatusWaiting {
				return "action-game-in-progress"
			}
			if p.IsBot {
				return "action-bots-cannot"
			}
			return ""
		},
		Handler:           b.actionToggleSpectator,
		ShowInActionsMenu: true,
	})

	set.Add(&Action{
		ID:                "leave_game",
		LabelID:           "leave-game",
		Hidden:            alwaysHidden,
		Handler:           b.actionLeaveGame,
		ShowInActionsMenu: true,
	})

	set.Add(&Action{
		ID:      "save_table",
		LabelID: "save-table",
		Hidden:  alwaysHidden,
		Enabled: func(p *Player) string {
			if p.Name != b.Host {
				return "action-not-host"
			}
			return ""
		},
		Handler: b.actionSaveTable,
	})

	set.Add(&Action{
		ID:      "estimate_duration",
		LabelID: "estimate-duration",
		Hidden:  alwaysHidden,
		Enabled: func(*Player) string {
			if b.Status != StatusWaiting {
				return "action-game-in-progress"
			}
			return ""
		},
		Handler:           b.actionEstimateDuration,
		ShowInActionsMenu: true,
	})

	set.Add(&Action{
		ID:      "show_actions",
		LabelID: "show-actions",
		Hidden:  alwaysHidden,
		Handler: func(p *Player, _ *Context) { b.ShowActionsMenu(p) },
	})

	set.Add(&Action{
		ID:                "whose_turn",
		LabelID:           "whose-turn",
		Hidden:            alwaysHidden,
		Enabled:           b.playingEnabled,
		Handler:           b.actionWhoseTurn,
		ShowInActionsMenu: true,
	})

	set.Add(&Action{
		ID:                "whos_at_table",
		LabelID:           "whos-at-table",
		Hidden:            alwaysHidden,
		Handler:           b.actionWhosAtTable,
		ShowInActionsMenu: true,
	})

	set.Add(&Action{
		ID:                "check_scores",
		LabelID:           "check-scores",
		Hidden:            alwaysHidden,
		Enabled:           b.scoresEnabled,
		Handler:           b.actionCheckScores,
		ShowInActionsMenu: true,
	})

	set.Add(&Action{
		ID:                "check_scores_detailed",
		LabelID:           "check-scores-detailed",
		Hidden:            alwaysHidden,
		Enabled:           b.scoresEnabled,
		Handler:           b.actionCheckScoresDetailed,
		ShowInActionsMenu: true,
	})
}

// SetupBaseKeybinds registers the chords every game inherits.
func (b *Base) SetupBaseKeybinds() {
	spectatorOK := KeybindFilter{IncludeSpectators: true}
	b.keybinds.Bind("t", "whose-turn", []string{"whose_turn"}, spectatorOK)
	b.keybinds.Bind("s", "check-scores", []string{"check_scores"}, spectatorOK)
	b.keybinds.Bind("shift+s", "check-scores-detailed", []string{"check_scores_detailed"}, spectatorOK)
	b.keybinds.Bind("w", "whos-at-table", []string{"whos_at_table"}, spectatorOK)
	b.keybinds.Bind("f5", "show-actions", []string{"show_actions"}, spectatorOK)
	b.keybinds.Bind("ctrl+s", "save-table", []string{"save_table"}, KeybindFilter{HostOnly: true})
}

// Handlers.

func (b *Base) actionStartGame(p *Player, _ *Context) {
	if errors := b.self.PrestartValidate(); len(errors) > 0 {
		for _, id := range errors {
			b.BroadcastL(id, nil)
		}
		return
	}
	b.BroadcastL("game-starting", nil)
	b.self.OnStart()
}

func (b *Base) actionAddBot(p *Player, ctx *Context) {
	name := strings.TrimSpace(ctx.Input)
	if name == "" {
		name = b.FirstUnusedBotName()
		if name == "" {
			b.SpeakTo(p, "no-bot-names-available", nil)
			return
		}
	}
	bot := users.NewBot(name)
	b.AddPlayer(name, bot)
	b.BroadcastL("table-joined", locale.Args{"player": name})
	b.BroadcastSound("join.ogg")
	b.RebuildAllMenus()
}

func (b *Base) actionRemoveBot(p *Player, _ *Context) {
	for i := len(b.Players) - 1; i >= 0; i-- {
		if b.Players[i].IsBot {
			bot := b.Players[i]
			b.RemovePlayer(bot)
			b.BroadcastL("table-left", locale.Args{"player": bot.Name})
			b.BroadcastSound("leave.ogg")
			break
		}
	}
	b.RebuildAllMenus()
}

func (b *Base) actionToggleSpectator(p *Player, _ *Context) {
	if b.Status != StatusWaiting {
		return
	}
	p.IsSpectator = !p.IsSpectator
	if p.IsSpectator {
		b.BroadcastL("now-spectating", locale.Args{"player": p.Name})
	} else {
		b.BroadcastL("now-playing", locale.Args{"player": p.Name})
	}
	b.RebuildAllMenus()
}

// actionLeaveGame removes a player. Mid-game humans are replaced by a
// bot with the same id and name so turn order and per-game state keyed
// by id survive; lobby leaves are outright removal.
func (b *Base) actionLeaveGame(p *Player, _ *Context) {
	if b.Status == StatusPlaying && !p.IsBot {
		userID := ""
		if u := b.GetUser(p); u != nil {
			userID = u.ID()
		}
		p.IsBot = true
		b.DetachUser(p.ID)
		b.AttachUser(p.ID, users.NewBotWithID(p.Name, p.ID))
		if b.onPlayerLeft != nil {
			b.onPlayerLeft(p.ID, userID)
		}

		b.BroadcastL("player-replaced-by-bot", locale.Args{"player": p.Name})
		b.BroadcastSound("leave.ogg")

		if b.HumanCount() == 0 {
			b.Destroy()
			return
		}
		if p.Name == b.Host {
			b.promoteNewHost()
		}
		b.RebuildAllMenus()
		return
	}

	b.RemovePlayer(p)
	b.BroadcastL("table-left", locale.Args{"player": p.Name})
	b.BroadcastSound("leave.ogg")

	if b.HumanCount() == 0 {
		b.Destroy()
		return
	}
	if b.Status == StatusWaiting && p.Name == b.Host {
		b.promoteNewHost()
	}
	b.RebuildAllMenus()
}

func (b *Base) promoteNewHost() {
	for _, candidate := range b.Players {
		if !candidate.IsBot {
			b.Host = candidate.Name
			b.BroadcastL("new-host", locale.Args{"player": candidate.Name})
			return
		}
	}
}

func (b *Base) actionSaveTable(p *Player, _ *Context) {
	if b.table != nil {
		b.table.SaveAndClose(p.Name)
	}
}

func (b *Base) actionWhoseTurn(p *Player, _ *Context) {
	current := b.CurrentPlayer()
	if current == nil {
		b.SpeakTo(p, "game-no-turn", nil)
		return
	}
	b.SpeakTo(p, "game-turn-start", locale.Args{"player": current.Name})
}

func (b *Base) actionWhosAtTable(p *Player, _ *Context) {
	u := b.GetUser(p)
	if u == nil {
		return
	}
	var playing, spectating []string
	for _, other := range b.Players {
		if other.IsSpectator {
			spectating = append(spectating, other.Name)
		} else {
			playing = append(playing, other.Name)
		}
	}
	if len(playing) == 0 {
		u.SpeakL("table-no-players", nil)
		return
	}
	names := locale.FormatListAnd(u.Locale(), playing)
	key := "table-players-many"
	if len(playing) == 1 {
		key = "table-players-one"
	}
	u.SpeakL(key, locale.Args{"count": len(playing), "players": names})
	if len(spectating) > 0 {
		u.SpeakL("table-spectators", locale.Args{
			"spectators": locale.FormatListAnd(u.Locale(), spectating),
		})
	}
}

func (b *Base) actionCheckScores(p *Player, _ *Context) {
	u := b.GetUser(p)
	if u == nil {
		return
	}
	if len(b.Teams.Teams) == 0 {
		u.SpeakL("no-scores-available", nil)
		return
	}
	u.Speak(b.Teams.FormatScoresBrief(u.Locale()), "misc")
}

func (b *Base) actionCheckScoresDetailed(p *Player, _ *Context) {
	u := b.GetUser(p)
	if u == nil {
		return
	}
	if len(b.Teams.Teams) == 0 {
		b.StatusBox(p, []string{locale.Get(u.Locale(), "no-scores-available", nil)})
		return
	}
	b.StatusBox(p, b.Teams.FormatScoresDetailed(u.Locale()))
}
