// Package milebymile implements a racing card game in the Mille Bornes
// family: teams play distance toward the round target while hazards,
// remedies, and safeties fight over who is allowed to roll.
package milebymile

import (
	"strconv"

	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/locale"
)

// Options configure a table before start.
type Options struct {
	RoundDistance int    `json:"round_distance"`
	WinningScore  int    `json:"winning_score"`
	TeamMode      string `json:"team_mode"`
}

// MileByMile is the game state.
type MileByMile struct {
	game.Base
	Options Options `json:"options"`

	DrawPile    []Card            `json:"draw_pile"`
	DiscardPile []Card            `json:"discard_pile"`
	Hands       map[string][]Card `json:"hands"`
	TeamStates  []TeamState       `json:"team_states"`
}

// New constructs an unstarted game.
func New() *MileByMile {
	g := &MileByMile{
		Options: Options{
			RoundDistance: 700,
			WinningScore:  5000,
			TeamMode:      "individual",
		},
		Hands: map[string][]Card{},
	}
	g.Init(g)
	return g
}

func init() {
	game.Register(game.Registration{
		Meta: meta,
		New:  func() game.Game { return New() },
	})
}

var meta = game.Meta{
	Type:       "milebymile",
	Name:       "Mile by Mile",
	Category:   "category-card-games",
	MinPlayers: 2,
	MaxPlayers: 6,
}

// roundIntermissionTicks is the countdown between rounds; the host can
// pause it.
const roundIntermissionTicks = 10 * game.TicksPerSecond

func (g *MileByMile) Meta() game.Meta { return meta }

func (g *MileByMile) OptionSpecs() []game.OptionSpec {
	return []game.OptionSpec{
		{
			Key:     "round_distance",
			LabelID: "option-round-distance",
			Type:    "int",
			Min:     100,
			Max:     2000,
			Get:     func() string { return strconv.Itoa(g.Options.RoundDistance) },
			Set: func(value string) error {
				distance, err := strconv.Atoi(value)
				if err != nil || distance < 100 || distance > 2000 || distance%25 != 0 {
					return game.ErrInvalidOption
				}
				g.Options.RoundDistance = distance
				return nil
			},
		},
		{
			Key:     "winning_score",
			LabelID: "option-winning-score",
			Type:    "int",
			Min:     100,
			Max:     20000,
			Get:     func() string { return strconv.Itoa(g.Options.WinningScore) },
			Set: func(value string) error {
				score, err := strconv.Atoi(value)
				if err != nil || score < 100 || score > 20000 {
					return game.ErrInvalidOption
				}
				g.Options.WinningScore = score
				return nil
			},
		},
		{
			Key:     "team_mode",
			LabelID: "option-team-mode",
			Type:    "choice",
			Choices: func() []string { return game.AllTeamModes(meta.MinPlayers, meta.MaxPlayers) },
			Get:     func() string { return g.Options.TeamMode },
			Set: func(value string) error {
				for _, mode := range game.AllTeamModes(meta.MinPlayers, meta.MaxPlayers) {
					if mode == value {
						g.Options.TeamMode = value
						return nil
					}
				}
				return game.ErrInvalidOption
			},
		},
	}
}

func (g *MileByMile) PrestartValidate() []string {
	if g.Options.TeamMode == "individual" {
		return nil
	}
	sizes := game.ParseTeamMode(g.Options.TeamMode)
	total := 0
	for _, size := range sizes {
		total += size
	}
	if total != g.ActivePlayerCount() {
		return []string{"mbm-bad-team-mode"}
	}
	return nil
}

func (g *MileByMile) SetupPlayerActions(p *game.Player) {
	turn := g.ActionSet(p, "turn")
	turn.Add(&game.Action{
		ID:      "pause_timer",
		LabelID: "mbm-pause-timer",
		Hidden:  func(*game.Player) game.Visibility { return game.Hidden },
		Enabled: func(p *game.Player) string {
			if p.Name != g.Host {
				return "action-not-host"
			}
			if !g.RoundTimer.IsActive() {
				return "mbm-no-timer"
			}
			return ""
		},
		Handler:           g.actionPauseTimer,
		ShowInActionsMenu: true,
	})
	g.rebuildHandActions(p)
	g.AddOptionActions(p)
}

func (g *MileByMile) SetupKeybinds() {
	g.Keybinds().Bind("m", "mbm-check-distance", []string{"check_distance"}, game.KeybindFilter{ActiveOnly: true, IncludeSpectators: true})
	g.Keybinds().Bind("p", "mbm-pause-timer", []string{"pause_timer"}, game.KeybindFilter{ActiveOnly: true, HostOnly: true})
}

func (g *MileByMile) teamIndexOf(p *game.Player) int {
	if team := g.Teams.TeamOf(p.Name); team != nil {
		return team.Index
	}
	return 0
}

func (g *MileByMile) teamState(p *game.Player) *TeamState {
	idx := g.teamIndexOf(p)
	if idx >= len(g.TeamStates) {
		return nil
	}
	return &g.TeamStates[idx]
}

func (g *MileByMile) turnEnabled(p *game.Player) string {
	if g.Status != game.StatusPlaying {
		return "action-not-playing"
	}
	if !g.IsCurrent(p) {
		return "action-not-your-turn"
	}
	return ""
}

func (g *MileByMile) rebuildHandActions(p *game.Player) {
	turn := g.ActionSet(p, "turn")
	turn.RemoveByPrefix("play_card_")
	turn.RemoveByPrefix("discard_")

	for _, c := range g.Hands[p.ID] {
		c := c
		turn.Add(&game.Action{
			ID:    "play_card_" + c.ID,
			Label: func(*game.Player) string { return "Play " + c.Label() },
			Hidden: func(p *game.Player) game.Visibility {
				if g.Status != game.StatusPlaying || !g.IsCurrent(p) {
					return game.Hidden
				}
				return game.Visible
			},
			Enabled: func(p *game.Player) string {
				if reason := g.turnEnabled(p); reason != "" {
					return reason
				}
				return g.playableReason(p, c)
			},
			Handler: func(p *game.Player, _ *game.Context) { g.playCard(p, c.ID) },
		})
	}
	for _, c := range g.Hands[p.ID] {
		c := c
		turn.Add(&game.Action{
			ID:    "discard_" + c.ID,
			Label: func(*game.Player) string { return "Discard " + c.Label() },
			Hidden: func(p *game.Player) game.Visibility {
				if g.Status != game.StatusPlaying || !g.IsCurrent(p) {
					return game.Hidden
				}
				return game.Visible
			},
			Enabled: g.turnEnabled,
			Handler: func(p *game.Player, _ *game.Context) { g.discardCard(p, c.ID) },
		})
	}

	turn.Add(&game.Action{
		ID:      "check_distance",
		LabelID: "mbm-check-distance",
		Hidden:  func(*game.Player) game.Visibility { return game.Hidden },
		Enabled: func(*game.Player) string {
			if g.Status != game.StatusPlaying {
				return "action-not-playing"
			}
			return ""
		},
		Handler:           g.actionCheckDistance,
		ShowInActionsMenu: true,
	})
}

// playableReason returns "" when the card has a legal play.
func (g *MileByMile) playableReason(p *game.Player, c Card) string {
	state := g.teamState(p)
	if state == nil {
		return "internal-error"
	}
	switch c.Kind {
	case KindDistance:
		if !state.canPlayDistance(c.Value, g.Options.RoundDistance) {
			return "mbm-cannot-play-distance"
		}
	case KindRemedy:
		if c.Name == RemedyRoll {
			if state.Rolling && state.CurrentHazard == "" {
				return "mbm-already-rolling"
			}
			if state.CurrentHazard != "" && state.CurrentHazard != HazardStop {
				return "mbm-wrong-remedy"
			}
		} else if c.Name == RemedyEndOfLimit {
			if !state.SpeedLimit {
				return "mbm-no-speed-limit"
			}
		} else if remedyFor[state.CurrentHazard] != c.Name {
			return "mbm-wrong-remedy"
		}
	case KindHazard:
		if g.hazardTarget(p, c.Name) < 0 {
			return "mbm-no-hazard-target"
		}
	case KindSafety:
		// Safeties always play.
	}
	return ""
}

// hazardTarget picks the next opposing team, in team order, that is not
// immune to the hazard. Returns -1 when nobody can be hit.
func (g *MileByMile) hazardTarget(p *game.Player, hazard string) int {
	own := g.teamIndexOf(p)
	count := len(g.TeamStates)
	for step := 1; step < count; step++ {
		idx := (own + step) % count
		state := &g.TeamStates[idx]
		if state.immuneTo(hazard) {
			continue
		}
		if hazard == HazardSpeedLimit {
			if state.SpeedLimit {
				continue
			}
		} else if state.CurrentHazard != "" {
			continue
		}
		return idx
	}
	return -1
}

func (g *MileByMile) OnStart() {
	g.StartPlaying()

	active := g.ActivePlayers()
	ids := make([]string, 0, len(active))
	names := make([]string, 0, len(active))
	for _, p := range active {
		ids = append(ids, p.ID)
		names = append(names, p.Name)
	}
	g.Turn.SetPlayers(ids, true)
	g.Teams.Mode = g.Options.TeamMode
	g.Teams.SetupTeams(names)

	g.PlayMusic("music/highway.ogg", true)
	g.startRound()
}

func (g *MileByMile) startRound() {
	g.Round++

	g.TeamStates = make([]TeamState, len(g.Teams.Teams))

	deck := newDeck()
	g.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	for _, p := range g.ActivePlayers() {
		g.Hands[p.ID] = append([]Card(nil), deck[:6]...)
		deck = deck[6:]
	}
	g.DrawPile = deck
	g.DiscardPile = nil

	for _, p := range g.ActivePlayers() {
		g.rebuildHandActions(p)
	}
	g.BroadcastSound("game_cards/deal.ogg")
	g.BroadcastL("mbm-round-start", locale.Args{
		"round":    g.Round,
		"distance": g.Options.RoundDistance,
	})
	g.AnnounceTurn()
	g.drawForCurrent()
	g.RebuildAllMenus()
}

// drawForCurrent deals the current player their turn card.
func (g *MileByMile) drawForCurrent() {
	p := g.CurrentPlayer()
	if p == nil || len(g.DrawPile) == 0 {
		return
	}
	drawn := g.DrawPile[0]
	g.DrawPile = g.DrawPile[1:]
	g.Hands[p.ID] = append(g.Hands[p.ID], drawn)
	g.rebuildHandActions(p)
	if u := g.GetUser(p); u != nil && !p.IsBot {
		u.SpeakL("mbm-you-draw", locale.Args{"card": drawn.Label()})
	}
}

func (g *MileByMile) GameTick() {}

func (g *MileByMile) playCard(p *game.Player, cardID string) {
	hand := g.Hands[p.ID]
	idx := findCard(hand, cardID)
	if idx < 0 {
		return
	}
	c := hand[idx]
	state := g.teamState(p)
	if state == nil {
		return
	}
	g.Hands[p.ID] = append(hand[:idx], hand[idx+1:]...)

	switch c.Kind {
	case KindDistance:
		state.Distance += c.Value
		if c.Value == 200 {
			state.TwoHundreds++
		}
		g.BroadcastPersonalL(p, "mbm-you-drive", "mbm-player-drives", locale.Args{
			"miles": c.Value,
			"total": state.Distance,
		})
		g.ScheduleSound("game_mbm/drive.ogg", 0)

	case KindHazard:
		target := g.hazardTarget(p, c.Name)
		if target >= 0 {
			victim := &g.TeamStates[target]
			if c.Name == HazardSpeedLimit {
				victim.SpeedLimit = true
			} else {
				victim.CurrentHazard = c.Name
				victim.Rolling = false
			}
			g.BroadcastL("mbm-hazard-played", locale.Args{
				"player": p.Name,
				"card":   c.Label(),
				"team":   g.Teams.TeamName(g.Teams.Teams[target], "en"),
			})
			g.ScheduleSound("game_mbm/hazard.ogg", 0)
		}
		g.DiscardPile = append(g.DiscardPile, c)

	case KindRemedy:
		switch c.Name {
		case RemedyEndOfLimit:
			state.SpeedLimit = false
		case RemedyRoll:
			state.CurrentHazard = ""
			state.Rolling = true
		default:
			if remedyFor[state.CurrentHazard] == c.Name {
				state.CurrentHazard = ""
				state.Rolling = true
			}
		}
		g.BroadcastPersonalL(p, "mbm-you-remedy", "mbm-player-remedies", locale.Args{"card": c.Label()})
		g.ScheduleSound("game_mbm/remedy.ogg", 0)
		g.DiscardPile = append(g.DiscardPile, c)

	case KindSafety:
		state.Safeties = append(state.Safeties, c.Name)
		for hazard, safety := range safetyFor {
			if safety == c.Name && state.CurrentHazard == hazard {
				state.CurrentHazard = ""
				state.Rolling = true
			}
		}
		if c.Name == SafetyRightOfWay {
			state.SpeedLimit = false
			state.Rolling = true
		}
		g.BroadcastL("mbm-safety-played", locale.Args{"player": p.Name, "card": c.Label()})
		g.ScheduleSound("game_mbm/safety.ogg", 0)
	}

	g.rebuildHandActions(p)
	g.afterPlay(p, state)
}

func (g *MileByMile) discardCard(p *game.Player, cardID string) {
	hand := g.Hands[p.ID]
	idx := findCard(hand, cardID)
	if idx < 0 {
		return
	}
	c := hand[idx]
	g.Hands[p.ID] = append(hand[:idx], hand[idx+1:]...)
	g.DiscardPile = append(g.DiscardPile, c)
	g.BroadcastPersonalL(p, "mbm-you-discard", "mbm-player-discards", locale.Args{"card": c.Label()})
	g.rebuildHandActions(p)
	g.afterPlay(p, g.teamState(p))
}

// afterPlay checks round end, then passes the turn and deals the next
// player their card.
func (g *MileByMile) afterPlay(p *game.Player, state *TeamState) {
	if state != nil && state.Distance >= g.Options.RoundDistance {
		g.endRound(g.teamIndexOf(p))
		return
	}
	if len(g.DrawPile) == 0 && g.allHandsEmpty() {
		g.endRound(-1)
		return
	}
	g.AdvanceTurn(true)
	g.drawForCurrent()
	// Once the deck is dry, seats that ran out of cards are skipped so
	// the round still drains to its end.
	for len(g.DrawPile) == 0 && g.GameActive() {
		current := g.CurrentPlayer()
		if current == nil || len(g.Hands[current.ID]) > 0 {
			break
		}
		if g.allHandsEmpty() {
			g.endRound(-1)
			return
		}
		g.AdvanceTurn(false)
	}
	g.RebuildAllMenus()
}

func (g *MileByMile) allHandsEmpty() bool {
	for _, p := range g.ActivePlayers() {
		if len(g.Hands[p.ID]) > 0 {
			return false
		}
	}
	return true
}

// endRound scores every team: distance, 100 per safety, 300 for all
// four, 400 for completing the trip. completedTeam is -1 when the deck
// ran dry.
func (g *MileByMile) endRound(completedTeam int) {
	for idx, team := range g.Teams.Teams {
		state := &g.TeamStates[idx]
		points := state.Distance
		points += 100 * len(state.Safeties)
		if len(state.Safeties) == 4 {
			points += 300
		}
		if idx == completedTeam {
			points += 400
		}
		if len(team.Members) > 0 {
			g.Teams.AddToRound(team.Members[0], points)
		}
		g.BroadcastL("mbm-round-points", locale.Args{
			"team":   g.Teams.TeamName(team, "en"),
			"points": points,
		})
	}
	g.Teams.CommitRoundScores()
	g.BroadcastSound("game_pig/round.ogg")

	if reached := g.Teams.TeamsAtOrAbove(g.Options.WinningScore); len(reached) > 0 {
		g.finish()
		return
	}

	// Intermission: clear the table and count down to the next deal so
	// everyone hears the standings before play resumes.
	for _, p := range g.ActivePlayers() {
		g.Hands[p.ID] = nil
		g.rebuildHandActions(p)
	}
	g.DrawPile = nil
	g.DiscardPile = nil
	g.RoundTimer.Start(roundIntermissionTicks)
	g.BroadcastL("mbm-next-round-soon", locale.Args{
		"seconds": roundIntermissionTicks / game.TicksPerSecond,
	})
	g.RebuildAllMenus()
}

// OnRoundTimerReady deals the next round when the intermission runs
// out.
func (g *MileByMile) OnRoundTimerReady() {
	if g.Status != game.StatusPlaying {
		return
	}
	g.startRound()
}

func (g *MileByMile) actionPauseTimer(p *game.Player, _ *game.Context) {
	if !g.RoundTimer.TogglePause() {
		return
	}
	if g.RoundTimer.State == game.TimerPaused {
		g.BroadcastL("mbm-timer-paused", locale.Args{"player": p.Name})
	} else {
		g.BroadcastL("mbm-timer-resumed", locale.Args{"player": p.Name})
	}
}

func (g *MileByMile) finish() {
	leader := g.Teams.LeadingTeam()
	if leader == nil {
		return
	}
	g.BroadcastL("game-winner-team", locale.Args{"team": g.Teams.TeamName(leader, "en")})
	g.BroadcastSound("game_pig/win.ogg")
	g.StopMusic()

	var results []game.PlayerResult
	for _, p := range g.ActivePlayers() {
		team := g.Teams.TeamOf(p.Name)
		score := 0
		winner := false
		if team != nil {
			score = team.TotalScore
			winner = team.Index == leader.Index
		}
		results = append(results, game.PlayerResult{
			Name:   p.Name,
			IsBot:  p.IsBot,
			Score:  score,
			Winner: winner,
		})
	}
	g.FinishGame(results, map[string]any{
		"winner_team": g.Teams.TeamName(leader, "en"),
	})
}

func (g *MileByMile) actionCheckDistance(p *game.Player, _ *game.Context) {
	u := g.GetUser(p)
	if u == nil {
		return
	}
	lines := make([]string, 0, len(g.Teams.Teams))
	for idx, team := range g.Teams.Teams {
		state := &g.TeamStates[idx]
		line := g.Teams.TeamName(team, u.Locale()) + ": " + strconv.Itoa(state.Distance) + " miles"
		if state.CurrentHazard != "" {
			line += " (" + hazardLabels[state.CurrentHazard] + ")"
		} else if state.SpeedLimit {
			line += " (speed limit)"
		}
		lines = append(lines, line)
	}
	g.StatusBox(p, lines)
}

func (g *MileByMile) BotThink(p *game.Player) string {
	return botThink(g, p)
}
