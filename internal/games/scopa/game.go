// Package scopa implements Scopa with the 40-card Italian deck: capture
// by exact rank or by sum, scopa points for sweeping the table, and
// end-of-deal points for cards, coins, the sette bello, and primiera.
package scopa

import (
	"strconv"

	"github.com/playpalace/playpalace/internal/cards"
	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/locale"
)

// Options configure a table before start.
type Options struct {
	TargetScore  int  `json:"target_score"`
	InverseScopa bool `json:"inverse_scopa"`
	Escoba       bool `json:"escoba"`
}

// Scopa is the game state. Captures and scopa counts are keyed by
// player id.
type Scopa struct {
	game.Base
	Options Options `json:"options"`

	Deck       []cards.Card            `json:"deck"`
	TableCards []cards.Card            `json:"table_cards"`
	Hands      map[string][]cards.Card `json:"hands"`
	Captured   map[string][]cards.Card `json:"captured"`
	Scopas     map[string]int          `json:"scopas"`

	// LastCapturer takes the leftovers when the deal runs out.
	LastCapturer string `json:"last_capturer"`
}

// New constructs an unstarted game.
func New() *Scopa {
	g := &Scopa{
		Options:  Options{TargetScore: 11},
		Hands:    map[string][]cards.Card{},
		Captured: map[string][]cards.Card{},
		Scopas:   map[string]int{},
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
	Type:       "scopa",
	Name:       "Scopa",
	Category:   "category-card-games",
	MinPlayers: 2,
	MaxPlayers: 4,
}

func (g *Scopa) Meta() game.Meta { return meta }

func (g *Scopa) OptionSpecs() []game.OptionSpec {
	return []game.OptionSpec{
		{
			Key:     "target_score",
			LabelID: "option-target-score",
			Type:    "int",
			Min:     1,
			Max:     61,
			Get:     func() string { return strconv.Itoa(g.Options.TargetScore) },
			Set: func(value string) error {
				score, err := strconv.Atoi(value)
				if err != nil || score < 1 || score > 61 {
					return game.ErrInvalidOption
				}
				g.Options.TargetScore = score
				return nil
			},
		},
		{
			Key:     "inverse_scopa",
			LabelID: "scopa-option-inverse",
			Type:    "bool",
			Get:     func() string { return strconv.FormatBool(g.Options.InverseScopa) },
			Set: func(value string) error {
				inverse, err := strconv.ParseBool(value)
				if err != nil {
					return game.ErrInvalidOption
				}
				g.Options.InverseScopa = inverse
				return nil
			},
		},
		{
			Key:     "escoba",
			LabelID: "scopa-option-escoba",
			Type:    "bool",
			Get:     func() string { return strconv.FormatBool(g.Options.Escoba) },
			Set: func(value string) error {
				escoba, err := strconv.ParseBool(value)
				if err != nil {
					return game.ErrInvalidOption
				}
				g.Options.Escoba = escoba
				return nil
			},
		},
	}
}

func (g *Scopa) PrestartValidate() []string { return nil }

func (g *Scopa) SetupPlayerActions(p *game.Player) {
	g.ActionSet(p, "turn")
	g.rebuildHandActions(p)
	g.AddOptionActions(p)
}

func (g *Scopa) SetupKeybinds() {
	g.Keybinds().Bind("b", "scopa-table", []string{"check_table"}, game.KeybindFilter{ActiveOnly: true, IncludeSpectators: true})
}

func (g *Scopa) rebuildHandActions(p *game.Player) {
	turn := g.ActionSet(p, "turn")
	turn.RemoveByPrefix("play_card_")
	for _, c := range g.Hands[p.ID] {
		c := c
		turn.Add(&game.Action{
			ID: "play_card_" + c.ID,
			Label: func(p *game.Player) string {
				return locale.Get(g.localeOf(p), "scopa-play-card", locale.Args{"card": c.Name()})
			},
			Hidden: func(p *game.Player) game.Visibility {
				if g.Status != game.StatusPlaying || !g.IsCurrent(p) {
					return game.Hidden
				}
				return game.Visible
			},
			Enabled: func(p *game.Player) string {
				if g.Status != game.StatusPlaying {
					return "action-not-playing"
				}
				if !g.IsCurrent(p) {
					return "action-not-your-turn"
				}
				return ""
			},
			Handler: func(p *game.Player, _ *game.Context) { g.playCard(p, c.ID) },
		})
	}

	turn.Add(&game.Action{
		ID:      "check_table",
		LabelID: "scopa-check-table",
		Hidden:  func(*game.Player) game.Visibility { return game.Hidden },
		Enabled: func(*game.Player) string {
			if g.Status != game.StatusPlaying {
				return "action-not-playing"
			}
			return ""
		},
		Handler:           g.actionCheckTable,
		ShowInActionsMenu: true,
	})
}

func (g *Scopa) localeOf(p *game.Player) string {
	if u := g.GetUser(p); u != nil {
		return u.Locale()
	}
	return "en"
}

func (g *Scopa) OnStart() {
	g.StartPlaying()

	active := g.ActivePlayers()
	ids := make([]string, 0, len(active))
	names := make([]string, 0, len(active))
	for _, p := range active {
		ids = append(ids, p.ID)
		names = append(names, p.Name)
	}
	g.Turn.SetPlayers(ids, true)
	g.Teams.Mode = "individual"
	g.Teams.SetupTeams(names)

	g.PlayMusic("music/trattoria.ogg", true)
	g.startDeal()
}

// startDeal shuffles the full deck, deals three cards each and four to
// the table.
func (g *Scopa) startDeal() {
	g.Round++
	deck := cards.ItalianDeck()
	g.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	for id := range g.Captured {
		delete(g.Captured, id)
	}
	for id := range g.Scopas {
		delete(g.Scopas, id)
	}
	g.LastCapturer = ""

	for _, p := range g.ActivePlayers() {
		g.Hands[p.ID] = append([]cards.Card(nil), deck[:3]...)
		deck = deck[3:]
	}
	g.TableCards = append([]cards.Card(nil), deck[:4]...)
	g.Deck = deck[4:]

	for _, p := range g.ActivePlayers() {
		g.rebuildHandActions(p)
	}
	g.BroadcastSound("game_cards/deal.ogg")
	g.announceTable()
	g.AnnounceTurn()
	g.RebuildAllMenus()
}

func (g *Scopa) announceTable() {
	names := make([]string, 0, len(g.TableCards))
	for _, c := range g.TableCards {
		names = append(names, c.Name())
	}
	g.BroadcastL("scopa-table-cards", locale.Args{"cards": joinOrEmpty(names)})
}

func joinOrEmpty(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return locale.FormatListAnd("en", names)
}

func (g *Scopa) GameTick() {}

func (g *Scopa) playCard(p *game.Player, cardID string) {
	hand := g.Hands[p.ID]
	idx := cards.FindByID(hand, cardID)
	if idx < 0 {
		return
	}
	var played cards.Card
	hand, played = cards.Remove(hand, idx)
	g.Hands[p.ID] = hand

	captures := FindCaptures(g.TableCards, played.Rank, g.Options.Escoba)
	if len(captures) == 0 {
		g.TableCards = append(g.TableCards, played)
		g.BroadcastPersonalL(p, "scopa-you-lay", "scopa-player-lays", locale.Args{"card": played.Name()})
	} else {
		capture := SelectBestCapture(captures)
		g.removeFromTable(capture)
		taken := append(append([]cards.Card(nil), capture...), played)
		g.Captured[p.ID] = append(g.Captured[p.ID], taken...)
		g.LastCapturer = p.ID

		names := make([]string, 0, len(capture))
		for _, c := range capture {
			names = append(names, c.Name())
		}
		g.BroadcastPersonalL(p, "scopa-you-capture", "scopa-player-captures", locale.Args{
			"card":     played.Name(),
			"captured": joinOrEmpty(names),
		})
		g.ScheduleSound("game_cards/capture.ogg", 0)

		if len(g.TableCards) == 0 && (len(g.Deck) > 0 || g.anyHandLeft()) {
			g.Scopas[p.ID]++
			g.BroadcastL("scopa-scopa", locale.Args{"player": p.Name})
			g.ScheduleSound("game_scopa/scopa.ogg", 5)
		}
	}

	g.rebuildHandActions(p)
	g.continueDeal()
}

func (g *Scopa) removeFromTable(capture []cards.Card) {
	for _, c := range capture {
		if idx := cards.FindByID(g.TableCards, c.ID); idx >= 0 {
			g.TableCards, _ = cards.Remove(g.TableCards, idx)
		}
	}
}

func (g *Scopa) anyHandLeft() bool {
	for _, p := range g.ActivePlayers() {
		if len(g.Hands[p.ID]) > 0 {
			return true
		}
	}
	return false
}

// continueDeal refills empty hands, ends the deal when the deck and
// hands are exhausted, and otherwise advances the turn.
func (g *Scopa) continueDeal() {
	if !g.anyHandLeft() {
		if len(g.Deck) == 0 {
			g.endDeal()
			return
		}
		for _, p := range g.ActivePlayers() {
			take := 3
			if take > len(g.Deck) {
				take = len(g.Deck)
			}
			g.Hands[p.ID] = append([]cards.Card(nil), g.Deck[:take]...)
			g.Deck = g.Deck[take:]
			g.rebuildHandActions(p)
		}
		g.BroadcastSound("game_cards/deal.ogg")
	}
	g.AdvanceTurn(true)
}

func (g *Scopa) BotThink(p *game.Player) string {
	return botThink(g, p)
}

// primieraValue ranks cards for the primiera point.
func primieraValue(rank int) int {
	switch rank {
	case 7:
		return 21
	case 6:
		return 18
	case 1:
		return 16
	case 5:
		return 15
	case 4:
		return 14
	case 3:
		return 13
	case 2:
		return 12
	default:
		return 10
	}
}

// endDeal hands leftovers to the last capturer, scores the deal, and
// either finishes at the target or deals again.
func (g *Scopa) endDeal() {
	if g.LastCapturer != "" && len(g.TableCards) > 0 {
		g.Captured[g.LastCapturer] = append(g.Captured[g.LastCapturer], g.TableCards...)
		g.TableCards = nil
	}

	active := g.ActivePlayers()

	// Per-deal points: most cards, most coins, sette bello, primiera,
	// plus a point per scopa.
	type tally struct {
		cardCount int
		coinCount int
		sette     bool
		primiera  int
	}
	tallies := map[string]*tally{}
	for _, p := range active {
		t := &tally{}
		bestPerSuit := [4]int{}
		for _, c := range g.Captured[p.ID] {
			t.cardCount++
			if c.Suit == cards.Diamonds {
				t.coinCount++
				if c.Rank == 7 {
					t.sette = true
				}
			}
			if v := primieraValue(c.Rank); v > bestPerSuit[c.Suit] {
				bestPerSuit[c.Suit] = v
			}
		}
		for _, v := range bestPerSuit {
			t.primiera += v
		}
		tallies[p.ID] = t
	}

	points := map[string]int{}
	awardBest := func(value func(*tally) int) {
		best, count := -1, 0
		var winner *game.Player
		for _, p := range active {
			v := value(tallies[p.ID])
			if v > best {
				best, count, winner = v, 1, p
			} else if v == best {
				count++
			}
		}
		if count == 1 && winner != nil && best > 0 {
			points[winner.ID]++
		}
	}
	awardBest(func(t *tally) int { return t.cardCount })
	awardBest(func(t *tally) int { return t.coinCount })
	awardBest(func(t *tally) int { return t.primiera })
	for _, p := range active {
		if tallies[p.ID].sette {
			points[p.ID]++
		}
		points[p.ID] += g.Scopas[p.ID]
	}

	for _, p := range active {
		earned := points[p.ID]
		if g.Options.InverseScopa {
			// Inverse mode scores against you; lowest total wins.
			earned = -earned
		}
		g.Teams.AddToRound(p.Name, earned)
		g.BroadcastL("scopa-deal-points", locale.Args{"player": p.Name, "points": earned})
	}
	g.Teams.CommitRoundScores()
	g.BroadcastSound("game_pig/round.ogg")

	if winner := g.dealWinner(); winner != nil {
		g.finish(winner)
		return
	}
	g.startDeal()
}

func (g *Scopa) dealWinner() *game.Player {
	if g.Options.InverseScopa {
		// Inverse mode scores downward: the game ends when a team sinks
		// to the negative target and the least-burdened team wins.
		ended := false
		for _, team := range g.Teams.Teams {
			if team.TotalScore <= -g.Options.TargetScore {
				ended = true
				break
			}
		}
		if !ended {
			return nil
		}
	} else if len(g.Teams.TeamsAtOrAbove(g.Options.TargetScore)) == 0 {
		return nil
	}
	leader := g.Teams.LeadingTeam()
	if leader == nil || len(leader.Members) == 0 {
		return nil
	}
	return g.GetPlayerByName(leader.Members[0])
}

func (g *Scopa) finish(winner *game.Player) {
	g.BroadcastL("game-winner", locale.Args{"player": winner.Name})
	g.BroadcastSound("game_pig/win.ogg")
	g.StopMusic()

	var results []game.PlayerResult
	for _, p := range g.ActivePlayers() {
		score := 0
		if team := g.Teams.TeamOf(p.Name); team != nil {
			score = team.TotalScore
		}
		results = append(results, game.PlayerResult{
			Name:   p.Name,
			IsBot:  p.IsBot,
			Score:  score,
			Winner: p.ID == winner.ID,
		})
	}
	g.FinishGame(results, map[string]any{"winner_name": winner.Name})
}

func (g *Scopa) actionCheckTable(p *game.Player, _ *game.Context) {
	u := g.GetUser(p)
	if u == nil {
		return
	}
	names := make([]string, 0, len(g.TableCards))
	for _, c := range g.TableCards {
		names = append(names, c.Name())
	}
	u.SpeakL("scopa-table-cards", locale.Args{"cards": joinOrEmpty(names)})
}
