// Package crazyeights implements Crazy Eights: match the discard pile
// by rank or suit, eights are wild with a suit pick, and emptying your
// hand scores the opponents' remaining cards.
package crazyeights

import (
	"strconv"

	"github.com/playpalace/playpalace/internal/cards"
	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/locale"
)

// Options configure a table before start.
type Options struct {
	TargetScore int `json:"target_score"`
}

// CrazyEights is the game state.
type CrazyEights struct {
	game.Base
	Options Options `json:"options"`

	Hands       map[string][]cards.Card `json:"hands"`
	DrawPile    []cards.Card            `json:"draw_pile"`
	DiscardPile []cards.Card            `json:"discard_pile"`

	// AwaitingWildSuit gates the suit_<x> actions after an eight.
	AwaitingWildSuit bool `json:"awaiting_wild_suit"`
	// WildSuit overrides the discard top's suit, -1 when inactive.
	WildSuit int `json:"wild_suit"`

	// ConsecutivePasses detects a blocked game once the deck is dry.
	ConsecutivePasses int `json:"consecutive_passes"`
}

// New constructs an unstarted game.
func New() *CrazyEights {
	g := &CrazyEights{
		Options:  Options{TargetScore: 100},
		Hands:    map[string][]cards.Card{},
		WildSuit: -1,
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
	Type:       "crazyeights",
	Name:       "Crazy Eights",
	Category:   "category-card-games",
	MinPlayers: 2,
	MaxPlayers: 8,
}

func (g *CrazyEights) Meta() game.Meta { return meta }

func (g *CrazyEights) OptionSpecs() []game.OptionSpec {
	return []game.OptionSpec{
		{
			Key:     "target_score",
			LabelID: "option-target-score",
			Type:    "int",
			Min:     25,
			Max:     1000,
			Get:     func() string { return strconv.Itoa(g.Options.TargetScore) },
			Set: func(value string) error {
				score, err := strconv.Atoi(value)
				if err != nil || score < 25 || score > 1000 {
					return game.ErrInvalidOption
				}
				g.Options.TargetScore = score
				return nil
			},
		},
	}
}

func (g *CrazyEights) PrestartValidate() []string { return nil }

var suitActions = []struct {
	id   string
	suit int
}{
	{"suit_clubs", cards.Clubs},
	{"suit_diamonds", cards.Diamonds},
	{"suit_hearts", cards.Hearts},
	{"suit_spades", cards.Spades},
}

func (g *CrazyEights) SetupPlayerActions(p *game.Player) {
	turn := g.ActionSet(p, "turn")

	turn.Add(&game.Action{
		ID:      "draw_card",
		LabelID: "c8-draw",
		Hidden: func(p *game.Player) game.Visibility {
			if g.Status != game.StatusPlaying || !g.IsCurrent(p) || g.AwaitingWildSuit {
				return game.Hidden
			}
			return game.Visible
		},
		Enabled:           g.turnEnabled,
		Handler:           g.actionDraw,
		ShowInActionsMenu: true,
	})

	for _, sa := range suitActions {
		sa := sa
		turn.Add(&game.Action{
			ID: sa.id,
			Label: func(p *game.Player) string {
				return cards.SuitName(sa.suit)
			},
			Hidden: func(p *game.Player) game.Visibility {
				if g.AwaitingWildSuit && g.IsCurrent(p) {
					return game.Visible
				}
				return game.Hidden
			},
			Enabled: func(p *game.Player) string {
				if !g.AwaitingWildSuit {
					return "c8-no-wild-pending"
				}
				if !g.IsCurrent(p) {
					return "action-not-your-turn"
				}
				return ""
			},
			Handler: func(p *game.Player, _ *game.Context) { g.pickWildSuit(p, sa.suit) },
		})
	}

	g.rebuildHandActions(p)
	g.AddOptionActions(p)
}

func (g *CrazyEights) SetupKeybinds() {
	active := game.KeybindFilter{ActiveOnly: true}
	g.Keybinds().Bind("d", "c8-draw", []string{"draw_card"}, active)
	// One chord, two context-dependent actions: checking scores
	// normally, picking clubs during a wild-suit sub-phase.
	g.Keybinds().Bind("c", "c8-clubs", []string{"check_scores", "suit_clubs"}, game.KeybindFilter{IncludeSpectators: true})
	g.Keybinds().Bind("h", "c8-hearts", []string{"suit_hearts"}, active)
	g.Keybinds().Bind("i", "c8-diamonds", []string{"suit_diamonds"}, active)
	g.Keybinds().Bind("p", "c8-spades", []string{"suit_spades"}, active)
}

func (g *CrazyEights) turnEnabled(p *game.Player) string {
	if g.Status != game.StatusPlaying {
		return "action-not-playing"
	}
	if !g.IsCurrent(p) {
		return "action-not-your-turn"
	}
	if g.AwaitingWildSuit {
		return "c8-pick-suit-first"
	}
	return ""
}

// rebuildHandActions refreshes the dynamic play_card_<id> slots for a
// player's current hand.
func (g *CrazyEights) rebuildHandActions(p *game.Player) {
	turn := g.ActionSet(p, "turn")
	turn.RemoveByPrefix("play_card_")
	for _, c := range g.Hands[p.ID] {
		c := c
		turn.Add(&game.Action{
			ID: "play_card_" + c.ID,
			Label: func(p *game.Player) string {
				return locale.Get(g.localeOf(p), "c8-play-card", locale.Args{"card": c.Name()})
			},
			Hidden: func(p *game.Player) game.Visibility {
				if g.Status != game.StatusPlaying || !g.IsCurrent(p) || g.AwaitingWildSuit {
					return game.Hidden
				}
				return game.Visible
			},
			Enabled: func(p *game.Player) string {
				if reason := g.turnEnabled(p); reason != "" {
					return reason
				}
				if !g.playable(c) {
					return "c8-card-not-playable"
				}
				return ""
			},
			Handler: func(p *game.Player, _ *game.Context) { g.playCard(p, c.ID) },
		})
	}
}

func (g *CrazyEights) localeOf(p *game.Player) string {
	if u := g.GetUser(p); u != nil {
		return u.Locale()
	}
	return "en"
}

func (g *CrazyEights) topCard() *cards.Card {
	if len(g.DiscardPile) == 0 {
		return nil
	}
	return &g.DiscardPile[len(g.DiscardPile)-1]
}

// currentSuit is the suit play must follow: the wild override when an
// eight is on top, the top card's suit otherwise.
func (g *CrazyEights) currentSuit() int {
	if g.WildSuit >= 0 {
		return g.WildSuit
	}
	if top := g.topCard(); top != nil {
		return top.Suit
	}
	return -1
}

func (g *CrazyEights) playable(c cards.Card) bool {
	if c.Rank == 8 {
		return true
	}
	top := g.topCard()
	if top == nil {
		return true
	}
	return c.Rank == top.Rank || c.Suit == g.currentSuit()
}

func (g *CrazyEights) OnStart() {
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

	g.PlayMusic("music/card_room.ogg", true)
	g.dealRound()
}

func (g *CrazyEights) dealRound() {
	g.Round++
	g.AwaitingWildSuit = false
	g.WildSuit = -1
	g.ConsecutivePasses = 0

	deck := cards.StandardDeck()
	g.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	handSize := 5
	if len(g.ActivePlayers()) == 2 {
		handSize = 7
	}
	for _, p := range g.ActivePlayers() {
		g.Hands[p.ID] = append([]cards.Card(nil), deck[:handSize]...)
		deck = deck[handSize:]
	}
	// Flip the starter; an eight sinks back into the pile.
	for deck[0].Rank == 8 {
		g.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	}
	g.DiscardPile = []cards.Card{deck[0]}
	g.DrawPile = deck[1:]

	for _, p := range g.ActivePlayers() {
		g.rebuildHandActions(p)
		g.speakHand(p)
	}
	g.BroadcastSound("game_cards/deal.ogg")
	g.BroadcastL("c8-starter", locale.Args{"card": g.topCard().Name()})
	g.AnnounceTurn()
	g.RebuildAllMenus()
}

func (g *CrazyEights) speakHand(p *game.Player) {
	u := g.GetUser(p)
	if u == nil || p.IsBot {
		return
	}
	names := make([]string, 0, len(g.Hands[p.ID]))
	for _, c := range g.Hands[p.ID] {
		names = append(names, c.Name())
	}
	u.SpeakL("c8-your-hand", locale.Args{"cards": locale.FormatListAnd(u.Locale(), names)})
}

func (g *CrazyEights) GameTick() {}

func (g *CrazyEights) BotThink(p *game.Player) string {
	if !g.IsCurrent(p) {
		return ""
	}
	if g.AwaitingWildSuit {
		return suitActions[g.longestSuit(p)].id
	}
	// Prefer a non-eight match, keep eights for when stuck.
	var eightID string
	for _, c := range g.Hands[p.ID] {
		if c.Rank == 8 {
			eightID = c.ID
			continue
		}
		if g.playable(c) {
			return "play_card_" + c.ID
		}
	}
	if eightID != "" {
		return "play_card_" + eightID
	}
	return "draw_card"
}

// longestSuit picks the wild suit a bot holds the most of.
func (g *CrazyEights) longestSuit(p *game.Player) int {
	counts := [4]int{}
	for _, c := range g.Hands[p.ID] {
		if c.Rank != 8 {
			counts[c.Suit]++
		}
	}
	best := 0
	for suit := 1; suit < 4; suit++ {
		if counts[suit] > counts[best] {
			best = suit
		}
	}
	return best
}

func (g *CrazyEights) playCard(p *game.Player, cardID string) {
	hand := g.Hands[p.ID]
	idx := cards.FindByID(hand, cardID)
	if idx < 0 {
		return
	}
	var played cards.Card
	hand, played = cards.Remove(hand, idx)
	g.Hands[p.ID] = hand
	g.DiscardPile = append(g.DiscardPile, played)
	g.WildSuit = -1
	g.rebuildHandActions(p)

	g.ConsecutivePasses = 0
	g.BroadcastPersonalL(p, "c8-you-play", "c8-player-plays", locale.Args{"card": played.Name()})
	g.ScheduleSound("game_cards/play.ogg", 0)

	if len(hand) == 0 {
		g.endRound(p)
		return
	}
	if len(hand) == 1 {
		g.BroadcastL("c8-one-card", locale.Args{"player": p.Name})
	}

	if played.Rank == 8 {
		g.AwaitingWildSuit = true
		g.BroadcastL("c8-awaiting-suit", locale.Args{"player": p.Name})
		g.RebuildAllMenus()
		return
	}
	g.AdvanceTurn(true)
}

func (g *CrazyEights) pickWildSuit(p *game.Player, suit int) {
	g.AwaitingWildSuit = false
	g.WildSuit = suit
	g.BroadcastL("c8-suit-picked", locale.Args{"player": p.Name, "suit": cards.SuitName(suit)})
	g.AdvanceTurn(true)
}

func (g *CrazyEights) actionDraw(p *game.Player, _ *game.Context) {
	if len(g.DrawPile) == 0 {
		g.reshuffleDiscard()
	}
	if len(g.DrawPile) == 0 {
		// Nothing to draw: the turn passes, and a full lap of passes
		// means the game is blocked.
		g.BroadcastL("c8-deck-empty", nil)
		g.ConsecutivePasses++
		if g.ConsecutivePasses >= len(g.ActivePlayers()) {
			g.endBlockedRound()
			return
		}
		g.AdvanceTurn(true)
		return
	}
	drawn := g.DrawPile[0]
	g.DrawPile = g.DrawPile[1:]
	g.Hands[p.ID] = append(g.Hands[p.ID], drawn)
	g.rebuildHandActions(p)

	if u := g.GetUser(p); u != nil {
		u.SpeakL("c8-you-draw", locale.Args{"card": drawn.Name()})
	}
	g.BroadcastL("c8-player-draws", locale.Args{"player": p.Name})
	g.ScheduleSound("game_cards/draw.ogg", 0)
	g.AdvanceTurn(true)
}

func (g *CrazyEights) reshuffleDiscard() {
	if len(g.DiscardPile) <= 1 {
		return
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	g.DrawPile = append(g.DrawPile, g.DiscardPile[:len(g.DiscardPile)-1]...)
	g.DiscardPile = []cards.Card{top}
	g.Shuffle(len(g.DrawPile), func(i, j int) {
		g.DrawPile[i], g.DrawPile[j] = g.DrawPile[j], g.DrawPile[i]
	})
	g.BroadcastSound("game_cards/shuffle.ogg")
}

func cardPoints(c cards.Card) int {
	switch {
	case c.Rank == 8:
		return 50
	case c.Rank >= 11:
		return 10
	default:
		return c.Rank
	}
}

// endBlockedRound settles a blocked game: the lowest hand wins and
// scores everyone else's remaining cards.
func (g *CrazyEights) endBlockedRound() {
	var winner *game.Player
	best := 1 << 30
	for _, p := range g.ActivePlayers() {
		total := 0
		for _, c := range g.Hands[p.ID] {
			total += cardPoints(c)
		}
		if total < best {
			best = total
			winner = p
		}
	}
	if winner == nil {
		return
	}
	g.BroadcastL("c8-blocked", locale.Args{"player": winner.Name})
	g.endRound(winner)
}

// endRound scores the winner with everyone else's remaining cards, then
// either finishes the game at the target score or deals again.
func (g *CrazyEights) endRound(winner *game.Player) {
	points := 0
	for _, p := range g.ActivePlayers() {
		if p.ID == winner.ID {
			continue
		}
		for _, c := range g.Hands[p.ID] {
			points += cardPoints(c)
		}
	}
	g.Teams.AddToRound(winner.Name, points)
	g.Teams.CommitRoundScores()

	g.BroadcastL("c8-round-won", locale.Args{"player": winner.Name, "points": points})
	g.BroadcastSound("game_pig/round.ogg")

	if team := g.Teams.TeamOf(winner.Name); team != nil && team.TotalScore >= g.Options.TargetScore {
		g.finish(winner)
		return
	}
	g.Turn.SetCurrent(winner.ID)
	g.dealRound()
}

func (g *CrazyEights) finish(winner *game.Player) {
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
