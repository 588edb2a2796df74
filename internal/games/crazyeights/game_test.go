package crazyeights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpalace/playpalace/internal/cards"
	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/protocol"
	"github.com/playpalace/playpalace/internal/users"
)

func seat(g *CrazyEights, names ...string) []*game.Player {
	var seats []*game.Player
	for _, name := range names {
		seats = append(seats, g.AddPlayer(name, users.NewRecorder(name)))
	}
	g.Host = names[0]
	g.SetupBaseKeybinds()
	g.SetupKeybinds()
	return seats
}

func TestGameCreation(t *testing.T) {
	g := New()
	assert.Equal(t, "crazyeights", g.Meta().Type)
	assert.Equal(t, 2, g.Meta().MinPlayers)
	assert.Equal(t, 8, g.Meta().MaxPlayers)
	assert.Equal(t, 100, g.Options.TargetScore)
}

func TestDealSizes(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	// Two players get seven cards each.
	assert.Len(t, g.Hands[seats[0].ID], 7)
	assert.Len(t, g.Hands[seats[1].ID], 7)
	assert.Len(t, g.DiscardPile, 1)
	assert.NotEqual(t, 8, g.topCard().Rank)
	assert.Equal(t, 52, len(g.Hands[seats[0].ID])+len(g.Hands[seats[1].ID])+len(g.DrawPile)+len(g.DiscardPile))
}

func TestPlayableRules(t *testing.T) {
	g := New()
	seat(g, "Alice", "Bob")
	g.OnStart()

	g.DiscardPile = []cards.Card{cards.New(5, cards.Hearts)}
	g.WildSuit = -1

	assert.True(t, g.playable(cards.New(5, cards.Clubs)), "rank match")
	assert.True(t, g.playable(cards.New(9, cards.Hearts)), "suit match")
	assert.True(t, g.playable(cards.New(8, cards.Spades)), "eights always")
	assert.False(t, g.playable(cards.New(9, cards.Clubs)))

	// A wild suit overrides the top card's suit.
	g.WildSuit = cards.Clubs
	assert.True(t, g.playable(cards.New(9, cards.Clubs)))
	assert.False(t, g.playable(cards.New(9, cards.Hearts)))
}

func TestEightTriggersWildSuitPick(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	current := g.CurrentPlayer()
	eight := cards.New(8, cards.Clubs)
	g.Hands[current.ID] = []cards.Card{eight, cards.New(2, cards.Hearts)}
	g.rebuildHandActions(current)

	g.playCard(current, eight.ID)
	assert.True(t, g.AwaitingWildSuit)
	assert.Equal(t, current.ID, g.Turn.CurrentID(), "turn holds until the suit is picked")

	// Suit actions are visible to the picker now.
	visible := map[string]bool{}
	for _, resolved := range g.GetAllVisibleActions(current) {
		visible[resolved.Action.ID] = true
	}
	assert.True(t, visible["suit_clubs"])

	g.ExecuteAction(current, "suit_hearts", nil)
	assert.False(t, g.AwaitingWildSuit)
	assert.Equal(t, cards.Hearts, g.WildSuit)
	assert.NotEqual(t, current.ID, g.Turn.CurrentID())

	_ = seats
}

func TestSuitActionsHiddenOtherwise(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	for _, resolved := range g.GetAllVisibleActions(seats[0]) {
		assert.NotContains(t, resolved.Action.ID, "suit_")
	}
}

func TestKeybindOverrideForWildSuit(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob")
	g.OnStart()
	current := g.CurrentPlayer()

	press := protocol.ClientPacket{Type: protocol.InKeybind, Key: "c"}

	// Normally c reports scores.
	u := g.GetUser(current).(*users.Recorder)
	g.HandleKeybind(current, press)
	assert.True(t, u.SaidContaining(": 0"))
	assert.False(t, g.AwaitingWildSuit)
	require.Equal(t, -1, g.WildSuit)

	// While awaiting a wild suit, the same chord picks clubs instead.
	eight := cards.New(8, cards.Diamonds)
	g.Hands[current.ID] = []cards.Card{eight, cards.New(2, cards.Hearts)}
	g.rebuildHandActions(current)
	g.playCard(current, eight.ID)
	require.True(t, g.AwaitingWildSuit)

	g.HandleKeybind(current, press)
	assert.False(t, g.AwaitingWildSuit)
	assert.Equal(t, cards.Clubs, g.WildSuit)

	_ = seats
}

func TestCardPoints(t *testing.T) {
	assert.Equal(t, 50, cardPoints(cards.New(8, cards.Clubs)))
	assert.Equal(t, 10, cardPoints(cards.New(12, cards.Clubs)))
	assert.Equal(t, 1, cardPoints(cards.New(1, cards.Clubs)))
	assert.Equal(t, 7, cardPoints(cards.New(7, cards.Clubs)))
}

func TestRoundScoringAndTarget(t *testing.T) {
	g := New()
	g.Options.TargetScore = 30
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	winner, loser := seats[0], seats[1]
	g.Hands[winner.ID] = nil
	g.Hands[loser.ID] = []cards.Card{
		cards.New(8, cards.Clubs),  // 50
		cards.New(12, cards.Hearts), // 10
	}

	g.endRound(winner)
	team := g.Teams.TeamOf(winner.Name)
	require.NotNil(t, team)
	assert.Equal(t, 60, team.TotalScore)
	assert.Equal(t, game.StatusFinished, g.Status)
}

func TestRoundBelowTargetRedeals(t *testing.T) {
	g := New()
	g.Options.TargetScore = 500
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	winner, loser := seats[0], seats[1]
	g.Hands[winner.ID] = nil
	g.Hands[loser.ID] = []cards.Card{cards.New(2, cards.Hearts)}

	round := g.Round
	g.endRound(winner)
	assert.Equal(t, game.StatusPlaying, g.Status)
	assert.Equal(t, round+1, g.Round)
	assert.Len(t, g.Hands[winner.ID], 7)
}

func TestBotPrefersNonEight(t *testing.T) {
	g := New()
	bots := []*game.Player{
		g.AddPlayer("Robo", users.NewBot("Robo")),
		g.AddPlayer("Tin", users.NewBot("Tin")),
	}
	g.Host = "Robo"
	g.OnStart()

	current := g.CurrentPlayer()
	g.DiscardPile = []cards.Card{cards.New(5, cards.Hearts)}
	g.WildSuit = -1
	g.Hands[current.ID] = []cards.Card{
		cards.New(8, cards.Clubs),
		cards.New(5, cards.Spades),
	}
	g.rebuildHandActions(current)

	action := g.BotThink(current)
	assert.Equal(t, "play_card_"+cards.New(5, cards.Spades).ID, action)

	// Stuck with only an eight: play it.
	g.Hands[current.ID] = []cards.Card{cards.New(8, cards.Clubs), cards.New(2, cards.Clubs)}
	g.rebuildHandActions(current)
	action = g.BotThink(current)
	assert.Equal(t, "play_card_"+cards.New(8, cards.Clubs).ID, action)

	// Nothing playable at all: draw.
	g.Hands[current.ID] = []cards.Card{cards.New(2, cards.Clubs)}
	g.rebuildHandActions(current)
	assert.Equal(t, "draw_card", g.BotThink(current))

	_ = bots
}

func TestSerializationRoundTrip(t *testing.T) {
	g := New()
	seat(g, "Alice", "Bob")
	g.OnStart()

	data, err := game.Snapshot(g)
	require.NoError(t, err)

	loaded := New()
	require.NoError(t, game.Restore(data, loaded))
	assert.Equal(t, g.AwaitingWildSuit, loaded.AwaitingWildSuit)
	assert.Equal(t, len(g.DrawPile), len(loaded.DrawPile))

	// The restored game rebuilds play actions for every hand card.
	p := loaded.Players[0]
	for _, c := range loaded.Hands[p.ID] {
		assert.NotNil(t, loaded.FindAction(p, "play_card_"+c.ID))
	}

	again, err := game.Snapshot(loaded)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}
