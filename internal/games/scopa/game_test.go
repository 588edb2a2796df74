package scopa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpalace/playpalace/internal/cards"
	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/users"
)

func seat(g *Scopa, names ...string) []*game.Player {
	var seats []*game.Player
	for _, name := range names {
		seats = append(seats, g.AddPlayer(name, users.NewRecorder(name)))
	}
	g.Host = names[0]
	g.SetupBaseKeybinds()
	g.SetupKeybinds()
	return seats
}

func c(rank, suit int) cards.Card { return cards.New(rank, suit) }

func TestGameCreation(t *testing.T) {
	g := New()
	assert.Equal(t, "scopa", g.Meta().Type)
	assert.Equal(t, "Scopa", g.Meta().Name)
	assert.Equal(t, 2, g.Meta().MinPlayers)
	assert.Equal(t, 4, g.Meta().MaxPlayers)
	assert.Equal(t, 11, g.Options.TargetScore)
}

// cardConservation asserts hands + table + deck + captures == 40.
func cardConservation(t *testing.T, g *Scopa) {
	t.Helper()
	total := len(g.Deck) + len(g.TableCards)
	for _, p := range g.ActivePlayers() {
		total += len(g.Hands[p.ID]) + len(g.Captured[p.ID])
	}
	assert.Equal(t, 40, total)
}

func TestDealConservation(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	assert.Len(t, g.Hands[seats[0].ID], 3)
	assert.Len(t, g.Hands[seats[1].ID], 3)
	assert.Len(t, g.TableCards, 4)
	assert.Len(t, g.Deck, 30)
	cardConservation(t, g)
}

func TestConservationThroughPlay(t *testing.T) {
	g := New()
	seat(g, "Alice", "Bob")
	g.OnStart()

	for i := 0; i < 12 && g.GameActive(); i++ {
		current := g.CurrentPlayer()
		require.NotEmpty(t, g.Hands[current.ID])
		g.playCard(current, g.Hands[current.ID][0].ID)
		if g.GameActive() {
			cardConservation(t, g)
		}
	}
}

func TestFindCapturesExactMatchMandatory(t *testing.T) {
	table := []cards.Card{c(4, cards.Clubs), c(3, cards.Hearts), c(1, cards.Spades)}

	captures := FindCaptures(table, 4, false)
	require.Len(t, captures, 1)
	assert.Equal(t, []cards.Card{c(4, cards.Clubs)}, captures[0])
}

func TestFindCapturesSumSubsets(t *testing.T) {
	table := []cards.Card{c(3, cards.Hearts), c(2, cards.Spades), c(5, cards.Clubs)}

	captures := FindCaptures(table, 7, false)
	// 3+2+... = 7? candidates: {2,5} and {3,... no}. 3+2=5, 3+5=8, 2+5=7.
	require.Len(t, captures, 1)
	assert.ElementsMatch(t, []cards.Card{c(2, cards.Spades), c(5, cards.Clubs)}, captures[0])
}

func TestFindCapturesNone(t *testing.T) {
	table := []cards.Card{c(9, cards.Hearts)}
	assert.Empty(t, FindCaptures(table, 5, false))
}

func TestFindCapturesEscoba(t *testing.T) {
	table := []cards.Card{c(7, cards.Hearts), c(3, cards.Spades), c(10, cards.Clubs)}
	captures := FindCaptures(table, 5, true)
	// Need subsets summing to 10: {7,3} and {10}.
	assert.Len(t, captures, 2)
}

func TestSelectBestCapturePrefersMoreCards(t *testing.T) {
	captures := [][]cards.Card{
		{c(7, cards.Hearts)},
		{c(3, cards.Spades), c(4, cards.Clubs)},
	}
	best := SelectBestCapture(captures)
	assert.Len(t, best, 2)
}

func TestSelectBestCapturePrefersCoins(t *testing.T) {
	captures := [][]cards.Card{
		{c(7, cards.Hearts)},
		{c(7, cards.Diamonds)},
	}
	best := SelectBestCapture(captures)
	assert.Equal(t, cards.Diamonds, best[0].Suit)
}

func TestScopaPointAwarded(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	current := g.CurrentPlayer()
	g.TableCards = []cards.Card{c(3, cards.Hearts), c(4, cards.Spades)}
	g.Hands[current.ID] = []cards.Card{c(7, cards.Clubs)}
	g.rebuildHandActions(current)

	g.playCard(current, c(7, cards.Clubs).ID)
	assert.Equal(t, 1, g.Scopas[current.ID])
	assert.Empty(t, g.TableCards)

	_ = seats
}

func TestLayWhenNoCapture(t *testing.T) {
	g := New()
	seat(g, "Alice", "Bob")
	g.OnStart()

	current := g.CurrentPlayer()
	g.TableCards = []cards.Card{c(9, cards.Hearts)}
	g.Hands[current.ID] = []cards.Card{c(5, cards.Clubs), c(6, cards.Clubs)}
	g.rebuildHandActions(current)

	g.playCard(current, c(5, cards.Clubs).ID)
	assert.Len(t, g.TableCards, 2)
	assert.Empty(t, g.Captured[current.ID])
}

func TestPrimieraValues(t *testing.T) {
	assert.Equal(t, 21, primieraValue(7))
	assert.Equal(t, 18, primieraValue(6))
	assert.Equal(t, 16, primieraValue(1))
	assert.Equal(t, 10, primieraValue(10))
}

func TestBotAlwaysPlaysFromHand(t *testing.T) {
	g := New()
	bots := []*game.Player{
		g.AddPlayer("Robo", users.NewBot("Robo")),
		g.AddPlayer("Tin", users.NewBot("Tin")),
	}
	g.Host = "Robo"
	g.OnStart()

	current := g.CurrentPlayer()
	action := g.BotThink(current)
	require.NotEmpty(t, action)
	assert.Contains(t, action, "play_card_")

	assert.Equal(t, "", g.BotThink(other(bots, current)))
}

func other(seats []*game.Player, current *game.Player) *game.Player {
	for _, p := range seats {
		if p.ID != current.ID {
			return p
		}
	}
	return nil
}

func TestTwoBotGameCompletes(t *testing.T) {
	g := New()
	g.Options.TargetScore = 5
	g.AddPlayer("Robo", users.NewBot("Robo"))
	g.AddPlayer("Tin", users.NewBot("Tin"))
	g.Host = "Robo"
	g.SetupBaseKeybinds()
	g.SetupKeybinds()
	g.OnStart()

	for i := 0; i < 200_000 && g.GameActive(); i++ {
		g.OnTick()
	}

	require.Equal(t, game.StatusFinished, g.Status)
	winner := ""
	var results []string
	for _, team := range g.Teams.Teams {
		results = append(results, team.Members[0])
		if team.TotalScore >= 5 {
			winner = team.Members[0]
		}
	}
	assert.NotEmpty(t, winner, "someone must reach the target, teams: %v", results)
}

func TestSerializationRoundTrip(t *testing.T) {
	g := New()
	seat(g, "Alice", "Bob")
	g.OnStart()

	data, err := game.Snapshot(g)
	require.NoError(t, err)

	loaded := New()
	require.NoError(t, game.Restore(data, loaded))
	assert.Equal(t, len(g.Deck), len(loaded.Deck))
	assert.Equal(t, g.TableCards, loaded.TableCards)

	again, err := game.Snapshot(loaded)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}
