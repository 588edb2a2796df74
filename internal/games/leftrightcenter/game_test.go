package leftrightcenter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/users"
)

func TestGameCreation(t *testing.T) {
	g := New()
	assert.Equal(t, "Left Right Center", g.Meta().Name)
	assert.Equal(t, "leftrightcenter", g.Meta().Type)
	assert.Equal(t, "category-dice-games", g.Meta().Category)
	assert.Equal(t, 2, g.Meta().MinPlayers)
	assert.Equal(t, 20, g.Meta().MaxPlayers)
}

func TestOptionsDefaults(t *testing.T) {
	g := New()
	assert.Equal(t, 3, g.Options.StartingChips)
}

func TestSetOption(t *testing.T) {
	g := New()
	require.NoError(t, g.SetOption("starting_chips", "5"))
	assert.Equal(t, 5, g.Options.StartingChips)

	assert.Error(t, g.SetOption("starting_chips", "0"))
	assert.Error(t, g.SetOption("starting_chips", "bogus"))
	assert.Error(t, g.SetOption("no_such_option", "1"))
}

func TestPlayerCreation(t *testing.T) {
	g := New()
	p := g.AddPlayer("Alice", users.NewRecorder("Alice"))
	assert.Equal(t, "Alice", p.Name)
	assert.False(t, p.IsBot)
	assert.Zero(t, g.Chips[p.ID])
}

func seat(g *LRC, names ...string) []*game.Player {
	var seats []*game.Player
	for _, name := range names {
		seats = append(seats, g.AddPlayer(name, users.NewRecorder(name)))
	}
	g.Host = names[0]
	return seats
}

func TestSerializationRoundTrip(t *testing.T) {
	g := New()
	g.Options.StartingChips = 5
	seat(g, "Alice", "Bob")
	g.OnStart()

	g.CenterPot = 2
	g.Chips[g.Players[0].ID] = 4
	g.Chips[g.Players[1].ID] = 1
	g.Turn.Index = 1

	data, err := game.Snapshot(g)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.EqualValues(t, 2, doc["center_pot"])

	loaded := New()
	require.NoError(t, game.Restore(data, loaded))
	assert.Equal(t, 2, loaded.CenterPot)
	assert.Equal(t, 4, loaded.Chips[g.Players[0].ID])
	assert.Equal(t, 5, loaded.Options.StartingChips)
	assert.Equal(t, 1, loaded.Turn.Index)
}

func TestRollTransfers(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob", "Cara")
	g.OnStart()

	// Force the three dice to left, right, center. Faces index:
	// 0=left, 1=right, 2=center.
	sequence := []int{0, 1, 2}
	g.SetRandFunc(func(n int) int {
		if len(sequence) == 0 {
			return 0
		}
		face := sequence[0]
		sequence = sequence[1:]
		return face
	})

	current := g.CurrentPlayer()
	require.NotNil(t, current)
	require.Equal(t, "Alice", current.Name)
	require.Equal(t, 3, g.Chips[current.ID])

	g.ExecuteAction(current, "roll", nil)

	for i := 0; i < 15; i++ {
		g.OnTick()
	}

	assert.Equal(t, 1, g.CenterPot)
	chips := map[string]int{}
	for _, p := range seats {
		chips[p.Name] = g.Chips[p.ID]
	}
	// Alice passed one chip left to Cara, one right to Bob, one to the
	// center.
	assert.Equal(t, 0, chips["Alice"])
	assert.Equal(t, 4, chips["Bob"])
	assert.Equal(t, 4, chips["Cara"])
}

func TestWinnerDetection(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	g.Chips[seats[0].ID] = 0
	g.Chips[seats[1].ID] = 2

	assert.True(t, g.GameActive())
	assert.True(t, g.CheckForWinner())
	assert.False(t, g.GameActive())
	assert.Equal(t, game.StatusFinished, g.Status)
}

func TestPreTurnWinnerEndsBeforeRoll(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob", "Cara")
	g.OnStart()

	g.Chips[seats[0].ID] = 2
	g.Chips[seats[1].ID] = 0
	g.Chips[seats[2].ID] = 0

	assert.True(t, g.GameActive())
	g.ExecuteAction(seats[0], "roll", nil)
	// The pre-roll check fires; no dice are rolled and the game ends.
	assert.False(t, g.GameActive())
	assert.Equal(t, 2, g.Chips[seats[0].ID])
}

func TestZeroChipPlayerStaysInGame(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob", "Cara")
	g.OnStart()

	g.Chips[seats[0].ID] = 0
	require.False(t, g.CheckForWinner())

	g.ExecuteAction(seats[0], "roll", nil)
	assert.True(t, g.GameActive())
	// Alice stays in the rotation and can win chips back later.
	assert.Contains(t, g.Turn.PlayerIDs, seats[0].ID)
}

func TestRollRejectedOutOfTurn(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	require.Equal(t, "Alice", g.CurrentPlayer().Name)
	before := g.Chips[seats[1].ID]
	g.ExecuteAction(seats[1], "roll", nil)
	assert.Equal(t, before, g.Chips[seats[1].ID])
	assert.Equal(t, "Alice", g.CurrentPlayer().Name)
}

func TestMidGameLeaveKeepsSeatPlaying(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob", "Cara")
	g.OnStart()

	order := append([]string(nil), g.Turn.PlayerIDs...)
	leaver := seats[1]
	g.ExecuteAction(leaver, "leave_game", nil)

	assert.Equal(t, order, g.Turn.PlayerIDs)
	seatNow := g.GetPlayerByID(leaver.ID)
	require.NotNil(t, seatNow)
	assert.True(t, seatNow.IsBot)
	assert.Equal(t, "Bob", seatNow.Name)

	// The bot in Bob's seat takes its turns.
	g.Turn.SetCurrent(leaver.ID)
	for i := 0; i < 120 && g.GameActive(); i++ {
		g.OnTick()
	}
	// Either the bot rolled (chips moved) or the game ended; both mean
	// the seat kept playing.
	assert.True(t, !g.GameActive() || g.Turn.CurrentID() != leaver.ID || g.Chips[leaver.ID] >= 0)
}

func TestBotThink(t *testing.T) {
	g := New()
	bot := users.NewBot("Robo")
	p := g.AddPlayer("Robo", bot)
	g.AddPlayer("Tin", users.NewBot("Tin"))
	g.Host = "Robo"
	g.OnStart()

	require.True(t, g.IsCurrent(p))
	assert.Equal(t, "roll", g.BotThink(p))
	assert.Equal(t, "", g.BotThink(g.Players[1]))
}
