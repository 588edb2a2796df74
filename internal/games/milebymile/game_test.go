package milebymile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/users"
)

func seat(g *MileByMile, names ...string) []*game.Player {
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
	assert.Equal(t, "milebymile", g.Meta().Type)
	assert.Equal(t, 700, g.Options.RoundDistance)
	assert.Equal(t, 5000, g.Options.WinningScore)
	assert.Equal(t, "individual", g.Options.TeamMode)
}

func TestDeckComposition(t *testing.T) {
	deck := newDeck()
	assert.Len(t, deck, 106)

	counts := map[string]int{}
	for _, c := range deck {
		counts[c.Kind+"/"+c.Name]++
	}
	assert.Equal(t, 12, counts[KindDistance+"/100"])
	assert.Equal(t, 4, counts[KindDistance+"/200"])
	assert.Equal(t, 5, counts[KindHazard+"/"+HazardStop])
	assert.Equal(t, 14, counts[KindRemedy+"/"+RemedyRoll])
	assert.Equal(t, 1, counts[KindSafety+"/"+SafetyRightOfWay])
}

func TestTeamModeOption(t *testing.T) {
	g := New()
	require.NoError(t, g.SetOption("team_mode", "2v2"))
	assert.Equal(t, "2v2", g.Options.TeamMode)
	assert.Error(t, g.SetOption("team_mode", "9v9"))
}

func TestPrestartValidateTeamMode(t *testing.T) {
	g := New()
	seat(g, "Alice", "Bob", "Cara")
	g.Options.TeamMode = "2v2"
	assert.Equal(t, []string{"mbm-bad-team-mode"}, g.PrestartValidate())

	g.AddPlayer("Dan", users.NewRecorder("Dan"))
	assert.Empty(t, g.PrestartValidate())
}

func TestTeamAssignmentRoundRobin(t *testing.T) {
	g := New()
	g.Options.TeamMode = "2v2"
	seat(g, "Alice", "Bob", "Cara", "Dan")
	g.OnStart()

	require.Len(t, g.Teams.Teams, 2)
	assert.Equal(t, []string{"Alice", "Cara"}, g.Teams.Teams[0].Members)
	assert.Equal(t, []string{"Bob", "Dan"}, g.Teams.Teams[1].Members)
	assert.Len(t, g.TeamStates, 2)
}

func TestDistanceRules(t *testing.T) {
	state := &TeamState{}
	assert.False(t, state.canPlayDistance(100, 700), "must roll first")

	state.Rolling = true
	assert.True(t, state.canPlayDistance(100, 700))

	state.SpeedLimit = true
	assert.False(t, state.canPlayDistance(100, 700))
	assert.True(t, state.canPlayDistance(50, 700))
	state.SpeedLimit = false

	state.TwoHundreds = 2
	assert.False(t, state.canPlayDistance(200, 700))

	state.Distance = 650
	assert.False(t, state.canPlayDistance(100, 700), "cannot overshoot the round target")
	assert.True(t, state.canPlayDistance(50, 700))

	state.CurrentHazard = HazardFlatTire
	assert.False(t, state.canPlayDistance(25, 700))
}

func TestHazardTargetSkipsImmuneTeams(t *testing.T) {
	g := New()
	g.Options.TeamMode = "2v2"
	seats := seat(g, "Alice", "Bob", "Cara", "Dan")
	g.OnStart()

	// Alice is on team 0; the other team is the target.
	assert.Equal(t, 1, g.hazardTarget(seats[0], HazardAccident))

	g.TeamStates[1].Safeties = []string{SafetyDrivingAce}
	assert.Equal(t, -1, g.hazardTarget(seats[0], HazardAccident))

	// Right of Way blocks both stop and speed limit.
	g.TeamStates[1].Safeties = []string{SafetyRightOfWay}
	assert.Equal(t, -1, g.hazardTarget(seats[0], HazardStop))
	assert.Equal(t, -1, g.hazardTarget(seats[0], HazardSpeedLimit))
}

func TestRemedyCuresHazard(t *testing.T) {
	g := New()
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	current := g.CurrentPlayer()
	state := g.teamState(current)
	state.Rolling = true
	state.CurrentHazard = HazardFlatTire

	spare := Card{ID: "test_spare", Kind: KindRemedy, Name: RemedySpareTire}
	g.Hands[current.ID] = []Card{spare}
	g.rebuildHandActions(current)

	g.playCard(current, spare.ID)
	assert.Empty(t, state.CurrentHazard)
	assert.True(t, state.Rolling)

	_ = seats
}

func TestSafetyCuresAndPrevents(t *testing.T) {
	g := New()
	seat(g, "Alice", "Bob")
	g.OnStart()

	current := g.CurrentPlayer()
	state := g.teamState(current)
	state.CurrentHazard = HazardAccident

	ace := Card{ID: "test_ace", Kind: KindSafety, Name: SafetyDrivingAce}
	g.Hands[current.ID] = []Card{ace}
	g.rebuildHandActions(current)

	g.playCard(current, ace.ID)
	assert.Empty(t, state.CurrentHazard)
	assert.True(t, state.hasSafety(SafetyDrivingAce))
	assert.True(t, state.immuneTo(HazardAccident))
}

func TestRoundScoring(t *testing.T) {
	g := New()
	g.Options.RoundDistance = 500
	g.Options.WinningScore = 100000
	seat(g, "Alice", "Bob")
	g.OnStart()

	g.TeamStates[0].Distance = 500
	g.TeamStates[0].Safeties = []string{SafetyDrivingAce}
	g.TeamStates[1].Distance = 200

	g.endRound(0)

	// 500 + 100 safety + 400 completion = 1000; loser keeps 200.
	assert.Equal(t, 1000, g.Teams.Teams[0].TotalScore)
	assert.Equal(t, 200, g.Teams.Teams[1].TotalScore)
	assert.Equal(t, game.StatusPlaying, g.Status)
	assert.True(t, g.RoundTimer.IsActive(), "intermission counts down to the next deal")
}

func TestIntermissionDealsNextRound(t *testing.T) {
	g := New()
	g.Options.WinningScore = 100000
	seats := seat(g, "Alice", "Bob")
	g.OnStart()

	round := g.Round
	g.endRound(0)

	// The table is cleared while the countdown runs.
	require.True(t, g.RoundTimer.IsActive())
	assert.Empty(t, g.Hands[seats[0].ID])
	assert.Empty(t, g.DrawPile)
	assert.Equal(t, round, g.Round)

	for i := 0; i <= roundIntermissionTicks && g.RoundTimer.IsActive(); i++ {
		g.OnTick()
	}

	assert.Equal(t, round+1, g.Round)
	assert.False(t, g.RoundTimer.IsActive())
	// The new deal is out: six cards each plus the turn player's draw.
	assert.GreaterOrEqual(t, len(g.Hands[seats[0].ID])+len(g.Hands[seats[1].ID]), 12)
}

func TestHostPausesIntermission(t *testing.T) {
	g := New()
	g.Options.WinningScore = 100000
	seats := seat(g, "Alice", "Bob")
	g.OnStart()
	g.endRound(0)
	require.True(t, g.RoundTimer.IsActive())

	// Only the host may pause.
	g.ExecuteAction(seats[1], "pause_timer", nil)
	assert.Equal(t, game.TimerCounting, g.RoundTimer.State)

	g.ExecuteAction(seats[0], "pause_timer", nil)
	assert.Equal(t, game.TimerPaused, g.RoundTimer.State)

	remaining := g.RoundTimer.TicksRemaining
	for i := 0; i < 50; i++ {
		g.OnTick()
	}
	assert.Equal(t, remaining, g.RoundTimer.TicksRemaining, "a paused countdown holds still")

	g.ExecuteAction(seats[0], "pause_timer", nil)
	assert.Equal(t, game.TimerCounting, g.RoundTimer.State)
}

func TestIntermissionSurvivesSnapshot(t *testing.T) {
	g := New()
	g.Options.WinningScore = 100000
	seat(g, "Alice", "Bob")
	g.OnStart()
	g.endRound(0)
	require.True(t, g.RoundTimer.IsActive())

	data, err := game.Snapshot(g)
	require.NoError(t, err)
	loaded := New()
	require.NoError(t, game.Restore(data, loaded))

	round := loaded.Round
	require.True(t, loaded.RoundTimer.IsActive())
	for i := 0; i <= roundIntermissionTicks && loaded.RoundTimer.IsActive(); i++ {
		loaded.OnTick()
	}
	// The ready hook was rebound through the restore: the countdown
	// still deals the next round.
	assert.Equal(t, round+1, loaded.Round)
}

func TestAllSafetiesBonus(t *testing.T) {
	g := New()
	g.Options.WinningScore = 100000
	seat(g, "Alice", "Bob")
	g.OnStart()

	g.TeamStates[0].Safeties = []string{
		SafetyDrivingAce, SafetyExtraTank, SafetyPunctureProof, SafetyRightOfWay,
	}
	g.endRound(-1)
	// 4 * 100 + 300 all-safeties bonus.
	assert.Equal(t, 700, g.Teams.Teams[0].TotalScore)
}

func TestFourBotTeamGameFinishes(t *testing.T) {
	// The end-to-end team scenario: 500-mile rounds to 1000 points,
	// two teams of two, all bots.
	g := New()
	require.NoError(t, g.SetOption("round_distance", "500"))
	require.NoError(t, g.SetOption("winning_score", "1000"))
	require.NoError(t, g.SetOption("team_mode", "2v2"))

	for _, name := range []string{"Robo", "Tin", "Bolt", "Gear"} {
		g.AddPlayer(name, users.NewBot(name))
	}
	g.Host = "Robo"
	g.SetupBaseKeybinds()
	g.SetupKeybinds()
	require.Empty(t, g.PrestartValidate())
	g.OnStart()

	require.Len(t, g.Teams.Teams, 2)
	require.Len(t, g.Teams.Teams[0].Members, 2)

	for i := 0; i < 500_000 && g.GameActive(); i++ {
		g.OnTick()
	}

	require.Equal(t, game.StatusFinished, g.Status)
	leader := g.Teams.LeadingTeam()
	require.NotNil(t, leader)
	assert.GreaterOrEqual(t, leader.TotalScore, 1000)
}

func TestSerializationRoundTrip(t *testing.T) {
	g := New()
	seat(g, "Alice", "Bob")
	g.OnStart()

	data, err := game.Snapshot(g)
	require.NoError(t, err)

	loaded := New()
	require.NoError(t, game.Restore(data, loaded))
	assert.Equal(t, len(g.DrawPile), len(loaded.DrawPile))
	assert.Equal(t, g.TeamStates, loaded.TeamStates)

	again, err := game.Snapshot(loaded)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}
