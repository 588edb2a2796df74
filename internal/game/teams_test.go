package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndividualMode(t *testing.T) {
	m := &TeamManager{Mode: "individual"}
	m.SetupTeams([]string{"Alice", "Bob", "Cara"})

	require.Len(t, m.Teams, 3)
	for i, team := range m.Teams {
		assert.Equal(t, i, team.Index)
		assert.Len(t, team.Members, 1)
	}
	assert.Equal(t, "Alice", m.TeamOf("Alice").Members[0])
}

func TestRoundRobinAssignment(t *testing.T) {
	m := &TeamManager{Mode: "2v2"}
	m.SetupTeams([]string{"Alice", "Bob", "Cara", "Dan"})

	require.Len(t, m.Teams, 2)
	assert.Equal(t, []string{"Alice", "Cara"}, m.Teams[0].Members)
	assert.Equal(t, []string{"Bob", "Dan"}, m.Teams[1].Members)
}

func TestRoundRobinBalance(t *testing.T) {
	// every team's member count within 1 of every other's, total == N.
	for _, mode := range []string{"2v2", "3v3", "2v2v2", "3v3v3"} {
		sizes := ParseTeamMode(mode)
		n := 0
		for _, size := range sizes {
			n += size
		}
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		m := &TeamManager{Mode: mode}
		m.SetupTeams(names)

		total, min, max := 0, n, 0
		for _, team := range m.Teams {
			count := len(team.Members)
			total += count
			if count < min {
				min = count
			}
			if count > max {
				max = count
			}
		}
		assert.Equal(t, n, total, mode)
		assert.LessOrEqual(t, max-min, 1, mode)
	}
}

func TestParseTeamMode(t *testing.T) {
	assert.Equal(t, []int{2, 2}, ParseTeamMode("2v2"))
	assert.Equal(t, []int{2, 2, 2}, ParseTeamMode("2v2v2"))
	assert.Equal(t, []int{2, 3}, ParseTeamMode("2v3"))
	assert.Nil(t, ParseTeamMode("individual"))
}

func TestScoring(t *testing.T) {
	m := &TeamManager{Mode: "2v2"}
	m.SetupTeams([]string{"Alice", "Bob", "Cara", "Dan"})

	m.AddToRound("Alice", 5)
	m.AddToRound("Bob", 3)
	assert.Equal(t, 5, m.TeamOf("Cara").RoundScore)

	m.CommitRoundScores()
	assert.Equal(t, 5, m.TeamOf("Alice").TotalScore)
	assert.Equal(t, 0, m.TeamOf("Alice").RoundScore)

	m.AddToTotal("Dan", 4)
	assert.Equal(t, 7, m.TeamOf("Bob").TotalScore)

	leader := m.LeadingTeam()
	require.NotNil(t, leader)
	assert.Equal(t, 1, leader.Index)
}

func TestElimination(t *testing.T) {
	m := &TeamManager{Mode: "individual"}
	m.SetupTeams([]string{"Alice", "Bob"})
	m.Eliminate("Alice")
	assert.True(t, m.TeamOf("Alice").Eliminated)
	assert.Len(t, m.AliveTeams(), 1)
}

func TestTeamsAtOrAbove(t *testing.T) {
	m := &TeamManager{Mode: "individual"}
	m.SetupTeams([]string{"Alice", "Bob"})
	m.AddToTotal("Alice", 11)
	m.AddToTotal("Bob", 7)
	assert.Len(t, m.TeamsAtOrAbove(10), 1)
	assert.Len(t, m.TeamsAtOrAbove(5), 2)
}

func TestTeamNames(t *testing.T) {
	m := &TeamManager{Mode: "2v2"}
	m.SetupTeams([]string{"Alice", "Bob", "Cara", "Dan"})
	assert.Equal(t, "Team 1", m.TeamName(m.Teams[0], "en"))

	solo := &TeamManager{Mode: "individual"}
	solo.SetupTeams([]string{"Alice"})
	assert.Equal(t, "Alice", solo.TeamName(solo.Teams[0], "en"))
}

func TestFormatScoresBrief(t *testing.T) {
	m := &TeamManager{Mode: "individual"}
	m.SetupTeams([]string{"Alice", "Bob"})
	m.AddToTotal("Alice", 5)
	m.AddToTotal("Bob", 3)
	assert.Equal(t, "Alice: 5. Bob: 3.", m.FormatScoresBrief("en"))
}

func TestTeamModesForPlayerCount(t *testing.T) {
	assert.Equal(t, []string{"individual"}, TeamModesForPlayerCount(1))
	assert.Equal(t, []string{"individual", "2v2"}, TeamModesForPlayerCount(4))
	assert.Equal(t, []string{"individual", "2v2v2", "3v3"}, TeamModesForPlayerCount(6))
}

func TestAllTeamModes(t *testing.T) {
	modes := AllTeamModes(2, 6)
	assert.Equal(t, "individual", modes[0])
	assert.Contains(t, modes, "2v2")
	assert.Contains(t, modes, "3v3")
	assert.Contains(t, modes, "2v2v2")
}
