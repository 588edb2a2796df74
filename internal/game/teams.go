package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/playpalace/playpalace/internal/locale"
)

// Team is a scoring unit of one or more players.
type Team struct {
	Index      int      `json:"index"`
	Members    []string `json:"members"` // player names
	RoundScore int      `json:"round_score"`
	TotalScore int      `json:"total_score"`
	Eliminated bool     `json:"eliminated"`
}

// TeamManager owns team assignment and scoring. Mode "individual" makes
// every player a singleton team; "2v2", "3v3v3" and the like create
// fixed team counts filled round-robin by seating order.
type TeamManager struct {
	Teams        []*Team        `json:"teams"`
	Mode         string         `json:"mode"`
	PlayerToTeam map[string]int `json:"player_to_team"`
}

// SetupTeams assigns the given player names per the current mode.
func (m *TeamManager) SetupTeams(playerNames []string) {
	if m.Mode == "" {
		m.Mode = "individual"
	}
	m.Teams = nil
	m.PlayerToTeam = map[string]int{}

	if m.Mode == "individual" {
		for i, name := range playerNames {
			m.Teams = append(m.Teams, &Team{Index: i, Members: []string{name}})
			m.PlayerToTeam[name] = i
		}
		return
	}

	count := len(ParseTeamMode(m.Mode))
	if count < 2 {
		count = 2
	}
	for i := 0; i < count; i++ {
		m.Teams = append(m.Teams, &Team{Index: i})
	}
	for i, name := range playerNames {
		idx := i % count
		m.Teams[idx].Members = append(m.Teams[idx].Members, name)
		m.PlayerToTeam[name] = idx
	}
}

// ParseTeamMode turns "2v2v2" into [2 2 2]. "individual" yields nil.
func ParseTeamMode(mode string) []int {
	if mode == "" || mode == "individual" {
		return nil
	}
	var sizes []int
	for _, part := range strings.Split(strings.ToLower(mode), "v") {
		size, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		sizes = append(sizes, size)
	}
	return sizes
}

func (m *TeamManager) TeamOf(playerName string) *Team {
	idx, ok := m.PlayerToTeam[playerName]
	if !ok || idx >= len(m.Teams) {
		return nil
	}
	return m.Teams[idx]
}

func (m *TeamManager) Teammates(playerName string) []string {
	team := m.TeamOf(playerName)
	if team == nil {
		return nil
	}
	var mates []string
	for _, member := range team.Members {
		if member != playerName {
			mates = append(mates, member)
		}
	}
	return mates
}

func (m *TeamManager) AddToTotal(playerName string, points int) {
	if team := m.TeamOf(playerName); team != nil {
		team.TotalScore += points
	}
}

func (m *TeamManager) AddToRound(playerName string, points int) {
	if team := m.TeamOf(playerName); team != nil {
		team.RoundScore += points
	}
}

// CommitRoundScores folds round scores into totals and resets them.
func (m *TeamManager) CommitRoundScores() {
	for _, team := range m.Teams {
		team.TotalScore += team.RoundScore
		team.RoundScore = 0
	}
}

func (m *TeamManager) ResetAllScores() {
	for _, team := range m.Teams {
		team.RoundScore = 0
		team.TotalScore = 0
		team.Eliminated = false
	}
}

func (m *TeamManager) Eliminate(playerName string) {
	if team := m.TeamOf(playerName); team != nil {
		team.Eliminated = true
	}
}

func (m *TeamManager) AliveTeams() []*Team {
	var alive []*Team
	for _, team := range m.Teams {
		if !team.Eliminated {
			alive = append(alive, team)
		}
	}
	return alive
}

func (m *TeamManager) TeamsAtOrAbove(target int) []*Team {
	var reached []*Team
	for _, team := range m.Teams {
		if team.TotalScore >= target {
			reached = append(reached, team)
		}
	}
	return reached
}

func (m *TeamManager) LeadingTeam() *Team {
	var best *Team
	for _, team := range m.Teams {
		if best == nil || team.TotalScore > best.TotalScore {
			best = team
		}
	}
	return best
}

// SortedTeams returns teams ordered by total score (or index), highest
// first when descending.
func (m *TeamManager) SortedTeams(byScore, descending bool) []*Team {
	sorted := append([]*Team(nil), m.Teams...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if byScore {
			if descending {
				return a.TotalScore > b.TotalScore
			}
			return a.TotalScore < b.TotalScore
		}
		if descending {
			return a.Index > b.Index
		}
		return a.Index < b.Index
	})
	return sorted
}

// TeamName names a team for display: the lone member's name for
// singleton teams, "Team N" otherwise.
func (m *TeamManager) TeamName(team *Team, localeCode string) string {
	if len(team.Members) == 1 {
		return team.Members[0]
	}
	return locale.Get(localeCode, "team-name", locale.Args{"number": team.Index + 1})
}

// FormatScoresBrief renders "Alice: 5. Bob: 3." for speaking.
func (m *TeamManager) FormatScoresBrief(localeCode string) string {
	sorted := m.SortedTeams(true, true)
	parts := make([]string, 0, len(sorted))
	for _, team := range sorted {
		parts = append(parts, fmt.Sprintf("%s: %d", m.TeamName(team, localeCode), team.TotalScore))
	}
	return strings.Join(parts, ". ") + "."
}

// FormatScoresDetailed renders one line per team for a status box.
func (m *TeamManager) FormatScoresDetailed(localeCode string) []string {
	sorted := m.SortedTeams(true, true)
	lines := make([]string, 0, len(sorted))
	for _, team := range sorted {
		lines = append(lines, locale.Get(localeCode, "scores-points", locale.Args{
			"name":   m.TeamName(team, localeCode),
			"points": team.TotalScore,
		}))
	}
	return lines
}

// TeamModesForPlayerCount lists the valid symmetric team modes for a
// player count, always starting with "individual".
func TeamModesForPlayerCount(numPlayers int) []string {
	modes := []string{"individual"}
	if numPlayers < 2 {
		return modes
	}
	for size := 2; size <= numPlayers/2; size++ {
		teams := numPlayers / size
		if teams >= 2 && teams*size == numPlayers {
			parts := make([]string, teams)
			for i := range parts {
				parts[i] = strconv.Itoa(size)
			}
			modes = append(modes, strings.Join(parts, "v"))
		}
	}
	return modes
}

// AllTeamModes lists every mode valid for some count in [min, max],
// sorted with "individual" first, then by total players.
func AllTeamModes(minPlayers, maxPlayers int) []string {
	seen := map[string]bool{}
	for count := minPlayers; count <= maxPlayers; count++ {
		for _, mode := range TeamModesForPlayerCount(count) {
			seen[mode] = true
		}
	}
	modes := make([]string, 0, len(seen))
	for mode := range seen {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool {
		if modes[i] == "individual" {
			return true
		}
		if modes[j] == "individual" {
			return false
		}
		totalI, totalJ := 0, 0
		for _, size := range ParseTeamMode(modes[i]) {
			totalI += size
		}
		for _, size := range ParseTeamMode(modes[j]) {
			totalJ += size
		}
		if totalI != totalJ {
			return totalI < totalJ
		}
		return modes[i] < modes[j]
	})
	return modes
}
