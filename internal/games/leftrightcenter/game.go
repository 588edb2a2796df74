// Package leftrightcenter implements the Left Right Center dice game:
// each turn the current player rolls one die per held chip (up to
// three) and passes chips left, right, or into the center pot. The last
// player holding chips wins.
package leftrightcenter

import (
	"strconv"

	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/locale"
)

// Die faces: one left, one right, one center, three dots.
const (
	faceLeft = iota
	faceRight
	faceCenter
	faceDot
)

var faces = []int{faceLeft, faceRight, faceCenter, faceDot, faceDot, faceDot}

// Options configure a table before start.
type Options struct {
	StartingChips int `json:"starting_chips"`
}

// LRC is the game state. Chips are keyed by player id so a seat
// surviving a bot substitution keeps its stack.
type LRC struct {
	game.Base
	Options   Options        `json:"options"`
	Chips     map[string]int `json:"chips"`
	CenterPot int            `json:"center_pot"`
}

// New constructs an unstarted game.
func New() *LRC {
	g := &LRC{
		Options: Options{StartingChips: 3},
		Chips:   map[string]int{},
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
	Type:       "leftrightcenter",
	Name:       "Left Right Center",
	Category:   "category-dice-games",
	MinPlayers: 2,
	MaxPlayers: 20,
}

func (g *LRC) Meta() game.Meta { return meta }

func (g *LRC) OptionSpecs() []game.OptionSpec {
	return []game.OptionSpec{
		{
			Key:     "starting_chips",
			LabelID: "option-starting-chips",
			Type:    "int",
			Min:     1,
			Max:     10,
			Get:     func() string { return strconv.Itoa(g.Options.StartingChips) },
			Set: func(value string) error {
				chips, err := strconv.Atoi(value)
				if err != nil || chips < 1 || chips > 10 {
					return game.ErrInvalidOption
				}
				g.Options.StartingChips = chips
				return nil
			},
		},
	}
}

func (g *LRC) PrestartValidate() []string { return nil }

func (g *LRC) SetupPlayerActions(p *game.Player) {
	turn := g.ActionSet(p, "turn")
	turn.Add(&game.Action{
		ID:      "roll",
		LabelID: "lrc-roll",
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
		Handler:           g.actionRoll,
		ShowInActionsMenu: true,
	})
	g.AddOptionActions(p)
}

func (g *LRC) SetupKeybinds() {
	g.Keybinds().Bind("space", "lrc-roll", []string{"roll"}, game.KeybindFilter{ActiveOnly: true})
}

func (g *LRC) OnStart() {
	g.StartPlaying()

	active := g.ActivePlayers()
	ids := make([]string, 0, len(active))
	names := make([]string, 0, len(active))
	for _, p := range active {
		g.Chips[p.ID] = g.Options.StartingChips
		ids = append(ids, p.ID)
		names = append(names, p.Name)
	}
	g.CenterPot = 0
	g.Turn.SetPlayers(ids, true)

	g.Teams.Mode = "individual"
	g.Teams.SetupTeams(names)
	g.syncScores()

	g.PlayMusic("music/dice_lounge.ogg", true)
	g.BroadcastSound("game_pig/start.ogg")
	g.AnnounceTurn()
	g.RebuildAllMenus()
}

func (g *LRC) GameTick() {}

func (g *LRC) BotThink(p *game.Player) string {
	if g.IsCurrent(p) {
		return "roll"
	}
	return ""
}

// syncScores mirrors chip counts into the team manager so the standard
// score actions report them.
func (g *LRC) syncScores() {
	for _, p := range g.ActivePlayers() {
		if team := g.Teams.TeamOf(p.Name); team != nil {
			team.TotalScore = g.Chips[p.ID]
		}
	}
}

// neighbors returns the seats before and after the current player in
// turn order.
func (g *LRC) neighbors(p *game.Player) (left, right *game.Player) {
	ids := g.Turn.PlayerIDs
	n := len(ids)
	if n == 0 {
		return nil, nil
	}
	idx := 0
	for i, id := range ids {
		if id == p.ID {
			idx = i
			break
		}
	}
	left = g.GetPlayerByID(ids[((idx-1)%n+n)%n])
	right = g.GetPlayerByID(ids[(idx+1)%n])
	return left, right
}

func (g *LRC) actionRoll(p *game.Player, _ *game.Context) {
	if g.CheckForWinner() {
		return
	}

	dice := g.Chips[p.ID]
	if dice > 3 {
		dice = 3
	}

	if dice == 0 {
		g.BroadcastPersonalL(p, "lrc-you-no-chips", "lrc-player-no-chips", nil)
	} else {
		left, right := g.neighbors(p)
		g.ScheduleSound("game_lrc/roll.ogg", 0)
		for i := 0; i < dice; i++ {
			face := faces[g.RandIntN(len(faces))]
			switch face {
			case faceLeft:
				g.Chips[p.ID]--
				if left != nil {
					g.Chips[left.ID]++
					g.BroadcastPersonalL(p, "lrc-you-pass-left", "lrc-player-pass-left",
						locale.Args{"target": left.Name})
				}
			case faceRight:
				g.Chips[p.ID]--
				if right != nil {
					g.Chips[right.ID]++
					g.BroadcastPersonalL(p, "lrc-you-pass-right", "lrc-player-pass-right",
						locale.Args{"target": right.Name})
				}
			case faceCenter:
				g.Chips[p.ID]--
				g.CenterPot++
				g.BroadcastPersonalL(p, "lrc-you-pass-center", "lrc-player-pass-center", nil)
			default:
				g.BroadcastPersonalL(p, "lrc-you-keep", "lrc-player-keeps", nil)
			}
		}
		g.BroadcastPersonalL(p, "lrc-you-have-chips", "lrc-player-has-chips",
			locale.Args{"count": g.Chips[p.ID]})
	}

	g.syncScores()
	if g.CheckForWinner() {
		return
	}
	g.AdvanceTurn(true)
	g.CheckForWinner()
}

// CheckForWinner ends the game when exactly one player still holds
// chips. The center pot is simply lost.
func (g *LRC) CheckForWinner() bool {
	var holder *game.Player
	holders := 0
	for _, p := range g.ActivePlayers() {
		if g.Chips[p.ID] > 0 {
			holders++
			holder = p
		}
	}
	if holders != 1 {
		return false
	}

	g.BroadcastL("game-winner", locale.Args{"player": holder.Name})
	g.BroadcastSound("game_pig/win.ogg")
	g.StopMusic()

	results := make([]game.PlayerResult, 0, len(g.ActivePlayers()))
	for _, p := range g.ActivePlayers() {
		results = append(results, game.PlayerResult{
			Name:   p.Name,
			IsBot:  p.IsBot,
			Score:  g.Chips[p.ID],
			Winner: p.ID == holder.ID,
		})
	}
	g.FinishGame(results, map[string]any{
		"winner_name": holder.Name,
		"center_pot":  g.CenterPot,
	})
	return true
}
