// Package sim runs all-bot simulations of registered games, driven by a
// recording spectator. The simulate CLI subcommand and the duration
// estimator both ride on it, and it backs the serialization fidelity
// harness.
package sim

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"

	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/users"
)

// SpectatorName marks the recording user; its lines are filtered out of
// results.
const SpectatorName = "__spectator__"

// DefaultMaxTicks caps a simulation before declaring a timeout.
const DefaultMaxTicks = 10_000_000

// Options configures one simulation run.
type Options struct {
	GameType          string
	BotNames          []string
	GameOptions       map[string]string
	MaxTicks          int
	TestSerialization bool

	// OnMessage streams spectator lines as they happen (verbose mode).
	OnMessage func(text string)

	// RandIntN replaces the game's randomness for reproducible runs;
	// nil keeps the default source.
	RandIntN func(n int) int
}

// Result is the machine-readable outcome, shaped for --json output.
type Result struct {
	GameType            string   `json:"game_type"`
	GameName            string   `json:"game_name"`
	Ticks               int      `json:"ticks"`
	Rounds              int      `json:"rounds"`
	TimedOut            bool     `json:"timed_out"`
	Messages            []string `json:"messages"`
	FinalMenu           []string `json:"final_menu"`
	SerializationTested bool     `json:"serialization_tested,omitempty"`
	SerializationPassed bool     `json:"serialization_passed,omitempty"`
	SerializationError  string   `json:"serialization_error,omitempty"`
}

// Run plays a game to completion with bots and returns the captured
// outcome.
func Run(opts Options) (*Result, error) {
	reg, ok := game.Lookup(opts.GameType)
	if !ok {
		return nil, errors.Errorf("unknown game type %q", opts.GameType)
	}
	if len(opts.BotNames) < reg.Meta.MinPlayers {
		return nil, errors.Errorf("%s requires at least %d players", opts.GameType, reg.Meta.MinPlayers)
	}
	if len(opts.BotNames) > reg.Meta.MaxPlayers {
		return nil, errors.Errorf("%s allows at most %d players", opts.GameType, reg.Meta.MaxPlayers)
	}
	maxTicks := opts.MaxTicks
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}

	g := reg.New()
	base := g.Core()
	if opts.RandIntN != nil {
		base.SetRandFunc(opts.RandIntN)
	}
	for key, value := range opts.GameOptions {
		if err := base.SetOption(key, value); err != nil {
			return nil, err
		}
	}

	base.Host = opts.BotNames[0]
	for _, name := range opts.BotNames {
		base.AddPlayer(name, users.NewBot(name))
	}

	spectator := users.NewRecorder(SpectatorName)
	spectatorSeat := base.AddPlayer(SpectatorName, spectator)
	spectatorSeat.IsSpectator = true

	base.SetupBaseKeybinds()
	g.SetupKeybinds()
	g.OnStart()

	tick := 0
	streamed := 0
	var serializationError error
	for base.GameActive() && tick < maxTicks {
		base.OnTick()
		tick++

		if opts.OnMessage != nil {
			for _, msg := range spectator.Messages[streamed:] {
				if !strings.Contains(msg, SpectatorName) {
					opts.OnMessage(msg)
				}
			}
			streamed = len(spectator.Messages)
		}

		if opts.TestSerialization {
			restored, err := roundTrip(g, tick)
			if err != nil {
				serializationError = err
				break
			}
			g = restored
			base = g.Core()
		}
	}

	result := &Result{
		GameType:  opts.GameType,
		GameName:  reg.Meta.Name,
		Ticks:     tick,
		Rounds:    base.Round,
		TimedOut:  base.GameActive() && tick >= maxTicks,
		Messages:  filterSpectator(spectator.Messages),
		FinalMenu: filterSpectator(spectator.MenuTexts("game_over")),
	}
	if opts.TestSerialization {
		result.SerializationTested = true
		if serializationError != nil {
			result.SerializationError = serializationError.Error()
		} else {
			result.SerializationPassed = true
		}
	}
	return result, nil
}

// roundTrip snapshots the game, restores it into a fresh instance,
// verifies the re-marshalled state matches byte for byte, and re-binds
// the live user handles so the simulation continues on the restored
// game.
func roundTrip(g game.Game, tick int) (game.Game, error) {
	snapshot, err := game.Snapshot(g)
	if err != nil {
		return nil, errors.Wrapf(err, "serialization failed at tick %d", tick)
	}
	fresh, _ := game.NewGame(g.Meta().Type)
	if err := game.Restore(snapshot, fresh); err != nil {
		return nil, errors.Wrapf(err, "deserialization failed at tick %d", tick)
	}
	again, err := game.Snapshot(fresh)
	if err != nil {
		return nil, errors.Wrapf(err, "re-serialization failed at tick %d", tick)
	}
	if !bytes.Equal(snapshot, again) {
		return nil, errors.Errorf("serialization round-trip mismatch at tick %d", tick)
	}

	oldBase := g.Core()
	newBase := fresh.Core()
	for _, p := range newBase.Players {
		if old := oldBase.GetPlayerByID(p.ID); old != nil {
			if u := oldBase.GetUser(old); u != nil {
				newBase.AttachUser(p.ID, u)
			}
		}
	}
	newBase.SetRandFunc(oldBase.RandIntN)
	newBase.SetTable(oldBase.Table())
	return fresh, nil
}

func filterSpectator(lines []string) []string {
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(line, SpectatorName) {
			continue
		}
		filtered = append(filtered, line)
	}
	return filtered
}
