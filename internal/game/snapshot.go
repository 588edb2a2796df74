package game

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Snapshot serializes a game to its structured document. Only the
// exported state fields are written; live user handles, the table
// back-reference, keybinds, pending inputs, and open-UI sets are
// runtime-only and rebuilt on restore.
func Snapshot(g Game) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %s at tick %d", g.Meta().Type, g.Core().Ticks)
	}
	return data, nil
}

// Restore rehydrates a snapshot into a freshly-constructed game of the
// same type, then rebuilds the runtime state. The caller re-binds live
// users and the table afterwards and finishes with RebuildAllMenus.
func Restore(data []byte, g Game) error {
	if err := json.Unmarshal(data, g); err != nil {
		return errors.Wrapf(err, "restore %s", g.Meta().Type)
	}
	g.Core().RebuildRuntimeState()
	return nil
}

// RebuildRuntimeState re-creates everything a snapshot does not carry:
// keybinds, per-player action sets, and any game-specific helpers via
// the optional RebuildRuntimeState hook. The round timer's fields are
// restored with the snapshot; its callback is the game's
// OnRoundTimerReady hook, which needs no rebinding.
func (b *Base) RebuildRuntimeState() {
	b.rebuildRuntimeContainers()
	b.SetupBaseKeybinds()
	b.self.SetupKeybinds()
	for _, p := range b.Players {
		b.addLobbyActions(p)
		b.self.SetupPlayerActions(p)
	}
	if hook, ok := b.self.(interface{ RebuildGameRuntime() }); ok {
		hook.RebuildGameRuntime()
	}
}
