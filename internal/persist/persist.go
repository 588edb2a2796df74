// Package persist stores game snapshots as structured JSON documents
// under the data directory and rehydrates them into live games.
package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/playpalace/playpalace/internal/game"
)

// envelope wraps a snapshot with enough metadata to list and restore it
// without instantiating the game.
type envelope struct {
	GameType string          `json:"game_type"`
	Host     string          `json:"host"`
	SavedAt  time.Time       `json:"saved_at"`
	Ticks    int             `json:"ticks"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// SavedInfo is one row of the saved-tables listing.
type SavedInfo struct {
	ID       string
	GameType string
	Host     string
	SavedAt  time.Time
}

// Store is a directory of saved tables.
type Store struct {
	dir string
}

// NewStore roots the saved-table documents under dataDir.
func NewStore(dataDir string) (*Store, error) {
	dir := filepath.Join(dataDir, "saved_tables")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create saved tables dir")
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes a snapshot document. Nothing is committed on error.
func (s *Store) Save(id string, g game.Game, snapshot []byte) error {
	doc, err := json.MarshalIndent(envelope{
		GameType: g.Meta().Type,
		Host:     g.Core().Host,
		SavedAt:  time.Now().UTC(),
		Ticks:    g.Core().Ticks,
		Snapshot: snapshot,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode saved table")
	}
	tmp := s.path(id) + ".tmp"
	if err := os.WriteFile(tmp, doc, 0o600); err != nil {
		return errors.Wrap(err, "write saved table")
	}
	return errors.Wrap(os.Rename(tmp, s.path(id)), "replace saved table")
}

// List enumerates saved tables, newest first left to the caller.
func (s *Store) List() ([]SavedInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "read saved tables dir")
	}
	var infos []SavedInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		infos = append(infos, SavedInfo{
			ID:       strings.TrimSuffix(name, ".json"),
			GameType: env.GameType,
			Host:     env.Host,
			SavedAt:  env.SavedAt,
		})
	}
	return infos, nil
}

// Load rehydrates a saved table into a fresh game instance. The caller
// re-binds live user handles and pushes menus. A corrupt snapshot
// yields a structured error naming the tick it was saved at; no partial
// state is committed.
func (s *Store) Load(id string) (game.Game, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, errors.Wrap(err, "read saved table")
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "parse saved table")
	}
	g, ok := game.NewGame(env.GameType)
	if !ok {
		return nil, errors.Errorf("saved table has unknown game type %q", env.GameType)
	}
	if err := game.Restore(env.Snapshot, g); err != nil {
		return nil, errors.Wrapf(err, "failed to restore at tick %d", env.Ticks)
	}
	return g, nil
}

// Delete removes a saved table once it has been reopened.
func (s *Store) Delete(id string) error {
	return errors.Wrap(os.Remove(s.path(id)), "delete saved table")
}
