package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpalace/playpalace/internal/game"
	_ "github.com/playpalace/playpalace/internal/games"
	"github.com/playpalace/playpalace/internal/games/leftrightcenter"
	"github.com/playpalace/playpalace/internal/users"
)

func makeGame(t *testing.T) game.Game {
	t.Helper()
	g := leftrightcenter.New()
	g.AddPlayer("Alice", users.NewRecorder("Alice"))
	g.AddPlayer("Bob", users.NewRecorder("Bob"))
	g.Host = "Alice"
	g.OnStart()
	g.CenterPot = 2
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	g := makeGame(t)
	snapshot, err := game.Snapshot(g)
	require.NoError(t, err)
	require.NoError(t, store.Save("table-1", g, snapshot))

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "table-1", infos[0].ID)
	assert.Equal(t, "leftrightcenter", infos[0].GameType)
	assert.Equal(t, "Alice", infos[0].Host)

	loaded, err := store.Load("table-1")
	require.NoError(t, err)
	lrc, ok := loaded.(*leftrightcenter.LRC)
	require.True(t, ok)
	assert.Equal(t, 2, lrc.CenterPot)
	assert.Equal(t, game.StatusPlaying, lrc.Status)
	assert.Len(t, lrc.Players, 2)

	// Runtime state is rebuilt; users are bound by the caller.
	p := lrc.Players[0]
	assert.NotNil(t, lrc.FindAction(p, "roll"))
	assert.Nil(t, lrc.GetUser(p))
}

func TestLoadCorruptSnapshotFails(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "saved_tables", "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"game_type":"leftrightcenter","ticks":42,"snapshot":{"players":"not-a-list"}}`), 0o600))

	_, err = store.Load("broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to restore at tick 42")
}

func TestLoadUnknownGameType(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "saved_tables", "odd.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"game_type":"nope","snapshot":{}}`), 0o600))

	_, err = store.Load("odd")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	g := makeGame(t)
	snapshot, err := game.Snapshot(g)
	require.NoError(t, err)
	require.NoError(t, store.Save("gone", g, snapshot))
	require.NoError(t, store.Delete("gone"))

	infos, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}
