package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/playpalace/playpalace/internal/games"
)

func TestGameListPacket(t *testing.T) {
	pkt := gameListPacket()
	assert.Equal(t, "game_list", pkt.Type)
	require.NotEmpty(t, pkt.Games)

	types := map[string]bool{}
	for _, entry := range pkt.Games {
		types[entry.Type] = true
		assert.NotEmpty(t, entry.Name)
		assert.GreaterOrEqual(t, entry.MaxPlayers, entry.MinPlayers)
	}
	assert.True(t, types["leftrightcenter"])
	assert.True(t, types["scopa"])
	assert.True(t, types["crazyeights"])
	assert.True(t, types["milebymile"])
}

func TestUpdateOptionsListsPacket(t *testing.T) {
	pkt := updateOptionsListsPacket()
	assert.Equal(t, "update_options_lists", pkt.Type)
	assert.NotEmpty(t, pkt.Games)
	assert.Contains(t, pkt.Languages, "en")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Positive(t, cfg.AuthTimeout)
	assert.Positive(t, cfg.IdleTimeout)
	assert.Equal(t, 1, cfg.RequiredMajor)
}
