package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSubstitutesArgs(t *testing.T) {
	got := Get("en", "game-turn-start", Args{"player": "Alice"})
	assert.Equal(t, "It is Alice's turn.", got)
}

func TestGetUnknownIDReturnsID(t *testing.T) {
	assert.Equal(t, "no-such-message", Get("en", "no-such-message", nil))
}

func TestGetUnknownLocaleFallsBack(t *testing.T) {
	got := Get("xx-YY", "table-joined", Args{"player": "Bob"})
	assert.Equal(t, "Bob has joined the table.", got)
}

func TestGetNumericArgs(t *testing.T) {
	got := Get("en", "table-players-many", Args{"count": 3, "players": "Alice, Bob, and Cara"})
	assert.Equal(t, "3 players at the table: Alice, Bob, and Cara.", got)
}

func TestFormatListAnd(t *testing.T) {
	assert.Equal(t, "", FormatListAnd("en", nil))
	assert.Equal(t, "Alice", FormatListAnd("en", []string{"Alice"}))
	assert.Equal(t, "Alice and Bob", FormatListAnd("en", []string{"Alice", "Bob"}))
	assert.Equal(t, "Alice, Bob, and Cara", FormatListAnd("en", []string{"Alice", "Bob", "Cara"}))
}

func TestFormatListOr(t *testing.T) {
	assert.Equal(t, "Alice or Bob", FormatListOr("en", []string{"Alice", "Bob"}))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "en", Resolve("en"))
	assert.Equal(t, "en", Resolve("definitely-not-a-locale"))
}

func TestAvailableLanguagesIncludesEnglish(t *testing.T) {
	languages := AvailableLanguages()
	assert.Equal(t, "English", languages["en"])
}
