package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTurn(ids ...string) *TurnManager {
	t := &TurnManager{Direction: 1}
	t.SetPlayers(ids, true)
	return t
}

func TestAdvanceRoundTrip(t *testing.T) {
	turn := newTurn("a", "b", "c", "d")
	start := turn.CurrentID()
	for i := 0; i < 4; i++ {
		turn.Advance()
	}
	assert.Equal(t, start, turn.CurrentID())
}

func TestAdvanceReversedRoundTrip(t *testing.T) {
	turn := newTurn("a", "b", "c")
	turn.Reverse()
	start := turn.CurrentID()
	for i := 0; i < 3; i++ {
		turn.Advance()
	}
	assert.Equal(t, start, turn.CurrentID())
}

func TestAdvanceOrder(t *testing.T) {
	turn := newTurn("a", "b", "c")
	assert.Equal(t, "a", turn.CurrentID())
	turn.Advance()
	assert.Equal(t, "b", turn.CurrentID())
	turn.Advance()
	assert.Equal(t, "c", turn.CurrentID())
	turn.Advance()
	assert.Equal(t, "a", turn.CurrentID())
}

func TestReverseSteps(t *testing.T) {
	turn := newTurn("a", "b", "c")
	turn.Reverse()
	turn.Advance()
	assert.Equal(t, "c", turn.CurrentID())
	turn.Advance()
	assert.Equal(t, "b", turn.CurrentID())
}

func TestSkipSemantics(t *testing.T) {
	// skip_next_players(k) then one advance steps by k+1.
	turn := newTurn("a", "b", "c", "d", "e")
	turn.SkipNext(2)
	skipped := turn.Advance()
	assert.Equal(t, []string{"b", "c"}, skipped)
	assert.Equal(t, "d", turn.CurrentID())
	assert.Equal(t, 0, turn.SkipCount)
}

func TestSkipWrapsAround(t *testing.T) {
	turn := newTurn("a", "b")
	turn.SkipNext(1)
	turn.Advance()
	assert.Equal(t, "a", turn.CurrentID())
}

func TestRemovePlayerCompacts(t *testing.T) {
	turn := newTurn("a", "b", "c", "d")
	turn.Advance() // current: b
	turn.Advance() // current: c

	// Removing a seat before the current one keeps the same player
	// current.
	turn.RemovePlayer("a")
	assert.Equal(t, "c", turn.CurrentID())
	assert.Equal(t, []string{"b", "c", "d"}, turn.PlayerIDs)
}

func TestRemoveCurrentPlayer(t *testing.T) {
	turn := newTurn("a", "b", "c")
	turn.Advance() // current: b
	turn.RemovePlayer("b")
	assert.Contains(t, []string{"a", "c"}, turn.CurrentID())
	assert.Len(t, turn.PlayerIDs, 2)
}

func TestRemoveLastPlayer(t *testing.T) {
	turn := newTurn("a")
	turn.RemovePlayer("a")
	assert.Equal(t, "", turn.CurrentID())
}

func TestResetClearsState(t *testing.T) {
	turn := newTurn("a", "b", "c")
	turn.Reverse()
	turn.SkipNext(2)
	turn.Advance()
	turn.Reset()
	assert.Equal(t, "a", turn.CurrentID())
	assert.Equal(t, 1, turn.Direction)
	assert.Equal(t, 0, turn.SkipCount)
}

func TestZeroDirectionDefaultsForward(t *testing.T) {
	// A restored snapshot from before the direction field existed.
	turn := &TurnManager{PlayerIDs: []string{"a", "b"}}
	turn.Advance()
	assert.Equal(t, "b", turn.CurrentID())
}
