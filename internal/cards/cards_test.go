package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardDeck(t *testing.T) {
	deck := StandardDeck()
	assert.Len(t, deck, 52)

	seen := map[string]bool{}
	for _, c := range deck {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestItalianDeck(t *testing.T) {
	deck := ItalianDeck()
	assert.Len(t, deck, 40)
	for _, c := range deck {
		assert.LessOrEqual(t, c.Rank, 10)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Ace of Spades", New(1, Spades).Name())
	assert.Equal(t, "Queen of Hearts", New(12, Hearts).Name())
	assert.Equal(t, "7 of Diamonds", New(7, Diamonds).Name())
}

func TestFindAndRemove(t *testing.T) {
	pile := []Card{New(1, Clubs), New(2, Clubs), New(3, Clubs)}
	idx := FindByID(pile, New(2, Clubs).ID)
	assert.Equal(t, 1, idx)

	pile, removed := Remove(pile, idx)
	assert.Equal(t, 2, removed.Rank)
	assert.Len(t, pile, 2)
	assert.Equal(t, -1, FindByID(pile, removed.ID))
}
