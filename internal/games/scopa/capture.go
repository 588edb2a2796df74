package scopa

import "github.com/playpalace/playpalace/internal/cards"

// FindCaptures lists every legal capture for a played rank against the
// table. Standard rules: a single exact rank match is mandatory when
// one exists; otherwise any subset summing to the rank. Escoba instead
// captures subsets that sum with the played card to fifteen.
func FindCaptures(table []cards.Card, rank int, escoba bool) [][]cards.Card {
	if escoba {
		return subsetsSumming(table, 15-rank)
	}

	var singles [][]cards.Card
	for _, c := range table {
		if c.Rank == rank {
			singles = append(singles, []cards.Card{c})
		}
	}
	if len(singles) > 0 {
		return singles
	}
	return subsetsSumming(table, rank)
}

func subsetsSumming(table []cards.Card, target int) [][]cards.Card {
	if target <= 0 {
		return nil
	}
	var result [][]cards.Card
	var current []cards.Card

	var walk func(start, remaining int)
	walk = func(start, remaining int) {
		if remaining == 0 {
			capture := make([]cards.Card, len(current))
			copy(capture, current)
			result = append(result, capture)
			return
		}
		for i := start; i < len(table); i++ {
			if table[i].Rank > remaining {
				continue
			}
			current = append(current, table[i])
			walk(i+1, remaining-table[i].Rank)
			current = current[:len(current)-1]
		}
	}
	walk(0, target)
	return result
}

// SelectBestCapture prefers the capture with the most cards. Among
// captures of equal size it scores 10 per coin card and 50 more for the
// sette bello (so the sette bello alone weighs as much as six coins); on
// a full tie the earlier capture is kept.
func SelectBestCapture(captures [][]cards.Card) []cards.Card {
	var best []cards.Card
	bestScore := -1
	for _, capture := range captures {
		score := len(capture) * 100
		for _, c := range capture {
			if c.Suit == cards.Diamonds {
				score += 10
				if c.Rank == 7 {
					score += 50
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = capture
		}
	}
	return best
}
