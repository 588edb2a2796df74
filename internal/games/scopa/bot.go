package scopa

import (
	"github.com/playpalace/playpalace/internal/cards"
	"github.com/playpalace/playpalace/internal/game"
)

// botThink evaluates each card in the bot's hand and plays the best.
func botThink(g *Scopa, p *game.Player) string {
	if !g.IsCurrent(p) {
		return ""
	}
	hand := g.Hands[p.ID]
	if len(hand) == 0 {
		return ""
	}

	bestID := ""
	bestScore := 0.0
	for i, c := range hand {
		score := evaluateCard(g, c)
		if i == 0 || score > bestScore {
			bestScore = score
			bestID = c.ID
		}
	}
	return "play_card_" + bestID
}

// evaluateCard scores a candidate play: captures are good (bad in
// inverse mode), sweeps and coin cards more so, and laying a card
// prefers to give away as little as possible.
func evaluateCard(g *Scopa, c cards.Card) float64 {
	inverse := g.Options.InverseScopa
	captures := FindCaptures(g.TableCards, c.Rank, g.Options.Escoba)

	var score float64
	if len(captures) == 0 {
		if inverse {
			score = 10 - float64(c.Rank)*0.5
		} else {
			score = -5 + float64(c.Rank)*0.5
		}
		return score
	}

	best := SelectBestCapture(captures)
	captured := len(best)
	if inverse {
		score = -float64(captured) * 10
	} else {
		score = float64(captured) * 10
	}

	if captured == len(g.TableCards) && len(g.TableCards) > 0 {
		if inverse {
			score -= 100
		} else {
			score += 100
		}
	}

	sign := 1.0
	if inverse {
		sign = -1
	}
	for _, taken := range best {
		if taken.Suit == cards.Diamonds {
			score += 5 * sign
			if taken.Rank == 7 {
				score += 20 * sign
			}
		}
		if taken.Rank == 7 {
			score += 3 * sign
		}
		if taken.Rank == 1 || taken.Rank == 6 {
			score += 2 * sign
		}
	}
	return score
}
