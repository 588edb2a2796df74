package milebymile

import "github.com/playpalace/playpalace/internal/game"

// botThink picks the bot's play in priority order: fix what blocks the
// team, drive as far as possible, play a hazard on the next opposing team
// that can take it, bank a safety, and only then discard the least useful
// card.
func botThink(g *MileByMile, p *game.Player) string {
	if !g.IsCurrent(p) {
		return ""
	}
	hand := g.Hands[p.ID]
	if len(hand) == 0 {
		return ""
	}
	state := g.teamState(p)
	if state == nil {
		return ""
	}

	// A remedy that unblocks us right now.
	for _, c := range hand {
		if c.Kind != KindRemedy {
			continue
		}
		if g.playableReason(p, c) == "" && (state.CurrentHazard != "" || !state.Rolling ||
			(c.Name == RemedyEndOfLimit && state.SpeedLimit)) {
			return "play_card_" + c.ID
		}
	}

	// The longest distance that fits.
	bestID, bestValue := "", 0
	for _, c := range hand {
		if c.Kind == KindDistance && g.playableReason(p, c) == "" && c.Value > bestValue {
			bestID, bestValue = c.ID, c.Value
		}
	}
	if bestID != "" {
		return "play_card_" + bestID
	}

	// Hit an opposing team.
	for _, c := range hand {
		if c.Kind == KindHazard && g.playableReason(p, c) == "" {
			return "play_card_" + c.ID
		}
	}

	// Bank a safety.
	for _, c := range hand {
		if c.Kind == KindSafety {
			return "play_card_" + c.ID
		}
	}

	// Discard the smallest distance card, or failing that anything.
	discardID, discardValue := "", 1<<30
	for _, c := range hand {
		value := c.Value
		if c.Kind != KindDistance {
			value = 0
		}
		if value < discardValue {
			discardID, discardValue = c.ID, value
		}
	}
	return "discard_" + discardID
}
