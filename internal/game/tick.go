package game

// OnTick is the fixed-rate driver, nominally 20 Hz. Standard duties run
// in order: scheduled sounds, the round timer, bot thinking, the
// game-specific hook, then estimator polling.
func (b *Base) OnTick() {
	if b.destroyed {
		return
	}

	b.processScheduledSounds()

	if b.RoundTimer.IsActive() && b.RoundTimer.Tick() {
		if hook, ok := b.self.(interface{ OnRoundTimerReady() }); ok {
			hook.OnRoundTimerReady()
		}
	}

	if b.Status == StatusPlaying {
		b.Ticks++
		b.runBots()
		if b.Status == StatusPlaying && !b.destroyed {
			b.self.GameTick()
		}
	}

	b.checkEstimateCompletion()
}

// runBots pumps every bot seat: a bot first sits out its think latency,
// then executes its pending action, then is asked to think again. The
// latency (15-50 ticks) keeps bot play at a human-feeling pace.
func (b *Base) runBots() {
	for _, p := range b.Players {
		if !p.IsBot || p.IsSpectator {
			continue
		}
		if b.Status != StatusPlaying || b.destroyed {
			return
		}
		if p.BotThinkTicks > 0 {
			p.BotThinkTicks--
			continue
		}
		if p.BotPendingAction != "" {
			actionID := p.BotPendingAction
			p.BotPendingAction = ""
			b.ExecuteAction(p, actionID, &Context{})
			continue
		}
		if actionID := b.self.BotThink(p); actionID != "" {
			p.BotPendingAction = actionID
			p.BotThinkTicks = 15 + b.randIntN(36)
		}
	}
}
