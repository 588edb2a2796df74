package game

// ScheduledSound is a future-tick audio cue.
type ScheduledSound struct {
	TargetTick int    `json:"tick"`
	Name       string `json:"name"`
	Volume     int    `json:"volume"`
	Pan        int    `json:"pan"`
	Pitch      int    `json:"pitch"`
}

// ScheduleSound queues a sound delayTicks from now at default volume,
// pan, and pitch.
func (b *Base) ScheduleSound(name string, delayTicks int) {
	b.ScheduleSoundFull(name, delayTicks, 100, 0, 100)
}

// ScheduleSoundFull queues a sound with explicit mix parameters.
func (b *Base) ScheduleSoundFull(name string, delayTicks, volume, pan, pitch int) {
	b.ScheduledSounds = append(b.ScheduledSounds, ScheduledSound{
		TargetTick: b.SoundTick + delayTicks,
		Name:       name,
		Volume:     volume,
		Pan:        pan,
		Pitch:      pitch,
	})
}

// SoundStep is one entry of a sound sequence: a sound and the delay
// before the next one.
type SoundStep struct {
	Name       string
	DelayAfter int
}

// ScheduleSoundSequence chains sounds, each DelayAfter ticks apart,
// starting startDelay from now.
func (b *Base) ScheduleSoundSequence(steps []SoundStep, startDelay int) {
	tick := startDelay
	for _, step := range steps {
		b.ScheduleSound(step.Name, tick)
		tick += step.DelayAfter
	}
}

// ClearScheduledSounds drops everything still queued.
func (b *Base) ClearScheduledSounds() {
	b.ScheduledSounds = nil
}

// processScheduledSounds dispatches every sound due at or before the
// current tick, in insertion order, then advances the counter.
func (b *Base) processScheduledSounds() {
	if len(b.ScheduledSounds) > 0 {
		remaining := b.ScheduledSounds[:0]
		for _, s := range b.ScheduledSounds {
			if s.TargetTick <= b.SoundTick {
				b.BroadcastSoundFull(s.Name, s.Volume, s.Pan, s.Pitch)
			} else {
				remaining = append(remaining, s)
			}
		}
		b.ScheduledSounds = remaining
	}
	b.SoundTick++
}

// BroadcastSound plays a sound for everyone at the table, spectators
// included.
func (b *Base) BroadcastSound(name string) {
	b.BroadcastSoundFull(name, 100, 0, 100)
}

// BroadcastSoundFull plays a sound with explicit mix parameters.
func (b *Base) BroadcastSoundFull(name string, volume, pan, pitch int) {
	for _, p := range b.Players {
		if u := b.GetUser(p); u != nil {
			u.PlaySound(name, volume, pan, pitch)
		}
	}
}

// PlayMusic starts music for everyone and remembers it so the table can
// resume it on reconnection.
func (b *Base) PlayMusic(name string, looping bool) {
	b.CurrentMusic = name
	for _, p := range b.Players {
		if u := b.GetUser(p); u != nil {
			u.PlayMusic(name, looping)
		}
	}
}

// StopMusic stops music for everyone.
func (b *Base) StopMusic() {
	b.CurrentMusic = ""
	for _, p := range b.Players {
		if u := b.GetUser(p); u != nil {
			u.StopMusic()
		}
	}
}

// PlayAmbience starts a sticky ambience loop for everyone.
func (b *Base) PlayAmbience(loop, intro, outro string) {
	b.CurrentAmbience = loop
	for _, p := range b.Players {
		if u := b.GetUser(p); u != nil {
			u.PlayAmbience(loop, intro, outro)
		}
	}
}

// StopAmbience stops the ambience loop for everyone.
func (b *Base) StopAmbience() {
	b.CurrentAmbience = ""
	for _, p := range b.Players {
		if u := b.GetUser(p); u != nil {
			u.StopAmbience()
		}
	}
}
