package game

// TurnManager tracks turn order over player ids. The index is always
// interpreted modulo the list length, and direction flips for reversal
// cards. All fields serialize with the game.
type TurnManager struct {
	PlayerIDs []string `json:"player_ids"`
	Index     int      `json:"index"`
	Direction int      `json:"direction"`
	SkipCount int      `json:"skip_count"`
}

func (t *TurnManager) direction() int {
	if t.Direction == 0 {
		return 1
	}
	return t.Direction
}

func (t *TurnManager) step() {
	n := len(t.PlayerIDs)
	if n == 0 {
		return
	}
	t.Index = ((t.Index+t.direction())%n + n) % n
}

// CurrentID returns the id whose turn it is, or "" with no players.
func (t *TurnManager) CurrentID() string {
	n := len(t.PlayerIDs)
	if n == 0 {
		return ""
	}
	return t.PlayerIDs[((t.Index%n)+n)%n]
}

// SetPlayers replaces the turn order.
func (t *TurnManager) SetPlayers(ids []string, resetIndex bool) {
	t.PlayerIDs = append([]string(nil), ids...)
	if resetIndex {
		t.Index = 0
	}
}

// SetCurrent moves the turn to the given id if present.
func (t *TurnManager) SetCurrent(id string) {
	for i, existing := range t.PlayerIDs {
		if existing == id {
			t.Index = i
			return
		}
	}
}

// Advance consumes pending skips, then steps once. It returns the ids
// that were skipped, in order, so the game can announce them.
func (t *TurnManager) Advance() []string {
	if len(t.PlayerIDs) == 0 {
		return nil
	}
	var skipped []string
	for t.SkipCount > 0 {
		t.SkipCount--
		t.step()
		skipped = append(skipped, t.CurrentID())
	}
	t.step()
	return skipped
}

// SkipNext queues count players to be skipped on the next advance.
func (t *TurnManager) SkipNext(count int) {
	t.SkipCount += count
}

// Reverse flips the direction of play. In 2-player games this is
// equivalent to a skip; games decide per their rules.
func (t *TurnManager) Reverse() {
	t.Direction = -t.direction()
}

// Reset returns to the first player, forward, with no pending skips.
func (t *TurnManager) Reset() {
	t.Index = 0
	t.Direction = 1
	t.SkipCount = 0
}

// RemovePlayer compacts the order. When the removed seat is before the
// current index the index rotates back so the same player keeps the
// turn.
func (t *TurnManager) RemovePlayer(id string) {
	for i, existing := range t.PlayerIDs {
		if existing != id {
			continue
		}
		t.PlayerIDs = append(t.PlayerIDs[:i], t.PlayerIDs[i+1:]...)
		if n := len(t.PlayerIDs); n > 0 {
			cur := ((t.Index % (n + 1)) + n + 1) % (n + 1)
			if i < cur {
				t.Index--
			}
			t.Index = ((t.Index % n) + n) % n
		} else {
			t.Index = 0
		}
		return
	}
}
