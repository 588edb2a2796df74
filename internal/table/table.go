// Package table hosts live game sessions. Each table runs its game on a
// single goroutine: the tick loop plus inbound work items dispatched to
// it, so no two handlers ever touch the same game concurrently.
package table

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/users"
)

const opBacklog = 64

// Table owns exactly one game and the goroutine that drives it.
type Table struct {
	id       string
	gameType string
	game     game.Game
	mgr      *Manager

	ops      chan func()
	quit     chan struct{}
	quitOnce sync.Once

	// info is a listing snapshot refreshed on the table goroutine, so
	// ListActive never reads live game state across goroutines.
	info atomic.Pointer[Info]

	log *logrus.Entry
}

func newTable(id string, g game.Game, mgr *Manager) *Table {
	t := &Table{
		id:       id,
		gameType: g.Meta().Type,
		game:     g,
		mgr:      mgr,
		ops:      make(chan func(), opBacklog),
		quit:     make(chan struct{}),
		log:      logrus.WithFields(logrus.Fields{"table": id, "game": g.Meta().Type}),
	}
	g.Core().SetTable(t)
	t.updateInfo()
	return t
}

func (t *Table) updateInfo() {
	base := t.game.Core()
	names := make([]string, 0, len(base.Players))
	for _, p := range base.Players {
		names = append(names, p.Name)
	}
	t.info.Store(&Info{
		ID:          t.id,
		GameType:    t.gameType,
		GameName:    t.game.Meta().Name,
		Host:        base.Host,
		MemberNames: names,
		Count:       len(names),
	})
}

// TableID implements game.TableRef.
func (t *Table) TableID() string { return t.id }

// Game returns the hosted game. Callers outside the table goroutine
// must only touch it through Do.
func (t *Table) Game() game.Game { return t.game }

// Do enqueues a work item on the table's goroutine. Items run FIFO
// between ticks. Returns false when the table is shut down.
func (t *Table) Do(f func()) bool {
	select {
	case <-t.quit:
		return false
	default:
	}
	select {
	case t.ops <- f:
		return true
	case <-t.quit:
		return false
	}
}

// run is the table's single goroutine: fixed-rate ticks interleaved
// with queued work items, flushing each user's outbound queue after
// every step.
func (t *Table) run(tickInterval time.Duration) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.quit:
			t.flushUsers()
			return
		case f := <-t.ops:
			f()
			t.flushUsers()
			t.updateInfo()
		case <-ticker.C:
			t.game.Core().OnTick()
			t.flushUsers()
			t.updateInfo()
		}
	}
}

func (t *Table) flushUsers() {
	for _, u := range t.game.Core().Users() {
		if nu, ok := u.(*users.NetworkUser); ok {
			nu.Flush()
		}
	}
}

// Destroy implements game.TableRef: flush end-of-game packets, eject
// everyone, drop the table from the directory, and stop the loop.
func (t *Table) Destroy() {
	t.quitOnce.Do(func() {
		seated := t.game.Core().Users()
		for _, u := range seated {
			u.SpeakL("table-destroyed", nil)
			u.ClearUI()
			if nu, ok := u.(*users.NetworkUser); ok {
				nu.Flush()
			}
		}
		t.log.Info("table destroyed")
		t.mgr.remove(t, seated)
		close(t.quit)
	})
}

// SaveAndClose implements game.TableRef: snapshot the game to the saved
// tables store, then close the table.
func (t *Table) SaveAndClose(hostName string) {
	if err := t.mgr.save(t); err != nil {
		t.log.WithError(err).Error("save table failed")
		for _, u := range t.game.Core().Users() {
			u.SpeakL("internal-error", nil)
		}
		return
	}
	t.game.Core().BroadcastL("table-saved", locale.Args{"host": hostName})
	t.Destroy()
}
