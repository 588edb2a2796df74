package table

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/users"
)

// Info is one row of the active-tables listing.
type Info struct {
	ID          string
	GameType    string
	GameName    string
	Host        string
	MemberNames []string
	Count       int
}

// Manager is the directory of live tables. A single lock guards the
// directory; everything game-side happens on the tables' own
// goroutines.
type Manager struct {
	mu     sync.Mutex
	tables map[string]*Table
	byUser map[string]string // user id -> table id

	tickInterval time.Duration
	tableCap     int // 0 = unlimited

	// Saver persists a snapshot for save-and-close. Set by the server
	// wiring; nil disables saving.
	Saver func(t *Table, snapshot []byte) error

	// OnDestroyed tells the hub to return the listed users to the main
	// menu after a table is gone.
	OnDestroyed func(tableID string, seated []users.User)

	// OnResult receives the structured record of every finished game.
	OnResult func(game.Result)
}

// NewManager creates an empty directory.
func NewManager(tickInterval time.Duration, tableCap int) *Manager {
	if tickInterval <= 0 {
		tickInterval = time.Second / game.TicksPerSecond
	}
	return &Manager{
		tables:       map[string]*Table{},
		byUser:       map[string]string{},
		tickInterval: tickInterval,
		tableCap:     tableCap,
	}
}

// Create opens a table of the given game type with the host seated and
// starts its run loop.
func (m *Manager) Create(gameType, hostName string, host users.User) (*Table, error) {
	reg, ok := game.Lookup(gameType)
	if !ok {
		return nil, errors.Errorf("unknown game type %q", gameType)
	}

	m.mu.Lock()
	if m.tableCap > 0 && len(m.tables) >= m.tableCap {
		m.mu.Unlock()
		return nil, errors.New("table cap reached")
	}
	if _, seated := m.byUser[host.ID()]; seated {
		m.mu.Unlock()
		return nil, errors.New("already seated at a table")
	}
	id := uuid.NewString()
	t := newTable(id, reg.New(), m)
	m.tables[id] = t
	m.byUser[host.ID()] = id
	m.mu.Unlock()

	m.wireGame(t)
	t.Do(func() {
		t.game.Core().InitializeLobby(hostName, host)
	})
	go t.run(m.tickInterval)

	logrus.WithFields(logrus.Fields{"table": id, "game": gameType, "host": hostName}).Info("table created")
	return t, nil
}

// Adopt registers an already-restored game as a live table, used when a
// saved table is reopened. Every human seat of the restored game claims
// its one-table-per-user slot, exactly as Create does for the host, so
// seated players cannot open a second table and TableOf finds them on
// reconnect. The caller re-binds live users afterwards via Join.
func (m *Manager) Adopt(g game.Game) (*Table, error) {
	m.mu.Lock()
	if m.tableCap > 0 && len(m.tables) >= m.tableCap {
		m.mu.Unlock()
		return nil, errors.New("table cap reached")
	}
	id := uuid.NewString()
	t := newTable(id, g, m)
	m.tables[id] = t
	for _, p := range g.Core().Players {
		if !p.IsBot {
			m.byUser[p.ID] = id
		}
	}
	m.mu.Unlock()

	m.wireGame(t)
	go t.run(m.tickInterval)
	return t, nil
}

func (m *Manager) wireGame(t *Table) {
	base := t.game.Core()
	base.SetPlayerLeftSink(func(playerID, userID string) {
		m.mu.Lock()
		if m.byUser[playerID] == t.id {
			delete(m.byUser, playerID)
		}
		if userID != "" && m.byUser[userID] == t.id {
			delete(m.byUser, userID)
		}
		m.mu.Unlock()
	})
	base.SetResultSink(func(result game.Result) {
		if m.OnResult != nil {
			m.OnResult(result)
		}
	})
}

// Join seats a user at a table, or adds them to the spectator set.
// Enforces one-table-per-user and the player cap; mid-game joins are
// spectator-only. A seat already carrying the user's name — a
// disconnected player of a restored table, or the bot that substituted
// for them mid-game — is taken over rather than duplicated.
func (m *Manager) Join(tableID string, name string, u users.User, asSpectator bool) error {
	m.mu.Lock()
	t, ok := m.tables[tableID]
	if !ok {
		m.mu.Unlock()
		return errors.New("table not found")
	}
	if claimed, seated := m.byUser[u.ID()]; seated && claimed != tableID {
		m.mu.Unlock()
		return errors.New("already seated at a table")
	}
	m.byUser[u.ID()] = tableID
	m.mu.Unlock()

	result := make(chan error, 1)
	queued := t.Do(func() {
		base := t.game.Core()

		if existing := base.GetPlayerByName(name); existing != nil {
			if !existing.IsBot && base.GetUser(existing) != nil {
				result <- errors.New("name already seated at that table")
				return
			}
			// Take the seat back: same id, so turn order and every
			// per-game attachment keyed by it survive.
			existing.IsBot = false
			existing.BotPendingAction = ""
			existing.BotThinkTicks = 0
			base.AttachUser(existing.ID, u)
			base.BroadcastL("table-joined", locale.Args{"player": name})
			base.BroadcastSound("join.ogg")
			m.resumeAudio(base, u)
			base.RebuildPlayerMenu(existing)
			result <- nil
			return
		}

		if !asSpectator {
			if base.Status != game.StatusWaiting || len(base.Players) >= t.game.Meta().MaxPlayers {
				asSpectator = true
			}
		}
		p := base.AddPlayer(name, u)
		p.IsSpectator = asSpectator
		base.BroadcastL("table-joined", locale.Args{"player": name})
		base.BroadcastSound("join.ogg")
		m.resumeAudio(base, u)
		base.RebuildAllMenus()
		result <- nil
	})
	if !queued {
		m.releaseSeat(u.ID(), tableID)
		return errors.New("table not found")
	}

	var err error
	select {
	case err = <-result:
	case <-t.quit:
		err = errors.New("table not found")
	}
	if err != nil {
		m.releaseSeat(u.ID(), tableID)
	}
	return err
}

func (m *Manager) resumeAudio(base *game.Base, u users.User) {
	if base.CurrentMusic != "" {
		u.PlayMusic(base.CurrentMusic, true)
	}
	if base.CurrentAmbience != "" {
		u.PlayAmbience(base.CurrentAmbience, "", "")
	}
}

func (m *Manager) releaseSeat(userID, tableID string) {
	m.mu.Lock()
	if m.byUser[userID] == tableID {
		delete(m.byUser, userID)
	}
	m.mu.Unlock()
}

// Get returns a live table by id.
func (m *Manager) Get(id string) (*Table, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	return t, ok
}

// TableOf returns the table a user is seated at.
func (m *Manager) TableOf(userID string) (*Table, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byUser[userID]
	if !ok {
		return nil, false
	}
	t, ok := m.tables[id]
	return t, ok
}

// ListActive snapshots the directory for the active-tables menu.
func (m *Manager) ListActive() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]Info, 0, len(m.tables))
	for _, t := range m.tables {
		if info := t.info.Load(); info != nil {
			list = append(list, *info)
		}
	}
	return list
}

// Count returns the number of live tables.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables)
}

// DestroyAll shuts every table down, for server shutdown.
func (m *Manager) DestroyAll() {
	m.mu.Lock()
	tables := make([]*Table, 0, len(m.tables))
	for _, t := range m.tables {
		tables = append(tables, t)
	}
	m.mu.Unlock()
	for _, t := range tables {
		t.Do(func() { t.game.Core().Destroy() })
	}
}

func (m *Manager) save(t *Table) error {
	if m.Saver == nil {
		return errors.New("saving is not configured")
	}
	snapshot, err := game.Snapshot(t.game)
	if err != nil {
		return err
	}
	return m.Saver(t, snapshot)
}

// remove drops a destroyed table from the directory and releases every
// seat claim, then notifies the hub.
func (m *Manager) remove(t *Table, seated []users.User) {
	m.mu.Lock()
	delete(m.tables, t.id)
	for userID, tableID := range m.byUser {
		if tableID == t.id {
			delete(m.byUser, userID)
		}
	}
	m.mu.Unlock()

	if m.OnDestroyed != nil {
		m.OnDestroyed(t.id, seated)
	}
}
