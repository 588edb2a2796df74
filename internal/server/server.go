// Package server is the hub: per-connection sessions, the authorize
// handshake, packet routing between clients and tables, main-menu
// flows, and chat fan-out.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/playpalace/playpalace/internal/auth"
	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/persist"
	"github.com/playpalace/playpalace/internal/protocol"
	"github.com/playpalace/playpalace/internal/table"
	"github.com/playpalace/playpalace/internal/users"
)

// Config tunes the hub.
type Config struct {
	// AuthTimeout bounds the authorize handshake.
	AuthTimeout time.Duration
	// IdleTimeout disconnects silent connections; ping resets it.
	IdleTimeout time.Duration
	// RequiredMajor is the protocol major version clients must speak.
	RequiredMajor int
}

// DefaultConfig returns the hub defaults.
func DefaultConfig() Config {
	return Config{
		AuthTimeout:   30 * time.Second,
		IdleTimeout:   10 * time.Minute,
		RequiredMajor: 1,
	}
}

// PreferenceSaver persists preference changes; the auth file store
// implements it.
type PreferenceSaver interface {
	SavePreferences(username string, prefs *users.Preferences) error
}

// Hub owns every session and the routing between connections, the main
// menu, and tables.
type Hub struct {
	cfg           Config
	authenticator auth.Authenticator
	prefsSaver    PreferenceSaver
	tables        *table.Manager
	store         *persist.Store

	mu         sync.Mutex
	sessions   map[*Session]struct{}
	byUsername map[string]*Session
	// userHandles keeps NetworkUsers across a reconnect grace so a
	// returning player resumes their UI and table seat.
	userHandles map[string]*users.NetworkUser
	userIDs     map[string]string // username -> stable id

	log *logrus.Entry
}

// New wires a hub to its collaborators. The persist store may be nil to
// disable save/restore.
func New(cfg Config, authenticator auth.Authenticator, tables *table.Manager, store *persist.Store, prefsSaver PreferenceSaver) *Hub {
	h := &Hub{
		cfg:           cfg,
		authenticator: authenticator,
		prefsSaver:    prefsSaver,
		tables:        tables,
		store:         store,
		sessions:      map[*Session]struct{}{},
		byUsername:    map[string]*Session{},
		userHandles:   map[string]*users.NetworkUser{},
		userIDs:       map[string]string{},
		log:           logrus.WithField("component", "hub"),
	}

	tables.OnDestroyed = h.onTableDestroyed
	tables.OnResult = h.onGameResult
	tables.Saver = func(t *table.Table, snapshot []byte) error {
		if h.store == nil {
			return errNoStore
		}
		return h.store.Save(t.TableID(), t.Game(), snapshot)
	}
	return h
}

var errNoStore = errors.New("saved tables are not configured")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS upgrades a connection and runs its session pumps.
func (h *Hub) HandleWS() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.WithError(err).Warn("websocket upgrade failed")
			return
		}
		s := newSession(h, conn)

		h.mu.Lock()
		h.sessions[s] = struct{}{}
		h.mu.Unlock()

		go s.writePump()
		s.readPump()
	}
}

// stableUserID returns the process-wide id for a username, minting one
// on first login so reconnects keep identity.
func (h *Hub) stableUserID(username string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if id, ok := h.userIDs[username]; ok {
		return id
	}
	id := users.NewID()
	h.userIDs[username] = id
	return id
}

func (h *Hub) dropSession(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s)
	if h.byUsername[s.username] == s {
		delete(h.byUsername, s.username)
	}
	h.mu.Unlock()
}

// authedSessions snapshots the logged-in sessions for fan-out.
func (h *Hub) authedSessions() []*Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		if s.authed() {
			list = append(list, s)
		}
	}
	return list
}

// onTableDestroyed returns every ejected user to the main menu.
func (h *Hub) onTableDestroyed(tableID string, _ []users.User) {
	for _, s := range h.authedSessions() {
		if s.currentTable() == tableID {
			s.setTable("")
			s.showMainMenu()
			if s.user != nil {
				s.user.Flush()
			}
		}
	}
}

// onGameResult emits the structured game-result record. Leaderboard
// persistence beyond this record is out of scope.
func (h *Hub) onGameResult(result game.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		h.log.WithError(err).Error("encode game result")
		return
	}
	h.log.WithField("result", string(data)).Info("game finished")
}

// broadcastPacket sends a packet to every logged-in session.
func (h *Hub) broadcastPacket(pkt any) {
	for _, s := range h.authedSessions() {
		s.Send(pkt)
	}
}

// gameListPacket builds the discovery listing from the registry.
func gameListPacket() protocol.GameList {
	regs := game.AllRegistrations()
	entries := make([]protocol.GameListEntry, 0, len(regs))
	for _, reg := range regs {
		entries = append(entries, protocol.GameListEntry{
			Type:       reg.Meta.Type,
			Name:       reg.Meta.Name,
			Category:   reg.Meta.Category,
			MinPlayers: reg.Meta.MinPlayers,
			MaxPlayers: reg.Meta.MaxPlayers,
		})
	}
	return protocol.GameList{Type: "game_list", Games: entries}
}
