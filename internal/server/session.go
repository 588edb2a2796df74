package server

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/playpalace/playpalace/internal/auth"
	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
	"github.com/playpalace/playpalace/internal/users"
)

const sendBacklog = 64

// Session is one connection's state: created on connect, destroyed on
// disconnect. It references its current table weakly by id and owns
// nothing game-side.
type Session struct {
	hub  *Hub
	conn *websocket.Conn

	send      chan any
	quit      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	user     *users.NetworkUser
	username string
	isAuthed atomic.Bool

	mu           sync.Mutex
	tableID      string
	pendingTable string // table chosen in the active-tables menu

	lastActive time.Time

	log *logrus.Entry
}

func newSession(h *Hub, conn *websocket.Conn) *Session {
	return &Session{
		hub:        h,
		conn:       conn,
		send:       make(chan any, sendBacklog),
		quit:       make(chan struct{}),
		lastActive: time.Now(),
		log:        logrus.WithField("remote", conn.RemoteAddr().String()),
	}
}

func (s *Session) authed() bool { return s.isAuthed.Load() }

func (s *Session) currentTable() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tableID
}

func (s *Session) setTable(id string) {
	s.mu.Lock()
	s.tableID = id
	s.mu.Unlock()
}

// Send implements users.Sink. A full queue means the client has stopped
// reading; the session is torn down rather than blocking a table.
func (s *Session) Send(pkt any) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.send <- pkt:
		return true
	default:
		s.log.Warn("send queue overflow, dropping connection")
		go s.close()
		return false
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.quit)
		_ = s.conn.Close()
		if s.user != nil {
			// Keep the seat; the handle resumes the UI on reconnect.
			s.user.Detach()
		}
		s.hub.dropSession(s)
		s.log.Debug("session closed")
	})
}

func (s *Session) writePump() {
	defer s.close()
	for {
		select {
		case pkt := <-s.send:
			if err := s.conn.WriteJSON(pkt); err != nil {
				return
			}
		case <-s.quit:
			return
		}
	}
}

func (s *Session) readPump() {
	defer s.close()

	_ = s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.AuthTimeout))

	for {
		var pkt protocol.ClientPacket
		if err := s.conn.ReadJSON(&pkt); err != nil {
			return
		}
		s.lastActive = time.Now()
		if s.authed() {
			_ = s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.IdleTimeout))
		}
		s.handlePacket(pkt)
		if s.user != nil {
			s.user.Flush()
		}
	}
}

func (s *Session) handlePacket(pkt protocol.ClientPacket) {
	if !s.authed() {
		if pkt.Type == protocol.InAuthorize {
			s.handleAuthorize(pkt)
		}
		return
	}

	switch pkt.Type {
	case protocol.InPing:
		s.Send(protocol.Pong{Type: "pong"})

	case protocol.InChat:
		s.hub.fanoutChat(s, pkt)

	case protocol.InClientOptions:
		s.user.Preferences().ApplyClientOptions(pkt.Options)
		if s.hub.prefsSaver != nil {
			if err := s.hub.prefsSaver.SavePreferences(s.username, s.user.Preferences()); err != nil {
				s.log.WithError(err).Warn("saving preferences failed")
			}
		}

	case protocol.InMenu, protocol.InKeybind, protocol.InEditbox, protocol.InEscape:
		if tableID := s.currentTable(); tableID != "" {
			s.routeToTable(tableID, pkt)
			return
		}
		s.handleMainMenu(pkt)

	default:
		s.log.WithField("type", pkt.Type).Debug("dropping malformed packet")
	}
}

// routeToTable dispatches a UI packet onto the owning table's goroutine.
func (s *Session) routeToTable(tableID string, pkt protocol.ClientPacket) {
	t, ok := s.hub.tables.Get(tableID)
	if !ok {
		s.setTable("")
		s.showMainMenu()
		return
	}
	username := s.username
	t.Do(func() {
		base := t.Game().Core()
		p := base.GetPlayerByName(username)
		if p == nil {
			return
		}
		switch pkt.Type {
		case protocol.InMenu:
			base.HandleMenuSelect(p, pkt.MenuID, pkt.Selection, pkt.SelectionID)
		case protocol.InKeybind:
			base.HandleKeybind(p, pkt)
		case protocol.InEditbox:
			base.HandleEditbox(p, pkt.InputID, pkt.Text)
		case protocol.InEscape:
			base.HandleEscape(p, pkt.MenuID)
		}
	})
}

// handleAuthorize runs the handshake: version gate, credential check,
// reconnection takeover, then the welcome flow.
func (s *Session) handleAuthorize(pkt protocol.ClientPacket) {
	if pkt.Major != s.hub.cfg.RequiredMajor {
		s.Send(protocol.Disconnect{
			Type: "disconnect",
			Reason: locale.Get("en", "auth-version-mismatch", locale.Args{
				"client": fmt.Sprintf("%d.%d.%d", pkt.Major, pkt.Minor, pkt.Patch),
				"server": protocol.Version,
			}),
		})
		go s.close()
		return
	}

	account, err := s.hub.authenticator.Authenticate(pkt.Username, pkt.Password)
	if err != nil {
		reason := "auth-bad-credentials"
		if err == auth.ErrNotApproved {
			reason = "auth-not-approved"
		}
		s.Send(protocol.Disconnect{Type: "disconnect", Reason: locale.Get("en", reason, nil)})
		go s.close()
		return
	}

	userID := s.hub.stableUserID(account.Username)

	s.hub.mu.Lock()
	// A new login bumps any lingering session for the same account.
	if old := s.hub.byUsername[account.Username]; old != nil && old != s {
		go old.close()
	}
	s.hub.byUsername[account.Username] = s
	handle := s.hub.userHandles[userID]
	s.hub.mu.Unlock()

	s.username = account.Username
	if handle != nil {
		// Reconnect: reuse the handle so tracked menus and music resume.
		handle.SetLocale(account.Locale)
		s.user = handle
		handle.Rebind(s)
	} else {
		s.user = users.NewNetworkUser(userID, account.Username, account.Locale, account.TrustLevel, account.Preferences, s)
		s.hub.mu.Lock()
		s.hub.userHandles[userID] = s.user
		s.hub.mu.Unlock()
	}
	s.isAuthed.Store(true)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.IdleTimeout))

	s.Send(protocol.AuthorizeSuccess{Type: "authorize_success", Version: protocol.Version})
	s.Send(gameListPacket())
	s.Send(updateOptionsListsPacket())

	// Back to the seat if a table still holds one for this user.
	if t, ok := s.hub.tables.TableOf(userID); ok {
		s.setTable(t.TableID())
		s.user.SpeakL("welcome", locale.Args{"player": account.Username})
		username := s.username
		u := s.user
		t.Do(func() {
			base := t.Game().Core()
			if p := base.GetPlayerByName(username); p != nil {
				base.AttachUser(p.ID, u)
				base.RebuildPlayerMenu(p)
			}
		})
		return
	}

	s.user.SpeakL("welcome", locale.Args{"player": account.Username})
	s.showMainMenu()
	s.log.WithField("user", account.Username).Info("authorized")
}

func updateOptionsListsPacket() protocol.UpdateOptionsLists {
	regs := game.AllRegistrations()
	games := make([]string, 0, len(regs))
	for _, reg := range regs {
		games = append(games, reg.Meta.Name)
	}
	return protocol.UpdateOptionsLists{
		Type:      "update_options_lists",
		Games:     games,
		Languages: locale.AvailableLanguages(),
	}
}
