package server

import (
	"sort"
	"strings"

	"github.com/playpalace/playpalace/internal/game"
	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
	"github.com/playpalace/playpalace/internal/users"
)

// Main-menu menu ids.
const (
	menuMain         = "main_menu"
	menuGameSelect   = "game_select"
	menuActiveTables = "active_tables"
	menuTableMode    = "table_mode"
	menuLanguage     = "language_select"
)

const savedPrefix = "saved:"

func (s *Session) showMainMenu() {
	if s.user == nil {
		return
	}
	code := s.user.Locale()
	items := []protocol.MenuItem{
		protocol.Item(locale.Get(code, "main-menu-play", nil), "play"),
		protocol.Item(locale.Get(code, "main-menu-tables", nil), "tables"),
		protocol.Item(locale.Get(code, "main-menu-online", nil), "online"),
		protocol.Item(locale.Get(code, "main-menu-options", nil), "options"),
		protocol.Item(locale.Get(code, "main-menu-language", nil), "language"),
	}
	s.user.ShowMenu(menuMain, items, users.MenuOptions{Multiletter: true})
}

// handleMainMenu routes UI packets while the session is not at a table.
func (s *Session) handleMainMenu(pkt protocol.ClientPacket) {
	switch pkt.Type {
	case protocol.InEscape:
		s.showMainMenu()
		return
	case protocol.InMenu:
	default:
		return
	}

	switch pkt.MenuID {
	case menuMain:
		s.handleMainSelection(pkt.SelectionID)
	case menuGameSelect:
		s.handleGameSelection(pkt.SelectionID)
	case menuActiveTables:
		s.handleTableSelection(pkt.SelectionID)
	case menuTableMode:
		s.handleTableModeSelection(pkt.SelectionID)
	case menuLanguage:
		s.handleLanguageSelection(pkt.SelectionID)
	}
}

func (s *Session) handleMainSelection(id string) {
	code := s.user.Locale()
	switch id {
	case "play":
		var items []protocol.MenuItem
		for _, reg := range game.AllRegistrations() {
			items = append(items, protocol.Item(reg.Meta.Name, reg.Meta.Type))
		}
		items = append(items, protocol.Item(locale.Get(code, "go-back", nil), "go_back"))
		s.user.ShowMenu(menuGameSelect, items, users.MenuOptions{Multiletter: true})

	case "tables":
		s.showActiveTables()

	case "online":
		s.speakOnlineUsers()

	case "options":
		s.Send(protocol.OpenClientOptions{Type: "open_client_options"})

	case "language":
		var items []protocol.MenuItem
		languages := locale.AvailableLanguages()
		for _, c := range sortedKeys(languages) {
			items = append(items, protocol.Item(languages[c], c))
		}
		items = append(items, protocol.Item(locale.Get(code, "go-back", nil), "go_back"))
		s.user.ShowMenu(menuLanguage, items, users.MenuOptions{Multiletter: true})
	}
}

func (s *Session) handleGameSelection(id string) {
	if id == "" || id == "go_back" {
		s.showMainMenu()
		return
	}
	t, err := s.hub.tables.Create(id, s.username, s.user)
	if err != nil {
		s.speakCreateError(err)
		s.showMainMenu()
		return
	}
	s.setTable(t.TableID())
	s.hub.broadcastPacket(protocol.TableCreate{Type: "table_create", Host: s.username, Game: id})
}

func (s *Session) speakCreateError(err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "already seated"):
		s.user.SpeakL("table-already-seated", nil)
	case strings.Contains(msg, "cap"):
		s.user.SpeakL("table-cap-reached", nil)
	default:
		s.user.SpeakL("internal-error", nil)
	}
}

func (s *Session) showActiveTables() {
	code := s.user.Locale()
	var items []protocol.MenuItem
	for _, info := range s.hub.tables.ListActive() {
		label := locale.Get(code, "active-table-entry", locale.Args{
			"game":  info.GameName,
			"host":  info.Host,
			"count": info.Count,
		})
		items = append(items, protocol.Item(label, info.ID))
	}
	if s.hub.store != nil {
		if saved, err := s.hub.store.List(); err == nil {
			for _, info := range saved {
				label := locale.Get(code, "table-saved-entry", locale.Args{"game": info.GameType})
				items = append(items, protocol.Item(label, savedPrefix+info.ID))
			}
		}
	}
	if len(items) == 0 {
		s.user.SpeakL("no-active-tables", nil)
		s.showMainMenu()
		return
	}
	items = append(items, protocol.Item(locale.Get(code, "go-back", nil), "go_back"))
	s.user.ShowMenu(menuActiveTables, items, users.MenuOptions{Multiletter: true, Escape: protocol.EscapeSelectLast})
}

func (s *Session) handleTableSelection(id string) {
	switch {
	case id == "" || id == "go_back":
		s.showMainMenu()

	case strings.HasPrefix(id, savedPrefix):
		s.restoreSavedTable(strings.TrimPrefix(id, savedPrefix))

	default:
		s.mu.Lock()
		s.pendingTable = id
		s.mu.Unlock()
		code := s.user.Locale()
		items := []protocol.MenuItem{
			protocol.Item(locale.Get(code, "join-table", nil), "join"),
			protocol.Item(locale.Get(code, "spectate-table", nil), "spectate"),
			protocol.Item(locale.Get(code, "go-back", nil), "go_back"),
		}
		s.user.ShowMenu(menuTableMode, items, users.MenuOptions{Escape: protocol.EscapeSelectLast})
	}
}

func (s *Session) handleTableModeSelection(id string) {
	s.mu.Lock()
	tableID := s.pendingTable
	s.pendingTable = ""
	s.mu.Unlock()

	if id != "join" && id != "spectate" || tableID == "" {
		s.showActiveTables()
		return
	}
	err := s.hub.tables.Join(tableID, s.username, s.user, id == "spectate")
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "not found"):
			s.user.SpeakL("table-not-found", nil)
		case strings.Contains(err.Error(), "already seated"):
			s.user.SpeakL("table-already-seated", nil)
		default:
			s.user.SpeakL("table-full", nil)
		}
		s.showMainMenu()
		return
	}
	s.setTable(tableID)
}

// restoreSavedTable rehydrates a snapshot into a live table and seats
// the requesting user back into their saved seat. Adopt claims the
// one-table-per-user slot for every restored human seat; Join then
// takes the requester's seat over by name (or adds them fresh when the
// save predates their account).
func (s *Session) restoreSavedTable(id string) {
	if s.hub.store == nil {
		s.showMainMenu()
		return
	}
	g, err := s.hub.store.Load(id)
	if err != nil {
		s.log.WithError(err).Error("restoring saved table failed")
		s.user.SpeakL("restore-failed", nil)
		s.showMainMenu()
		return
	}
	t, err := s.hub.tables.Adopt(g)
	if err != nil {
		s.user.SpeakL("table-cap-reached", nil)
		s.showMainMenu()
		return
	}
	_ = s.hub.store.Delete(id)

	if err := s.hub.tables.Join(t.TableID(), s.username, s.user, false); err != nil {
		s.log.WithError(err).Warn("could not seat user at restored table")
		s.user.SpeakL("restore-failed", nil)
		s.showMainMenu()
		return
	}
	s.setTable(t.TableID())
}

func (s *Session) speakOnlineUsers() {
	var names []string
	for _, other := range s.hub.authedSessions() {
		names = append(names, other.username)
	}
	code := s.user.Locale()
	key := "online-users-many"
	if len(names) == 1 {
		key = "online-users-one"
	}
	s.user.SpeakL(key, locale.Args{
		"count": len(names),
		"users": locale.FormatListAnd(code, names),
	})
}

func (s *Session) handleLanguageSelection(id string) {
	if id != "" && id != "go_back" {
		s.user.SetLocale(id)
	}
	s.showMainMenu()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
