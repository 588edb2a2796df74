package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpalace/playpalace/internal/protocol"
)

// chanSink collects delivered packets.
type chanSink struct {
	packets []any
	dead    bool
}

func (s *chanSink) Send(pkt any) bool {
	if s.dead {
		return false
	}
	s.packets = append(s.packets, pkt)
	return true
}

func (s *chanSink) menus() []protocol.Menu {
	var menus []protocol.Menu
	for _, pkt := range s.packets {
		if m, ok := pkt.(protocol.Menu); ok {
			menus = append(menus, m)
		}
	}
	return menus
}

func newTestUser(sink Sink) *NetworkUser {
	return NewNetworkUser(NewID(), "Alice", "en", 1, nil, sink)
}

func TestQueueAndFlush(t *testing.T) {
	sink := &chanSink{}
	u := newTestUser(sink)

	u.Speak("hello", "misc")
	u.PlaySound("ding.ogg", 100, 0, 100)
	assert.Empty(t, sink.packets)

	require.True(t, u.Flush())
	require.Len(t, sink.packets, 2)
	assert.Equal(t, protocol.Speak{Type: "speak", Text: "hello"}, sink.packets[0])
}

func TestFlushOrderPreserved(t *testing.T) {
	sink := &chanSink{}
	u := newTestUser(sink)
	for i := 0; i < 10; i++ {
		u.Speak(string(rune('a'+i)), "misc")
	}
	u.Flush()
	for i, pkt := range sink.packets {
		assert.Equal(t, string(rune('a'+i)), pkt.(protocol.Speak).Text)
	}
}

func TestUpdateMenuSkipsNoopRebuild(t *testing.T) {
	sink := &chanSink{}
	u := newTestUser(sink)

	items := []protocol.MenuItem{protocol.Item("a", "1"), protocol.Item("b", "2")}
	u.ShowMenu("turn_menu", items, MenuOptions{})
	u.UpdateMenu("turn_menu", items, 0, "")
	u.Flush()

	assert.Len(t, sink.menus(), 1)
}

func TestUpdateMenuFocusFollowsID(t *testing.T) {
	// The menu refocus scenario: select id 2, remove it, focus lands on
	// id 3 rather than whatever slid into index 1.
	sink := &chanSink{}
	u := newTestUser(sink)

	u.ShowMenu("m", []protocol.MenuItem{
		protocol.Item("a", "1"), protocol.Item("b", "2"), protocol.Item("c", "3"),
	}, MenuOptions{})
	u.SetMenuSelection("m", 1) // focused on id 2

	u.UpdateMenu("m", []protocol.MenuItem{
		protocol.Item("a", "1"), protocol.Item("c", "3"),
	}, 0, "")
	u.Flush()

	menus := sink.menus()
	require.Len(t, menus, 2)
	update := menus[1]
	require.NotNil(t, update.Position)
	assert.Equal(t, 1, *update.Position)
	assert.Equal(t, "3", update.Items[*update.Position].ID)
}

func TestUpdateMenuExplicitSelectionIDWins(t *testing.T) {
	sink := &chanSink{}
	u := newTestUser(sink)

	u.ShowMenu("m", []protocol.MenuItem{protocol.Item("a", "1"), protocol.Item("b", "2")}, MenuOptions{})
	u.UpdateMenu("m", []protocol.MenuItem{protocol.Item("a", "1"), protocol.Item("b!", "2")}, 0, "2")
	u.Flush()

	menus := sink.menus()
	require.Len(t, menus, 2)
	assert.Equal(t, "2", menus[1].SelectionID)
}

func TestUpdateUnknownMenuShowsIt(t *testing.T) {
	sink := &chanSink{}
	u := newTestUser(sink)
	u.UpdateMenu("fresh", []protocol.MenuItem{protocol.Item("x", "1")}, 0, "")
	u.Flush()
	require.Len(t, sink.menus(), 1)
}

func TestRebindReplaysUIState(t *testing.T) {
	sink := &chanSink{}
	u := newTestUser(sink)

	u.PlayMusic("music/lounge.ogg", true)
	u.ShowMenu("turn_menu", []protocol.MenuItem{protocol.Item("roll", "roll")}, MenuOptions{})
	u.ShowEditbox("name", "Your name?", "", false, false)
	u.Flush()

	u.Detach()
	assert.False(t, u.Flush())

	fresh := &chanSink{}
	u.Rebind(fresh)

	var sawMusic, sawMenu, sawEditbox bool
	for _, pkt := range fresh.packets {
		switch pkt.(type) {
		case protocol.PlayMusic:
			sawMusic = true
		case protocol.Menu:
			sawMenu = true
		case protocol.RequestInput:
			sawEditbox = true
		}
	}
	assert.True(t, sawMusic)
	assert.True(t, sawMenu)
	assert.True(t, sawEditbox)
}

func TestDetachDiscardsQueue(t *testing.T) {
	sink := &chanSink{}
	u := newTestUser(sink)
	u.Speak("lost", "misc")
	u.Detach()

	fresh := &chanSink{}
	u.Rebind(fresh)
	for _, pkt := range fresh.packets {
		if s, ok := pkt.(protocol.Speak); ok {
			assert.NotEqual(t, "lost", s.Text)
		}
	}
}

func TestPreferencesLanguageFilter(t *testing.T) {
	prefs := DefaultPreferences()
	assert.True(t, prefs.HearsLanguage("en"))
	assert.False(t, prefs.HearsLanguage("fr"))

	prefs.ApplyClientOptions(map[string]any{
		"language_subscriptions": map[string]any{"fr": true},
		"mute_global_chat":       true,
		"chat_language":          "es",
	})
	assert.True(t, prefs.HearsLanguage("fr"))
	assert.True(t, prefs.HearsLanguage("es"), "own chat language always heard")
	assert.True(t, prefs.MuteGlobalChat)
}

func TestMenuItemMarshalShapes(t *testing.T) {
	plain := protocol.MenuItem{Text: "hello"}
	data, err := plain.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"hello"`, string(data))

	withID := protocol.Item("hello", "h1")
	data, err = withID.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello","id":"h1"}`, string(data))
}
