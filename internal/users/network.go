package users

import (
	"sync"

	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/menudiff"
	"github.com/playpalace/playpalace/internal/protocol"
)

// Sink receives outbound packets for delivery. Send reports false when
// the connection is gone; the caller stops flushing until rebind.
type Sink interface {
	Send(pkt any) bool
}

type menuState struct {
	items    []protocol.MenuItem
	opts     MenuOptions
	selected int // 0-based last-known focus, -1 unknown
}

type editboxState struct {
	prompt       string
	defaultValue string
	multiline    bool
	readOnly     bool
}

// NetworkUser is the User implementation for a connected player. Packets
// queue during handler execution and drain to the session after the
// handler or tick completes; current UI state is tracked so menus and
// music resume after a reconnect.
type NetworkUser struct {
	mu sync.Mutex

	id         string
	name       string
	locale     string
	trustLevel int
	prefs      *Preferences

	sink  Sink
	queue []any

	menus      map[string]*menuState
	editboxes  map[string]editboxState
	music      *protocol.PlayMusic
	ambience   *protocol.PlayAmbience
}

// NewNetworkUser binds an authenticated identity to a delivery sink.
func NewNetworkUser(id, name, localeCode string, trustLevel int, prefs *Preferences, sink Sink) *NetworkUser {
	if prefs == nil {
		prefs = DefaultPreferences()
	}
	return &NetworkUser{
		id:         id,
		name:       name,
		locale:     localeCode,
		trustLevel: trustLevel,
		prefs:      prefs,
		sink:       sink,
		menus:      map[string]*menuState{},
		editboxes:  map[string]editboxState{},
	}
}

func (u *NetworkUser) ID() string                { return u.id }
func (u *NetworkUser) Name() string              { return u.name }
func (u *NetworkUser) TrustLevel() int           { return u.trustLevel }
func (u *NetworkUser) Preferences() *Preferences { return u.prefs }

func (u *NetworkUser) Locale() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.locale
}

// SetLocale changes the locale used for localized speech.
func (u *NetworkUser) SetLocale(code string) {
	u.mu.Lock()
	u.locale = code
	u.mu.Unlock()
}

func (u *NetworkUser) enqueue(pkt any) {
	u.mu.Lock()
	u.queue = append(u.queue, pkt)
	u.mu.Unlock()
}

// Flush drains queued packets into the sink. Returns false when the
// connection rejected a packet (session should be marked disconnected).
func (u *NetworkUser) Flush() bool {
	u.mu.Lock()
	pending := u.queue
	u.queue = nil
	sink := u.sink
	u.mu.Unlock()

	if sink == nil {
		return false
	}
	for _, pkt := range pending {
		if !sink.Send(pkt) {
			return false
		}
	}
	return true
}

// Detach drops the sink on connection loss. Queued packets are discarded;
// the tracked UI state is what a reconnecting client resumes from.
func (u *NetworkUser) Detach() {
	u.mu.Lock()
	u.sink = nil
	u.queue = nil
	u.mu.Unlock()
}

// Rebind points the user at a new session after reconnect and replays the
// tracked UI state: open menus, pending editboxes, and sticky audio.
func (u *NetworkUser) Rebind(sink Sink) {
	u.mu.Lock()
	u.sink = sink
	u.queue = nil
	menus := u.menus
	editboxes := u.editboxes
	music := u.music
	ambience := u.ambience
	u.mu.Unlock()

	if music != nil {
		u.enqueue(*music)
	}
	if ambience != nil {
		u.enqueue(*ambience)
	}
	for menuID, state := range menus {
		u.enqueue(u.menuPacket(menuID, state, nil, ""))
	}
	for inputID, state := range editboxes {
		u.enqueue(protocol.RequestInput{
			Type:         "request_input",
			InputID:      inputID,
			Prompt:       state.prompt,
			DefaultValue: state.defaultValue,
			Multiline:    state.multiline,
			ReadOnly:     state.readOnly,
		})
	}
	u.Flush()
}

func (u *NetworkUser) Speak(text, buffer string) {
	pkt := protocol.Speak{Type: "speak", Text: text}
	if buffer != "misc" && buffer != "" {
		pkt.Buffer = buffer
	}
	u.enqueue(pkt)
}

func (u *NetworkUser) SpeakL(id string, args locale.Args) {
	u.Speak(locale.Get(u.Locale(), id, args), "misc")
}

func (u *NetworkUser) PlaySound(name string, volume, pan, pitch int) {
	u.enqueue(protocol.PlaySound{Type: "play_sound", Name: name, Volume: volume, Pan: pan, Pitch: pitch})
}

func (u *NetworkUser) PlayMusic(name string, looping bool) {
	pkt := protocol.PlayMusic{Type: "play_music", Name: name, Looping: looping}
	u.mu.Lock()
	u.music = &pkt
	u.mu.Unlock()
	u.enqueue(pkt)
}

func (u *NetworkUser) StopMusic() {
	u.mu.Lock()
	u.music = nil
	u.mu.Unlock()
	u.enqueue(protocol.StopMusic{Type: "stop_music"})
}

func (u *NetworkUser) PlayAmbience(loop, intro, outro string) {
	pkt := protocol.PlayAmbience{Type: "play_ambience", Intro: intro, Loop: loop, Outro: outro}
	u.mu.Lock()
	u.ambience = &pkt
	u.mu.Unlock()
	u.enqueue(pkt)
}

func (u *NetworkUser) StopAmbience() {
	u.mu.Lock()
	u.ambience = nil
	u.mu.Unlock()
	u.enqueue(protocol.StopAmbience{Type: "stop_ambience"})
}

func (u *NetworkUser) menuPacket(menuID string, state *menuState, position *int, selectionID string) protocol.Menu {
	pkt := protocol.Menu{
		Type:               "menu",
		MenuID:             menuID,
		Items:              state.items,
		MultiletterEnabled: state.opts.Multiletter,
		EscapeBehavior:     state.opts.Escape,
		GridEnabled:        state.opts.GridEnabled,
		GridWidth:          state.opts.GridWidth,
	}
	if pkt.EscapeBehavior == "" {
		pkt.EscapeBehavior = protocol.EscapeKeybind
	}
	pkt.Position = position
	pkt.SelectionID = selectionID
	return pkt
}

// ShowMenu replaces a menu wholesale. Showing a menu under a new id is
// always a clear-and-replace; no diffing applies.
func (u *NetworkUser) ShowMenu(menuID string, items []protocol.MenuItem, opts MenuOptions) {
	state := &menuState{items: items, opts: opts, selected: 0}
	var position *int
	if opts.Position > 0 {
		// 1-based internally, 0-based on the wire.
		p := opts.Position - 1
		position = &p
		state.selected = p
	}
	u.mu.Lock()
	u.menus[menuID] = state
	u.mu.Unlock()
	u.enqueue(u.menuPacket(menuID, state, position, ""))
}

// UpdateMenu rebuilds a menu's items while disturbing focus as little as
// possible. When nothing changed and no explicit position is requested,
// no packet is sent at all.
func (u *NetworkUser) UpdateMenu(menuID string, items []protocol.MenuItem, position int, selectionID string) {
	u.mu.Lock()
	state, ok := u.menus[menuID]
	u.mu.Unlock()
	if !ok {
		u.ShowMenu(menuID, items, MenuOptions{})
		return
	}

	ops := menudiff.Diff(state.items, items)
	if len(ops) == 0 && position == 0 && selectionID == "" {
		return
	}

	newSelected := state.selected
	if selectionID == "" && state.selected >= 0 && state.selected < len(state.items) {
		// Prefer following the previously focused item by id.
		if id := state.items[state.selected].ID; id != "" {
			if idx := menudiff.SelectionByID(items, id); idx >= 0 {
				newSelected = idx
			} else {
				newSelected = menudiff.AdjustSelection(state.selected, len(items), ops)
			}
		} else {
			newSelected = menudiff.AdjustSelection(state.selected, len(items), ops)
		}
	}

	var wirePos *int
	switch {
	case position > 0:
		p := position - 1
		wirePos = &p
		newSelected = p
	case selectionID != "":
		if idx := menudiff.SelectionByID(items, selectionID); idx >= 0 {
			newSelected = idx
		}
	case newSelected >= 0 && (len(ops) > 0 || newSelected != state.selected):
		p := newSelected
		wirePos = &p
	}

	u.mu.Lock()
	state.items = items
	state.selected = newSelected
	u.mu.Unlock()

	u.enqueue(u.menuPacket(menuID, state, wirePos, selectionID))
}

func (u *NetworkUser) RemoveMenu(menuID string) {
	u.mu.Lock()
	delete(u.menus, menuID)
	u.mu.Unlock()
	u.enqueue(protocol.Menu{Type: "menu", MenuID: menuID, Items: []protocol.MenuItem{}})
}

// SetMenuSelection records the client's reported focus for a menu so
// later updates can keep it stable. Index is 0-based.
func (u *NetworkUser) SetMenuSelection(menuID string, index int) {
	u.mu.Lock()
	if state, ok := u.menus[menuID]; ok && index >= 0 && index < len(state.items) {
		state.selected = index
	}
	u.mu.Unlock()
}

func (u *NetworkUser) ShowEditbox(inputID, prompt, defaultValue string, multiline, readOnly bool) {
	u.mu.Lock()
	u.editboxes[inputID] = editboxState{prompt: prompt, defaultValue: defaultValue, multiline: multiline, readOnly: readOnly}
	u.mu.Unlock()
	u.enqueue(protocol.RequestInput{
		Type:         "request_input",
		InputID:      inputID,
		Prompt:       prompt,
		DefaultValue: defaultValue,
		Multiline:    multiline,
		ReadOnly:     readOnly,
	})
}

func (u *NetworkUser) RemoveEditbox(inputID string) {
	u.mu.Lock()
	delete(u.editboxes, inputID)
	u.mu.Unlock()
}

func (u *NetworkUser) ClearUI() {
	u.mu.Lock()
	u.menus = map[string]*menuState{}
	u.editboxes = map[string]editboxState{}
	u.mu.Unlock()
	u.enqueue(protocol.ClearUI{Type: "clear_ui"})
}
