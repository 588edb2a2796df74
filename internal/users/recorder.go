package users

import (
	"strings"
	"sync"

	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
)

// Recorder is a User that captures everything a game sends, used by the
// simulation harness and tests.
type Recorder struct {
	mu sync.Mutex

	id     string
	name   string
	loc    string
	prefs  *Preferences

	Messages []string
	Sounds   []string
	Menus    map[string][]protocol.MenuItem
}

// NewRecorder creates a recording user with a fresh id.
func NewRecorder(name string) *Recorder {
	return &Recorder{
		id:    NewID(),
		name:  name,
		loc:   "en",
		prefs: DefaultPreferences(),
		Menus: map[string][]protocol.MenuItem{},
	}
}

func (r *Recorder) ID() string                { return r.id }
func (r *Recorder) Name() string              { return r.name }
func (r *Recorder) Locale() string            { return r.loc }
func (r *Recorder) TrustLevel() int           { return 1 }
func (r *Recorder) Preferences() *Preferences { return r.prefs }

func (r *Recorder) Speak(text, buffer string) {
	r.mu.Lock()
	r.Messages = append(r.Messages, text)
	r.mu.Unlock()
}

func (r *Recorder) SpeakL(id string, args locale.Args) {
	r.Speak(locale.Get(r.loc, id, args), "misc")
}

func (r *Recorder) PlaySound(name string, volume, pan, pitch int) {
	r.mu.Lock()
	r.Sounds = append(r.Sounds, name)
	r.mu.Unlock()
}

func (r *Recorder) PlayMusic(string, bool)      {}
func (r *Recorder) StopMusic()                  {}
func (r *Recorder) PlayAmbience(_, _, _ string) {}
func (r *Recorder) StopAmbience()               {}

func (r *Recorder) ShowMenu(menuID string, items []protocol.MenuItem, opts MenuOptions) {
	r.mu.Lock()
	r.Menus[menuID] = items
	r.mu.Unlock()
}

func (r *Recorder) UpdateMenu(menuID string, items []protocol.MenuItem, position int, selectionID string) {
	r.ShowMenu(menuID, items, MenuOptions{})
}

func (r *Recorder) RemoveMenu(menuID string) {
	r.mu.Lock()
	delete(r.Menus, menuID)
	r.mu.Unlock()
}

func (r *Recorder) ShowEditbox(_, _, _ string, _, _ bool) {}
func (r *Recorder) RemoveEditbox(string)                  {}

func (r *Recorder) ClearUI() {
	r.mu.Lock()
	r.Menus = map[string][]protocol.MenuItem{}
	r.mu.Unlock()
}

// MenuTexts returns the texts of a tracked menu, for assertions.
func (r *Recorder) MenuTexts(menuID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.Menus[menuID]
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	return texts
}

// SaidContaining reports whether any captured message contains substr.
func (r *Recorder) SaidContaining(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
