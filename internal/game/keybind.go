package game

import "strings"

// KeybindFilter gates who may trigger a chord and when.
type KeybindFilter struct {
	// ActiveOnly restricts the chord to status "playing".
	ActiveOnly bool
	// IncludeSpectators lets spectators trigger the chord.
	IncludeSpectators bool
	// HostOnly restricts the chord to the host.
	HostOnly bool
}

// Keybind maps one chord to an ordered list of candidate action ids.
// Games overload keys by context: the dispatcher walks the list and
// picks the first candidate that passes visibility and enablement.
type Keybind struct {
	Chord         string
	DescriptionID string
	ActionIDs     []string
	Filter        KeybindFilter
}

// KeybindTable is a game's chord registry. It is rebuilt from
// SetupKeybinds on restore and never serialized.
type KeybindTable struct {
	order   []string
	byChord map[string]*Keybind
}

func NewKeybindTable() *KeybindTable {
	return &KeybindTable{byChord: map[string]*Keybind{}}
}

// Chord canonicalizes a key press into "[ctrl+][alt+][shift+]<key>".
func Chord(key string, ctrl, alt, shift bool) string {
	var b strings.Builder
	if ctrl {
		b.WriteString("ctrl+")
	}
	if alt {
		b.WriteString("alt+")
	}
	if shift {
		b.WriteString("shift+")
	}
	b.WriteString(strings.ToLower(key))
	return b.String()
}

// Bind registers a chord. Rebinding an existing chord replaces it.
func (t *KeybindTable) Bind(chord, descriptionID string, actionIDs []string, filter KeybindFilter) {
	if _, ok := t.byChord[chord]; !ok {
		t.order = append(t.order, chord)
	}
	t.byChord[chord] = &Keybind{
		Chord:         chord,
		DescriptionID: descriptionID,
		ActionIDs:     actionIDs,
		Filter:        filter,
	}
}

func (t *KeybindTable) Get(chord string) *Keybind {
	return t.byChord[chord]
}

// ChordFor returns the first chord whose candidate list contains the
// action, for "(SPACE)" style suffixes in the actions menu.
func (t *KeybindTable) ChordFor(actionID string) string {
	for _, chord := range t.order {
		for _, id := range t.byChord[chord].ActionIDs {
			if id == actionID {
				return chord
			}
		}
	}
	return ""
}

// Clear resets the table, used before re-running SetupKeybinds on a
// restored game.
func (t *KeybindTable) Clear() {
	t.order = nil
	t.byChord = map[string]*Keybind{}
}
