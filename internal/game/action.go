// Package game implements the per-table runtime every game composes:
// the action framework, keybind dispatch, turn and team management,
// sound scheduling, round timers, bot driving, menu rebuilding, and
// snapshot support.
package game

import (
	"strings"

	"github.com/playpalace/playpalace/internal/protocol"
)

// Visibility is the result of an action's is-hidden check.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
)

// Context carries the circumstances of an action invocation: which menu
// had focus, which item, and the resolved input value when the action
// requested one.
type Context struct {
	ActionID   string
	Input      string
	HasInput   bool
	MenuID     string
	MenuIndex  int
	MenuItemID string
}

// InputRequest asks the invoking player for a value before the handler
// runs. With Options set a single-select menu is shown; otherwise a
// one-off editbox. Bots answer synchronously through BotChoose.
type InputRequest struct {
	PromptID string

	// Options supplies the choices. Nil means free text.
	Options func(p *Player) []protocol.MenuItem

	// BotChoose picks for a bot. Nil defaults to the first option (or
	// empty text for editboxes).
	BotChoose func(p *Player, options []protocol.MenuItem) string
}

// Action is an immutable command descriptor. Visibility, enablement and
// label are resolved per player at menu-build time; the descriptors
// themselves carry function values bound at ActionSet construction.
type Action struct {
	ID string

	// LabelID is a locale id rendered in the player's locale; Label, if
	// set, overrides it with a dynamic value.
	LabelID string
	Label   func(p *Player) string

	// Enabled returns "" when the action may run, else a locale id
	// explaining why not.
	Enabled func(p *Player) string

	// Hidden controls menu inclusion. Hidden actions stay reachable by
	// keybind. Nil means always visible.
	Hidden func(p *Player) Visibility

	Handler func(p *Player, ctx *Context)

	Input *InputRequest

	// ShowInActionsMenu includes the action in the F5 context menu.
	ShowInActionsMenu bool
}

// ResolvedAction is the per-player outcome of resolving one Action.
type ResolvedAction struct {
	Action         *Action
	Label          string
	Visible        bool
	DisabledReason string // "" when enabled
}

// ActionSet is an ordered collection of actions with an id registry.
// Adding an existing id replaces the action in place.
type ActionSet struct {
	order []string
	byID  map[string]*Action
}

func NewActionSet() *ActionSet {
	return &ActionSet{byID: map[string]*Action{}}
}

func (s *ActionSet) Add(a *Action) {
	if _, ok := s.byID[a.ID]; !ok {
		s.order = append(s.order, a.ID)
	}
	s.byID[a.ID] = a
}

func (s *ActionSet) Get(id string) *Action {
	return s.byID[id]
}

func (s *ActionSet) Remove(id string) {
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// RemoveByPrefix drops every action whose id starts with prefix, used
// for dynamic per-card slots like play_card_<id>.
func (s *ActionSet) RemoveByPrefix(prefix string) {
	kept := s.order[:0]
	for _, id := range s.order {
		if strings.HasPrefix(id, prefix) {
			delete(s.byID, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

// Actions yields the set in insertion order.
func (s *ActionSet) Actions() []*Action {
	result := make([]*Action, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id])
	}
	return result
}

func (s *ActionSet) Len() int { return len(s.order) }

// playerActions holds a player's named action sets in creation order.
// By convention games use "turn", "standard", and "options".
type playerActions struct {
	names []string
	sets  map[string]*ActionSet
}

func newPlayerActions() *playerActions {
	return &playerActions{sets: map[string]*ActionSet{}}
}

func (p *playerActions) get(name string) *ActionSet {
	set, ok := p.sets[name]
	if !ok {
		set = NewActionSet()
		p.sets[name] = set
		p.names = append(p.names, name)
	}
	return set
}

func (p *playerActions) find(id string) *Action {
	for _, name := range p.names {
		if a := p.sets[name].Get(id); a != nil {
			return a
		}
	}
	return nil
}

func (p *playerActions) all() []*Action {
	var result []*Action
	for _, name := range p.names {
		result = append(result, p.sets[name].Actions()...)
	}
	return result
}
