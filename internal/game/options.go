package game

import (
	"github.com/pkg/errors"

	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
)

// ErrInvalidOption is returned by OptionSpec.Set for out-of-range or
// unparseable values.
var ErrInvalidOption = errors.New("invalid option value")

// OptionSpec describes one configurable game option. Get and Set close
// over the game's options struct; Choices, when set, turns the prompt
// into a single-select menu instead of an editbox.
type OptionSpec struct {
	Key     string
	LabelID string
	Type    string // "int", "bool", "choice"
	Min     int
	Max     int
	Choices func() []string
	Get     func() string
	Set     func(value string) error
}

// SetOption applies a key=value pair against the game's option specs,
// used by the simulate CLI and the lobby option actions.
func (b *Base) SetOption(key, value string) error {
	for _, spec := range b.self.OptionSpecs() {
		if spec.Key == key {
			return spec.Set(value)
		}
	}
	return errors.Errorf("unknown option %q", key)
}

// AddOptionActions declares one host-only action per option spec in the
// player's "options" set. The label always shows the current value;
// activating prompts for a new one.
func (b *Base) AddOptionActions(p *Player) {
	set := b.ActionSet(p, "options")
	for _, spec := range b.self.OptionSpecs() {
		spec := spec
		action := &Action{
			ID: "option_" + spec.Key,
			Label: func(p *Player) string {
				localeCode := "en"
				if u := b.GetUser(p); u != nil {
					localeCode = u.Locale()
				}
				return locale.Get(localeCode, spec.LabelID, locale.Args{"value": spec.Get()})
			},
			Hidden:  b.waitingOnly,
			Enabled: b.hostWaitingEnabled,
			Handler: func(p *Player, ctx *Context) {
				if err := b.SetOption(spec.Key, ctx.Input); err != nil {
					b.SpeakTo(p, "option-invalid", locale.Args{"option": spec.Key})
					return
				}
				b.BroadcastL("option-changed", locale.Args{
					"host":   p.Name,
					"option": spec.Key,
					"value":  spec.Get(),
				})
				b.RebuildAllMenus()
			},
			ShowInActionsMenu: true,
		}
		if spec.Choices != nil {
			action.Input = &InputRequest{
				PromptID: spec.LabelID,
				Options: func(*Player) []protocol.MenuItem {
					choices := spec.Choices()
					items := make([]protocol.MenuItem, len(choices))
					for i, choice := range choices {
						items[i] = protocol.MenuItem{Text: choice}
					}
					return items
				},
			}
		} else {
			action.Input = &InputRequest{PromptID: "option-prompt"}
		}
		set.Add(action)
	}
}
