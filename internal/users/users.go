// Package users defines the capability handle games hold on each seated
// participant, and its network, bot, and recording implementations.
package users

import (
	"github.com/google/uuid"

	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
)

// MenuOptions controls menu presentation.
type MenuOptions struct {
	Multiletter bool
	Escape      protocol.EscapeBehavior
	Position    int // 1-based; 0 means first item
	GridEnabled bool
	GridWidth   int
}

// User is the interface games interact with. Implementations include
// NetworkUser for connected players, Bot for AI seats, and Recorder for
// tests and simulations.
type User interface {
	ID() string
	Name() string
	Locale() string
	TrustLevel() int
	Preferences() *Preferences

	Speak(text, buffer string)
	SpeakL(id string, args locale.Args)

	PlaySound(name string, volume, pan, pitch int)
	PlayMusic(name string, looping bool)
	StopMusic()
	PlayAmbience(loop, intro, outro string)
	StopAmbience()

	ShowMenu(menuID string, items []protocol.MenuItem, opts MenuOptions)
	UpdateMenu(menuID string, items []protocol.MenuItem, position int, selectionID string)
	RemoveMenu(menuID string)
	ShowEditbox(inputID, prompt, defaultValue string, multiline, readOnly bool)
	RemoveEditbox(inputID string)
	ClearUI()
}

// NewID returns a fresh process-wide unique user id.
func NewID() string {
	return uuid.NewString()
}
