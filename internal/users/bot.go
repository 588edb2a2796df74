package users

import (
	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
)

// Bot is a User with no connection. All output is discarded; games drive
// bots through their BotThink hooks instead.
type Bot struct {
	id    string
	name  string
	prefs *Preferences
}

// NewBot seats a bot under a fresh id.
func NewBot(name string) *Bot {
	return NewBotWithID(name, NewID())
}

// NewBotWithID seats a bot under an existing id, used when a leaving
// human is replaced mid-game so the player keeps its identity.
func NewBotWithID(name, id string) *Bot {
	return &Bot{id: id, name: name, prefs: DefaultPreferences()}
}

func (b *Bot) ID() string                 { return b.id }
func (b *Bot) Name() string               { return b.name }
func (b *Bot) Locale() string             { return "en" }
func (b *Bot) TrustLevel() int            { return 1 }
func (b *Bot) Preferences() *Preferences  { return b.prefs }
func (b *Bot) Speak(string, string)       {}
func (b *Bot) SpeakL(string, locale.Args) {}

func (b *Bot) PlaySound(string, int, int, int) {}
func (b *Bot) PlayMusic(string, bool)          {}
func (b *Bot) StopMusic()                      {}
func (b *Bot) PlayAmbience(_, _, _ string)     {}
func (b *Bot) StopAmbience()                   {}

func (b *Bot) ShowMenu(string, []protocol.MenuItem, MenuOptions)       {}
func (b *Bot) UpdateMenu(string, []protocol.MenuItem, int, string)     {}
func (b *Bot) RemoveMenu(string)                                       {}
func (b *Bot) ShowEditbox(_, _, _ string, _, _ bool)                   {}
func (b *Bot) RemoveEditbox(string)                                    {}
func (b *Bot) ClearUI()                                                {}
