package server

import (
	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
)

// fanoutChat distributes a chat packet. The sender always hears their
// own message; everyone else is filtered by mute preferences and their
// language subscriptions, then addressed in their own locale.
func (h *Hub) fanoutChat(sender *Session, pkt protocol.ClientPacket) {
	if pkt.Message == "" {
		return
	}
	global := pkt.Convo != "local"
	senderTable := sender.currentTable()

	templateID := "chat-local"
	sound := "chatlocal.ogg"
	if global {
		templateID = "chat-global"
		sound = "chat.ogg"
	}

	out := protocol.Chat{
		Type:     "chat",
		Sender:   sender.username,
		Convo:    pkt.Convo,
		Language: pkt.Language,
		Message:  pkt.Message,
	}

	for _, recipient := range h.authedSessions() {
		if recipient.user == nil {
			continue
		}
		if recipient != sender {
			prefs := recipient.user.Preferences()
			if global {
				if prefs.MuteGlobalChat || !prefs.HearsLanguage(pkt.Language) {
					continue
				}
			} else {
				if recipient.currentTable() != senderTable || senderTable == "" {
					continue
				}
				if prefs.MuteTableChat || !prefs.HearsLanguage(pkt.Language) {
					continue
				}
			}
		}

		text := locale.Get(recipient.user.Locale(), templateID, locale.Args{
			"sender":  sender.username,
			"message": pkt.Message,
		})
		recipient.user.Speak(text, "chats")
		recipient.user.PlaySound(sound, 100, 0, 100)
		recipient.Send(out)
		recipient.user.Flush()
	}
}
