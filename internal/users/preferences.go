package users

// Preferences are per-user settings that persist across sessions and are
// refreshed from client_options packets.
type Preferences struct {
	PlayTurnSound bool `json:"play_turn_sound"`

	MuteGlobalChat bool `json:"mute_global_chat"`
	MuteTableChat  bool `json:"mute_table_chat"`

	// ChatLanguage is the language the user types chat in. Messages in
	// that language always reach them regardless of subscriptions.
	ChatLanguage string `json:"chat_language"`

	// LanguageSubscriptions filters which chat languages the user hears.
	LanguageSubscriptions map[string]bool `json:"language_subscriptions"`
}

// DefaultPreferences returns the settings for a fresh account.
func DefaultPreferences() *Preferences {
	return &Preferences{
		PlayTurnSound:         true,
		ChatLanguage:          "en",
		LanguageSubscriptions: map[string]bool{"en": true},
	}
}

// ApplyClientOptions merges a client_options snapshot into the
// preferences. Unknown keys are ignored so older servers tolerate newer
// clients.
func (p *Preferences) ApplyClientOptions(options map[string]any) {
	if v, ok := options["play_turn_sound"].(bool); ok {
		p.PlayTurnSound = v
	}
	if v, ok := options["mute_global_chat"].(bool); ok {
		p.MuteGlobalChat = v
	}
	if v, ok := options["mute_table_chat"].(bool); ok {
		p.MuteTableChat = v
	}
	if v, ok := options["chat_language"].(string); ok && v != "" {
		p.ChatLanguage = v
	}
	if subs, ok := options["language_subscriptions"].(map[string]any); ok {
		if p.LanguageSubscriptions == nil {
			p.LanguageSubscriptions = map[string]bool{}
		}
		for lang, value := range subs {
			if enabled, ok := value.(bool); ok {
				p.LanguageSubscriptions[lang] = enabled
			}
		}
	}
}

// HearsLanguage reports whether chat in the given language should reach
// this user.
func (p *Preferences) HearsLanguage(language string) bool {
	if language == "" || language == p.ChatLanguage {
		return true
	}
	return p.LanguageSubscriptions[language]
}
