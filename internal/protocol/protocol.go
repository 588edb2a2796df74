// Package protocol defines the JSON packets exchanged with clients.
//
// Every packet carries a "type" discriminator. Inbound packets share one
// struct since clients send a small field set; outbound packets are
// individual types so each queue entry is self-describing.
package protocol

import "encoding/json"

// Version is the protocol version announced in authorize_success.
const Version = "1.2.0"

// Inbound packet type discriminators.
const (
	InAuthorize     = "authorize"
	InMenu          = "menu"
	InKeybind       = "keybind"
	InEditbox       = "editbox"
	InEscape        = "escape"
	InChat          = "chat"
	InPing          = "ping"
	InClientOptions = "client_options"

	// Reply to a get_playlist_duration request.
	InPlaylistDurationResponse = "playlist_duration_response"
)

// ClientPacket is any message from a client. Only the fields for the
// given Type are populated.
type ClientPacket struct {
	Type string `json:"type"`

	// authorize
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Major    int    `json:"major,omitempty"`
	Minor    int    `json:"minor,omitempty"`
	Patch    int    `json:"patch,omitempty"`

	// menu / keybind / escape
	MenuID      string `json:"menu_id,omitempty"`
	Selection   int    `json:"selection,omitempty"` // 1-based
	SelectionID string `json:"selection_id,omitempty"`
	Key         string `json:"key,omitempty"`
	Control     bool   `json:"control,omitempty"`
	Alt         bool   `json:"alt,omitempty"`
	Shift       bool   `json:"shift,omitempty"`
	MenuIndex   int    `json:"menu_index,omitempty"`
	MenuItemID  string `json:"menu_item_id,omitempty"`

	// editbox
	InputID string `json:"input_id,omitempty"`
	Text    string `json:"text,omitempty"`

	// chat
	Convo    string `json:"convo,omitempty"` // "local" or "global"
	Language string `json:"language,omitempty"`
	Message  string `json:"message,omitempty"`

	// client_options
	Options map[string]any `json:"options,omitempty"`

	// playlist_duration_response
	RequestID string  `json:"request_id,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
}

// MenuItem is one entry of a menu packet. Items without an id marshal as
// plain strings; items with an id marshal as {text, id} objects so the
// client can diff menu rebuilds by id.
type MenuItem struct {
	Text string
	ID   string
}

// Item is shorthand for a MenuItem with a stable id.
func Item(text, id string) MenuItem {
	return MenuItem{Text: text, ID: id}
}

func (m MenuItem) MarshalJSON() ([]byte, error) {
	if m.ID == "" {
		return json.Marshal(m.Text)
	}
	return json.Marshal(struct {
		Text string `json:"text"`
		ID   string `json:"id"`
	}{m.Text, m.ID})
}

func (m *MenuItem) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		m.Text, m.ID = text, ""
		return nil
	}
	var obj struct {
		Text string `json:"text"`
		ID   string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	m.Text, m.ID = obj.Text, obj.ID
	return nil
}

// EscapeBehavior selects how the escape key behaves inside a menu.
type EscapeBehavior string

const (
	EscapeKeybind    EscapeBehavior = "keybind"
	EscapeSelectLast EscapeBehavior = "select_last_option"
	EscapeEvent      EscapeBehavior = "escape_event"
)

// Outbound packets.

type AuthorizeSuccess struct {
	Type    string `json:"type"` // "authorize_success"
	Version string `json:"version"`
}

type Speak struct {
	Type   string `json:"type"` // "speak"
	Text   string `json:"text"`
	Buffer string `json:"buffer,omitempty"`
	Muted  bool   `json:"muted,omitempty"`
}

type PlaySound struct {
	Type   string `json:"type"` // "play_sound"
	Name   string `json:"name"`
	Volume int    `json:"volume"`
	Pan    int    `json:"pan"`
	Pitch  int    `json:"pitch"`
}

type PlayMusic struct {
	Type    string `json:"type"` // "play_music"
	Name    string `json:"name"`
	Looping bool   `json:"looping"`
}

type StopMusic struct {
	Type string `json:"type"` // "stop_music"
}

type PlayAmbience struct {
	Type  string `json:"type"` // "play_ambience"
	Intro string `json:"intro,omitempty"`
	Loop  string `json:"loop"`
	Outro string `json:"outro,omitempty"`
}

type StopAmbience struct {
	Type string `json:"type"` // "stop_ambience"
}

type AddPlaylist struct {
	Type          string   `json:"type"` // "add_playlist"
	PlaylistID    string   `json:"playlist_id"`
	Tracks        []string `json:"tracks"`
	AudioType     string   `json:"audio_type"`
	ShuffleTracks bool     `json:"shuffle_tracks"`
	Repeats       int      `json:"repeats"`
	AutoStart     bool     `json:"auto_start"`
	AutoRemove    bool     `json:"auto_remove"`
}

type StartPlaylist struct {
	Type       string `json:"type"` // "start_playlist"
	PlaylistID string `json:"playlist_id"`
}

type RemovePlaylist struct {
	Type       string `json:"type"` // "remove_playlist"
	PlaylistID string `json:"playlist_id"`
}

// GetPlaylistDuration asks the client for a playlist's length; the
// client answers with a playlist_duration_response carrying the same
// request id.
type GetPlaylistDuration struct {
	Type         string `json:"type"` // "get_playlist_duration"
	PlaylistID   string `json:"playlist_id"`
	DurationType string `json:"duration_type"`
	RequestID    string `json:"request_id"`
}

type Menu struct {
	Type               string         `json:"type"` // "menu"
	MenuID             string         `json:"menu_id"`
	Items              []MenuItem     `json:"items"`
	MultiletterEnabled bool           `json:"multiletter_enabled,omitempty"`
	EscapeBehavior     EscapeBehavior `json:"escape_behavior,omitempty"`
	GridEnabled        bool           `json:"grid_enabled,omitempty"`
	GridWidth          int            `json:"grid_width,omitempty"`
	Position           *int           `json:"position,omitempty"` // 0-based on the wire
	SelectionID        string         `json:"selection_id,omitempty"`
}

type RequestInput struct {
	Type         string `json:"type"` // "request_input"
	InputID      string `json:"input_id"`
	Prompt       string `json:"prompt"`
	DefaultValue string `json:"default_value,omitempty"`
	Multiline    bool   `json:"multiline"`
	ReadOnly     bool   `json:"read_only"`
}

type ClearUI struct {
	Type string `json:"type"` // "clear_ui"
}

type GameListEntry struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	MinPlayers int    `json:"min_players"`
	MaxPlayers int    `json:"max_players"`
}

type GameList struct {
	Type  string          `json:"type"` // "game_list"
	Games []GameListEntry `json:"games"`
}

type Disconnect struct {
	Type      string `json:"type"` // "disconnect"
	Reason    string `json:"reason,omitempty"`
	Reconnect bool   `json:"reconnect,omitempty"`
}

type UpdateOptionsLists struct {
	Type      string            `json:"type"` // "update_options_lists"
	Games     []string          `json:"games"`
	Languages map[string]string `json:"languages"`
}

type OpenClientOptions struct {
	Type string `json:"type"` // "open_client_options"
}

type OpenServerOptions struct {
	Type    string         `json:"type"` // "open_server_options"
	Options map[string]any `json:"options"`
}

type TableCreate struct {
	Type string `json:"type"` // "table_create"
	Host string `json:"host"`
	Game string `json:"game"`
}

type Chat struct {
	Type     string `json:"type"` // "chat"
	Sender   string `json:"sender"`
	Convo    string `json:"convo"`
	Language string `json:"language"`
	Message  string `json:"message"`
}

type Pong struct {
	Type string `json:"type"` // "pong"
}
