package game

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/protocol"
	"github.com/playpalace/playpalace/internal/users"
)

// Game statuses.
const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// TicksPerSecond is the nominal tick rate (50ms per tick).
const TicksPerSecond = 20

// Player is a seat in a game. Per-game state lives in the game struct,
// keyed by the player id, so a mid-game bot substitution keeps every
// rule attachment intact.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsBot       bool   `json:"is_bot"`
	IsSpectator bool   `json:"is_spectator"`

	BotThinkTicks    int    `json:"bot_think_ticks"`
	BotPendingAction string `json:"bot_pending_action"`
}

// Meta is a game type's discovery metadata.
type Meta struct {
	Type       string
	Name       string
	Category   string
	MinPlayers int
	MaxPlayers int
}

// Logic is what each game content package implements on top of Base.
type Logic interface {
	Meta() Meta

	// OnStart transitions waiting to playing and seeds rule state.
	OnStart()
	// GameTick runs game-specific per-tick logic after the standard
	// duties (sounds, timer, bots).
	GameTick()
	// BotThink returns the next action id for a bot, or "".
	BotThink(p *Player) string
	// PrestartValidate returns localized error ids blocking start.
	PrestartValidate() []string
	// SetupPlayerActions creates the game's action sets for a seat.
	SetupPlayerActions(p *Player)
	// SetupKeybinds populates the keybind table.
	SetupKeybinds()
	// OptionSpecs describes the game's configurable options.
	OptionSpecs() []OptionSpec
}

// Game is a playable instance: its logic plus the shared runtime.
type Game interface {
	Logic
	Core() *Base
}

// TableRef is the game's handle back to its table. Games never reach
// the table manager directly.
type TableRef interface {
	TableID() string
	Destroy()
	SaveAndClose(hostName string)
}

// PlayerResult is one line of a GameResult.
type PlayerResult struct {
	Name   string `json:"name"`
	IsBot  bool   `json:"is_bot"`
	Score  int    `json:"score"`
	Winner bool   `json:"winner"`
}

// Result is the structured record emitted when a game finishes.
type Result struct {
	GameType      string         `json:"game_type"`
	FinishedAt    time.Time      `json:"finished_at"`
	DurationTicks int            `json:"duration_ticks"`
	Players       []PlayerResult `json:"players"`
	Custom        map[string]any `json:"custom,omitempty"`
}

// pendingInput tracks an action waiting for its input prompt.
type pendingInput struct {
	actionID string
	ctx      Context
	options  []protocol.MenuItem
	editbox  bool
}

// Base carries the state and services shared by every game. Exported
// fields serialize with the game; unexported fields are runtime-only and
// rebuilt on restore.
type Base struct {
	Status  string    `json:"status"`
	Host    string    `json:"host"`
	Round   int       `json:"round"`
	Ticks   int       `json:"ticks"`
	Players []*Player `json:"players"`

	Turn  TurnManager `json:"turn"`
	Teams TeamManager `json:"teams"`

	ScheduledSounds []ScheduledSound `json:"scheduled_sounds"`
	SoundTick       int              `json:"sound_scheduler_tick"`
	CurrentMusic    string           `json:"current_music"`
	CurrentAmbience string           `json:"current_ambience"`

	RoundTimer RoundTimer `json:"round_timer"`

	self            Game
	log             *logrus.Entry
	userMap         map[string]users.User
	table           TableRef
	actionSets      map[string]*playerActions
	keybinds        *KeybindTable
	pending         map[string]*pendingInput
	statusBoxOpen   map[string]bool
	actionsMenuOpen map[string]bool
	destroyed       bool
	randIntN        func(n int) int
	estimate        estimator
	onResult        func(Result)
	onPlayerLeft    func(playerID, userID string)
}

// Init wires a freshly-constructed game to its Base. Every game factory
// calls this with the concrete game before returning it.
func (b *Base) Init(self Game) {
	b.self = self
	b.Status = StatusWaiting
	b.Turn.Direction = 1
	b.rebuildRuntimeContainers()
	b.log = logrus.WithField("game", self.Meta().Type)
}

func (b *Base) rebuildRuntimeContainers() {
	b.userMap = map[string]users.User{}
	b.actionSets = map[string]*playerActions{}
	b.keybinds = NewKeybindTable()
	b.pending = map[string]*pendingInput{}
	b.statusBoxOpen = map[string]bool{}
	b.actionsMenuOpen = map[string]bool{}
	b.randIntN = rand.IntN
}

// Core returns the shared runtime. It is how a concrete game (which
// embeds Base under the field name "Base") satisfies the Game
// interface without the embedded field shadowing an accessor.
func (b *Base) Core() *Base { return b }

func (b *Base) Self() Game              { return b.self }
func (b *Base) Keybinds() *KeybindTable { return b.keybinds }
func (b *Base) Destroyed() bool         { return b.destroyed }

// SetTable binds the owning table.
func (b *Base) SetTable(t TableRef) { b.table = t }

// Table returns the owning table, nil in simulations.
func (b *Base) Table() TableRef { return b.table }

// SetResultSink registers the callback receiving the GameResult.
func (b *Base) SetResultSink(sink func(Result)) { b.onResult = sink }

// SetPlayerLeftSink registers the callback fired whenever a human
// gives up a seat (removal or mid-game bot substitution), so the table
// directory can release the one-table-per-user claim. The seat id and
// the departing user's id differ when a seat was taken over after a
// restore, so both are reported.
func (b *Base) SetPlayerLeftSink(sink func(playerID, userID string)) { b.onPlayerLeft = sink }

// SetRandFunc replaces the randomness source, for deterministic tests.
func (b *Base) SetRandFunc(intn func(n int) int) { b.randIntN = intn }

// RandIntN returns a uniform value in [0, n).
func (b *Base) RandIntN(n int) int { return b.randIntN(n) }

// Shuffle permutes a slice index space with the game's randomness.
func (b *Base) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := b.randIntN(i + 1)
		swap(i, j)
	}
}

// InitializeLobby seats the host and enters the waiting state.
func (b *Base) InitializeLobby(hostName string, hostUser users.User) {
	b.Host = hostName
	b.Status = StatusWaiting
	b.SetupBaseKeybinds()
	b.self.SetupKeybinds()
	b.AddPlayer(hostName, hostUser)
	b.RebuildAllMenus()
}

// Player management.

// GetPlayerByID looks a seat up by id.
func (b *Base) GetPlayerByID(id string) *Player {
	for _, p := range b.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// GetPlayerByName looks a seat up by display name.
func (b *Base) GetPlayerByName(name string) *Player {
	for _, p := range b.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// GetUser returns the live user handle for a seat, nil while the user is
// transiently disconnected.
func (b *Base) GetUser(p *Player) users.User {
	if p == nil {
		return nil
	}
	return b.userMap[p.ID]
}

// AttachUser binds (or rebinds) a live user handle to a player id.
func (b *Base) AttachUser(playerID string, u users.User) {
	b.userMap[playerID] = u
}

// DetachUser drops the live handle, keeping the seat.
func (b *Base) DetachUser(playerID string) {
	delete(b.userMap, playerID)
}

// Users returns every attached live user handle.
func (b *Base) Users() []users.User {
	result := make([]users.User, 0, len(b.userMap))
	for _, p := range b.Players {
		if u := b.userMap[p.ID]; u != nil {
			result = append(result, u)
		}
	}
	return result
}

// AddPlayer seats a user: creates the Player, attaches the handle, and
// builds its lobby and game action sets.
func (b *Base) AddPlayer(name string, u users.User) *Player {
	_, isBot := u.(*users.Bot)
	p := &Player{ID: u.ID(), Name: name, IsBot: isBot}
	b.Players = append(b.Players, p)
	b.AttachUser(p.ID, u)
	b.addLobbyActions(p)
	b.self.SetupPlayerActions(p)
	return p
}

// RemovePlayer unseats entirely: seat, action sets, user handle, and
// turn-order entry.
func (b *Base) RemovePlayer(p *Player) {
	userID := ""
	if u := b.userMap[p.ID]; u != nil {
		userID = u.ID()
	}
	for i, existing := range b.Players {
		if existing.ID == p.ID {
			b.Players = append(b.Players[:i], b.Players[i+1:]...)
			break
		}
	}
	delete(b.actionSets, p.ID)
	delete(b.userMap, p.ID)
	delete(b.pending, p.ID)
	b.Turn.RemovePlayer(p.ID)
	if b.onPlayerLeft != nil {
		b.onPlayerLeft(p.ID, userID)
	}
}

// ActivePlayers returns non-spectator seats.
func (b *Base) ActivePlayers() []*Player {
	var active []*Player
	for _, p := range b.Players {
		if !p.IsSpectator {
			active = append(active, p)
		}
	}
	return active
}

func (b *Base) ActivePlayerCount() int { return len(b.ActivePlayers()) }

func (b *Base) HumanCount() int {
	count := 0
	for _, p := range b.Players {
		if !p.IsBot {
			count++
		}
	}
	return count
}

func (b *Base) BotCount() int {
	count := 0
	for _, p := range b.Players {
		if p.IsBot {
			count++
		}
	}
	return count
}

// CurrentPlayer returns the seat whose turn it is.
func (b *Base) CurrentPlayer() *Player {
	return b.GetPlayerByID(b.Turn.CurrentID())
}

// IsCurrent reports whether it is p's turn.
func (b *Base) IsCurrent(p *Player) bool {
	return p != nil && p.ID == b.Turn.CurrentID()
}

// Communication helpers.

// Broadcast speaks raw text to every seated user.
func (b *Base) Broadcast(text string) {
	for _, p := range b.Players {
		if u := b.GetUser(p); u != nil {
			u.Speak(text, "misc")
		}
	}
}

// BroadcastL speaks a localized message to every seated user, each in
// their own locale.
func (b *Base) BroadcastL(id string, args locale.Args) {
	for _, p := range b.Players {
		if u := b.GetUser(p); u != nil {
			u.SpeakL(id, args)
		}
	}
}

// BroadcastPersonalL sends one message to the acting player ("You
// rolled...") and a different one, carrying the player's name, to
// everyone else.
func (b *Base) BroadcastPersonalL(p *Player, personalID, othersID string, args locale.Args) {
	if u := b.GetUser(p); u != nil {
		u.SpeakL(personalID, args)
	}
	withName := locale.Args{"player": p.Name}
	for key, value := range args {
		withName[key] = value
	}
	for _, other := range b.Players {
		if other.ID == p.ID {
			continue
		}
		if u := b.GetUser(other); u != nil {
			u.SpeakL(othersID, withName)
		}
	}
}

// SpeakTo speaks a localized line to one seat.
func (b *Base) SpeakTo(p *Player, id string, args locale.Args) {
	if u := b.GetUser(p); u != nil {
		u.SpeakL(id, args)
	}
}

// Turn announcements.

// AdvanceTurn steps the turn manager, announces skipped players and the
// new turn, and rebuilds menus.
func (b *Base) AdvanceTurn(announce bool) *Player {
	skipped := b.Turn.Advance()
	for _, id := range skipped {
		if p := b.GetPlayerByID(id); p != nil {
			b.BroadcastL("game-player-skipped", locale.Args{"player": p.Name})
		}
	}
	if announce {
		b.AnnounceTurn()
	}
	b.RebuildAllMenus()
	return b.CurrentPlayer()
}

// AnnounceTurn plays the turn sound for the current player (honoring
// their preference) and broadcasts whose turn it is.
func (b *Base) AnnounceTurn() {
	p := b.CurrentPlayer()
	if p == nil {
		return
	}
	if u := b.GetUser(p); u != nil && u.Preferences().PlayTurnSound {
		u.PlaySound("game_pig/turn.ogg", 100, 0, 100)
	}
	b.BroadcastL("game-turn-start", locale.Args{"player": p.Name})
}

// Lifecycle.

// StartPlaying flips the status; games call this from OnStart.
func (b *Base) StartPlaying() {
	b.Status = StatusPlaying
	b.Round = 0
	b.Ticks = 0
}

// FinishGame marks the game finished and emits the structured result.
// After this no menus rebuild and no actions dispatch.
func (b *Base) FinishGame(players []PlayerResult, custom map[string]any) {
	if b.Status == StatusFinished {
		return
	}
	b.Status = StatusFinished
	for _, p := range b.Players {
		p.BotPendingAction = ""
		p.BotThinkTicks = 0
	}
	result := Result{
		GameType:      b.self.Meta().Type,
		FinishedAt:    time.Now().UTC(),
		DurationTicks: b.Ticks,
		Players:       players,
		Custom:        custom,
	}
	if b.onResult != nil {
		b.onResult(result)
	}
	b.showGameOverMenus(players)
	b.log.WithFields(logrus.Fields{"ticks": b.Ticks, "rounds": b.Round}).Info("game finished")
}

// showGameOverMenus pushes the final standings to everyone. Picking the
// leave item acknowledges the finished game and tears the table down
// once the last human is gone.
func (b *Base) showGameOverMenus(results []PlayerResult) {
	var items []protocol.MenuItem
	for i, r := range results {
		items = append(items, protocol.Item(
			r.Name+": "+strconv.Itoa(r.Score), "result_"+strconv.Itoa(i)))
	}
	for _, p := range b.Players {
		u := b.GetUser(p)
		if u == nil {
			continue
		}
		withLeave := append(append([]protocol.MenuItem(nil), items...),
			protocol.Item(locale.Get(u.Locale(), "leave-game", nil), "leave_game"))
		u.ShowMenu("game_over", withLeave, users.MenuOptions{Escape: protocol.EscapeSelectLast})
	}
}

// Destroy tears the table down. Pending bot actions are dropped and no
// further menus rebuild.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	if b.table != nil {
		b.table.Destroy()
	}
}

// GameActive reports whether the game is still accepting play.
func (b *Base) GameActive() bool {
	return !b.destroyed && b.Status != StatusFinished
}
