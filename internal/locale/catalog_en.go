package locale

// englishCatalog is the built-in fallback catalog. Server deployments may
// overlay or extend it with LoadDir.
var englishCatalog = map[string]string{
	"language-en": "English",
	"list-and":    "and",
	"list-or":     "or",

	// Lobby and table lifecycle.
	"game-starting":          "The game is starting!",
	"table-joined":           "{$player} has joined the table.",
	"table-left":             "{$player} has left the table.",
	"table-created":          "{$host} has opened a table of {$game}.",
	"table-destroyed":        "The table has been closed.",
	"table-saved":            "{$host} has saved and closed the table.",
	"table-full":             "That table is full.",
	"table-not-found":        "That table no longer exists.",
	"table-already-seated":   "You are already seated at a table.",
	"table-cap-reached":      "The server cannot host any more tables right now.",
	"new-host":               "{$player} is the new host.",
	"now-spectating":         "{$player} is now spectating.",
	"now-playing":            "{$player} is now playing.",
	"player-replaced-by-bot": "{$player} has left and been replaced by a bot.",
	"no-bot-names-available": "There are no bot names left.",
	"game-over":              "The game is over.",
	"game-winner":            "{$player} wins the game!",
	"game-winner-team":       "{$team} wins the game!",

	// Action framework.
	"action-not-host":         "Only the host can do that.",
	"action-game-in-progress": "The game has already started.",
	"action-not-playing":      "The game has not started yet.",
	"action-need-more-players": "More players are needed before the game can start.",
	"action-table-full":        "The table is full.",
	"action-no-bots":           "There are no bots to remove.",
	"action-bots-cannot":       "Bots cannot do that.",
	"action-no-scores":         "There are no scores yet.",
	"action-need-more-humans":  "More human players are needed for that.",
	"action-not-your-turn":     "It is not your turn.",
	"internal-error":           "Something went wrong. The table is still running.",

	// Standard actions and menus.
	"start-game":           "Start game",
	"add-bot":              "Add a bot",
	"add-bot-prompt":       "Bot name (leave blank for the next free name)",
	"remove-bot":           "Remove a bot",
	"play":                 "Play",
	"spectate":             "Spectate",
	"leave-game":           "Leave table",
	"save-table":           "Save and close table",
	"estimate-duration":    "Estimate game duration",
	"whose-turn":           "Whose turn is it?",
	"whos-at-table":        "Who is at the table?",
	"check-scores":         "Check scores",
	"check-scores-detailed": "Check scores (detailed)",
	"show-actions":         "Actions menu",
	"go-back":              "Go back",
	"context-menu":         "Actions menu.",
	"no-actions-available": "No actions are available right now.",
	"no-scores-available":  "There are no scores to report.",

	// Turn management.
	"game-turn-start":     "It is {$player}'s turn.",
	"game-no-turn":        "It is nobody's turn right now.",
	"game-player-skipped": "{$player} is skipped.",

	// Table status.
	"table-no-players":   "Nobody is seated at the table.",
	"table-players-one":  "{$count} player at the table: {$players}.",
	"table-players-many": "{$count} players at the table: {$players}.",
	"table-spectators":   "Spectating: {$spectators}.",

	// Scores.
	"scores-points": "{$name}: {$points} points",

	// Duration estimation.
	"estimate-computing":       "Estimating game duration, this may take a while...",
	"estimate-already-running": "An estimate is already being computed.",
	"estimate-error":           "Duration estimation failed.",
	"estimate-result":          "A bot game takes about {$bot_time} (± {$std_dev}). {$outlier_info}A human game should take about {$human_time}.",
	"estimate-outliers-one":    "1 outlier removed. ",
	"estimate-outliers-many":   "{$count} outliers removed. ",

	// Chat.
	"chat-global": "{$sender} says globally: {$message}",
	"chat-local":  "{$sender} says: {$message}",

	// Server hub.
	"welcome":               "Welcome to PlayPalace, {$player}!",
	"main-menu-play":        "Play a game",
	"main-menu-tables":      "Active tables",
	"main-menu-online":      "Who is online?",
	"main-menu-options":     "Client options",
	"main-menu-language":    "Language",
	"online-users-one":      "{$count} user online: {$users}.",
	"online-users-many":     "{$count} users online: {$users}.",
	"no-active-tables":      "There are no active tables.",
	"active-table-entry":    "{$game} hosted by {$host} ({$count} seated)",
	"join-table":            "Join",
	"spectate-table":        "Spectate",
	"table-saved-entry":     "Resume saved {$game}",
	"auth-bad-credentials":  "Incorrect username or password.",
	"auth-version-mismatch": "Your client version {$client} is not supported by this server (need {$server}).",
	"auth-not-approved":     "Your account has not been approved yet.",
	"restore-failed":        "The saved table could not be restored.",

	// Game options.
	"option-prompt":        "Enter a new value",
	"option-invalid":       "That is not a valid value for {$option}.",
	"option-changed":       "{$host} changed {$option} to {$value}.",
	"option-target-score":  "Target score: {$value}",
	"option-starting-chips": "Starting chips: {$value}",
	"option-round-distance": "Round distance: {$value}",
	"option-winning-score":  "Winning score: {$value}",
	"option-team-mode":      "Teams: {$value}",
	"team-name":             "Team {$number}",

	// Game categories.
	"category-dice-games": "Dice games",
	"category-card-games": "Card games",

	// Left Right Center.
	"lrc-roll":             "Roll",
	"lrc-you-no-chips":     "You have no chips, so you sit this one out.",
	"lrc-player-no-chips":  "{$player} has no chips and sits this one out.",
	"lrc-you-pass-left":    "You pass a chip left to {$target}.",
	"lrc-player-pass-left": "{$player} passes a chip left to {$target}.",
	"lrc-you-pass-right":   "You pass a chip right to {$target}.",
	"lrc-player-pass-right": "{$player} passes a chip right to {$target}.",
	"lrc-you-pass-center":   "You put a chip in the center pot.",
	"lrc-player-pass-center": "{$player} puts a chip in the center pot.",
	"lrc-you-keep":           "You keep a chip.",
	"lrc-player-keeps":       "{$player} keeps a chip.",
	"lrc-you-have-chips":     "You now have {$count} chips.",
	"lrc-player-has-chips":   "{$player} now has {$count} chips.",

	// Crazy Eights.
	"c8-draw":              "Draw a card",
	"c8-play-card":         "Play {$card}",
	"c8-your-hand":         "Your hand: {$cards}.",
	"c8-starter":           "The starter card is {$card}.",
	"c8-you-play":          "You play {$card}.",
	"c8-player-plays":      "{$player} plays {$card}.",
	"c8-you-draw":          "You draw {$card}.",
	"c8-player-draws":      "{$player} draws a card.",
	"c8-one-card":          "{$player} has one card left!",
	"c8-awaiting-suit":     "{$player} played an eight and is choosing a suit.",
	"c8-suit-picked":       "{$player} chooses {$suit}.",
	"c8-round-won":         "{$player} wins the round and scores {$points} points.",
	"c8-blocked":           "The game is blocked. {$player} has the lowest hand.",
	"c8-deck-empty":        "The deck is empty.",
	"c8-card-not-playable": "That card does not match the discard pile.",
	"c8-pick-suit-first":   "Choose a suit for your eight first.",
	"c8-no-wild-pending":   "There is no wild suit to choose right now.",
	"c8-clubs":             "Choose clubs",
	"c8-diamonds":          "Choose diamonds",
	"c8-hearts":            "Choose hearts",
	"c8-spades":            "Choose spades",

	// Scopa.
	"scopa-play-card":       "Play {$card}",
	"scopa-check-table":     "Check table cards",
	"scopa-table":           "Table cards",
	"scopa-table-cards":     "On the table: {$cards}.",
	"scopa-you-lay":         "You lay {$card} on the table.",
	"scopa-player-lays":     "{$player} lays {$card} on the table.",
	"scopa-you-capture":     "You play {$card} and capture {$captured}.",
	"scopa-player-captures": "{$player} plays {$card} and captures {$captured}.",
	"scopa-scopa":           "Scopa! {$player} sweeps the table!",
	"scopa-deal-points":     "{$player} scores {$points} points this deal.",
	"scopa-option-inverse":  "Inverse scopa: {$value}",
	"scopa-option-escoba":   "Escoba: {$value}",

	// Mile by Mile.
	"mbm-round-start":          "Round {$round}: first to {$distance} miles.",
	"mbm-you-draw":             "You draw {$card}.",
	"mbm-you-drive":            "You drive {$miles} miles, {$total} total.",
	"mbm-player-drives":        "{$player} drives {$miles} miles, {$total} total.",
	"mbm-hazard-played":        "{$player} plays {$card} on {$team}!",
	"mbm-you-remedy":           "You play {$card}.",
	"mbm-player-remedies":      "{$player} plays {$card}.",
	"mbm-safety-played":        "{$player} plays the {$card} safety.",
	"mbm-you-discard":          "You discard {$card}.",
	"mbm-player-discards":      "{$player} discards {$card}.",
	"mbm-round-points":         "{$team} scores {$points} points.",
	"mbm-check-distance":       "Check distances",
	"mbm-next-round-soon":      "Next round starts in {$seconds} seconds.",
	"mbm-pause-timer":          "Pause round countdown",
	"mbm-no-timer":             "No round countdown is running.",
	"mbm-timer-paused":         "{$player} paused the countdown.",
	"mbm-timer-resumed":        "{$player} resumed the countdown.",
	"mbm-cannot-play-distance": "You cannot play distance right now.",
	"mbm-already-rolling":      "You are already rolling.",
	"mbm-wrong-remedy":         "That remedy does not match your hazard.",
	"mbm-no-speed-limit":       "You are not under a speed limit.",
	"mbm-no-hazard-target":     "No opposing team can be hit with that.",
	"mbm-bad-team-mode":        "That team arrangement does not match the number of players.",
}
