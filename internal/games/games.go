// Package games is the manifest of game content plug-ins. Importing it
// registers every game with the registry.
package games

import (
	_ "github.com/playpalace/playpalace/internal/games/crazyeights"
	_ "github.com/playpalace/playpalace/internal/games/leftrightcenter"
	_ "github.com/playpalace/playpalace/internal/games/milebymile"
	_ "github.com/playpalace/playpalace/internal/games/scopa"
)
