// Package multiplayer implements online versus play over SSH sessions.
// Two players race on identical boards: the coordinator pairs sessions
// through join codes, hands both the same seed, and tracks reported
// scores until the race clock runs out.
package multiplayer

import "github.com/vovakirdan/tui-gemfall/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is the lobby host, Player2 the joiner.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies a versus match.
type MatchID string
