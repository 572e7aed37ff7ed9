// Package gemfall implements a gem-matching puzzle with rotating gravity,
// in campaign and zen (endless) modes.
package gemfall

// Level defines a campaign level: which board to play on, how many gem
// kinds are in the bag, the score needed to clear it, and how many board
// rotations the player gets.
type Level struct {
	ID        int
	Name      string
	Board     string // board definition ID
	Kinds     int    // gem kinds in play
	Target    int    // session score needed to clear the level
	Rotations int    // rotation budget for the level
}

// Levels defines the campaign with increasing difficulty. Early levels use
// few kinds on the open classic board; later ones add kinds and move to
// masked boards where gravity rotations matter more.
var Levels = []Level{
	{ID: 1, Name: "First Sparks", Board: "classic", Kinds: 4, Target: 300, Rotations: 8},
	{ID: 2, Name: "Five Colors", Board: "classic", Kinds: 5, Target: 500, Rotations: 8},
	{ID: 3, Name: "The Ring", Board: "ring", Kinds: 5, Target: 600, Rotations: 6},
	{ID: 4, Name: "Crossroads", Board: "cross", Kinds: 5, Target: 600, Rotations: 6},
	{ID: 5, Name: "Rough Cut", Board: "classic", Kinds: 6, Target: 800, Rotations: 5},
	{ID: 6, Name: "Diamond Mine", Board: "diamond", Kinds: 6, Target: 900, Rotations: 5},
	{ID: 7, Name: "Pressure", Board: "ring", Kinds: 7, Target: 1000, Rotations: 4},
	{ID: 8, Name: "Flawless", Board: "diamond", Kinds: 7, Target: 1200, Rotations: 3},
}

// LevelCount returns the number of campaign levels.
func LevelCount() int {
	return len(Levels)
}

// GetLevel returns the level at the given index (0-based).
// Returns nil if index is out of range.
func GetLevel(index int) *Level {
	if index < 0 || index >= len(Levels) {
		return nil
	}
	return &Levels[index]
}

// LevelNames returns the names of all levels.
func LevelNames() []string {
	names := make([]string, len(Levels))
	for i, lvl := range Levels {
		names[i] = lvl.Name
	}
	return names
}
