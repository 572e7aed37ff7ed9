package core

// RuntimeConfig is handed to a game when it is created. It tells the game
// how much screen it has and seeds its simulation so a run can be replayed.
type RuntimeConfig struct {
	ScreenW  int   // terminal width in cells
	ScreenH  int   // terminal height in cells
	TickRate int   // simulation ticks per second
	Seed     int64 // RNG seed; 0 asks the platform to pick one
}

// DefaultConfig returns the runtime defaults for an 80x24 terminal at 60
// ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is what a game reports back to the platform after each tick.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool
}

// StepResult wraps the state produced by a single simulation tick.
type StepResult struct {
	State GameState
}
