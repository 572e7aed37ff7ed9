package gemfall

import "github.com/vovakirdan/tui-gemfall/internal/games/gemfall/engine"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and
// debugging. Kinds holds one row per board row; blocked and empty cells
// are -1.
type Snapshot struct {
	Tick          uint64
	Mode          string
	Level         int // 1-indexed for display, 0 for zen
	Score         int
	RotationsLeft int
	Angle         int
	Gravity       string
	CursorR       int
	CursorC       int
	Kinds         [][]int
	State         GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	}

	level := 0
	if g.mode == ModeCampaign {
		level = g.levelIndex + 1
	}

	return Snapshot{
		Tick:          g.tick,
		Mode:          string(g.mode),
		Level:         level,
		Score:         g.Score(),
		RotationsLeft: g.session.RotationsLeft(),
		Angle:         g.session.Angle(),
		Gravity:       g.session.GravityDir().String(),
		CursorR:       g.cursorR,
		CursorC:       g.cursorC,
		Kinds:         boardKinds(g.session.Board()),
		State:         state,
	}
}

func boardKinds(b *engine.Board) [][]int {
	out := make([][]int, b.Rows())
	for r := range out {
		row := make([]int, b.Cols())
		for c := range row {
			if t := b.Get(r, c); t != nil {
				row[c] = int(t.Kind)
			} else {
				row[c] = -1
			}
		}
		out[r] = row
	}
	return out
}
