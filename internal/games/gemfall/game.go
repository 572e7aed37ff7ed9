package gemfall

import (
	"math/rand"

	"github.com/vovakirdan/tui-gemfall/internal/config"
	"github.com/vovakirdan/tui-gemfall/internal/core"
	"github.com/vovakirdan/tui-gemfall/internal/games/gemfall/boards"
	"github.com/vovakirdan/tui-gemfall/internal/games/gemfall/engine"
	"github.com/vovakirdan/tui-gemfall/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeZen      Mode = "zen"
)

// Game adapts the gemfall engine to the platform game interface. It owns
// the cursor, mode progression, and overlay state; all match-3 rules live
// in the engine session.
type Game struct {
	mode Mode
	rng  *rand.Rand
	tick uint64

	cfg     config.GemfallConfig
	session *engine.Session
	board   boards.Definition

	levelIndex  int
	bankedScore int // score carried over from cleared levels

	cursorR int
	cursorC int

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver        bool
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	moveProcessed   bool // prevent multiple gestures per tick
	levelClearTicks int  // animation ticks for level clear

	// Cells whose tile just moved, mapped to the tick the highlight expires.
	recentMoves map[[2]int]uint64
}

// moveHighlightTicks is how long a relocated gem stays highlighted.
const moveHighlightTicks = 12

// Package-level variables for config
var (
	selectedBoard      string
	selectedPreset     string
	configPath         string
	selectedStartLevel int
)

// SetBoardShape overrides the board definition ID for zen mode.
// Empty means use the configured default.
func SetBoardShape(id string) {
	selectedBoard = id
}

// SetDifficultyPreset selects a difficulty preset (easy, normal, hard).
// Empty means use the config file values as-is.
func SetDifficultyPreset(preset string) {
	selectedPreset = preset
}

// SetConfigPath sets an explicit config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetStartLevel sets the campaign starting level (1-based). 0 means start
// from the beginning.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// New creates a new campaign mode game.
func New() *Game {
	return &Game{
		mode: ModeCampaign,
	}
}

// NewZen creates a new zen (endless) mode game.
func NewZen() *Game {
	return &Game{
		mode: ModeZen,
	}
}

func init() {
	registry.Register("gemfall", func() registry.Game {
		return New()
	})
	registry.Register("gemfall_zen", func() registry.Game {
		return NewZen()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeZen {
		return "gemfall_zen"
	}
	return "gemfall"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeZen {
		return "Gemfall (Zen)"
	}
	return "Gemfall"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.bankedScore = 0
	g.gameOver = false
	g.levelCleared = false
	g.won = false
	g.paused = false
	g.moveProcessed = false
	g.levelClearTicks = 0

	loaded, err := config.LoadGemfall(configPath)
	if err != nil {
		loaded = config.DefaultGemfallConfig()
	}
	if selectedPreset != "" {
		config.ApplyPreset(&loaded, config.DifficultyPreset(selectedPreset))
	}
	g.cfg = loaded

	// Apply selected start level (campaign only)
	if g.mode == ModeCampaign && selectedStartLevel > 0 && selectedStartLevel <= LevelCount() {
		g.levelIndex = selectedStartLevel - 1
		selectedStartLevel = 0 // Reset after use
	} else {
		g.levelIndex = 0
	}

	g.startSession()
	g.checkScreenSize()
}

// startSession builds a fresh engine session for the current level (or the
// zen board) and centers the cursor on it.
func (g *Game) startSession() {
	ecfg := engine.Config{
		Kinds:          g.cfg.Board.Kinds,
		MaxRotations:   g.cfg.Board.MaxRotations,
		AutoShuffle:    g.cfg.Board.AutoShuffle,
		TilePoints:     g.cfg.Scoring.TilePoints,
		FillRetries:    g.cfg.Generation.FillRetries,
		ShuffleRetries: g.cfg.Generation.ShuffleRetries,
		BoardRetries:   g.cfg.Generation.BoardRetries,
	}

	boardID := g.cfg.Board.Shape
	if g.mode == ModeZen {
		if selectedBoard != "" {
			boardID = selectedBoard
		}
		// Zen is endless: the board reshuffles itself instead of going stale.
		ecfg.AutoShuffle = true
	} else {
		level := GetLevel(g.levelIndex)
		if level == nil {
			level = GetLevel(LevelCount() - 1)
		}
		boardID = level.Board
		ecfg.Kinds = level.Kinds
		ecfg.MaxRotations = level.Rotations
		// Getting stuck is the campaign fail state; no free reshuffles.
		ecfg.AutoShuffle = false
	}

	def, err := boards.ByID(boardID)
	if err != nil {
		def = boards.Default()
	}
	g.board = def
	ecfg.Pattern = def.Pattern()

	g.recentMoves = make(map[[2]int]uint64)
	g.session = engine.NewSession(ecfg, g.rng, g)
	g.cursorR = ecfg.Pattern.Rows() / 2
	g.cursorC = ecfg.Pattern.Cols() / 2
}

// TileMoved marks a cell for a brief highlight. This is the engine's only
// observer callback and stands in for a fall animation.
func (g *Game) TileMoved(_ engine.TileID, r, c int) {
	g.recentMoves[[2]int{r, c}] = g.tick + moveHighlightTicks
}

// checkScreenSize checks if the screen is large enough for the current board.
func (g *Game) checkScreenSize() {
	// Board cells render 2 chars wide, plus a border and a 4-line HUD.
	minW := g.board.Pattern().Cols()*2 + 4
	minH := g.board.Pattern().Rows() + 7
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.moveProcessed = false

	for cell, expiry := range g.recentMoves {
		if g.tick >= expiry {
			delete(g.recentMoves, cell)
		}
	}

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) && (g.gameOver || g.won) {
		// Will be reset by platform
		return core.StepResult{State: g.State()}
	}

	// Handle level cleared animation
	if g.levelCleared {
		g.levelClearTicks++
		// Auto-advance after 2 seconds (120 ticks at 60fps)
		if g.levelClearTicks >= 120 {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	if g.gameOver || g.won {
		return core.StepResult{State: g.State()}
	}

	g.handleCursor(in)

	if g.moveProcessed {
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionSelect):
		g.session.SelectCell(g.cursorR, g.cursorC)
		g.moveProcessed = true
		g.afterGesture()
	case in.Has(core.ActionRotateCCW):
		g.session.RequestRotate(engine.RotateLeft)
		g.moveProcessed = true
		g.afterGesture()
	case in.Has(core.ActionRotateCW):
		g.session.RequestRotate(engine.RotateRight)
		g.moveProcessed = true
		g.afterGesture()
	}

	return core.StepResult{State: g.State()}
}

// handleCursor moves the cursor one cell per pressed direction, clamped to
// the board. The cursor may pass over blocked cells; selecting one is a
// no-op in the engine.
func (g *Game) handleCursor(in core.InputFrame) {
	rows := g.session.Board().Rows()
	cols := g.session.Board().Cols()

	r, c := g.cursorR, g.cursorC
	if in.Has(core.ActionUp) {
		r--
	}
	if in.Has(core.ActionDown) {
		r++
	}
	if in.Has(core.ActionLeft) {
		c--
	}
	if in.Has(core.ActionRight) {
		c++
	}
	moved := r != g.cursorR || c != g.cursorC
	g.cursorR = core.Clamp(r, 0, rows-1)
	g.cursorC = core.Clamp(c, 0, cols-1)
	if moved {
		g.moveProcessed = true
	}
}

// afterGesture evaluates mode progression after a select or rotate.
func (g *Game) afterGesture() {
	if g.mode == ModeZen {
		return
	}

	level := GetLevel(g.levelIndex)
	if level != nil && g.session.Score() >= level.Target {
		g.levelCleared = true
		g.levelClearTicks = 0
		return
	}

	// A stuck board cannot be unstuck by rotating: rotation only repacks
	// tiles and the board is already full.
	if !g.session.HasMoves() {
		g.gameOver = true
	}
}

// advanceLevel banks the level score and moves to the next level.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0
	g.bankedScore += g.session.Score()

	if g.levelIndex >= LevelCount()-1 {
		g.won = true
		return
	}

	g.levelIndex++
	g.startSession()
	g.checkScreenSize()
}

// Score returns the total score including banked campaign levels.
func (g *Game) Score() int {
	return g.bankedScore + g.session.Score()
}

// Stuck reports whether the board has no legal swap left. In zen mode
// this only happens when the auto reshuffle gave up finding a live
// arrangement.
func (g *Game) Stuck() bool {
	if g.session == nil {
		return false
	}
	return !g.session.HasMoves()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.Score(),
		GameOver: g.gameOver || g.won,
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
}
