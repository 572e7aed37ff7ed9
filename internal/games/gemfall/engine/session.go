package engine

import "math/rand"

// Rotation is a requested board rotation direction.
type Rotation int

const (
	// RotateLeft turns the board counterclockwise (+90°).
	RotateLeft Rotation = iota
	// RotateRight turns the board clockwise (-90°).
	RotateRight
)

// Observer receives position-sync notifications from the engine. TileMoved
// is the only callback the engine issues; it fires synchronously and the
// engine treats it as already completed (fire-and-forget).
type Observer interface {
	TileMoved(id TileID, r, c int)
}

// Config is the immutable session configuration.
type Config struct {
	Pattern      Pattern // board playability mask
	Kinds        int     // number of gem kinds K
	MaxRotations int     // rotation budget for the session
	AutoShuffle  bool    // reshuffle automatically when no valid move remains
	TilePoints   int     // score per matched tile

	// Retry ceilings. Exhaustion degrades to best effort, never an error.
	FillRetries    int // local redraws per cell during generation
	ShuffleRetries int // whole-board shuffle attempts
	BoardRetries   int // whole-board regeneration attempts
}

// withDefaults fills zero-valued knobs with the reference defaults.
func (c Config) withDefaults() Config {
	if c.Kinds <= 0 {
		c.Kinds = 5
	}
	if c.TilePoints <= 0 {
		c.TilePoints = 10
	}
	if c.FillRetries <= 0 {
		c.FillRetries = 50
	}
	if c.ShuffleRetries <= 0 {
		c.ShuffleRetries = 50
	}
	if c.BoardRetries <= 0 {
		c.BoardRetries = 100
	}
	return c
}

// Session is the turn controller. It owns the board plus all cross-cutting
// mutable state: selection, score, busy flag, rotation angle, and the
// remaining rotation budget.
//
// Session is single-threaded; the busy flag is a reentrancy guard against
// overlapping gesture-driven turns, not a lock.
type Session struct {
	cfg   Config
	board *Board
	rng   *rand.Rand
	obs   Observer

	score         int
	busy          bool
	angle         int // one of 0, 90, 180, 270
	rotationsLeft int
	selection     *Coord
	nextID        TileID
}

// NewSession creates a session and generates the initial board: every
// playable cell is filled avoiding immediate matches, and the whole board
// is regenerated (up to the retry ceiling) until a valid move exists.
// A degenerate pattern panics; rng must not be nil. obs may be nil.
func NewSession(cfg Config, rng *rand.Rand, obs Observer) *Session {
	cfg = cfg.withDefaults()
	s := &Session{
		cfg:           cfg,
		board:         NewBoard(cfg.Pattern),
		rng:           rng,
		obs:           obs,
		rotationsLeft: cfg.MaxRotations,
	}
	s.generateBoard()
	return s
}

// Board exposes the board for rendering and tests. Callers must not
// mutate it while a gesture is being handled.
func (s *Session) Board() *Board { return s.board }

// Score returns the session score. Monotonically non-decreasing.
func (s *Session) Score() int { return s.score }

// RotationsLeft returns the remaining rotation budget.
func (s *Session) RotationsLeft() int { return s.rotationsLeft }

// Angle returns the current rotation angle in degrees.
func (s *Session) Angle() int { return s.angle }

// GravityDir returns the compaction direction for the current angle.
func (s *Session) GravityDir() Dir { return DirForAngle(s.angle) }

// Selection returns the currently selected cell, if any.
func (s *Session) Selection() (Coord, bool) {
	if s.selection == nil {
		return Coord{}, false
	}
	return *s.selection, true
}

// HasMoves reports whether at least one valid swap remains.
func (s *Session) HasMoves() bool { return HasValidMove(s.board) }

// SelectCell handles a click on a cell. Clicking with no selection selects
// the cell; re-clicking it deselects; clicking an adjacent cell attempts a
// swap; clicking a non-adjacent cell moves the selection. Clicks on
// blocked cells, or while a turn is in flight, are silently ignored.
func (s *Session) SelectCell(r, c int) {
	if s.busy || !s.board.IsPlayable(r, c) {
		return
	}
	at := Coord{R: r, C: c}
	if s.selection == nil {
		s.selection = &at
		return
	}
	prev := *s.selection
	if prev == at {
		s.selection = nil
		return
	}
	if adjacent(prev, at) {
		s.swapTurn(prev, at)
		return
	}
	s.selection = &at
}

// adjacent is Chebyshev-exclusive: exactly one of row/col differs by 1,
// the other is identical. Diagonals are not adjacent.
func adjacent(a, b Coord) bool {
	dr, dc := abs(a.R-b.R), abs(a.C-b.C)
	return dr+dc == 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// swapTurn swaps the tiles at a and d and resolves the result. A swap that
// produces no match is reverted with no score or cascade effects. Either
// way the selection is cleared and, if the board ends up without a valid
// move, the auto-shuffle policy applies.
func (s *Session) swapTurn(a, d Coord) {
	s.busy = true
	defer func() { s.busy = false }()
	s.selection = nil

	s.board.Swap(a, d)
	matches := FindMatches(s.board)
	if len(matches) == 0 {
		s.board.Swap(a, d)
		s.afterTurn()
		return
	}
	s.notifySwap(a, d)
	s.cascade(matches)
	s.afterTurn()
}

// RequestRotate turns the board ±90° and lets gravity re-compact toward
// the new direction. Rejected silently when the rotation budget is
// exhausted or a turn is in flight.
func (s *Session) RequestRotate(rot Rotation) {
	if s.busy || s.rotationsLeft == 0 {
		return
	}
	s.busy = true
	defer func() { s.busy = false }()
	s.selection = nil

	s.rotationsLeft--
	switch rot {
	case RotateLeft:
		s.angle = (s.angle + 90) % 360
	case RotateRight:
		s.angle = (s.angle + 270) % 360
	}

	Compact(s.board, s.GravityDir(), s.onMoved)
	s.fillEmpties()
	if matches := FindMatches(s.board); len(matches) > 0 {
		s.cascade(matches)
	}
	s.afterTurn()
}

// cascade runs the remove → compact → fill → rescan loop until a scan
// finds no matches. Refill draws uniformly random kinds with no anti-match
// guard: a refill that happens to create a new match simply becomes the
// next cascade step.
func (s *Session) cascade(matches []Coord) {
	for len(matches) > 0 {
		s.score += s.cfg.TilePoints * len(matches)
		for _, at := range matches {
			s.board.Set(at.R, at.C, nil)
		}
		Compact(s.board, s.GravityDir(), s.onMoved)
		s.fillEmpties()
		matches = FindMatches(s.board)
	}
}

// afterTurn applies the end-of-turn shuffle policy.
func (s *Session) afterTurn() {
	if !s.cfg.AutoShuffle {
		return
	}
	if HasValidMove(s.board) {
		return
	}
	s.shuffle()
}

func (s *Session) onMoved(t *Tile, r, c int) {
	if s.obs != nil {
		s.obs.TileMoved(t.ID, r, c)
	}
}

// notifySwap syncs both swapped tiles' positions with the presentation.
func (s *Session) notifySwap(a, d Coord) {
	if s.obs == nil {
		return
	}
	if t := s.board.Get(a.R, a.C); t != nil {
		s.obs.TileMoved(t.ID, a.R, a.C)
	}
	if t := s.board.Get(d.R, d.C); t != nil {
		s.obs.TileMoved(t.ID, d.R, d.C)
	}
}
