// Package engine implements the board state and resolution rules for
// Gemfall: match detection, directional gravity compaction, and the
// swap/cascade/shuffle control loop. The package is UI-agnostic and
// deterministic; all randomness comes from an injected *rand.Rand and the
// only outbound call is the Observer's TileMoved notification.
package engine

import "fmt"

// Kind is a gem kind index in [0, K) where K is the session's kind count.
type Kind int

// TileID uniquely identifies a tile within a session for the lifetime of
// that tile. IDs are never reused within a session.
type TileID int

// Tile is a typed game piece. Its position is defined solely by the board
// slot that holds it; a tile never caches its own coordinate.
type Tile struct {
	ID   TileID
	Kind Kind
}

// Coord is a board coordinate. R increases downward, C to the right.
type Coord struct {
	R int
	C int
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.R, c.C)
}

// Board owns a rows×cols grid of optional tiles plus an immutable
// playability mask. Blocked cells never hold a tile and are skipped by
// every scan, gravity pass, and adjacency check.
//
// All coordinate arguments outside [0,rows)×[0,cols) are a programming
// error and panic; they are never a normal "empty" result.
type Board struct {
	rows  int
	cols  int
	mask  []bool  // row-major playability, true = playable
	cells []*Tile // row-major, nil = empty
}

// NewBoard creates an empty board shaped by the given pattern.
// Panics if the pattern is degenerate (zero-sized).
func NewBoard(p Pattern) *Board {
	if p.Rows() == 0 || p.Cols() == 0 {
		panic("engine: cannot build a board from a zero-sized pattern")
	}
	b := &Board{
		rows:  p.Rows(),
		cols:  p.Cols(),
		mask:  make([]bool, p.Rows()*p.Cols()),
		cells: make([]*Tile, p.Rows()*p.Cols()),
	}
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			b.mask[r*b.cols+c] = p.Playable(r, c)
		}
	}
	return b
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

func (b *Board) index(r, c int) int {
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
		panic(fmt.Sprintf("engine: coordinate (%d,%d) outside %dx%d board", r, c, b.rows, b.cols))
	}
	return r*b.cols + c
}

// IsPlayable reports whether the cell may ever hold a tile.
func (b *Board) IsPlayable(r, c int) bool {
	return b.mask[b.index(r, c)]
}

// Get returns the tile at (r,c), or nil if the slot is empty.
func (b *Board) Get(r, c int) *Tile {
	return b.cells[b.index(r, c)]
}

// Set places a tile into (or clears, with nil) the slot at (r,c).
// Placing a tile on a blocked cell is a programming error.
func (b *Board) Set(r, c int, t *Tile) {
	i := b.index(r, c)
	if t != nil && !b.mask[i] {
		panic(fmt.Sprintf("engine: tile placed on blocked cell (%d,%d)", r, c))
	}
	b.cells[i] = t
}

// Swap exchanges the contents of two slots in a single operation.
func (b *Board) Swap(a, d Coord) {
	i, j := b.index(a.R, a.C), b.index(d.R, d.C)
	b.cells[i], b.cells[j] = b.cells[j], b.cells[i]
}

// Clear empties every slot. The mask is untouched.
func (b *Board) Clear() {
	for i := range b.cells {
		b.cells[i] = nil
	}
}

// Clone returns a deep copy of the board structure. Tile pointers are
// shared; Clone is meant for before/after comparisons, not for forking a
// game.
func (b *Board) Clone() *Board {
	nb := &Board{rows: b.rows, cols: b.cols}
	nb.mask = make([]bool, len(b.mask))
	copy(nb.mask, b.mask)
	nb.cells = make([]*Tile, len(b.cells))
	copy(nb.cells, b.cells)
	return nb
}

// Equal reports whether two boards have identical shape, masks, and slot
// contents (by tile identity).
func (b *Board) Equal(other *Board) bool {
	if b.rows != other.rows || b.cols != other.cols {
		return false
	}
	for i := range b.cells {
		if b.mask[i] != other.mask[i] || b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// PlayableCount returns the number of playable cells.
func (b *Board) PlayableCount() int {
	n := 0
	for _, ok := range b.mask {
		if ok {
			n++
		}
	}
	return n
}

// OccupiedCount returns the number of cells currently holding a tile.
func (b *Board) OccupiedCount() int {
	n := 0
	for _, t := range b.cells {
		if t != nil {
			n++
		}
	}
	return n
}
