package engine

import "fmt"

// Dir is the compaction direction currently in effect, derived from the
// board's rotation angle.
type Dir uint8

const (
	DirDown Dir = iota
	DirLeft
	DirUp
	DirRight
)

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// DirForAngle maps a rotation angle to its gravity direction:
// 0°→Down, 90°→Left, 180°→Up, 270°→Right. Any other angle is a
// programming error.
func DirForAngle(angle int) Dir {
	switch angle {
	case 0:
		return DirDown
	case 90:
		return DirLeft
	case 180:
		return DirUp
	case 270:
		return DirRight
	default:
		panic(fmt.Sprintf("engine: invalid rotation angle %d", angle))
	}
}

// Compact performs exactly one gravity pass over the whole board in the
// given direction and reports whether any tile moved. Per affected line
// (column for Down/Up, row for Left/Right) it collects all tiles in the
// line's playable cells in line order, clears those cells, and re-places
// the tiles in their original relative order packed against the
// gravity-direction end of the playable-cell sequence. Blocked cells are
// gaps that never receive a tile and never interrupt the packing order.
//
// Down packs toward the lowest row index, Up toward the highest; Left
// packs toward the lowest column index, Right toward the highest. Each
// relocated tile triggers one onMoved call with its new coordinate;
// onMoved may be nil.
func Compact(b *Board, d Dir, onMoved func(t *Tile, r, c int)) bool {
	moved := false
	switch d {
	case DirDown, DirUp:
		for c := 0; c < b.Cols(); c++ {
			line := make([]Coord, 0, b.Rows())
			for r := 0; r < b.Rows(); r++ {
				if b.IsPlayable(r, c) {
					line = append(line, Coord{R: r, C: c})
				}
			}
			if compactLine(b, line, d == DirUp, onMoved) {
				moved = true
			}
		}
	case DirLeft, DirRight:
		for r := 0; r < b.Rows(); r++ {
			line := make([]Coord, 0, b.Cols())
			for c := 0; c < b.Cols(); c++ {
				if b.IsPlayable(r, c) {
					line = append(line, Coord{R: r, C: c})
				}
			}
			if compactLine(b, line, d == DirRight, onMoved) {
				moved = true
			}
		}
	}
	return moved
}

// compactLine packs the tiles of one line of playable cells against the
// start (packEnd=false) or end (packEnd=true) of the line, preserving
// their relative order. Returns true if any tile changed slots.
func compactLine(b *Board, line []Coord, packEnd bool, onMoved func(t *Tile, r, c int)) bool {
	tiles := make([]*Tile, 0, len(line))
	from := make([]Coord, 0, len(line))
	for _, at := range line {
		if t := b.Get(at.R, at.C); t != nil {
			tiles = append(tiles, t)
			from = append(from, at)
			b.Set(at.R, at.C, nil)
		}
	}

	offset := 0
	if packEnd {
		offset = len(line) - len(tiles)
	}

	moved := false
	for i, t := range tiles {
		dst := line[offset+i]
		b.Set(dst.R, dst.C, t)
		if dst != from[i] {
			moved = true
			if onMoved != nil {
				onMoved(t, dst.R, dst.C)
			}
		}
	}
	return moved
}
