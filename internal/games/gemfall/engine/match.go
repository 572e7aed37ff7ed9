package engine

import "sort"

// MinRun is the shortest run of same-kind tiles that counts as a match.
const MinRun = 3

// FindMatches scans every row left-to-right and every column top-to-bottom
// and returns the deduplicated union of all coordinates belonging to runs
// of MinRun or more consecutive playable, occupied, same-kind tiles. A
// blocked or empty cell terminates a run; runs never merge across one.
// The result is sorted row-major for deterministic iteration.
func FindMatches(b *Board) []Coord {
	matched := make(map[Coord]struct{})

	// Horizontal runs.
	for r := 0; r < b.Rows(); r++ {
		start := 0
		for c := 0; c <= b.Cols(); c++ {
			if c < b.Cols() && sameRun(b, r, start, r, c) {
				continue
			}
			flushRun(matched, r, start, r, c-1)
			start = c
		}
	}

	// Vertical runs.
	for c := 0; c < b.Cols(); c++ {
		start := 0
		for r := 0; r <= b.Rows(); r++ {
			if r < b.Rows() && sameRun(b, start, c, r, c) {
				continue
			}
			flushRun(matched, start, c, r-1, c)
			start = r
		}
	}

	out := make([]Coord, 0, len(matched))
	for coord := range matched {
		out = append(out, coord)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].R != out[j].R {
			return out[i].R < out[j].R
		}
		return out[i].C < out[j].C
	})
	return out
}

// sameRun reports whether the cell at (r2,c2) continues the run anchored
// at (r1,c1): both playable, both occupied, same kind.
func sameRun(b *Board, r1, c1, r2, c2 int) bool {
	if !b.IsPlayable(r2, c2) || b.Get(r2, c2) == nil {
		return false
	}
	anchor := b.Get(r1, c1)
	if anchor == nil || !b.IsPlayable(r1, c1) {
		return false
	}
	return anchor.Kind == b.Get(r2, c2).Kind
}

// flushRun records every coordinate of the inclusive run [start..end] along
// one axis, if the run is long enough.
func flushRun(matched map[Coord]struct{}, r1, c1, r2, c2 int) {
	if r1 == r2 {
		if c2-c1+1 < MinRun {
			return
		}
		for c := c1; c <= c2; c++ {
			matched[Coord{R: r1, C: c}] = struct{}{}
		}
		return
	}
	if r2-r1+1 < MinRun {
		return
	}
	for r := r1; r <= r2; r++ {
		matched[Coord{R: r, C: c1}] = struct{}{}
	}
}

// WouldMatch reports whether placing a tile of the given kind at (r,c)
// would complete a run with its two immediate left or two immediate upper
// neighbors. It is a cheap local check used only during generation and
// shuffle, and is valid only under the assumption that no match already
// exists elsewhere on the board.
func WouldMatch(b *Board, r, c int, k Kind) bool {
	if c >= 2 && tileKindIs(b, r, c-1, k) && tileKindIs(b, r, c-2, k) {
		return true
	}
	if r >= 2 && tileKindIs(b, r-1, c, k) && tileKindIs(b, r-2, c, k) {
		return true
	}
	return false
}

func tileKindIs(b *Board, r, c int, k Kind) bool {
	if !b.IsPlayable(r, c) {
		return false
	}
	t := b.Get(r, c)
	return t != nil && t.Kind == k
}

// HasValidMove reports whether at least one swap of two adjacent playable,
// occupied cells would produce a match. Each candidate pair is tentatively
// swapped, checked locally at both swapped coordinates, and swapped back;
// the board is always restored to its exact prior state.
func HasValidMove(b *Board) bool {
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if !occupiedPlayable(b, r, c) {
				continue
			}
			if c+1 < b.Cols() && occupiedPlayable(b, r, c+1) {
				if swapMakesMatch(b, Coord{r, c}, Coord{r, c + 1}) {
					return true
				}
			}
			if r+1 < b.Rows() && occupiedPlayable(b, r+1, c) {
				if swapMakesMatch(b, Coord{r, c}, Coord{r + 1, c}) {
					return true
				}
			}
		}
	}
	return false
}

func occupiedPlayable(b *Board, r, c int) bool {
	return b.IsPlayable(r, c) && b.Get(r, c) != nil
}

// swapMakesMatch tentatively swaps a and d, checks for a run of MinRun
// through either coordinate, and unconditionally swaps back.
func swapMakesMatch(b *Board, a, d Coord) bool {
	b.Swap(a, d)
	ok := matchAt(b, a) || matchAt(b, d)
	b.Swap(a, d)
	return ok
}

// matchAt reports whether the tile at the coordinate participates in a
// horizontal or vertical run of MinRun, expanding through playable,
// occupied, same-kind neighbors only.
func matchAt(b *Board, at Coord) bool {
	t := b.Get(at.R, at.C)
	if t == nil || !b.IsPlayable(at.R, at.C) {
		return false
	}
	// Horizontal.
	n := 1
	for c := at.C - 1; c >= 0 && tileKindIs(b, at.R, c, t.Kind); c-- {
		n++
	}
	for c := at.C + 1; c < b.Cols() && tileKindIs(b, at.R, c, t.Kind); c++ {
		n++
	}
	if n >= MinRun {
		return true
	}
	// Vertical.
	n = 1
	for r := at.R - 1; r >= 0 && tileKindIs(b, r, at.C, t.Kind); r-- {
		n++
	}
	for r := at.R + 1; r < b.Rows() && tileKindIs(b, r, at.C, t.Kind); r++ {
		n++
	}
	return n >= MinRun
}
