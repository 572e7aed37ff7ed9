package engine

import (
	"fmt"
	"strings"
)

// Pattern is a board playability mask parsed from a row-delimited token
// string. Token "0" marks a blocked cell; any other token is playable.
// Short rows are padded to the longest row's length with playable cells.
type Pattern struct {
	rows int
	cols int
	mask []bool
}

// ParsePattern parses a pattern from newline-delimited rows of
// whitespace-separated tokens:
//
//	1 1 0 1
//	1 1 1 1
//
// Blank lines are skipped. Returns an error for an empty pattern.
func ParsePattern(s string) (Pattern, error) {
	var rows [][]bool
	cols := 0
	for _, line := range strings.Split(s, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		row := make([]bool, len(fields))
		for i, tok := range fields {
			row[i] = tok != "0"
		}
		if len(row) > cols {
			cols = len(row)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 || cols == 0 {
		return Pattern{}, fmt.Errorf("engine: pattern has no cells")
	}

	p := Pattern{rows: len(rows), cols: cols, mask: make([]bool, len(rows)*cols)}
	for r, row := range rows {
		for c := 0; c < cols; c++ {
			if c < len(row) {
				p.mask[r*cols+c] = row[c]
			} else {
				// Pad short rows with playable cells.
				p.mask[r*cols+c] = true
			}
		}
	}
	return p, nil
}

// FullPattern returns a fully-playable rows×cols pattern.
// Panics on non-positive dimensions.
func FullPattern(rows, cols int) Pattern {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("engine: invalid pattern size %dx%d", rows, cols))
	}
	mask := make([]bool, rows*cols)
	for i := range mask {
		mask[i] = true
	}
	return Pattern{rows: rows, cols: cols, mask: mask}
}

// Rows returns the pattern height.
func (p Pattern) Rows() int { return p.rows }

// Cols returns the pattern width.
func (p Pattern) Cols() int { return p.cols }

// Playable reports whether the cell at (r,c) is playable.
func (p Pattern) Playable(r, c int) bool {
	return p.mask[r*p.cols+c]
}

// PlayableCount returns the number of playable cells in the pattern.
func (p Pattern) PlayableCount() int {
	n := 0
	for _, ok := range p.mask {
		if ok {
			n++
		}
	}
	return n
}
