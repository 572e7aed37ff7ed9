package engine

import "testing"

func TestDirForAngle(t *testing.T) {
	tests := []struct {
		angle int
		want  Dir
	}{
		{0, DirDown},
		{90, DirLeft},
		{180, DirUp},
		{270, DirRight},
	}
	for _, tt := range tests {
		if got := DirForAngle(tt.angle); got != tt.want {
			t.Errorf("DirForAngle(%d) = %v, want %v", tt.angle, got, tt.want)
		}
	}
}

func TestDirForAngleInvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("DirForAngle(45) should panic")
		}
	}()
	DirForAngle(45)
}

func TestCompactDownPacksLowRows(t *testing.T) {
	// Column of height 5 with tiles only at rows 0, 2, 4.
	b := NewBoard(FullPattern(5, 1))
	t0 := &Tile{ID: 1, Kind: 0}
	t2 := &Tile{ID: 2, Kind: 1}
	t4 := &Tile{ID: 3, Kind: 2}
	b.Set(0, 0, t0)
	b.Set(2, 0, t2)
	b.Set(4, 0, t4)

	moved := Compact(b, DirDown, nil)
	if !moved {
		t.Error("first pass should report movement")
	}

	// Packed at rows 0..2 in original relative order.
	want := []*Tile{t0, t2, t4, nil, nil}
	for r, tile := range want {
		if b.Get(r, 0) != tile {
			t.Errorf("row %d holds %v, want %v", r, b.Get(r, 0), tile)
		}
	}

	if Compact(b, DirDown, nil) {
		t.Error("second immediate pass should report no movement")
	}
}

func TestCompactSkipsBlockedCells(t *testing.T) {
	// Mask [playable, blocked, playable, playable], tile only at row 3.
	p, err := ParsePattern("1\n0\n1\n1")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	b := NewBoard(p)
	tile := &Tile{ID: 1, Kind: 0}
	b.Set(3, 0, tile)

	var gotR, gotC int
	moves := 0
	moved := Compact(b, DirDown, func(t *Tile, r, c int) {
		moves++
		gotR, gotC = r, c
	})

	if !moved {
		t.Fatal("tile should move")
	}
	if moves != 1 {
		t.Fatalf("onMoved fired %d times, want 1", moves)
	}
	if gotR != 0 || gotC != 0 {
		t.Errorf("tile moved to (%d,%d), want (0,0): blocked cell must be skipped", gotR, gotC)
	}
	if b.Get(0, 0) != tile {
		t.Error("tile should land on the lowest playable cell")
	}
	if b.Get(2, 0) != nil || b.Get(3, 0) != nil {
		t.Error("vacated cells should be empty")
	}
}

func TestCompactDirections(t *testing.T) {
	newRow := func() (*Board, *Tile, *Tile) {
		b := NewBoard(FullPattern(1, 4))
		a := &Tile{ID: 1, Kind: 0}
		d := &Tile{ID: 2, Kind: 1}
		b.Set(0, 1, a)
		b.Set(0, 3, d)
		return b, a, d
	}

	t.Run("left packs low columns", func(t *testing.T) {
		b, a, d := newRow()
		Compact(b, DirLeft, nil)
		if b.Get(0, 0) != a || b.Get(0, 1) != d {
			t.Error("Left should pack tiles at columns 0,1 preserving order")
		}
	})

	t.Run("right packs high columns", func(t *testing.T) {
		b, a, d := newRow()
		Compact(b, DirRight, nil)
		if b.Get(0, 2) != a || b.Get(0, 3) != d {
			t.Error("Right should pack tiles at columns 2,3 preserving order")
		}
	})

	t.Run("up packs high rows", func(t *testing.T) {
		b := NewBoard(FullPattern(4, 1))
		a := &Tile{ID: 1, Kind: 0}
		d := &Tile{ID: 2, Kind: 1}
		b.Set(0, 0, a)
		b.Set(2, 0, d)
		Compact(b, DirUp, nil)
		if b.Get(2, 0) != a || b.Get(3, 0) != d {
			t.Error("Up should pack tiles at rows 2,3 preserving order")
		}
	})
}

func TestCompactFullLineIsStable(t *testing.T) {
	b := NewBoard(FullPattern(3, 1))
	tiles := []*Tile{{ID: 1}, {ID: 2}, {ID: 3}}
	for r, tile := range tiles {
		b.Set(r, 0, tile)
	}

	for _, d := range []Dir{DirDown, DirUp, DirLeft, DirRight} {
		if Compact(b, d, nil) {
			t.Errorf("%v pass over a full board should not move anything", d)
		}
		for r, tile := range tiles {
			if b.Get(r, 0) != tile {
				t.Fatalf("%v pass reordered a full line", d)
			}
		}
	}
}
