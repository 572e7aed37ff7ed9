package engine

import "testing"

func TestBoardGetSet(t *testing.T) {
	b := NewBoard(FullPattern(3, 3))

	if b.Rows() != 3 || b.Cols() != 3 {
		t.Fatalf("dimensions = %dx%d, want 3x3", b.Rows(), b.Cols())
	}
	if b.Get(1, 1) != nil {
		t.Error("new board should be empty")
	}

	tile := &Tile{ID: 1, Kind: 2}
	b.Set(1, 1, tile)
	if b.Get(1, 1) != tile {
		t.Error("Get should return the tile just placed")
	}
	if b.OccupiedCount() != 1 {
		t.Errorf("OccupiedCount = %d, want 1", b.OccupiedCount())
	}

	b.Set(1, 1, nil)
	if b.Get(1, 1) != nil {
		t.Error("Set(nil) should clear the slot")
	}
}

func TestBoardOutOfRangePanics(t *testing.T) {
	b := NewBoard(FullPattern(2, 2))

	coords := []struct{ r, c int }{
		{-1, 0},
		{0, -1},
		{2, 0},
		{0, 2},
	}

	for _, at := range coords {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Get(%d,%d) should panic", at.r, at.c)
				}
			}()
			b.Get(at.r, at.c)
		}()
	}
}

func TestBoardBlockedCellRejectsTile(t *testing.T) {
	p, err := ParsePattern("1 0\n1 1")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	b := NewBoard(p)

	if b.IsPlayable(0, 1) {
		t.Fatal("cell (0,1) should be blocked")
	}

	defer func() {
		if recover() == nil {
			t.Error("placing a tile on a blocked cell should panic")
		}
	}()
	b.Set(0, 1, &Tile{ID: 1})
}

func TestBoardSwap(t *testing.T) {
	b := NewBoard(FullPattern(2, 2))
	t1 := &Tile{ID: 1, Kind: 0}
	t2 := &Tile{ID: 2, Kind: 1}
	b.Set(0, 0, t1)
	b.Set(0, 1, t2)

	b.Swap(Coord{0, 0}, Coord{0, 1})

	if b.Get(0, 0) != t2 || b.Get(0, 1) != t1 {
		t.Error("Swap should exchange the two slots")
	}
}

func TestBoardCloneEqual(t *testing.T) {
	p, err := ParsePattern("1 1 1\n1 0 1")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	b := NewBoard(p)
	b.Set(0, 0, &Tile{ID: 1, Kind: 3})

	clone := b.Clone()
	if !b.Equal(clone) {
		t.Error("clone should equal the original")
	}

	b.Set(1, 0, &Tile{ID: 2, Kind: 1})
	if b.Equal(clone) {
		t.Error("mutation should break equality with the clone")
	}
}

func TestZeroSizedBoardPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewBoard with a zero-sized pattern should panic")
		}
	}()
	NewBoard(Pattern{})
}
