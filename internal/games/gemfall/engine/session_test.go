package engine

import (
	"math/rand"
	"testing"
)

// moveLog records observer callbacks for assertions.
type moveLog struct {
	moves []struct {
		id   TileID
		r, c int
	}
}

func (l *moveLog) TileMoved(id TileID, r, c int) {
	l.moves = append(l.moves, struct {
		id   TileID
		r, c int
	}{id, r, c})
}

func newTestSession(t *testing.T, seed int64, cfg Config) *Session {
	t.Helper()
	if cfg.Pattern.Rows() == 0 {
		cfg.Pattern = FullPattern(8, 8)
	}
	return NewSession(cfg, rand.New(rand.NewSource(seed)), nil)
}

func TestGenerationInvariants(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1234, 99999} {
		s := newTestSession(t, seed, Config{Kinds: 5})

		if got := FindMatches(s.Board()); len(got) != 0 {
			t.Errorf("seed %d: generated board has matches: %v", seed, got)
		}
		if !s.HasMoves() {
			t.Errorf("seed %d: generated board has no valid move", seed)
		}
		if s.Board().OccupiedCount() != s.Board().PlayableCount() {
			t.Errorf("seed %d: generated board is not full", seed)
		}
		if s.Score() != 0 {
			t.Errorf("seed %d: new session score = %d, want 0", seed, s.Score())
		}
	}
}

func TestGenerationRespectsMask(t *testing.T) {
	p, err := ParsePattern("1 1 1 1\n1 0 0 1\n1 1 1 1")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	s := newTestSession(t, 3, Config{Pattern: p, Kinds: 5})

	if s.Board().Get(1, 1) != nil || s.Board().Get(1, 2) != nil {
		t.Error("blocked cells must stay empty after generation")
	}
	if s.Board().OccupiedCount() != p.PlayableCount() {
		t.Errorf("occupied = %d, want %d", s.Board().OccupiedCount(), p.PlayableCount())
	}
}

func TestSelectionFlow(t *testing.T) {
	s := newTestSession(t, 42, Config{Kinds: 5})

	s.SelectCell(2, 2)
	if at, ok := s.Selection(); !ok || at != (Coord{2, 2}) {
		t.Fatal("clicking an unselected cell should select it")
	}

	s.SelectCell(2, 2)
	if _, ok := s.Selection(); ok {
		t.Fatal("re-clicking the selected cell should deselect it")
	}

	s.SelectCell(2, 2)
	s.SelectCell(5, 5)
	if at, ok := s.Selection(); !ok || at != (Coord{5, 5}) {
		t.Fatal("clicking a non-adjacent cell should move the selection")
	}

	// Diagonal neighbors are not adjacent: selection moves instead of swapping.
	s.SelectCell(4, 4)
	if at, ok := s.Selection(); !ok || at != (Coord{4, 4}) {
		t.Fatal("diagonal click should replace the selection, not swap")
	}
}

func TestSelectionIgnoresBlockedCells(t *testing.T) {
	p, err := ParsePattern("1 0 1\n1 1 1\n1 1 1")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	s := newTestSession(t, 5, Config{Pattern: p, Kinds: 5})

	s.SelectCell(0, 1)
	if _, ok := s.Selection(); ok {
		t.Error("clicking a blocked cell should be a no-op")
	}
}

func TestFailedSwapReverts(t *testing.T) {
	s := newTestSession(t, 11, Config{Kinds: 5})
	b := s.Board()

	// Force an arrangement where no swap can match: with kinds (r+2c) mod 5,
	// every cell differs from all four neighbors and both neighbors-of-neighbors
	// along each axis, so a swapped tile never even forms a pair.
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			b.Set(r, c, &Tile{ID: TileID(r*b.Cols() + c + 1000), Kind: Kind((r + 2*c) % 5)})
		}
	}
	before := b.Clone()

	s.SelectCell(3, 3)
	s.SelectCell(3, 4)

	if !b.Equal(before) {
		t.Error("a swap that produces no match must be reverted exactly")
	}
	if s.Score() != 0 {
		t.Errorf("failed swap changed score to %d", s.Score())
	}
	if _, ok := s.Selection(); ok {
		t.Error("selection should be cleared after a failed swap")
	}
}

func TestSwapCascadeScoresAndSettles(t *testing.T) {
	s := newTestSession(t, 7, Config{Kinds: 5})
	b := s.Board()

	// Fixture: a fully deterministic arrangement with exactly one winning
	// swap. Kind layout is column-striped/offset so nothing matches at rest,
	// then one row is doctored to complete a run of 3 after swapping.
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			b.Set(r, c, &Tile{ID: TileID(r*b.Cols() + c + 2000), Kind: Kind((r + 2*c) % 5)})
		}
	}
	if got := FindMatches(b); len(got) != 0 {
		t.Fatalf("fixture must start settled, found %v", got)
	}

	// Row 0 kinds are 0,2,4,1,3,0,2,4. Make (0,0..2) = 1,1,x and put a 1 at
	// (1,2); swapping (0,2) and (1,2) completes a horizontal run of kind 1.
	b.Get(0, 0).Kind = 1
	b.Get(0, 1).Kind = 1
	b.Get(0, 2).Kind = 4
	b.Get(1, 2).Kind = 1
	if got := FindMatches(b); len(got) != 0 {
		t.Fatalf("doctored fixture must still be settled, found %v", got)
	}

	s.SelectCell(0, 2)
	s.SelectCell(1, 2)

	if s.Score() < 30 {
		t.Errorf("score = %d, want at least 30 (3 tiles x 10 points)", s.Score())
	}
	if s.Score()%10 != 0 {
		t.Errorf("score = %d, want a multiple of the per-tile points", s.Score())
	}
	if got := FindMatches(s.Board()); len(got) != 0 {
		t.Errorf("board must settle after a cascade, found %v", got)
	}
	if s.Board().OccupiedCount() != s.Board().PlayableCount() {
		t.Error("matched slots must be refilled")
	}
}

func TestSwapEmitsTileMoved(t *testing.T) {
	log := &moveLog{}
	s := NewSession(Config{Pattern: FullPattern(8, 8), Kinds: 5}, rand.New(rand.NewSource(7)), log)
	b := s.Board()

	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			b.Set(r, c, &Tile{ID: TileID(r*b.Cols() + c + 2000), Kind: Kind((r + 2*c) % 5)})
		}
	}
	b.Get(0, 0).Kind = 1
	b.Get(0, 1).Kind = 1
	b.Get(0, 2).Kind = 4
	b.Get(1, 2).Kind = 1

	log.moves = nil
	s.SelectCell(0, 2)
	s.SelectCell(1, 2)

	if len(log.moves) == 0 {
		t.Error("a successful swap with gravity must emit TileMoved callbacks")
	}
	for _, m := range log.moves {
		if m.r < 0 || m.r >= 8 || m.c < 0 || m.c >= 8 {
			t.Errorf("TileMoved reported out-of-board coordinate (%d,%d)", m.r, m.c)
		}
	}
}

func TestRotationCycle(t *testing.T) {
	s := newTestSession(t, 21, Config{Kinds: 5, MaxRotations: 10})

	if s.Angle() != 0 || s.GravityDir() != DirDown {
		t.Fatalf("initial angle = %d dir %v, want 0/Down", s.Angle(), s.GravityDir())
	}

	wantDirs := []Dir{DirLeft, DirUp, DirRight, DirDown}
	for i, want := range wantDirs {
		s.RequestRotate(RotateLeft)
		if s.GravityDir() != want {
			t.Errorf("after %d left rotations dir = %v, want %v", i+1, s.GravityDir(), want)
		}
	}

	if s.Angle() != 0 {
		t.Errorf("four rotations should return angle to 0, got %d", s.Angle())
	}
	if s.RotationsLeft() != 6 {
		t.Errorf("rotations left = %d, want 6", s.RotationsLeft())
	}
}

func TestRotationBudgetExhaustion(t *testing.T) {
	s := newTestSession(t, 21, Config{Kinds: 5, MaxRotations: 2})

	s.RequestRotate(RotateRight)
	s.RequestRotate(RotateRight)
	angle := s.Angle()

	// Budget spent: further requests are silent no-ops.
	s.RequestRotate(RotateRight)
	s.RequestRotate(RotateLeft)

	if s.RotationsLeft() != 0 {
		t.Errorf("rotations left = %d, want 0", s.RotationsLeft())
	}
	if s.Angle() != angle {
		t.Errorf("angle advanced to %d after budget exhaustion", s.Angle())
	}
}

func TestRotationKeepsBoardFullAndSettled(t *testing.T) {
	for _, seed := range []int64{3, 17, 555} {
		s := newTestSession(t, seed, Config{Kinds: 5, MaxRotations: 8})
		for i := 0; i < 4; i++ {
			s.RequestRotate(RotateRight)
			if s.Board().OccupiedCount() != s.Board().PlayableCount() {
				t.Fatalf("seed %d: board not full after rotation %d", seed, i+1)
			}
			if got := FindMatches(s.Board()); len(got) != 0 {
				t.Fatalf("seed %d: unresolved matches after rotation %d: %v", seed, i+1, got)
			}
		}
	}
}

func TestShufflePreservesKindMultiset(t *testing.T) {
	s := newTestSession(t, 9, Config{Kinds: 5})
	b := s.Board()

	count := func() map[Kind]int {
		m := make(map[Kind]int)
		for r := 0; r < b.Rows(); r++ {
			for c := 0; c < b.Cols(); c++ {
				if t := b.Get(r, c); t != nil {
					m[t.Kind]++
				}
			}
		}
		return m
	}

	before := count()
	s.shuffle()
	after := count()

	if len(before) != len(after) {
		t.Fatalf("kind multiset changed: %v vs %v", before, after)
	}
	for k, n := range before {
		if after[k] != n {
			t.Errorf("kind %d count changed from %d to %d", k, n, after[k])
		}
	}
	if b.OccupiedCount() != b.PlayableCount() {
		t.Error("shuffle must re-place every tile")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Kinds != 5 || cfg.TilePoints != 10 {
		t.Errorf("defaults = K%d/%dpts, want K5/10pts", cfg.Kinds, cfg.TilePoints)
	}
	if cfg.FillRetries != 50 || cfg.ShuffleRetries != 50 || cfg.BoardRetries != 100 {
		t.Errorf("retry ceilings = %d/%d/%d, want 50/50/100",
			cfg.FillRetries, cfg.ShuffleRetries, cfg.BoardRetries)
	}
}
