package boards

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	defs := Defaults()
	if len(defs) < 4 {
		t.Fatalf("expected at least 4 embedded boards, got %d", len(defs))
	}

	ids := make(map[string]bool)
	for _, def := range defs {
		if def.ID == "" || def.Name == "" {
			t.Errorf("embedded board with empty id/name: %+v", def)
		}
		if ids[def.ID] {
			t.Errorf("duplicate board id %q", def.ID)
		}
		ids[def.ID] = true
		if def.Pattern().PlayableCount() == 0 {
			t.Errorf("board %q has no playable cells", def.ID)
		}
	}

	for _, want := range []string{"classic", "diamond", "cross", "ring"} {
		if !ids[want] {
			t.Errorf("embedded board %q missing", want)
		}
	}
}

func TestClassicIsFullyPlayable(t *testing.T) {
	def := Default()
	p := def.Pattern()
	if p.Rows() != 8 || p.Cols() != 8 {
		t.Fatalf("classic size = %s, want 8x8", def.Size())
	}
	if p.PlayableCount() != 64 {
		t.Errorf("classic playable cells = %d, want 64", p.PlayableCount())
	}
}

func TestRingHasBlockedCenter(t *testing.T) {
	def, err := ByID("ring")
	if err != nil {
		t.Fatalf("ByID(ring): %v", err)
	}
	p := def.Pattern()
	for _, at := range [][2]int{{3, 3}, {3, 4}, {4, 3}, {4, 4}} {
		if p.Playable(at[0], at[1]) {
			t.Errorf("ring center cell (%d,%d) should be blocked", at[0], at[1])
		}
	}
}

func TestParseCompactRows(t *testing.T) {
	data := "id: my-board\nname: My Board\nrows:\n  - \".....\"\n  - \".###.\"\n  - \".....\"\n"
	def, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := def.Pattern()
	if p.Rows() != 3 || p.Cols() != 5 {
		t.Fatalf("size = %s, want 3x5", def.Size())
	}
	if p.PlayableCount() != 12 {
		t.Errorf("playable cells = %d, want 12", p.PlayableCount())
	}
	for c := 1; c <= 3; c++ {
		if p.Playable(1, c) {
			t.Errorf("cell (1,%d) should be blocked", c)
		}
	}
}

func TestParseMixedRowForms(t *testing.T) {
	// Compact and token rows describe the same shape.
	compact, err := Parse([]byte("id: a\nrows: [\"#..\", \".#.\"]"))
	if err != nil {
		t.Fatalf("Parse compact: %v", err)
	}
	tokens, err := Parse([]byte("id: b\nrows: [\"0 1 1\", \"1 0 1\"]"))
	if err != nil {
		t.Fatalf("Parse tokens: %v", err)
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			if compact.Pattern().Playable(r, c) != tokens.Pattern().Playable(r, c) {
				t.Errorf("cell (%d,%d) differs between row forms", r, c)
			}
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing id", "name: X\nrows: [\"1 1 1\"]"},
		{"no rows", "id: x\nname: X"},
		{"bad yaml", "id: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("Parse should fail")
			}
		})
	}
}

func TestLoaderLoadsCustomBoards(t *testing.T) {
	dir := t.TempDir()
	custom := "id: slot\nname: Slot\nrows:\n  - \"1 0 1\"\n  - \"1 1 1\"\n  - \"1 0 1\"\n"
	if err := os.WriteFile(filepath.Join(dir, "slot.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}
	// Invalid files are skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir)
	defs, err := l.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(defs) != 1 || defs[0].ID != "slot" {
		t.Fatalf("LoadAll = %+v, want the single valid board", defs)
	}

	def, err := l.Resolve("slot")
	if err != nil {
		t.Fatalf("Resolve(slot): %v", err)
	}
	if def.Pattern().PlayableCount() != 7 {
		t.Errorf("slot playable cells = %d, want 7", def.Pattern().PlayableCount())
	}

	// Embedded IDs resolve without touching the directory.
	if _, err := l.Resolve("classic"); err != nil {
		t.Errorf("Resolve(classic): %v", err)
	}

	if _, err := l.Resolve("nope"); err == nil {
		t.Error("Resolve of unknown id should fail")
	}
}
