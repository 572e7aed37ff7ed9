package engine

import "testing"

func TestParsePattern(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		rows, cols int
		blocked    []Coord
	}{
		{
			name:  "all playable",
			input: "1 1 1\n1 1 1",
			rows:  2,
			cols:  3,
		},
		{
			name:    "zero token blocks",
			input:   "1 0 1\n1 1 1",
			rows:    2,
			cols:    3,
			blocked: []Coord{{0, 1}},
		},
		{
			name:  "non-numeric tokens are playable",
			input: "x . 1\n1 1 1",
			rows:  2,
			cols:  3,
		},
		{
			name:  "short rows pad playable",
			input: "1 1\n1 1 1 1",
			rows:  2,
			cols:  4,
		},
		{
			name:    "blank lines skipped",
			input:   "\n1 0\n\n1 1\n",
			rows:    2,
			cols:    2,
			blocked: []Coord{{0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePattern(tt.input)
			if err != nil {
				t.Fatalf("ParsePattern: %v", err)
			}
			if p.Rows() != tt.rows || p.Cols() != tt.cols {
				t.Fatalf("size = %dx%d, want %dx%d", p.Rows(), p.Cols(), tt.rows, tt.cols)
			}
			blocked := make(map[Coord]bool)
			for _, at := range tt.blocked {
				blocked[at] = true
			}
			for r := 0; r < p.Rows(); r++ {
				for c := 0; c < p.Cols(); c++ {
					want := !blocked[Coord{r, c}]
					if p.Playable(r, c) != want {
						t.Errorf("Playable(%d,%d) = %v, want %v", r, c, p.Playable(r, c), want)
					}
				}
			}
		})
	}
}

func TestParsePatternEmpty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \n  "} {
		if _, err := ParsePattern(input); err == nil {
			t.Errorf("ParsePattern(%q) should fail", input)
		}
	}
}

func TestFullPattern(t *testing.T) {
	p := FullPattern(4, 5)
	if p.PlayableCount() != 20 {
		t.Errorf("PlayableCount = %d, want 20", p.PlayableCount())
	}
}
