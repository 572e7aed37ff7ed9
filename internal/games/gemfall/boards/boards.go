// Package boards provides the board-shape library for Gemfall: named
// playability patterns parsed from YAML, with embedded defaults and an
// on-disk loader for custom shapes. It depends on engine; engine does not
// depend on it.
package boards

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-gemfall/internal/games/gemfall/engine"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Definition is a named board shape.
type Definition struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	Rows    []string       `yaml:"rows"`
	pattern engine.Pattern `yaml:"-"`
}

// Pattern returns the parsed playability pattern.
func (d Definition) Pattern() engine.Pattern {
	return d.pattern
}

// Size returns the pattern dimensions as "RxC".
func (d Definition) Size() string {
	return fmt.Sprintf("%dx%d", d.pattern.Rows(), d.pattern.Cols())
}

// Parse decodes a YAML board definition and validates its pattern.
// Rows come in two forms: compact strings like ".###." where '.' is
// playable and '#' (or '0') blocked, or whitespace-separated tokens
// like "1 0 1" where only the token 0 blocks.
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("boards: cannot parse definition: %w", err)
	}
	if def.ID == "" {
		return Definition{}, fmt.Errorf("boards: definition has no id")
	}
	rows := make([]string, len(def.Rows))
	for i, row := range def.Rows {
		rows[i] = normalizeRow(row)
	}
	p, err := engine.ParsePattern(strings.Join(rows, "\n"))
	if err != nil {
		return Definition{}, fmt.Errorf("boards: definition %q: %w", def.ID, err)
	}
	def.pattern = p
	return def, nil
}

// normalizeRow expands a compact row into the whitespace-separated
// tokens the pattern parser expects. Each rune becomes one cell: '#'
// and '0' block, everything else is playable. Rows that already
// contain whitespace are token rows and pass through unchanged.
func normalizeRow(row string) string {
	row = strings.TrimSpace(row)
	if strings.ContainsAny(row, " \t") {
		return row
	}
	tokens := make([]string, 0, len(row))
	for _, r := range row {
		if r == '#' || r == '0' {
			tokens = append(tokens, "0")
		} else {
			tokens = append(tokens, "1")
		}
	}
	return strings.Join(tokens, " ")
}

// Defaults returns the embedded board definitions, sorted by ID.
// The embedded files are part of the build; a parse failure is a
// programming error and panics.
func Defaults() []Definition {
	entries, err := defaultsFS.ReadDir("defaults")
	if err != nil {
		panic(fmt.Sprintf("boards: cannot read embedded defaults: %v", err))
	}

	defs := make([]Definition, 0, len(entries))
	for _, e := range entries {
		data, err := defaultsFS.ReadFile("defaults/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("boards: cannot read embedded %s: %v", e.Name(), err))
		}
		def, err := Parse(data)
		if err != nil {
			panic(fmt.Sprintf("boards: embedded %s: %v", e.Name(), err))
		}
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// Default returns the standard fully-playable board.
func Default() Definition {
	def, err := ByID(DefaultID)
	if err != nil {
		panic("boards: embedded default board missing")
	}
	return def
}

// DefaultID is the board used when no shape is requested.
const DefaultID = "classic"

// ByID finds an embedded board definition by ID.
func ByID(id string) (Definition, error) {
	for _, def := range Defaults() {
		if def.ID == id {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("boards: unknown board %q", id)
}
