package boards

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader scans a directory tree for custom board definition files.
type Loader struct {
	Root string
}

// NewLoader creates a loader rooted at the given directory.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively loads every .yaml/.yml board file under Root.
// Invalid files are skipped. Results are sorted by ID for deterministic
// ordering.
func (l *Loader) LoadAll() ([]Definition, error) {
	var defs []Definition

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		def, err := l.LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("boards: walking %s: %w", l.Root, err)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs, nil
}

// LoadFile loads a single board definition file.
func (l *Loader) LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("boards: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Resolve looks an ID up among the embedded defaults first, then among the
// custom definitions under Root (if Root is set). Custom boards may shadow
// nothing; embedded IDs win.
func (l *Loader) Resolve(id string) (Definition, error) {
	if def, err := ByID(id); err == nil {
		return def, nil
	}
	if l.Root != "" {
		defs, err := l.LoadAll()
		if err == nil {
			for _, def := range defs {
				if def.ID == id {
					return def, nil
				}
			}
		}
	}
	return Definition{}, fmt.Errorf("boards: unknown board %q", id)
}
