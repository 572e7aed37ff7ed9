// Package config provides YAML-based game configuration loading and
// difficulty presets for the Gemfall platform.
package config

// GemfallConfig contains all configuration for the Gemfall game.
type GemfallConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Generation GenerationConfig `yaml:"generation"`
}

// BoardConfig defines the board shape and session rules.
type BoardConfig struct {
	Shape        string `yaml:"shape"`         // board definition ID (classic, diamond, ...)
	Kinds        int    `yaml:"kinds"`         // number of gem kinds
	MaxRotations int    `yaml:"max_rotations"` // rotation budget per session
	AutoShuffle  bool   `yaml:"auto_shuffle"`  // reshuffle automatically when stuck
}

// ScoringConfig defines score values.
type ScoringConfig struct {
	TilePoints int `yaml:"tile_points"` // points per matched tile
}

// GenerationConfig defines the retry ceilings for board generation and
// shuffling. Exhausted ceilings degrade to best effort, never an error.
type GenerationConfig struct {
	FillRetries    int `yaml:"fill_retries"`
	ShuffleRetries int `yaml:"shuffle_retries"`
	BoardRetries   int `yaml:"board_retries"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ApplyPreset adjusts the config for a difficulty preset: harder presets
// add gem kinds (fewer natural matches) and shrink the rotation budget.
// Unknown or empty presets leave the config untouched.
func ApplyPreset(cfg *GemfallConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Board.Kinds = 5
		cfg.Board.MaxRotations = 8
	case DifficultyNormal:
		cfg.Board.Kinds = 6
		cfg.Board.MaxRotations = 5
	case DifficultyHard:
		cfg.Board.Kinds = 7
		cfg.Board.MaxRotations = 3
	}
}

// ValidPreset reports whether the preset name is recognized.
// The empty string means "use the config as loaded".
func ValidPreset(preset string) bool {
	switch DifficultyPreset(preset) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return preset == ""
}
