package config

import (
	_ "embed"
)

//go:embed defaults/gemfall.yaml
var defaultGemfallYAML []byte

// DefaultGemfallConfig returns the default Gemfall configuration.
func DefaultGemfallConfig() GemfallConfig {
	return GemfallConfig{
		Board: BoardConfig{
			Shape:        "classic",
			Kinds:        5,
			MaxRotations: 5,
			AutoShuffle:  true,
		},
		Scoring: ScoringConfig{
			TilePoints: 10,
		},
		Generation: GenerationConfig{
			FillRetries:    50,
			ShuffleRetries: 50,
			BoardRetries:   100,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for the game.
func GetDefaultYAML() []byte {
	return defaultGemfallYAML
}
