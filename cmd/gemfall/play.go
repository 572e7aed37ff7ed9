package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-gemfall/internal/config"
	"github.com/vovakirdan/tui-gemfall/internal/core"
	"github.com/vovakirdan/tui-gemfall/internal/games/gemfall"
	"github.com/vovakirdan/tui-gemfall/internal/platform/tui"
	"github.com/vovakirdan/tui-gemfall/internal/registry"
	"github.com/vovakirdan/tui-gemfall/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagShape      string
	flagLevel      int
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play Gemfall",
	Long: `Start playing. Without an argument a mode picker is shown;
with a mode ID the game starts directly.

Controls:
  W/A/S/D or arrows - Move cursor
  Space/Enter       - Select gem (select two adjacent gems to swap)
  [ / ]             - Rotate board left / right
  P                 - Pause
  R                 - Restart (after game over)
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - More shuffle budget, generous boards
  normal - Default tuning
  hard   - Tighter boards, fewer gem colors repeated

Examples:
  gemfall play
  gemfall play gemfall --level 3
  gemfall play gemfall_zen --shape diamond
  gemfall play gemfall --difficulty hard
  gemfall play gemfall --config ./my-gemfall.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagShape, "shape", "", "Board shape for zen mode (see 'gemfall boards')")
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start from (1-based)")
}

func runPlay(cmd *cobra.Command, args []string) {
	if !config.ValidPreset(flagDifficulty) {
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q (easy, normal, hard)\n", flagDifficulty)
		os.Exit(1)
	}

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}

	gemfall.SetConfigPath(flagConfig)
	gemfall.SetDifficultyPreset(flagDifficulty)

	var gameID string
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Run 'gemfall list' to see available modes.")
			os.Exit(1)
		}

		if flagShape != "" {
			gemfall.SetBoardShape(flagShape)
		}
		if flagLevel > 0 {
			gemfall.SetStartLevel(flagLevel)
		}
	} else {
		// Show mode/level/board selector
		selection, updatedCfg, selErr := tui.RunGemfallModeSelector(cfg)
		if selErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
			os.Exit(1)
		}
		cfg = updatedCfg

		// User pressed back or quit
		if selection == nil {
			return
		}

		gameID = "gemfall"
		if selection.Mode == tui.GemfallModeZen {
			gameID = "gemfall_zen"
		}
		if selection.Level > 0 {
			gemfall.SetStartLevel(selection.Level)
		}
		if selection.Board != "" {
			gemfall.SetBoardShape(selection.Board)
		}
	}

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	// Run the game
	runErr := tui.Run(game, store, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
