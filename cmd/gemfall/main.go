// gemfall is a terminal match-3 game with rotating gravity.
//
// Usage:
//
//	gemfall list              - List available modes
//	gemfall play [mode]       - Play (shows mode picker without argument)
//	gemfall menu              - Interactive menu
//	gemfall boards            - Show available board shapes
//	gemfall serve             - Start SSH server for remote play
//	gemfall scores <mode>     - Show high scores for a mode
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible boards
//	--db <path>     - Set database path (default: ~/.gemfall/scores.db)
//	--theme <name>  - Color theme: default, neon, pastel, mono
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gemfall/internal/platform/tui"

	// Import game modes to register them
	_ "github.com/vovakirdan/tui-gemfall/internal/games/gemfall"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagTheme  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gemfall",
	Short: "Gemfall - Match gems in your terminal",
	Long: `Gemfall is a terminal match-3 game. Swap adjacent gems to line up
three or more of a kind, and rotate the whole board to send the gems
tumbling in a new direction.

Available commands:
  list     - Show all available modes
  play     - Play directly (mode picker without argument)
  menu     - Interactive menu
  boards   - Show available board shapes
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  gemfall play
  gemfall play gemfall_zen --shape ring
  gemfall menu --theme neon
  gemfall serve --ssh :2222
  gemfall scores gemfall`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return tui.SetTheme(flagTheme)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gemfall/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "default", "Color theme: default, neon, pastel, mono")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
