package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gemfall/internal/games/gemfall/boards"
)

var flagBoardsDir string

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "Show available board shapes",
	Long: `Lists the board shapes that zen mode can play on.

Built-in shapes are always available. Custom shapes can be loaded
from a directory of YAML files with --dir.

Board YAML format:
  id: my-board
  name: My Board
  rows:
    - "....."
    - ".###."
    - "....."

Dots are playable cells, '#' marks blocked cells. Rows may also be
written as whitespace-separated tokens where 0 blocks a cell, as in
"1 0 1".

Examples:
  gemfall boards
  gemfall boards --dir ./my-boards
  gemfall play gemfall_zen --shape ring`,
	Run: runBoards,
}

func init() {
	boardsCmd.Flags().StringVar(&flagBoardsDir, "dir", "", "Directory with custom board YAML files")
}

func runBoards(cmd *cobra.Command, args []string) {
	defs := boards.Defaults()

	if flagBoardsDir != "" {
		custom, err := boards.NewLoader(flagBoardsDir).LoadAll()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading boards from %s: %v\n", flagBoardsDir, err)
			os.Exit(1)
		}
		defs = append(defs, custom...)
	}

	fmt.Println("Available boards:")

	for _, def := range defs {
		fmt.Println()
		fmt.Printf("  %s  (%s, %s)\n", def.ID, def.Name, def.Size())
		for _, row := range def.Rows {
			fmt.Printf("    %s\n", row)
		}
	}

	fmt.Println()
	fmt.Println("Play one with 'gemfall play gemfall_zen --shape <id>'.")
}
