package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/tui-minesweeper/internal/platform/tui"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a difficulty from a menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a difficulty.
Back from a game returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab/L        - Leaderboard
  Q            - Quit

Examples:
  minesweeper menu --player ana
  minesweeper menu --fps 20
  minesweeper menu --db ./stats.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	if _, err := config.LoadMinesweeper(flagConfig); err != nil {
		fail("%v", err)
	}
	minesweeper.SetConfigPath(flagConfig)

	logger := newLogger("minesweeper")
	store, tracker := openStats(logger)
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(tracker.Player(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsLeaderboard {
			goBack, lbErr := tui.RunLeaderboard(store, tracker.Player(), cfg.ScreenW, cfg.ScreenH)
			if lbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", lbErr)
			}
			if goBack {
				continue
			}
			return
		}

		if menuResult.GameID == "" {
			return
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		backToMenu, err := tui.Run(game, tracker, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			continue
		}
		if !backToMenu {
			return
		}
	}
}
