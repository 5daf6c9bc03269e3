package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/tui-minesweeper/internal/platform/tui"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
	"github.com/vovakirdan/tui-minesweeper/internal/stats"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var (
	flagRows  int
	flagCols  int
	flagMines int
)

var playCmd = &cobra.Command{
	Use:   "play [easy|medium|hard]",
	Short: "Play a board",
	Long: `Start a game on a preset difficulty (easy if omitted), or on a custom
board when --rows, --cols and --mines are given. Custom boards do not
count towards streaks.

Controls:
  Arrows/hjkl/wasd  - Move cursor
  Space/Enter       - Reveal (on a number: chord)
  F/X               - Flag
  Mouse             - Left reveal, right flag, middle chord
  P                 - Pause
  R                 - Restart (after game over)
  B/Esc             - Back
  Q/Ctrl+C          - Quit

Examples:
  minesweeper play
  minesweeper play hard --player ana
  minesweeper play --rows 20 --cols 40 --mines 150
  minesweeper play medium --config ./my-presets.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagRows, "rows", 0, "Rows of a custom board")
	playCmd.Flags().IntVar(&flagCols, "cols", 0, "Columns of a custom board")
	playCmd.Flags().IntVar(&flagMines, "mines", 0, "Mines on a custom board")
}

func runPlay(cmd *cobra.Command, args []string) {
	custom := cmd.Flags().Changed("rows") || cmd.Flags().Changed("cols") || cmd.Flags().Changed("mines")
	if custom && len(args) > 0 {
		fail("give either a difficulty or --rows/--cols/--mines, not both")
	}

	// Invalid presets fail here instead of silently falling back in game
	if _, err := config.LoadMinesweeper(flagConfig); err != nil {
		fail("%v", err)
	}
	minesweeper.SetConfigPath(flagConfig)

	var game registry.Game
	if custom {
		d, err := config.Custom(flagRows, flagCols, flagMines)
		if err != nil {
			fail("%v", err)
		}
		game = minesweeper.New(d)
	} else {
		id := config.DifficultyEasy
		if len(args) == 1 {
			parsed, err := config.ParseDifficulty(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				fmt.Fprintln(os.Stderr, "Run 'minesweeper list' to see available difficulties.")
				os.Exit(1)
			}
			id = parsed
		}

		var err error
		game, err = registry.Create(string(id))
		if err != nil {
			fail("creating game: %v", err)
		}
	}

	logger := newLogger("minesweeper")
	store, tracker := openStats(logger)

	_, runErr := tui.Run(game, tracker, runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}

// openStats opens the database and logs the player in. Without a database
// or a player the game still runs, it just records nothing.
// Startup problems go to logger; the tracker itself stays silent because
// it reports while the TUI owns the terminal.
func openStats(logger *log.Logger) (*storage.Store, *stats.Tracker) {
	quiet := log.New(io.Discard)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open stats database, results will not be saved", "error", err)
		return nil, tui.NewStatsTracker(nil, flagPlayer, quiet)
	}

	if flagPlayer == "" {
		return store, tui.NewStatsTracker(nil, "", quiet)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	player, err := store.Login(ctx, flagPlayer)
	if err != nil {
		logger.Warn("could not log in, results will not be saved", "player", flagPlayer, "error", err)
		return store, tui.NewStatsTracker(nil, "", quiet)
	}

	return store, tui.NewStatsTracker(store, player.Name, quiet)
}
