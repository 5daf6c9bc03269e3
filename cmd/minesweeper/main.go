// minesweeper is a terminal minesweeper with streaks and leaderboards.
//
// Usage:
//
//	minesweeper list                    - List difficulties
//	minesweeper play [difficulty]       - Play a board
//	minesweeper menu                    - Pick difficulties interactively
//	minesweeper leaderboard <difficulty> - Show best streaks
//	minesweeper streaks <player>        - Show a player's streaks
//	minesweeper serve                   - Start SSH server for remote play
//	minesweeper api                     - Start the HTTP stats API
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 30)
//	--seed <value>   - Set RNG seed for reproducible boards
//	--db <path>      - Set database path (default: ~/.minesweeper/stats.db)
//	--config <path>  - Set difficulty presets file
//	--player <name>  - Record results under this name
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	// Import the game to register its difficulties
	_ "github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
	flagPlayer string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Minesweeper in your terminal",
	Long: `Minesweeper in your terminal, with win streaks and leaderboards
kept in a local SQLite database.

Available commands:
  list         - Show the difficulties
  play         - Play a board directly
  menu         - Interactive difficulty picker
  leaderboard  - Best streaks for a difficulty
  streaks      - A player's streaks and recent games
  serve        - Start SSH server for remote play
  api          - Start the HTTP stats API

Examples:
  minesweeper play easy --player ana
  minesweeper play --rows 20 --cols 40 --mines 150
  minesweeper menu --player ana
  minesweeper leaderboard hard
  minesweeper serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.minesweeper/stats.db", "Path to stats database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom difficulty presets YAML")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name results are recorded under (empty = no stats)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(streaksCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}

// newLogger returns a stderr logger with the given prefix.
func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// runtimeConfig builds the runtime config from flags and the terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
