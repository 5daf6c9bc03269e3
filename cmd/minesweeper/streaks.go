package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var flagRecent int

var streaksCmd = &cobra.Command{
	Use:   "streaks <player>",
	Short: "Show a player's streaks and recent games",
	Long: `Display the current and best win streak on every difficulty, followed
by the player's most recent games.

Examples:
  minesweeper streaks ana
  minesweeper streaks ana --recent 20`,
	Args: cobra.ExactArgs(1),
	Run:  runStreaks,
}

func init() {
	streaksCmd.Flags().IntVar(&flagRecent, "recent", 5, "Number of recent games to show (0 = none)")
}

func runStreaks(_ *cobra.Command, args []string) {
	name := args[0]

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening stats database: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	streaks, err := store.Streaks(ctx, name)
	if err != nil {
		store.Close()
		fail("retrieving streaks: %v", err)
	}

	fmt.Printf("Streaks - %s\n", name)
	fmt.Println()
	fmt.Printf("  %-10s  %-7s  %s\n", "Difficulty", "Current", "Best")
	fmt.Printf("  %-10s  %-7s  %s\n", "----------", "-------", "----")
	for _, s := range streaks {
		fmt.Printf("  %-10s  %-7d  %d\n", s.Difficulty, s.Current, s.Best)
	}

	if flagRecent <= 0 {
		return
	}

	games, err := store.RecentGames(ctx, name, flagRecent)
	if err != nil {
		store.Close()
		fail("retrieving games: %v", err)
	}

	fmt.Println()
	if len(games) == 0 {
		fmt.Println("No games played yet.")
		return
	}

	fmt.Println("Recent games:")
	fmt.Printf("  %-16s  %-10s  %-6s  %s\n", "Date", "Difficulty", "Result", "Time")
	fmt.Printf("  %-16s  %-10s  %-6s  %s\n", "----", "----------", "------", "----")
	for _, g := range games {
		fmt.Printf("  %-16s  %-10s  %-6s  %ds\n", g.CreatedAt.Format("2006-01-02 15:04"), g.Difficulty, g.Result, g.Elapsed)
	}
}
