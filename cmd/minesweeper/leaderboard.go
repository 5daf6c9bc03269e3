package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var flagLimit int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <difficulty>",
	Short: "Show the best streaks for a difficulty",
	Long: `Display the players with the longest win streaks on a difficulty.

Examples:
  minesweeper leaderboard easy
  minesweeper leaderboard hard --limit 25`,
	Args: cobra.ExactArgs(1),
	Run:  runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultLeaderboardLimit, "Number of players to show")
}

func runLeaderboard(_ *cobra.Command, args []string) {
	difficulty, err := config.ParseDifficulty(args[0])
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening stats database: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := store.Leaderboard(ctx, difficulty, flagLimit)
	if err != nil {
		store.Close()
		fail("retrieving leaderboard: %v", err)
	}

	preset, _ := config.DefaultMinesweeperConfig().Preset(difficulty)
	fmt.Printf("Leaderboard - %s\n", preset)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No streaks recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'minesweeper play %s --player <name>' to get on the board!\n", difficulty)
		return
	}

	fmt.Printf("  %-4s  %-20s  %s\n", "Rank", "Player", "Best streak")
	fmt.Printf("  %-4s  %-20s  %s\n", "----", "------", "-----------")

	for i, e := range entries {
		fmt.Printf("  %-4d  %-20s  %d\n", i+1, e.Name, e.Score)
	}

	summary, err := store.Summarize(ctx, difficulty)
	if err == nil && summary.Games > 0 {
		fmt.Println()
		fmt.Printf("Games: %d  Wins: %d", summary.Games, summary.Wins)
		if summary.BestTime > 0 {
			fmt.Printf("  Fastest win: %ds", summary.BestTime)
		}
		fmt.Println()
	}
}
