package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/api"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var (
	flagAPIAddr     string
	flagCORSOrigins []string
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP stats API",
	Long: `Serve game results, streaks and leaderboards over HTTP.

Endpoints:
  GET  /health
  POST /api/game-result             {"player","difficulty","result","elapsed"}
  GET  /api/leaderboard?difficulty=easy&limit=10
  GET  /api/players/{name}/streaks

Examples:
  minesweeper api
  minesweeper api --addr 127.0.0.1:9000 --db ./stats.db
  minesweeper api --cors-origin http://localhost:5173`,
	Run: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", ":8080", "HTTP listen address (host:port)")
	apiCmd.Flags().StringSliceVar(&flagCORSOrigins, "cors-origin", nil, "Browser origins allowed to call the API (repeatable)")
}

func runAPI(_ *cobra.Command, _ []string) {
	logger := newLogger("minesweeper-api")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening stats database: %v", err)
	}
	defer store.Close()

	server := api.NewServer(store, logger, api.WithAllowedOrigins(flagCORSOrigins...))
	if err := server.ListenAndServe(context.Background(), flagAPIAddr); err != nil {
		logger.Error("server error", "error", err)
		store.Close()
		fail("%v", err)
	}
}
