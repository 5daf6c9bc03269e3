package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/stats"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestLogin(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p1, err := store.Login(ctx, "  ana ")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if p1.Name != "ana" || p1.ID == 0 {
		t.Errorf("Unexpected player %+v", p1)
	}

	p2, err := store.Login(ctx, "ana")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if p2.ID != p1.ID {
		t.Errorf("Second login created a new player: %d vs %d", p2.ID, p1.ID)
	}

	if _, err := store.Login(ctx, "   "); !errors.Is(err, ErrInvalidPlayer) {
		t.Errorf("Expected ErrInvalidPlayer, got %v", err)
	}
}

func TestRecordResultStreaks(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	results := []stats.Result{stats.ResultWin, stats.ResultWin, stats.ResultWin, stats.ResultLose, stats.ResultWin}
	var last stats.Streak
	for _, r := range results {
		var err error
		last, err = store.RecordResult(ctx, "ana", config.DifficultyEasy, r)
		if err != nil {
			t.Fatalf("RecordResult() failed: %v", err)
		}
	}
	if last.Current != 1 || last.Best != 3 {
		t.Errorf("Streak = %d/%d, want 1/3", last.Current, last.Best)
	}

	if _, err := store.RecordResult(ctx, "ana", config.DifficultyHard, stats.ResultWin); err != nil {
		t.Fatalf("RecordResult() failed: %v", err)
	}

	streaks, err := store.Streaks(ctx, "ana")
	if err != nil {
		t.Fatalf("Streaks() failed: %v", err)
	}
	want := []stats.Streak{
		{Difficulty: config.DifficultyEasy, Current: 1, Best: 3},
		{Difficulty: config.DifficultyMedium},
		{Difficulty: config.DifficultyHard, Current: 1, Best: 1},
	}
	if len(streaks) != len(want) {
		t.Fatalf("Expected %d streaks, got %d", len(want), len(streaks))
	}
	for i := range want {
		if streaks[i] != want[i] {
			t.Errorf("streaks[%d] = %+v, want %+v", i, streaks[i], want[i])
		}
	}
}

func TestRecordResultRejectsBadInput(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.RecordResult(ctx, "ana", config.DifficultyCustom, stats.ResultWin); !errors.Is(err, config.ErrUnknownDifficulty) {
		t.Errorf("Expected ErrUnknownDifficulty, got %v", err)
	}
	if _, err := store.RecordResult(ctx, "ana", config.DifficultyEasy, "draw"); !errors.Is(err, stats.ErrInvalidResult) {
		t.Errorf("Expected ErrInvalidResult, got %v", err)
	}
	if _, err := store.RecordResult(ctx, "", config.DifficultyEasy, stats.ResultWin); !errors.Is(err, ErrInvalidPlayer) {
		t.Errorf("Expected ErrInvalidPlayer, got %v", err)
	}

	// The failed transactions must not leave a streak behind
	streaks, err := store.Streaks(ctx, "ana")
	if err != nil {
		t.Fatalf("Streaks() failed: %v", err)
	}
	for _, st := range streaks {
		if st.Current != 0 || st.Best != 0 {
			t.Errorf("Unexpected streak %+v", st)
		}
	}
}

func TestLeaderboard(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	wins := map[string]int{"carol": 3, "bob": 5, "ana": 3, "dave": 0}
	for name, n := range wins {
		for i := 0; i < n; i++ {
			if _, err := store.RecordResult(ctx, name, config.DifficultyMedium, stats.ResultWin); err != nil {
				t.Fatalf("RecordResult() failed: %v", err)
			}
		}
		if _, err := store.RecordResult(ctx, name, config.DifficultyMedium, stats.ResultLose); err != nil {
			t.Fatalf("RecordResult() failed: %v", err)
		}
	}

	entries, err := store.Leaderboard(ctx, config.DifficultyMedium, 0)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	want := []LeaderboardEntry{{"bob", 5}, {"ana", 3}, {"carol", 3}}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %v", len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}

	top, err := store.Leaderboard(ctx, config.DifficultyMedium, 1)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if len(top) != 1 || top[0].Name != "bob" {
		t.Errorf("Expected only bob, got %v", top)
	}

	empty, err := store.Leaderboard(ctx, config.DifficultyHard, 10)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected an empty non-nil leaderboard, got %v", empty)
	}

	if _, err := store.Leaderboard(ctx, "expert", 10); !errors.Is(err, config.ErrUnknownDifficulty) {
		t.Errorf("Expected ErrUnknownDifficulty, got %v", err)
	}
}

func TestRecordOutcomeAndHistory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	outcomes := []stats.Outcome{
		{Player: "ana", Difficulty: config.DifficultyEasy, Result: stats.ResultWin, Elapsed: 40},
		{Player: "ana", Difficulty: config.DifficultyEasy, Result: stats.ResultWin, Elapsed: 25},
		{Player: "ana", Difficulty: config.DifficultyEasy, Result: stats.ResultLose, Elapsed: 5},
	}
	for _, o := range outcomes {
		if _, err := store.RecordOutcome(ctx, o); err != nil {
			t.Fatalf("RecordOutcome() failed: %v", err)
		}
	}

	games, err := store.RecentGames(ctx, "ana", 10)
	if err != nil {
		t.Fatalf("RecentGames() failed: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("Expected 3 games, got %d", len(games))
	}
	if games[0].Result != stats.ResultLose || games[0].Elapsed != 5 {
		t.Errorf("Expected newest game first, got %+v", games[0])
	}
	if games[0].ID == "" || games[0].ID == games[1].ID {
		t.Errorf("Expected unique game IDs, got %q and %q", games[0].ID, games[1].ID)
	}

	sum, err := store.Summarize(ctx, config.DifficultyEasy)
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}
	if sum.Games != 3 || sum.Wins != 2 || sum.BestTime != 25 {
		t.Errorf("Summary = %+v, want 3 games, 2 wins, best 25", sum)
	}
	if sum.LastPlayed.IsZero() {
		t.Error("Expected a last played time")
	}

	streaks, _ := store.Streaks(ctx, "ana")
	if streaks[0].Current != 0 || streaks[0].Best != 2 {
		t.Errorf("Expected easy streak 0/2, got %+v", streaks[0])
	}
}

func TestRecordGameCustom(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.RecordGame(ctx, GameRecord{
		Player:     "ana",
		Difficulty: config.DifficultyCustom,
		Result:     stats.ResultWin,
		Elapsed:    12,
	})
	if err != nil {
		t.Fatalf("RecordGame() failed: %v", err)
	}
	if id == "" {
		t.Error("Expected a game ID")
	}

	sum, err := store.Summarize(ctx, config.DifficultyHard)
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}
	if sum.Games != 0 || !sum.LastPlayed.IsZero() {
		t.Errorf("Expected empty summary, got %+v", sum)
	}
}

func TestConcurrentRecording(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.RecordResult(ctx, "ana", config.DifficultyHard, stats.ResultWin); err != nil {
				t.Errorf("RecordResult() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	streaks, err := store.Streaks(ctx, "ana")
	if err != nil {
		t.Fatalf("Streaks() failed: %v", err)
	}
	if hard := streaks[2]; hard.Current != 20 || hard.Best != 20 {
		t.Errorf("Expected 20 consecutive wins, got %+v", hard)
	}
}
