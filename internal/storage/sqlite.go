// Package storage provides SQLite-based persistence for players, streaks
// and game history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/stats"
)

// ErrInvalidPlayer is returned for an empty player name.
var ErrInvalidPlayer = errors.New("storage: invalid player name")

// DefaultLeaderboardLimit is used when a non-positive limit is requested.
const DefaultLeaderboardLimit = 10

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Player is a logged-in user.
type Player struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// GameRecord is one finished game in the history table.
type GameRecord struct {
	ID         string
	Player     string
	Difficulty config.DifficultyID
	Result     stats.Result
	Elapsed    int // Seconds
	CreatedAt  time.Time
}

// LeaderboardEntry is one row of a difficulty's leaderboard.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Summary contains aggregated statistics for one difficulty.
type Summary struct {
	Difficulty config.DifficultyID
	Games      int
	Wins       int
	BestTime   int // Fastest win in seconds, 0 without wins
	LastPlayed time.Time
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite has a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS streaks (
			player_id INTEGER NOT NULL REFERENCES players(id),
			difficulty TEXT NOT NULL,
			current INTEGER NOT NULL DEFAULT 0,
			best INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (player_id, difficulty)
		);
		CREATE INDEX IF NOT EXISTS idx_streaks_top ON streaks(difficulty, best DESC);

		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			player_id INTEGER NOT NULL REFERENCES players(id),
			difficulty TEXT NOT NULL,
			result TEXT NOT NULL,
			elapsed_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_player ON games(player_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_games_difficulty ON games(difficulty);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Login returns the player with the given name, creating it on first use.
func (s *Store) Login(ctx context.Context, name string) (Player, error) {
	return login(ctx, s.db, name)
}

func login(ctx context.Context, q queryer, name string) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, ErrInvalidPlayer
	}

	if _, err := q.ExecContext(ctx,
		"INSERT INTO players (name) VALUES (?) ON CONFLICT(name) DO NOTHING",
		name,
	); err != nil {
		return Player{}, fmt.Errorf("storage: cannot create player: %w", err)
	}

	var p Player
	var createdAt any
	err := q.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM players WHERE name = ?",
		name,
	).Scan(&p.ID, &p.Name, &createdAt)
	if err != nil {
		return Player{}, fmt.Errorf("storage: cannot load player: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)

	return p, nil
}

// RecordResult applies a win or loss to the player's streak on one difficulty.
func (s *Store) RecordResult(ctx context.Context, name string, difficulty config.DifficultyID, result stats.Result) (stats.Streak, error) {
	var streak stats.Streak
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := login(ctx, tx, name)
		if err != nil {
			return err
		}
		streak, err = applyResult(ctx, tx, p.ID, difficulty, result)
		return err
	})
	return streak, err
}

// RecordGame appends a finished game to the history and returns its ID.
// History accepts any difficulty, including custom boards.
func (s *Store) RecordGame(ctx context.Context, g GameRecord) (string, error) {
	var id string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := login(ctx, tx, g.Player)
		if err != nil {
			return err
		}
		id, err = insertGame(ctx, tx, p.ID, g)
		return err
	})
	return id, err
}

// RecordOutcome stores a finished ranked game and updates the streak in
// one transaction.
func (s *Store) RecordOutcome(ctx context.Context, o stats.Outcome) (stats.Streak, error) {
	var streak stats.Streak
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := login(ctx, tx, o.Player)
		if err != nil {
			return err
		}
		streak, err = applyResult(ctx, tx, p.ID, o.Difficulty, o.Result)
		if err != nil {
			return err
		}
		_, err = insertGame(ctx, tx, p.ID, GameRecord{
			Difficulty: o.Difficulty,
			Result:     o.Result,
			Elapsed:    o.Elapsed,
		})
		return err
	})
	return streak, err
}

// Ensure Store implements stats.Recorder
var _ stats.Recorder = (*Store)(nil)

func applyResult(ctx context.Context, tx *sql.Tx, playerID int64, difficulty config.DifficultyID, result stats.Result) (stats.Streak, error) {
	if !difficulty.Ranked() {
		return stats.Streak{}, fmt.Errorf("storage: %w %q", config.ErrUnknownDifficulty, difficulty)
	}
	if result != stats.ResultWin && result != stats.ResultLose {
		return stats.Streak{}, fmt.Errorf("storage: %w %q", stats.ErrInvalidResult, result)
	}

	streak := stats.Streak{Difficulty: difficulty}
	err := tx.QueryRowContext(ctx,
		"SELECT current, best FROM streaks WHERE player_id = ? AND difficulty = ?",
		playerID, string(difficulty),
	).Scan(&streak.Current, &streak.Best)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return stats.Streak{}, fmt.Errorf("storage: cannot load streak: %w", err)
	}

	streak = streak.Apply(result)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO streaks (player_id, difficulty, current, best)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(player_id, difficulty) DO UPDATE SET
		   current = excluded.current,
		   best = excluded.best,
		   updated_at = CURRENT_TIMESTAMP`,
		playerID, string(difficulty), streak.Current, streak.Best,
	)
	if err != nil {
		return stats.Streak{}, fmt.Errorf("storage: cannot save streak: %w", err)
	}

	return streak, nil
}

func insertGame(ctx context.Context, tx *sql.Tx, playerID int64, g GameRecord) (string, error) {
	if g.Result != stats.ResultWin && g.Result != stats.ResultLose {
		return "", fmt.Errorf("storage: %w %q", stats.ErrInvalidResult, g.Result)
	}

	id := uuid.NewString()
	_, err := tx.ExecContext(ctx,
		"INSERT INTO games (id, player_id, difficulty, result, elapsed_secs) VALUES (?, ?, ?, ?, ?)",
		id, playerID, string(g.Difficulty), string(g.Result), g.Elapsed,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save game: %w", err)
	}
	return id, nil
}

// inTx runs fn in a transaction, committing on success.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		//nolint:errcheck // The original error matters more
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// Streaks returns the player's streaks for every ranked difficulty, in
// ranking order. Difficulties never played report zero.
func (s *Store) Streaks(ctx context.Context, name string) ([]stats.Streak, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidPlayer
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.difficulty, s.current, s.best
		 FROM streaks s
		 JOIN players p ON p.id = s.player_id
		 WHERE p.name = ?`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query streaks: %w", err)
	}
	defer rows.Close()

	found := make(map[config.DifficultyID]stats.Streak)
	for rows.Next() {
		var st stats.Streak
		var difficulty string
		if err := rows.Scan(&difficulty, &st.Current, &st.Best); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		st.Difficulty = config.DifficultyID(difficulty)
		found[st.Difficulty] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	ranked := config.RankedDifficulties()
	streaks := make([]stats.Streak, 0, len(ranked))
	for _, id := range ranked {
		st, ok := found[id]
		if !ok {
			st = stats.Streak{Difficulty: id}
		}
		streaks = append(streaks, st)
	}
	return streaks, nil
}

// Leaderboard returns the best max streaks on a difficulty, highest first,
// ties broken by name. Players without a win are left out.
func (s *Store) Leaderboard(ctx context.Context, difficulty config.DifficultyID, limit int) ([]LeaderboardEntry, error) {
	if !difficulty.Ranked() {
		return nil, fmt.Errorf("storage: %w %q", config.ErrUnknownDifficulty, difficulty)
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.name, s.best
		 FROM streaks s
		 JOIN players p ON p.id = s.player_id
		 WHERE s.difficulty = ? AND s.best > 0
		 ORDER BY s.best DESC, p.name ASC
		 LIMIT ?`,
		string(difficulty), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Score); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RecentGames returns the player's latest games, newest first.
func (s *Store) RecentGames(ctx context.Context, name string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, p.name, g.difficulty, g.result, g.elapsed_secs, g.created_at
		 FROM games g
		 JOIN players p ON p.id = g.player_id
		 WHERE p.name = ?
		 ORDER BY g.created_at DESC, g.rowid DESC
		 LIMIT ?`,
		strings.TrimSpace(name), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var difficulty, result string
		var createdAt any
		if err := rows.Scan(&g.ID, &g.Player, &difficulty, &result, &g.Elapsed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		g.Difficulty = config.DifficultyID(difficulty)
		g.Result = stats.Result(result)
		g.CreatedAt = parseTime(createdAt)
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return games, nil
}

// Summarize aggregates the game history for one difficulty.
func (s *Store) Summarize(ctx context.Context, difficulty config.DifficultyID) (Summary, error) {
	sum := Summary{Difficulty: difficulty}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0),
		        COALESCE(MIN(CASE WHEN result = 'win' THEN elapsed_secs END), 0)
		 FROM games WHERE difficulty = ?`,
		string(difficulty),
	).Scan(&sum.Games, &sum.Wins, &sum.BestTime)
	if err != nil {
		return Summary{}, fmt.Errorf("storage: cannot summarize games: %w", err)
	}

	if sum.Games == 0 {
		return sum, nil
	}

	var lastPlayed any
	err = s.db.QueryRowContext(ctx,
		"SELECT MAX(created_at) FROM games WHERE difficulty = ?",
		string(difficulty),
	).Scan(&lastPlayed)
	if err != nil {
		return Summary{}, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	sum.LastPlayed = parseTime(lastPlayed)

	return sum, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
