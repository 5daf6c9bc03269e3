// Package stats defines the win/loss reporting contract between a finished
// game and whatever keeps streaks: a local store or a remote service.
package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
)

// ErrInvalidResult is returned for anything other than "win" or "lose".
var ErrInvalidResult = errors.New("stats: invalid result")

// Result is the outcome of one finished game.
type Result string

const (
	ResultWin  Result = "win"
	ResultLose Result = "lose"
)

// ResultFor maps a finished game to its result.
func ResultFor(won bool) Result {
	if won {
		return ResultWin
	}
	return ResultLose
}

// ParseResult validates a result string.
func ParseResult(s string) (Result, error) {
	switch r := Result(strings.ToLower(strings.TrimSpace(s))); r {
	case ResultWin, ResultLose:
		return r, nil
	default:
		return "", fmt.Errorf("%w %q (want win or lose)", ErrInvalidResult, s)
	}
}

// Streak is a player's run of consecutive wins on one difficulty.
type Streak struct {
	Difficulty config.DifficultyID `json:"difficulty"`
	Current    int                 `json:"current"`
	Best       int                 `json:"best"`
}

// Apply returns the streak after one more result.
// A win extends the run and raises Best when exceeded; a loss clears the run.
func (s Streak) Apply(r Result) Streak {
	switch r {
	case ResultWin:
		s.Current++
		if s.Current > s.Best {
			s.Best = s.Current
		}
	case ResultLose:
		s.Current = 0
	}
	return s
}

// Outcome is a finished game ready to be recorded.
type Outcome struct {
	Player     string
	Difficulty config.DifficultyID
	Result     Result
	Elapsed    int // Seconds spent playing
}

// Validate checks the outcome before it reaches a recorder.
func (o Outcome) Validate() error {
	if strings.TrimSpace(o.Player) == "" {
		return errors.New("stats: empty player")
	}
	if !o.Difficulty.Ranked() {
		return fmt.Errorf("stats: difficulty %q does not keep streaks", o.Difficulty)
	}
	if o.Result != ResultWin && o.Result != ResultLose {
		return fmt.Errorf("%w %q", ErrInvalidResult, o.Result)
	}
	return nil
}

// Recorder persists outcomes and keeps the per-difficulty streaks.
type Recorder interface {
	RecordOutcome(ctx context.Context, o Outcome) (Streak, error)
}
