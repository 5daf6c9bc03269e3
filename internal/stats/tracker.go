package stats

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
)

const recordTimeout = 5 * time.Second

// Tracker reports each finished round to a Recorder exactly once.
// Reporting is best-effort: failures are logged and never reach the game.
type Tracker struct {
	recorder Recorder
	player   string
	logger   *log.Logger

	reported bool
	last     *Streak
}

// NewTracker creates a tracker for one player. A nil recorder, an empty
// player or a nil logger are all allowed.
func NewTracker(rec Recorder, player string, logger *log.Logger) *Tracker {
	return &Tracker{
		recorder: rec,
		player:   player,
		logger:   logger,
	}
}

// Enabled reports whether outcomes will be recorded at all.
func (t *Tracker) Enabled() bool {
	return t != nil && t.recorder != nil && t.player != ""
}

// Player returns the name outcomes are recorded under.
func (t *Tracker) Player() string {
	if t == nil {
		return ""
	}
	return t.player
}

// Report records the round's result the first time it is called after
// Rearm. Unranked difficulties are skipped. It returns the updated streak
// when something was recorded.
func (t *Tracker) Report(difficulty string, won bool, elapsed int) (Streak, bool) {
	if t == nil || t.reported {
		return Streak{}, false
	}
	t.reported = true

	id := config.DifficultyID(difficulty)
	if !t.Enabled() || !id.Ranked() {
		return Streak{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	o := Outcome{Player: t.player, Difficulty: id, Result: ResultFor(won), Elapsed: elapsed}
	streak, err := t.recorder.RecordOutcome(ctx, o)
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("Cannot record result", "player", t.player, "difficulty", id, "result", o.Result, "err", err)
		}
		return Streak{}, false
	}

	t.last = &streak
	if t.logger != nil {
		t.logger.Info("Result recorded", "player", t.player, "difficulty", id, "result", o.Result, "streak", streak.Current, "best", streak.Best)
	}
	return streak, true
}

// Rearm allows the next round to be reported.
func (t *Tracker) Rearm() {
	if t != nil {
		t.reported = false
	}
}

// Last returns the most recently recorded streak.
func (t *Tracker) Last() (Streak, bool) {
	if t == nil || t.last == nil {
		return Streak{}, false
	}
	return *t.last, true
}
