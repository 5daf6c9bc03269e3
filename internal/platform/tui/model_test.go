package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	_ "github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/tui-minesweeper/internal/stats"
)

// stubGame ends in a win as soon as a cell is revealed.
type stubGame struct {
	id     string
	over   bool
	resets int
	steps  int
	seeds  []int64
}

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(cfg core.RuntimeConfig) {
	g.over = false
	g.resets++
	g.seeds = append(g.seeds, cfg.Seed)
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	if in.Has(core.ActionReveal) {
		g.over = true
	}
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(*core.Screen) {}

func (g *stubGame) State() core.GameState {
	return core.GameState{GameOver: g.over, Won: g.over, Elapsed: 7}
}

type fakeRecorder struct {
	outcomes []stats.Outcome
}

func (r *fakeRecorder) RecordOutcome(_ context.Context, o stats.Outcome) (stats.Streak, error) {
	r.outcomes = append(r.outcomes, o)
	n := len(r.outcomes)
	return stats.Streak{Difficulty: o.Difficulty, Current: n, Best: n}, nil
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 1}
}

// tickFor returns a tick from the model's own tick chain.
func tickFor(m GameModel) TickMsg {
	return TickMsg{Gen: m.gen}
}

func step(t *testing.T, m GameModel, msg tea.Msg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T, want GameModel", next)
	}
	return gm
}

func TestGameModelReportsOncePerRound(t *testing.T) {
	rec := &fakeRecorder{}
	game := &stubGame{id: "easy"}
	m := NewGameModel(game, stats.NewTracker(rec, "ana", nil), testConfig())
	m.Init()

	m = step(t, m, runeKey(' '))
	m = step(t, m, tickFor(m))
	m = step(t, m, tickFor(m))
	m = step(t, m, tickFor(m))

	if len(rec.outcomes) != 1 {
		t.Fatalf("recorded %d outcomes, want 1", len(rec.outcomes))
	}
	o := rec.outcomes[0]
	if o.Player != "ana" || o.Difficulty != "easy" || o.Result != stats.ResultWin || o.Elapsed != 7 {
		t.Errorf("outcome = %+v, want ana/easy/win/7", o)
	}
	if !strings.Contains(m.View(), "streak 1 (best 1)") {
		t.Errorf("status line does not show the streak:\n%s", m.View())
	}

	// Restart arms the tracker for the next round
	m = step(t, m, runeKey('r'))
	m = step(t, m, tickFor(m))
	if game.over {
		t.Fatal("game still over after restart")
	}
	m = step(t, m, runeKey(' '))
	step(t, m, tickFor(m))

	if len(rec.outcomes) != 2 {
		t.Errorf("recorded %d outcomes after second round, want 2", len(rec.outcomes))
	}
}

func TestGameModelRestartIgnoredWhilePlaying(t *testing.T) {
	game := &stubGame{id: "easy"}
	m := NewGameModel(game, nil, testConfig())
	m.Init()

	resets := game.resets
	m = step(t, m, runeKey('r'))
	step(t, m, tickFor(m))

	if game.resets != resets {
		t.Errorf("resets = %d, want %d", game.resets, resets)
	}
}

func TestGameModelRestartKeepsPinnedSeed(t *testing.T) {
	tests := []struct {
		name   string
		seed   int64
		pinned bool
	}{
		{"pinned", 42, true},
		{"random", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &stubGame{id: "easy"}
			cfg := testConfig()
			cfg.Seed = tt.seed
			m := NewGameModel(game, nil, cfg)
			m.Init()

			m = step(t, m, runeKey(' '))
			m = step(t, m, tickFor(m))
			m = step(t, m, runeKey('r'))
			step(t, m, tickFor(m))

			if len(game.seeds) != 2 {
				t.Fatalf("resets = %d, want 2", len(game.seeds))
			}
			if tt.pinned && game.seeds[1] != tt.seed {
				t.Errorf("restart seed = %d, want %d", game.seeds[1], tt.seed)
			}
			if !tt.pinned && game.seeds[1] == 0 {
				t.Error("restart seed = 0, want a fresh time-based seed")
			}
		})
	}
}

func TestGameModelDropsStaleTicks(t *testing.T) {
	oldGame := &stubGame{id: "easy"}
	old := NewGameModel(oldGame, nil, testConfig())
	old.Init()

	game := &stubGame{id: "easy"}
	m := NewGameModel(game, nil, testConfig())
	m.Init()

	m = step(t, m, tickFor(old))
	if game.steps != 0 {
		t.Errorf("steps after a stale tick = %d, want 0", game.steps)
	}

	step(t, m, tickFor(m))
	if game.steps != 1 {
		t.Errorf("steps after own tick = %d, want 1", game.steps)
	}
}

func TestGameModelSkipsUnrankedDifficulty(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewGameModel(&stubGame{id: "custom"}, stats.NewTracker(rec, "ana", nil), testConfig())
	m.Init()

	m = step(t, m, runeKey(' '))
	step(t, m, tickFor(m))

	if len(rec.outcomes) != 0 {
		t.Errorf("recorded %d outcomes for a custom board, want 0", len(rec.outcomes))
	}
}

func TestGameModelBackAndQuit(t *testing.T) {
	m := NewGameModel(&stubGame{id: "easy"}, nil, testConfig())
	m.Init()

	back := step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.BackToMenu() || back.IsQuitting() {
		t.Errorf("esc: BackToMenu = %v, IsQuitting = %v; want true, false", back.BackToMenu(), back.IsQuitting())
	}

	quit := step(t, m, runeKey('q'))
	if !quit.IsQuitting() {
		t.Error("q: IsQuitting = false, want true")
	}
	if quit.View() != "" {
		t.Error("View after quit should be empty")
	}
}

func TestNewStatsTrackerWithoutStore(t *testing.T) {
	tracker := NewStatsTracker(nil, "ana", nil)
	if tracker.Enabled() {
		t.Error("tracker without a store should be disabled")
	}
	if tracker.Player() != "ana" {
		t.Errorf("Player() = %q, want ana", tracker.Player())
	}
}

func session(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T, want SessionModel", next)
	}
	return sm
}

func TestSessionModelFlow(t *testing.T) {
	m := NewSessionModel(nil, NewStatsTracker(nil, "ana", nil), testConfig())

	if !strings.Contains(m.View(), "Playing as ana") {
		t.Errorf("menu does not show the player:\n%s", m.View())
	}

	// First entry is the easiest registered difficulty
	m = session(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.current != screenGame || m.gameModel == nil {
		t.Fatalf("current = %d, want game screen", m.current)
	}
	if !strings.Contains(m.View(), "MINESWEEPER") {
		t.Errorf("game view missing title:\n%s", m.View())
	}

	m = session(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.current != screenMenu {
		t.Fatalf("current = %d after back, want menu", m.current)
	}

	m = session(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.current != screenLeaderboard {
		t.Fatalf("current = %d after tab, want leaderboard", m.current)
	}
	if !strings.Contains(m.View(), "LEADERBOARD") {
		t.Errorf("leaderboard view missing title:\n%s", m.View())
	}

	m = session(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.current != screenMenu {
		t.Fatalf("current = %d after leaving leaderboard, want menu", m.current)
	}

	m = session(t, m, runeKey('q'))
	if !m.quitting || m.View() != "" {
		t.Error("q in menu should end the session")
	}
}
