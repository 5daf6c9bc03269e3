package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
	"github.com/vovakirdan/tui-minesweeper/internal/stats"
)

// statusHeight is the line under the game screen for help and streaks.
const statusHeight = 1

// GameModel is the Bubble Tea model for running one game variant.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	tracker    *stats.Tracker
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	streak     *stats.Streak // Reported for the current round
	gen        uint64        // Tick chain owned by this model
	seeded     bool          // Seed was pinned; restarts replay the same layout
	standalone bool          // Back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a new game model. A nil tracker disables stats.
func NewGameModel(game registry.Game, tracker *stats.Tracker, cfg core.RuntimeConfig) GameModel {
	seeded := cfg.Seed != 0
	if !seeded {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-statusHeight, 0)),
		tracker:    tracker,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
		gen:        nextTickGen(),
		seeded:     seeded,
	}
}

// Init initializes the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	m.tracker.Rearm()
	return tickCmd(m.config.TickRate, m.gen)
}

// gameConfig is the runtime config with the status line taken off.
func (m GameModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(cfg.ScreenH-statusHeight, 0)
	return cfg
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		// Ticks left over from a previous game are dropped
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) {
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleResize keeps the board when the game can relayout, otherwise restarts it.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	cfg := m.gameConfig()
	m.screen.Resize(cfg.ScreenW, cfg.ScreenH)
	m.help.Width = msg.Width

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(cfg.ScreenW, cfg.ScreenH)
	} else if !m.gameState.GameOver {
		m.game.Reset(cfg)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		if !m.seeded {
			m.config.Seed = time.Now().UnixNano()
		}
		m.game.Reset(m.gameConfig())
		m.gameState = m.game.State()
		m.tracker.Rearm()
		m.streak = nil
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate, m.gen)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Report the round once
	if m.gameState.GameOver {
		if streak, ok := m.tracker.Report(m.game.ID(), m.gameState.Won, m.gameState.Elapsed); ok {
			m.streak = &streak
		}
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate, m.gen)
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".minesweeper", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.statusLine()
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	streakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
)

// statusLine shows the player, the streak after the last round and key help.
func (m GameModel) statusLine() string {
	var left string
	if m.tracker.Enabled() {
		left = statusStyle.Render("player: " + m.tracker.Player())
		if m.streak != nil {
			left += "  " + streakStyle.Render(fmt.Sprintf("streak %d (best %d)", m.streak.Current, m.streak.Best))
		}
		left += "  "
	}
	return left + m.help.View(m.keyMapper.Keys())
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a Bubble Tea program for one game.
// It returns true when the player asked to go back rather than quit.
func Run(game registry.Game, tracker *stats.Tracker, cfg core.RuntimeConfig) (bool, error) {
	model := NewGameModel(game, tracker, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(GameModel)
	return ok && m.BackToMenu() && !m.IsQuitting(), nil
}
