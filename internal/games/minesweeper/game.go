// Package minesweeper implements the minesweeper board engine and the game
// wrapper the platform drives tick by tick.
package minesweeper

import (
	"fmt"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
)

// Screen layout constants
const (
	cellWidth  = 2 // Glyph plus one space
	hudHeight  = 2 // Title and counters above the board
	footHeight = 1 // Hint line below the board
)

var configPath string

// SetConfigPath sets the custom config path for loading presets.
func SetConfigPath(path string) {
	configPath = path
}

// Game wraps a Board with a cursor, a play timer and rendering.
type Game struct {
	difficulty config.Difficulty
	gameplay   config.Gameplay
	board      *Board
	err        error

	cursor    Coord
	tick      uint64
	playTicks int
	tickRate  int
	paused    bool

	// Screen layout
	screenW  int
	screenH  int
	tooSmall bool
	area     core.Rect // HUD + board + footer
	box      core.Rect // Board border
	grid     core.Rect // Cell glyphs inside the border
}

// New creates a game for the given difficulty.
func New(d config.Difficulty) *Game {
	return &Game{
		difficulty: d,
		gameplay:   config.DefaultMinesweeperConfig().Gameplay,
	}
}

func init() {
	for i, d := range config.DefaultMinesweeperConfig().Presets {
		registry.Register(string(d.ID), i, func() registry.Game {
			return New(d)
		})
	}
}

// ID returns the difficulty identifier, used for stats reporting.
func (g *Game) ID() string {
	return string(g.difficulty.ID)
}

// Title returns the display name.
func (g *Game) Title() string {
	return fmt.Sprintf("Minesweeper (%s)", g.difficulty.Name)
}

// Description summarizes the board for menus.
func (g *Game) Description() string {
	return fmt.Sprintf("%dx%d, %d mines", g.difficulty.Rows, g.difficulty.Cols, g.difficulty.Mines)
}

// Difficulty returns the difficulty the current board was built from.
func (g *Game) Difficulty() config.Difficulty {
	return g.difficulty
}

// Board returns the current board. Callers must treat it as read-only.
func (g *Game) Board() *Board {
	return g.board
}

// Reset builds a fresh idle board and centers the cursor.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.loadConfig()

	g.board, g.err = NewBoard(g.difficulty.Rows, g.difficulty.Cols, g.difficulty.Mines, WithSeed(cfg.Seed))
	g.cursor = Coord{Row: g.difficulty.Rows / 2, Col: g.difficulty.Cols / 2}
	g.tick = 0
	g.playTicks = 0
	g.paused = false

	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}

	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// loadConfig refreshes preset dimensions and gameplay toggles from YAML.
// Custom boards keep their dimensions.
func (g *Game) loadConfig() {
	cfg, err := config.LoadMinesweeper(configPath)
	if err != nil {
		return
	}
	g.gameplay = cfg.Gameplay
	if g.difficulty.ID == config.DifficultyCustom {
		return
	}
	if d, err := cfg.Preset(g.difficulty.ID); err == nil {
		g.difficulty = d
	}
}

// Resize recomputes the layout for a new screen size without touching the board.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height

	rows, cols := g.difficulty.Rows, g.difficulty.Cols
	gridW := cols*cellWidth - 1
	boxW := gridW + 4
	boxH := rows + 2
	areaW := max(boxW, 36)
	areaH := hudHeight + boxH + footHeight

	g.tooSmall = width < areaW || height < areaH

	g.area = core.NewRect(0, 0, width, height).Centered(areaW, areaH)
	g.box = core.NewRect(g.area.X+(areaW-boxW)/2, g.area.Y+hudHeight, boxW, boxH)
	g.grid = core.NewRect(g.box.X+2, g.box.Y+1, gridW, rows)
}

// CellAt maps a screen position to a board cell.
func (g *Game) CellAt(x, y int) (Coord, bool) {
	if g.board == nil || !g.grid.Contains(x, y) {
		return Coord{}, false
	}
	return Coord{Row: y - g.grid.Y, Col: (x - g.grid.X) / cellWidth}, true
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.board == nil || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && g.board.Status() == StatusPlaying {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if !g.board.Status().Terminal() {
		g.handleInput(in)
	}

	if g.board.Status() == StatusPlaying {
		g.playTicks++
	}

	return core.StepResult{State: g.State()}
}

// handleInput applies cursor moves, clicks, reveals and flags.
func (g *Game) handleInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.moveCursor(-1, 0)
	case in.Has(core.ActionDown):
		g.moveCursor(1, 0)
	case in.Has(core.ActionLeft):
		g.moveCursor(0, -1)
	case in.Has(core.ActionRight):
		g.moveCursor(0, 1)
	}

	if in.Click != nil {
		if cell, ok := g.CellAt(in.Click.X, in.Click.Y); ok {
			g.cursor = cell
			switch in.Click.Button {
			case core.MouseLeft:
				g.reveal()
			case core.MouseRight:
				g.board.ToggleFlag(cell.Row, cell.Col)
			case core.MouseMiddle:
				if g.gameplay.Chording {
					g.board.Chord(cell.Row, cell.Col)
				}
			}
		}
	}

	if in.Has(core.ActionReveal) {
		g.reveal()
	}
	if in.Has(core.ActionFlag) {
		g.board.ToggleFlag(g.cursor.Row, g.cursor.Col)
	}
}

// moveCursor shifts the cursor, staying on the board.
func (g *Game) moveCursor(dRow, dCol int) {
	g.cursor.Row = core.Clamp(g.cursor.Row+dRow, 0, g.board.Rows()-1)
	g.cursor.Col = core.Clamp(g.cursor.Col+dCol, 0, g.board.Cols()-1)
}

// reveal opens the cell under the cursor, chording on revealed numbers.
func (g *Game) reveal() {
	cell, _ := g.board.Cell(g.cursor.Row, g.cursor.Col)
	if cell.IsRevealed && g.gameplay.Chording {
		g.board.Chord(g.cursor.Row, g.cursor.Col)
		return
	}
	g.board.Open(g.cursor.Row, g.cursor.Col)
}

// ElapsedSeconds is the time spent in the playing state.
func (g *Game) ElapsedSeconds() int {
	if g.tickRate <= 0 {
		return 0
	}
	return g.playTicks / g.tickRate
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.board == nil {
		return core.GameState{GameOver: true}
	}

	status := g.board.Status()
	elapsed := g.ElapsedSeconds()
	st := core.GameState{
		Elapsed:  elapsed,
		GameOver: status.Terminal(),
		Won:      status == StatusWon,
		Paused:   g.paused || g.tooSmall,
	}
	if st.Won {
		st.Score = elapsed
	}
	return st
}
