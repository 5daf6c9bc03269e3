package minesweeper

import (
	"fmt"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
)

// Visual characters for rendering
const (
	HiddenChar    = '■'
	FlagChar      = 'F'
	MineChar      = '*'
	WrongFlagChar = 'X'
	EmptyChar     = '·'
)

// numberColors follows the classic palette: 1 blue, 2 green, 3 red, ...
var numberColors = [9]core.Color{
	core.ColorDefault,
	core.ColorBrightBlue,
	core.ColorGreen,
	core.ColorBrightRed,
	core.ColorNavy,
	core.ColorMaroon,
	core.ColorTeal,
	core.ColorWhite,
	core.ColorGray,
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		dst.DrawTextCenteredColored(dst.Height()/2, g.err.Error(), core.ColorBrightRed)
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	g.renderHUD(dst)
	dst.DrawBox(g.box, core.ColorGray)

	if g.paused {
		msg := "PAUSED"
		x := g.grid.X + (g.grid.W-len(msg))/2
		dst.DrawTextColored(x, g.grid.Y+g.grid.H/2, msg, core.ColorBrightYellow)
	} else {
		g.renderCells(dst)
	}

	g.renderFooter(dst)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", g.area.W, g.area.H))
}

// renderHUD draws the title, mine counter, face and timer.
func (g *Game) renderHUD(dst *core.Screen) {
	title := "MINESWEEPER - " + g.difficulty.Name
	dst.DrawTextColored(g.area.X+(g.area.W-len(title))/2, g.area.Y, title, core.ColorBrightWhite)

	mines := fmt.Sprintf("Mines %03d", g.board.MinesRemaining())
	dst.DrawTextColored(g.area.X, g.area.Y+1, mines, core.ColorBrightYellow)

	face, faceColor := g.face()
	dst.DrawTextColored(g.area.X+(g.area.W-len(face))/2, g.area.Y+1, face, faceColor)

	timer := fmt.Sprintf("Time %03d", min(g.ElapsedSeconds(), 999))
	dst.DrawTextColored(g.area.Right()-len(timer), g.area.Y+1, timer, core.ColorBrightCyan)
}

// face returns the status smiley.
func (g *Game) face() (string, core.Color) {
	switch g.board.Status() {
	case StatusWon:
		return "B)", core.ColorBrightGreen
	case StatusLost:
		return "X(", core.ColorBrightRed
	default:
		return ":)", core.ColorBrightYellow
	}
}

// renderCells draws every cell glyph and the cursor.
func (g *Game) renderCells(dst *core.Screen) {
	status := g.board.Status()
	exploded, hasExploded := g.board.Exploded()

	for r := 0; r < g.board.Rows(); r++ {
		for c := 0; c < g.board.Cols(); c++ {
			cell, _ := g.board.Cell(r, c)
			ch, color := glyph(cell, status)
			if hasExploded && exploded == (Coord{Row: r, Col: c}) {
				color = core.ColorAlert
			}
			if !status.Terminal() && g.cursor == (Coord{Row: r, Col: c}) {
				color = core.ColorCursor
			}
			dst.SetColored(g.grid.X+c*cellWidth, g.grid.Y+r, ch, color)
		}
	}
}

// glyph picks the character and color for one cell.
func glyph(cell Cell, status Status) (rune, core.Color) {
	switch {
	case status == StatusLost && cell.WrongFlag():
		return WrongFlagChar, core.ColorBrightRed
	case cell.IsFlagged:
		return FlagChar, core.ColorRed
	case !cell.IsRevealed:
		return HiddenChar, core.ColorGray
	case cell.IsMine:
		return MineChar, core.ColorBrightWhite
	case cell.AdjacentMines == 0:
		return EmptyChar, core.ColorGray
	default:
		return rune('0' + cell.AdjacentMines), numberColors[cell.AdjacentMines]
	}
}

// renderFooter draws the context hint below the board.
func (g *Game) renderFooter(dst *core.Screen) {
	var msg string
	color := core.ColorGray

	switch {
	case g.paused:
		msg = "p: resume  q: quit"
	case g.board.Status() == StatusIdle:
		msg = "Open any cell to start"
	case g.board.Status() == StatusPlaying:
		msg = "space: open  f: flag  p: pause"
	case g.board.Status() == StatusWon:
		msg = fmt.Sprintf("Cleared in %ds!  r: again  b: menu", g.ElapsedSeconds())
		color = core.ColorBrightGreen
	case g.board.Status() == StatusLost:
		msg = "Boom!  r: again  b: menu"
		color = core.ColorBrightRed
	}

	y := g.box.Bottom()
	dst.DrawTextColored(g.area.X+(g.area.W-len([]rune(msg)))/2, y, msg, color)
}
