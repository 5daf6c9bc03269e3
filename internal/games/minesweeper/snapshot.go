package minesweeper

import "strings"

// BoardSnapshot is a read-only copy of the board for rendering and tests.
type BoardSnapshot struct {
	Rows        int
	Cols        int
	MineCount   int
	FlagCount   int
	Status      Status
	MinesPlaced bool
	Cells       [][]Cell
}

// Snapshot returns a deep copy of the board state.
func (b *Board) Snapshot() BoardSnapshot {
	cells := make([][]Cell, b.rows)
	for r := range b.cells {
		cells[r] = append([]Cell(nil), b.cells[r]...)
	}
	return BoardSnapshot{
		Rows:        b.rows,
		Cols:        b.cols,
		MineCount:   b.mineCount,
		FlagCount:   b.flagCount,
		Status:      b.status,
		MinesPlaced: b.minesPlaced,
		Cells:       cells,
	}
}

// Mines returns the positions of every mine in row-major order.
func (s BoardSnapshot) Mines() []Coord {
	var mines []Coord
	for r := range s.Cells {
		for c := range s.Cells[r] {
			if s.Cells[r][c].IsMine {
				mines = append(mines, Coord{Row: r, Col: c})
			}
		}
	}
	return mines
}

// Revealed counts revealed cells.
func (s BoardSnapshot) Revealed() int {
	n := 0
	for r := range s.Cells {
		for c := range s.Cells[r] {
			if s.Cells[r][c].IsRevealed {
				n++
			}
		}
	}
	return n
}

// String draws the board as text: '-' hidden, 'F' flag, '*' revealed mine,
// '.' empty, digits for numbers.
func (s BoardSnapshot) String() string {
	var sb strings.Builder
	for r, row := range s.Cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			switch {
			case cell.IsFlagged:
				sb.WriteByte('F')
			case !cell.IsRevealed:
				sb.WriteByte('-')
			case cell.IsMine:
				sb.WriteByte('*')
			case cell.AdjacentMines == 0:
				sb.WriteByte('.')
			default:
				sb.WriteByte(byte('0' + cell.AdjacentMines))
			}
		}
	}
	return sb.String()
}

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Difficulty string
	Status     Status
	CursorRow  int
	CursorCol  int
	Elapsed    int
	Paused     bool
	Board      BoardSnapshot
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:       g.tick,
		Difficulty: string(g.difficulty.ID),
		CursorRow:  g.cursor.Row,
		CursorCol:  g.cursor.Col,
		Elapsed:    g.ElapsedSeconds(),
		Paused:     g.paused,
	}
	if g.board != nil {
		snap.Status = g.board.Status()
		snap.Board = g.board.Snapshot()
	}
	return snap
}
