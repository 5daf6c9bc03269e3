package minesweeper

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidConfiguration is returned by NewBoard when the dimensions or
// mine count cannot form a board with at least one safe cell.
var ErrInvalidConfiguration = errors.New("minesweeper: invalid board configuration")

// Status is the lifecycle stage of a board.
type Status string

const (
	StatusIdle    Status = "idle"    // No mines placed, nothing revealed
	StatusPlaying Status = "playing" // Mines placed, game in progress
	StatusWon     Status = "won"     // Every safe cell revealed
	StatusLost    Status = "lost"    // A mine was revealed
)

// Terminal reports whether the board no longer accepts moves.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// String returns the status name.
func (s Status) String() string {
	return string(s)
}

// Coord is a 0-based (row, col) board position.
type Coord struct {
	Row, Col int
}

// Cell is one grid position.
type Cell struct {
	IsMine        bool
	IsRevealed    bool
	IsFlagged     bool
	AdjacentMines int // Mines in the Moore neighborhood, valid once mines are placed
}

// WrongFlag reports whether the cell carries a flag but no mine.
func (c Cell) WrongFlag() bool {
	return c.IsFlagged && !c.IsMine
}

// neighborOffsets enumerates the Moore neighborhood.
var neighborOffsets = [8]Coord{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Board is the minesweeper engine. It owns the grid and the game status.
// A Board is not safe for concurrent use; callers serialize access.
type Board struct {
	rows, cols  int
	mineCount   int
	cells       [][]Cell
	status      Status
	flagCount   int
	minesPlaced bool

	// hidden counts safe cells not yet revealed; valid once mines are placed.
	hidden int

	exploded *Coord
	rng      *rand.Rand
	layout   []Coord
}

// BoardOption customizes a board at construction.
type BoardOption func(*Board)

// WithSeed makes mine placement reproducible.
func WithSeed(seed int64) BoardOption {
	return func(b *Board) {
		b.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand uses the given source for mine placement.
func WithRand(rng *rand.Rand) BoardOption {
	return func(b *Board) {
		b.rng = rng
	}
}

// WithMineLayout forces the mines onto the given cells instead of placing
// them randomly on the first open. The layout is used as given, so the
// first-click guarantee is the caller's responsibility.
func WithMineLayout(mines []Coord) BoardOption {
	return func(b *Board) {
		b.layout = append([]Coord(nil), mines...)
	}
}

// NewBoard creates an idle rows×cols board that will hold mineCount mines.
func NewBoard(rows, cols, mineCount int, opts ...BoardOption) (*Board, error) {
	switch {
	case rows <= 0 || cols <= 0:
		return nil, fmt.Errorf("%w: board must be at least 1x1, got %dx%d", ErrInvalidConfiguration, rows, cols)
	case mineCount < 0:
		return nil, fmt.Errorf("%w: negative mine count %d", ErrInvalidConfiguration, mineCount)
	case mineCount >= rows*cols:
		return nil, fmt.Errorf("%w: %d mines leave no safe cell on a %dx%d board", ErrInvalidConfiguration, mineCount, rows, cols)
	}

	b := &Board{
		rows:      rows,
		cols:      cols,
		mineCount: mineCount,
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if b.layout != nil {
		if err := b.validateLayout(); err != nil {
			return nil, err
		}
	}

	b.cells = make([][]Cell, rows)
	for r := range b.cells {
		b.cells[r] = make([]Cell, cols)
	}

	return b, nil
}

// validateLayout checks a forced layout against the board shape.
func (b *Board) validateLayout() error {
	if len(b.layout) != b.mineCount {
		return fmt.Errorf("%w: layout has %d mines, want %d", ErrInvalidConfiguration, len(b.layout), b.mineCount)
	}
	seen := make(map[Coord]bool, len(b.layout))
	for _, c := range b.layout {
		if !b.InBounds(c.Row, c.Col) {
			return fmt.Errorf("%w: layout mine %v is off the board", ErrInvalidConfiguration, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: layout repeats mine %v", ErrInvalidConfiguration, c)
		}
		seen[c] = true
	}
	return nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// MineCount returns the number of mines the board holds.
func (b *Board) MineCount() int { return b.mineCount }

// FlagCount returns the number of flags on the board.
func (b *Board) FlagCount() int { return b.flagCount }

// MinesRemaining is the display counter: mines minus flags.
func (b *Board) MinesRemaining() int { return b.mineCount - b.flagCount }

// Status returns the current game status.
func (b *Board) Status() Status { return b.status }

// MinesPlaced reports whether the first open has happened.
func (b *Board) MinesPlaced() bool { return b.minesPlaced }

// Exploded returns the mine that ended the game, if any.
func (b *Board) Exploded() (Coord, bool) {
	if b.exploded == nil {
		return Coord{}, false
	}
	return *b.exploded, true
}

// InBounds reports whether (row, col) lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// Cell returns a copy of the cell at (row, col).
func (b *Board) Cell(row, col int) (Cell, bool) {
	if !b.InBounds(row, col) {
		return Cell{}, false
	}
	return b.cells[row][col], true
}

// Open reveals the cell at (row, col) and returns the resulting status.
// The first open places the mines so the opened cell is never one of them.
// Out-of-range, flagged, revealed and post-game opens are ignored.
func (b *Board) Open(row, col int) Status {
	if b.status.Terminal() || !b.InBounds(row, col) {
		return b.status
	}
	cell := &b.cells[row][col]
	if cell.IsFlagged || cell.IsRevealed {
		return b.status
	}

	if !b.minesPlaced {
		b.placeMines(Coord{Row: row, Col: col})
		b.status = StatusPlaying
	}

	if cell.IsMine {
		b.explode(row, col)
		return b.status
	}

	b.floodReveal(row, col)
	if b.hidden == 0 {
		b.win()
	}
	return b.status
}

// ToggleFlag flags or unflags the hidden cell at (row, col).
// Flags are only allowed while playing and are capped at the mine count.
func (b *Board) ToggleFlag(row, col int) Status {
	if b.status != StatusPlaying || !b.InBounds(row, col) {
		return b.status
	}
	cell := &b.cells[row][col]
	if cell.IsRevealed {
		return b.status
	}

	if cell.IsFlagged {
		cell.IsFlagged = false
		b.flagCount--
		return b.status
	}
	if b.flagCount >= b.mineCount {
		return b.status
	}
	cell.IsFlagged = true
	b.flagCount++
	return b.status
}

// Chord opens every hidden, unflagged neighbor of a revealed number whose
// flagged neighbors already match it. Wrong flags make this lose the game.
func (b *Board) Chord(row, col int) Status {
	if b.status != StatusPlaying || !b.InBounds(row, col) {
		return b.status
	}
	cell := b.cells[row][col]
	if !cell.IsRevealed || cell.AdjacentMines == 0 {
		return b.status
	}

	flags := 0
	var targets []Coord
	b.forEachNeighbor(row, col, func(nr, nc int) {
		n := b.cells[nr][nc]
		switch {
		case n.IsFlagged:
			flags++
		case !n.IsRevealed:
			targets = append(targets, Coord{Row: nr, Col: nc})
		}
	})
	if flags != cell.AdjacentMines {
		return b.status
	}

	for _, t := range targets {
		if b.Open(t.Row, t.Col).Terminal() {
			break
		}
	}
	return b.status
}

// WrongFlags lists flagged safe cells once the game is lost.
func (b *Board) WrongFlags() []Coord {
	if b.status != StatusLost {
		return nil
	}
	var wrong []Coord
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c].WrongFlag() {
				wrong = append(wrong, Coord{Row: r, Col: c})
			}
		}
	}
	return wrong
}

// placeMines puts the mines on the board, excluding the first-opened cell,
// and computes neighbor counts.
func (b *Board) placeMines(exclude Coord) {
	mines := b.layout
	if mines == nil {
		mines = b.sampleMines(exclude)
	}
	for _, m := range mines {
		b.cells[m.Row][m.Col].IsMine = true
	}

	b.computeAdjacency()
	b.hidden = b.rows*b.cols - b.mineCount
	b.minesPlaced = true
}

// sampleMines takes mineCount cells uniformly from every cell but exclude,
// using a partial Fisher-Yates shuffle.
func (b *Board) sampleMines(exclude Coord) []Coord {
	eligible := make([]Coord, 0, b.rows*b.cols-1)
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if r == exclude.Row && c == exclude.Col {
				continue
			}
			eligible = append(eligible, Coord{Row: r, Col: c})
		}
	}

	for i := 0; i < b.mineCount; i++ {
		j := i + b.rng.Intn(len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
	}
	return eligible[:b.mineCount]
}

// computeAdjacency fills AdjacentMines for every safe cell.
func (b *Board) computeAdjacency() {
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c].IsMine {
				continue
			}
			count := 0
			b.forEachNeighbor(r, c, func(nr, nc int) {
				if b.cells[nr][nc].IsMine {
					count++
				}
			})
			b.cells[r][c].AdjacentMines = count
		}
	}
}

// floodReveal reveals (row, col) and, through zero cells, every connected
// safe cell. Flags stop the expansion.
func (b *Board) floodReveal(row, col int) {
	b.reveal(row, col)
	stack := []Coord{{Row: row, Col: col}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if b.cells[cur.Row][cur.Col].AdjacentMines != 0 {
			continue
		}
		b.forEachNeighbor(cur.Row, cur.Col, func(nr, nc int) {
			n := &b.cells[nr][nc]
			if n.IsRevealed || n.IsFlagged || n.IsMine {
				return
			}
			b.reveal(nr, nc)
			stack = append(stack, Coord{Row: nr, Col: nc})
		})
	}
}

// reveal marks a safe cell revealed and keeps the hidden counter in step.
func (b *Board) reveal(row, col int) {
	b.cells[row][col].IsRevealed = true
	b.hidden--
}

// explode ends the game on the mine at (row, col) and uncovers every mine.
func (b *Board) explode(row, col int) {
	b.exploded = &Coord{Row: row, Col: col}
	b.status = StatusLost
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c].IsMine {
				b.cells[r][c].IsRevealed = true
			}
		}
	}
}

// win ends the game and flags every mine for display.
func (b *Board) win() {
	b.status = StatusWon
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c].IsMine {
				b.cells[r][c].IsFlagged = true
			}
		}
	}
	b.flagCount = b.mineCount
}

// forEachNeighbor calls fn for each on-board Moore neighbor of (row, col).
func (b *Board) forEachNeighbor(row, col int, fn func(nr, nc int)) {
	for _, d := range neighborOffsets {
		nr, nc := row+d.Row, col+d.Col
		if b.InBounds(nr, nc) {
			fn(nr, nc)
		}
	}
}
