package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDifficulty is returned for difficulty identifiers outside the known set.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ErrInvalidDifficulty is returned for a difficulty whose dimensions cannot form a board.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// DifficultyID names a difficulty. Ranked IDs take part in streak tracking.
type DifficultyID string

const (
	DifficultyEasy   DifficultyID = "easy"
	DifficultyMedium DifficultyID = "medium"
	DifficultyHard   DifficultyID = "hard"
	DifficultyCustom DifficultyID = "custom"
)

// Difficulty is a validated (rows, cols, mines) triple with a name.
type Difficulty struct {
	ID    DifficultyID `yaml:"id"`
	Name  string       `yaml:"name"`
	Rows  int          `yaml:"rows"`
	Cols  int          `yaml:"cols"`
	Mines int          `yaml:"mines"`
}

// RankedDifficulties returns the difficulties that have streaks and leaderboards.
func RankedDifficulties() []DifficultyID {
	return []DifficultyID{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty converts user input into a ranked difficulty ID.
// Matching is case-insensitive; anything else fails with ErrUnknownDifficulty.
func ParseDifficulty(s string) (DifficultyID, error) {
	id := DifficultyID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Ranked() {
		return "", unknownDifficulty(s)
	}
	return id, nil
}

// Ranked reports whether results on this difficulty count towards streaks.
func (id DifficultyID) Ranked() bool {
	switch id {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Custom builds a non-ranked difficulty from arbitrary dimensions.
func Custom(rows, cols, mines int) (Difficulty, error) {
	d := Difficulty{
		ID:    DifficultyCustom,
		Name:  fmt.Sprintf("Custom %dx%d", rows, cols),
		Rows:  rows,
		Cols:  cols,
		Mines: mines,
	}
	if err := d.Validate(); err != nil {
		return Difficulty{}, err
	}
	return d, nil
}

// Validate checks that the board has positive dimensions and at least one safe cell.
func (d Difficulty) Validate() error {
	switch {
	case d.Rows <= 0 || d.Cols <= 0:
		return fmt.Errorf("%w %q: board must be at least 1x1, got %dx%d", ErrInvalidDifficulty, d.ID, d.Rows, d.Cols)
	case d.Mines < 0:
		return fmt.Errorf("%w %q: negative mine count %d", ErrInvalidDifficulty, d.ID, d.Mines)
	case d.Mines >= d.Rows*d.Cols:
		return fmt.Errorf("%w %q: %d mines leave no safe cell on a %dx%d board", ErrInvalidDifficulty, d.ID, d.Mines, d.Rows, d.Cols)
	}
	return nil
}

// Cells returns the total number of cells on the board.
func (d Difficulty) Cells() int {
	return d.Rows * d.Cols
}

// String returns "Name (RxC, N mines)".
func (d Difficulty) String() string {
	return fmt.Sprintf("%s (%dx%d, %d mines)", d.Name, d.Rows, d.Cols, d.Mines)
}

func unknownDifficulty(s string) error {
	return fmt.Errorf("%w %q (want easy, medium or hard)", ErrUnknownDifficulty, s)
}
