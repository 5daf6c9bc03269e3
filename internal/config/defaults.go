package config

import (
	_ "embed"
)

//go:embed defaults/minesweeper.yaml
var defaultMinesweeperYAML []byte

// DefaultMinesweeperConfig returns the built-in presets:
// Easy 9x9/10, Medium 16x16/40, Hard 16x30/99.
func DefaultMinesweeperConfig() MinesweeperConfig {
	return MinesweeperConfig{
		Presets: []Difficulty{
			{ID: DifficultyEasy, Name: "Easy", Rows: 9, Cols: 9, Mines: 10},
			{ID: DifficultyMedium, Name: "Medium", Rows: 16, Cols: 16, Mines: 40},
			{ID: DifficultyHard, Name: "Hard", Rows: 16, Cols: 30, Mines: 99},
		},
		Gameplay: Gameplay{
			Chording: true,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultMinesweeperYAML
}
