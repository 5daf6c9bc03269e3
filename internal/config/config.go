// Package config provides YAML-based game configuration loading and
// difficulty presets for minesweeper.
package config

import "fmt"

// MinesweeperConfig contains all configuration for the minesweeper game.
type MinesweeperConfig struct {
	Presets  []Difficulty `yaml:"presets"`
	Gameplay Gameplay     `yaml:"gameplay"`
}

// Gameplay holds rule toggles that sit on top of the board engine.
type Gameplay struct {
	// Chording opens all unflagged neighbors when a satisfied number is revealed again.
	Chording bool `yaml:"chording"`
}

// Preset returns the preset with the given ID.
// Custom difficulties are not presets and always fail.
func (c MinesweeperConfig) Preset(id DifficultyID) (Difficulty, error) {
	for _, d := range c.Presets {
		if d.ID == id {
			return d, nil
		}
	}
	return Difficulty{}, unknownDifficulty(string(id))
}

// Validate checks that every ranked difficulty has a preset and that all
// presets describe playable boards.
func (c MinesweeperConfig) Validate() error {
	for _, id := range RankedDifficulties() {
		if _, err := c.Preset(id); err != nil {
			return err
		}
	}
	for _, d := range c.Presets {
		if d.ID == "" {
			return fmt.Errorf("%w: preset %q has no id", ErrInvalidDifficulty, d.Name)
		}
		if !d.ID.Ranked() {
			return fmt.Errorf("%w: preset %q (want easy, medium or hard)", ErrUnknownDifficulty, d.ID)
		}
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}
