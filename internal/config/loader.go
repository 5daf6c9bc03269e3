package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadMinesweeper loads minesweeper configuration.
// Search order: customPath -> ~/.minesweeper/configs/minesweeper.yaml -> ./configs/minesweeper.yaml -> embedded default
func LoadMinesweeper(customPath string) (MinesweeperConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return MinesweeperConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return MinesweeperConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("minesweeper.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/minesweeper.yaml"); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultMinesweeperYAML)
	if err != nil {
		return DefaultMinesweeperConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes YAML on top of the built-in defaults so a partial file only
// overrides what it names.
func parse(data []byte) (MinesweeperConfig, error) {
	var file MinesweeperConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return MinesweeperConfig{}, err
	}

	cfg := DefaultMinesweeperConfig()
	for _, p := range file.Presets {
		cfg.Presets = mergePreset(cfg.Presets, p)
	}
	if hasGameplay(data) {
		cfg.Gameplay = file.Gameplay
	}

	if err := cfg.Validate(); err != nil {
		return MinesweeperConfig{}, err
	}
	return cfg, nil
}

// mergePreset replaces the preset with the same ID or appends a new one.
// Appended presets fail Validate unless their ID is ranked.
func mergePreset(presets []Difficulty, p Difficulty) []Difficulty {
	for i := range presets {
		if presets[i].ID == p.ID {
			if p.Name == "" {
				p.Name = presets[i].Name
			}
			presets[i] = p
			return presets
		}
	}
	return append(presets, p)
}

// hasGameplay reports whether the document sets the gameplay section at all.
func hasGameplay(data []byte) bool {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}
	_, ok := doc["gameplay"]
	return ok
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".minesweeper", "configs", filename)
}
