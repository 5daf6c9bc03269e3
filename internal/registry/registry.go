// Package registry provides a global registry of playable variants.
// Each variant pairs the game with a difficulty and registers itself in an
// init() function, so the CLI and menus can list and create variants without
// knowing their board dimensions.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
)

// Game is the interface the platform drives.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns the variant identifier (e.g., "easy", "hard").
	// Used for CLI commands and stats reporting.
	ID() string

	// Title returns a human-readable name for display (e.g., "Minesweeper (Easy)").
	Title() string

	// Reset starts a new game.
	// Called once at start and again when restarting after game over.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one fixed tick, applying the frame's input.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// Resizer is implemented by games that can adapt to a new screen size
// without losing progress. Games that don't implement it are reset.
type Resizer interface {
	Resize(width, height int)
}

// Describer is implemented by games that have a one-line summary for menus.
type Describer interface {
	Description() string
}

// GameInfo contains metadata about a registered variant.
type GameInfo struct {
	ID          string
	Title       string
	Description string
	Order       int
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a variant factory to the registry.
// Order controls listing position; ties are broken by ID.
// Panics if a variant with the same ID is already registered.
func Register(id string, order int, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	g := f()
	info := GameInfo{ID: id, Title: g.Title(), Order: order}
	if d, ok := g.(Describer); ok {
		info.Description = d.Description()
	}
	infos[id] = info
}

// List returns information about all registered variants in listing order.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its variant ID.
// Returns an error if the ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown variant %q", id)
	}

	return f(), nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
