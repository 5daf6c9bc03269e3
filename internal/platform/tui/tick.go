// Package tui runs minesweeper in the terminal with Bubble Tea: the game
// loop, key and mouse mapping, the difficulty menu, the leaderboard screen
// and the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
)

// TickMsg is sent to trigger a game simulation tick.
// Gen identifies the game model whose tick chain sent it.
type TickMsg struct {
	Time time.Time
	Gen  uint64
}

var tickGens atomic.Uint64

// nextTickGen returns a generation no earlier tick chain carries.
func nextTickGen() uint64 {
	return tickGens.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, gen uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}
