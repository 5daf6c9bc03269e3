package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	tests := []struct {
		name string
		draw func(s *core.Screen)
	}{
		{"blank", func(*core.Screen) {}},
		{"plain", func(s *core.Screen) {
			s.DrawText(1, 0, "mines 10")
		}},
		{"mixed colors", func(s *core.Screen) {
			s.SetColored(0, 1, '1', core.ColorBlue)
			s.SetColored(1, 1, '2', core.ColorGreen)
			s.SetColored(2, 1, '2', core.ColorGreen)
			s.SetColored(3, 1, '*', core.ColorAlert)
			s.SetColored(4, 1, '>', core.ColorCursor)
		}},
		{"unknown color", func(s *core.Screen) {
			s.SetColored(5, 2, '?', core.Color(250))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := core.NewScreen(12, 3)
			tt.draw(s)

			got := ansi.Strip(RenderScreen(s))
			if got != s.String() {
				t.Errorf("rendered text = %q, want %q", got, s.String())
			}
			if n := strings.Count(got, "\n"); n != s.Height()-1 {
				t.Errorf("line breaks = %d, want %d", n, s.Height()-1)
			}
		})
	}
}
