package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

// useStatsFlags points the stats flags at a temporary database.
func useStatsFlags(t *testing.T, player string) {
	t.Helper()
	oldDB, oldPlayer := flagDBPath, flagPlayer
	t.Cleanup(func() {
		flagDBPath, flagPlayer = oldDB, oldPlayer
	})
	flagDBPath = filepath.Join(t.TempDir(), "stats.db")
	flagPlayer = player
}

func TestOpenStatsTrackerWritesNoLogs(t *testing.T) {
	tests := []struct {
		name       string
		closeFirst bool
		wantOK     bool
	}{
		{"recorded", false, true},
		{"record fails", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useStatsFlags(t, "ana")

			var buf bytes.Buffer
			store, tracker := openStats(log.New(&buf))
			if store == nil {
				t.Fatal("store not opened")
			}
			if !tracker.Enabled() {
				t.Fatal("tracker disabled for a logged-in player")
			}
			if tt.closeFirst {
				store.Close()
			} else {
				t.Cleanup(func() { store.Close() })
			}

			if _, ok := tracker.Report("easy", true, 3); ok != tt.wantOK {
				t.Errorf("Report ok = %v, want %v", ok, tt.wantOK)
			}
			if buf.Len() != 0 {
				t.Errorf("tracker wrote to the terminal logger:\n%s", buf.String())
			}
		})
	}
}

func TestOpenStatsWithoutPlayer(t *testing.T) {
	useStatsFlags(t, "")

	var buf bytes.Buffer
	store, tracker := openStats(log.New(&buf))
	if store == nil {
		t.Fatal("store not opened")
	}
	defer store.Close()

	if tracker.Enabled() {
		t.Error("tracker enabled without a player")
	}
	if _, ok := tracker.Report("easy", true, 3); ok {
		t.Error("Report recorded without a player")
	}
}
