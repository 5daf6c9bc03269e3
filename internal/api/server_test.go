package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-minesweeper/internal/stats"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewServer(store, nil).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("Unexpected body %q", w.Body.String())
	}
}

func TestGameResultValidation(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"no player", `{"difficulty":"easy","result":"win"}`, http.StatusUnauthorized},
		{"bad difficulty", `{"player":"ana","difficulty":"expert","result":"win"}`, http.StatusBadRequest},
		{"custom difficulty", `{"player":"ana","difficulty":"custom","result":"win"}`, http.StatusBadRequest},
		{"bad result", `{"player":"ana","difficulty":"easy","result":"draw"}`, http.StatusBadRequest},
		{"negative elapsed", `{"player":"ana","difficulty":"easy","result":"win","elapsed":-1}`, http.StatusBadRequest},
		{"broken json", `{"player":`, http.StatusBadRequest},
		{"blank player", `{"player":"  ","difficulty":"easy","result":"win"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/api/game-result", tt.body)
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d (%s)", tt.want, w.Code, w.Body.String())
			}
			var resp errorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Error == "" {
				t.Errorf("Expected a JSON error, got %v", err)
			}
		})
	}
}

func TestGameResultUpdatesStreak(t *testing.T) {
	h := newTestServer(t)

	post := func(result string) stats.Streak {
		t.Helper()
		w := do(t, h, "POST", "/api/game-result", `{"player":"ana","difficulty":"medium","result":"`+result+`","elapsed":30}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d (%s)", w.Code, w.Body.String())
		}
		var resp gameResultResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		return resp.Streak
	}

	post("win")
	if s := post("win"); s.Current != 2 || s.Best != 2 {
		t.Errorf("Expected streak 2/2, got %+v", s)
	}
	if s := post("lose"); s.Current != 0 || s.Best != 2 {
		t.Errorf("Expected streak 0/2 after a loss, got %+v", s)
	}

	w := do(t, h, "GET", "/api/players/ana/streaks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var streaks []stats.Streak
	if err := json.NewDecoder(w.Body).Decode(&streaks); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(streaks) != 3 || streaks[1].Best != 2 {
		t.Errorf("Unexpected streaks %+v", streaks)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	h := newTestServer(t)

	for _, p := range []string{"bob", "bob", "ana"} {
		w := do(t, h, "POST", "/api/game-result", `{"player":"`+p+`","difficulty":"hard","result":"win"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
	}

	w := do(t, h, "GET", "/api/leaderboard?difficulty=hard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var entries []storage.LeaderboardEntry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "bob" || entries[0].Score != 2 {
		t.Errorf("Unexpected leaderboard %+v", entries)
	}

	w = do(t, h, "GET", "/api/leaderboard?difficulty=hard&limit=1", "")
	entries = nil
	json.NewDecoder(w.Body).Decode(&entries)
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry with limit=1, got %d", len(entries))
	}

	w = do(t, h, "GET", "/api/leaderboard?difficulty=easy", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("Expected empty list, got %q", w.Body.String())
	}

	for _, path := range []string{"/api/leaderboard", "/api/leaderboard?difficulty=nope", "/api/leaderboard?difficulty=easy&limit=0"} {
		if w := do(t, h, "GET", path, ""); w.Code != http.StatusBadRequest {
			t.Errorf("GET %s: expected status 400, got %d", path, w.Code)
		}
	}
}

func TestCORS(t *testing.T) {
	const origin = "http://localhost:5173"

	h := NewServer(nil, nil, WithAllowedOrigins(origin)).Routes()

	req := httptest.NewRequest(http.MethodOptions, "/api/game-result", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Errorf("preflight Allow-Origin = %q, want %q", got, origin)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for unknown origin = %q, want empty", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestNoCORSByDefault(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty without configured origins", got)
	}
}
