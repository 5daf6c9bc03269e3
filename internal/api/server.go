// Package api serves the stats service over HTTP: recording results,
// per-difficulty leaderboards and player streaks.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/stats"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

// Store is the persistence the server needs.
type Store interface {
	stats.Recorder
	Leaderboard(ctx context.Context, difficulty config.DifficultyID, limit int) ([]storage.LeaderboardEntry, error)
	Streaks(ctx context.Context, name string) ([]stats.Streak, error)
}

// Server handles HTTP requests.
type Server struct {
	store   Store
	logger  *log.Logger
	origins []string
	http    *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins lets browsers on the given origins call the API.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = append(s.origins, origins...)
	}
}

// NewServer creates a server backed by store. A nil logger discards logs.
func NewServer(store Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if len(s.origins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler)
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/game-result", s.handleGameResult)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/players/{name}/streaks", s.handleStreaks)
	})

	return r
}

// ListenAndServe serves on addr and blocks until SIGINT/SIGTERM or ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
			"remote", r.RemoteAddr,
		)
	})
}

type gameResultRequest struct {
	Player     string `json:"player"`
	Difficulty string `json:"difficulty"`
	Result     string `json:"result"`
	Elapsed    int    `json:"elapsed"`
}

type gameResultResponse struct {
	Player string       `json:"player"`
	Streak stats.Streak `json:"streak"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGameResult(w http.ResponseWriter, r *http.Request) {
	var req gameResultRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Player == "" {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	difficulty, err := config.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := stats.ParseResult(req.Result)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Elapsed < 0 {
		writeError(w, http.StatusBadRequest, "elapsed must not be negative")
		return
	}

	streak, err := s.store.RecordOutcome(r.Context(), stats.Outcome{
		Player:     req.Player,
		Difficulty: difficulty,
		Result:     result,
		Elapsed:    req.Elapsed,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, gameResultResponse{Player: req.Player, Streak: streak})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	difficulty, err := config.ParseDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := storage.DefaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
	}

	entries, err := s.store.Leaderboard(r.Context(), difficulty, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStreaks(w http.ResponseWriter, r *http.Request) {
	streaks, err := s.store.Streaks(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, streaks)
}

// fail maps store errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidPlayer):
		writeError(w, http.StatusUnauthorized, "not logged in")
	case errors.Is(err, config.ErrUnknownDifficulty), errors.Is(err, stats.ErrInvalidResult):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Headers are already sent
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
