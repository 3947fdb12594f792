// Package web serves the stats data feed used by dashboards and scripts.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// StatsProvider aggregates stored sessions.
type StatsProvider interface {
	Aggregate(ctx context.Context, window domain.Window) (*domain.Summary, error)
	Sessions(ctx context.Context, window domain.Window, limit int) ([]*domain.Session, error)
}

// ColorStore reads and overrides task colors.
type ColorStore interface {
	ColorFor(ctx context.Context, taskName string) string
	SetColor(ctx context.Context, taskName, color string) (domain.TaskColor, error)
	All(ctx context.Context) []domain.TaskColor
}

// Server is the HTTP data feed.
type Server struct {
	addr   string
	stats  StatsProvider
	colors ColorStore
	logger *slog.Logger
	router chi.Router
	now    func() time.Time
}

// NewServer creates a server listening on addr.
func NewServer(addr string, stats StatsProvider, colors ColorStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:   addr,
		stats:  stats,
		colors: colors,
		logger: logger,
		now:    time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/sessions", s.handleSessions)
		r.Get("/task-colors", s.handleListColors)
		r.Put("/task-colors/{task}", s.handleSetColor)
		r.Get("/export/ical", s.handleExportICal)
	})

	return r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("server shutdown failed", "error", err)
		}
	}()

	s.logger.Info("serving stats feed", "addr", s.addr)
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrEmptyTaskName):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
