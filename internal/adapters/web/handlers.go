package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xvierd/pomo-cli/internal/adapters/calendar"
	"github.com/xvierd/pomo-cli/internal/domain"
)

func periodParam(r *http.Request) (domain.Window, error) {
	return domain.ParseWindow(r.URL.Query().Get("period"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	window, err := periodParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := s.stats.Aggregate(r.Context(), window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSummaryView(summary))
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	window, err := periodParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid limit %q", raw)})
			return
		}
	}
	sessions, err := s.stats.Sessions(r.Context(), window, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"window":   window,
		"sessions": NewSessionViews(sessions),
	})
}

func (s *Server) handleListColors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"task_colors": NewTaskColorViews(s.colors.All(r.Context())),
	})
}

type setColorRequest struct {
	Color string `json:"color"`
}

func (s *Server) handleSetColor(w http.ResponseWriter, r *http.Request) {
	task := chi.URLParam(r, "task")
	if unescaped, err := url.PathUnescape(task); err == nil {
		task = unescaped
	}

	var req setColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	tc, err := s.colors.SetColor(r.Context(), task, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TaskColorView{Task: tc.TaskName, Color: tc.Color, AssignedAt: tc.AssignedAt})
}

func (s *Server) handleExportICal(w http.ResponseWriter, r *http.Request) {
	window, err := domain.ParseWindow(r.URL.Query().Get("period"))
	if r.URL.Query().Get("period") == "" {
		window, err = domain.WindowAll, nil
	}
	if err != nil {
		writeError(w, err)
		return
	}

	sessions, err := s.stats.Sessions(r.Context(), window, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	slices.Reverse(sessions)

	var buf bytes.Buffer
	colorFor := func(task string) string { return s.colors.ColorFor(r.Context(), task) }
	if _, err := calendar.Export(&buf, calendar.Each(sessions), colorFor, s.now()); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=pomo-%s.ics", window))
	_, _ = w.Write(buf.Bytes())
}
