package web

import (
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// SummaryView is the JSON shape of a stats summary.
type SummaryView struct {
	Window       string     `json:"window"`
	Label        string     `json:"label"`
	Start        *time.Time `json:"start,omitempty"`
	End          time.Time  `json:"end"`
	TotalSeconds int64      `json:"total_seconds"`
	Total        string     `json:"total"`
	Sessions     int        `json:"sessions"`
	Completed    int        `json:"completed"`
	Interrupted  int        `json:"interrupted"`
	Tasks        []TaskView `json:"tasks"`
	Days         []DayView  `json:"days"`
}

// TaskView is one task line of a summary.
type TaskView struct {
	Task         string  `json:"task"`
	Color        string  `json:"color"`
	TotalSeconds int64   `json:"total_seconds"`
	Total        string  `json:"total"`
	Sessions     int     `json:"sessions"`
	Completed    int     `json:"completed"`
	Interrupted  int     `json:"interrupted"`
	Share        float64 `json:"share"`
}

// DayView is one day of the daily breakdown.
type DayView struct {
	Date         string `json:"date"`
	TotalSeconds int64  `json:"total_seconds"`
	Total        string `json:"total"`
	Sessions     int    `json:"sessions"`
}

// SessionView is the JSON shape of a recorded session.
type SessionView struct {
	ID             string    `json:"id"`
	Task           string    `json:"task"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	PlannedSeconds int64     `json:"planned_seconds"`
	ActualSeconds  int64     `json:"actual_seconds"`
	Completed      bool      `json:"completed"`
	Status         string    `json:"status"`
	GitBranch      string    `json:"git_branch,omitempty"`
}

// TaskColorView is the JSON shape of a color assignment.
type TaskColorView struct {
	Task       string    `json:"task"`
	Color      string    `json:"color"`
	AssignedAt time.Time `json:"assigned_at"`
}

// NewSummaryView converts a summary for JSON output.
func NewSummaryView(s *domain.Summary) SummaryView {
	v := SummaryView{
		Window:       string(s.Window),
		Label:        s.Window.Label(),
		End:          s.Period.End,
		TotalSeconds: int64(s.TotalDuration.Seconds()),
		Total:        domain.FormatDuration(s.TotalDuration),
		Sessions:     s.SessionCount,
		Completed:    s.CompletedCount,
		Interrupted:  s.InterruptedCount,
		Tasks:        make([]TaskView, 0, len(s.Tasks)),
		Days:         make([]DayView, 0, len(s.Days)),
	}
	if !s.Period.Start.IsZero() {
		start := s.Period.Start
		v.Start = &start
	}
	for _, t := range s.Tasks {
		v.Tasks = append(v.Tasks, TaskView{
			Task:         t.TaskName,
			Color:        t.Color,
			TotalSeconds: int64(t.TotalDuration.Seconds()),
			Total:        domain.FormatDuration(t.TotalDuration),
			Sessions:     t.SessionCount,
			Completed:    t.CompletedCount,
			Interrupted:  t.InterruptedCount,
			Share:        t.Share(s.TotalDuration),
		})
	}
	for _, d := range s.Days {
		v.Days = append(v.Days, DayView{
			Date:         d.Date.Format("2006-01-02"),
			TotalSeconds: int64(d.TotalDuration.Seconds()),
			Total:        domain.FormatDuration(d.TotalDuration),
			Sessions:     d.SessionCount,
		})
	}
	return v
}

// NewSessionView converts a session for JSON output.
func NewSessionView(s *domain.Session) SessionView {
	return SessionView{
		ID:             s.ID,
		Task:           s.TaskName,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime(),
		PlannedSeconds: int64(s.PlannedDuration.Seconds()),
		ActualSeconds:  int64(s.ActualDuration.Seconds()),
		Completed:      s.Completed,
		Status:         s.StatusLabel(),
		GitBranch:      s.GitBranch,
	}
}

// NewSessionViews converts a list of sessions.
func NewSessionViews(sessions []*domain.Session) []SessionView {
	out := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewSessionView(s))
	}
	return out
}

// NewTaskColorViews converts color assignments.
func NewTaskColorViews(colors []domain.TaskColor) []TaskColorView {
	out := make([]TaskColorView, 0, len(colors))
	for _, c := range colors {
		out = append(out, TaskColorView{Task: c.TaskName, Color: c.Color, AssignedAt: c.AssignedAt})
	}
	return out
}
