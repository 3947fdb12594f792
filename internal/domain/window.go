package domain

import (
	"fmt"
	"strings"
	"time"
)

// Window names a reporting range ending at "now".
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
	WindowAll   Window = "all"
)

// Windows lists every supported window in display order.
var Windows = []Window{WindowWeek, WindowMonth, WindowYear, WindowAll}

// ParseWindow accepts window names and their one-letter shortcuts.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "w", "week":
		return WindowWeek, nil
	case "m", "month":
		return WindowMonth, nil
	case "y", "year":
		return WindowYear, nil
	case "a", "all", "all-time", "alltime":
		return WindowAll, nil
	}
	return "", fmt.Errorf("%w: %q (use week, month, year or all)", ErrInvalidWindow, s)
}

// Label returns the heading used for the window.
func (w Window) Label() string {
	switch w {
	case WindowWeek:
		return "This Week"
	case WindowMonth:
		return "This Month"
	case WindowYear:
		return "This Year"
	case WindowAll:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Period is the half-open interval [Start, End). A zero Start is unbounded.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && !t.Before(p.End) {
		return false
	}
	return true
}

// Resolve turns the window into a concrete period ending at now.
// Boundaries are local midnights in now's location.
func (w Window) Resolve(now time.Time, weekStart time.Weekday) (Period, error) {
	switch w {
	case WindowWeek:
		return Period{Start: StartOfWeek(now, weekStart), End: now}, nil
	case WindowMonth:
		return Period{Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), End: now}, nil
	case WindowYear:
		return Period{Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), End: now}, nil
	case WindowAll:
		return Period{End: now}, nil
	}
	return Period{}, fmt.Errorf("%w: %q", ErrInvalidWindow, string(w))
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the most recent weekStart on or before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(weekStart) + 7) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// ParseWeekday parses an English weekday name or three-letter prefix.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if len(name) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if name == full || name == full[:3] {
				return d, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
