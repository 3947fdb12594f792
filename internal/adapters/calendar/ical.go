// Package calendar renders sessions as iCalendar events and mirrors them
// into a CalDAV calendar.
package calendar

import (
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/emersion/go-ical"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// ProductID identifies pomo in generated calendars.
const ProductID = "-//pomo-cli//Pomodoro Sessions//EN"

// ColorFunc resolves the display color of a task.
type ColorFunc func(taskName string) string

// EventUID is the stable iCalendar UID of a session.
func EventUID(sessionID string) string {
	return "pomo-" + sessionID + "@pomo-cli"
}

// NewCalendar returns an empty VCALENDAR with the required properties.
func NewCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	return cal
}

// BuildEvent converts a session into a VEVENT. Times are written in UTC.
func BuildEvent(s *domain.Session, color string, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, EventUID(s.ID))
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, s.StartTime.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, s.EndTime().UTC())
	event.Props.SetText(ical.PropSummary, "🍅 "+s.TaskName)
	event.Props.SetText(ical.PropDescription, fmt.Sprintf(
		"Pomodoro session: %s\nPlanned: %s\nActual: %s\nStatus: %s",
		s.TaskName,
		domain.FormatDuration(s.PlannedDuration),
		domain.FormatDuration(s.ActualDuration),
		s.StatusLabel(),
	))
	event.Props.SetText(ical.PropCategories, s.TaskName)
	if color != "" {
		event.Props.SetText("COLOR", color)
	}
	return event
}

// SessionCalendar wraps a single session event in its own VCALENDAR, the
// shape CalDAV servers expect for one object.
func SessionCalendar(s *domain.Session, color string, stamp time.Time) *ical.Calendar {
	cal := NewCalendar()
	cal.Children = append(cal.Children, BuildEvent(s, color, stamp).Component)
	return cal
}

// Each adapts a slice of sessions to the sequence Export consumes.
func Each(sessions []*domain.Session) iter.Seq2[*domain.Session, error] {
	return func(yield func(*domain.Session, error) bool) {
		for _, s := range sessions {
			if !yield(s, nil) {
				return
			}
		}
	}
}

// Export writes every session as one VCALENDAR to w.
func Export(w io.Writer, sessions iter.Seq2[*domain.Session, error], colorFor ColorFunc, stamp time.Time) (int, error) {
	cal := NewCalendar()
	count := 0
	for s, err := range sessions {
		if err != nil {
			return 0, err
		}
		color := ""
		if colorFor != nil {
			color = colorFor(s.TaskName)
		}
		cal.Children = append(cal.Children, BuildEvent(s, color, stamp).Component)
		count++
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return count, nil
}
