package domain

import (
	"sort"
	"time"
)

// TaskSummary aggregates all sessions of one task inside a period.
type TaskSummary struct {
	TaskName         string
	Color            string
	TotalDuration    time.Duration
	SessionCount     int
	CompletedCount   int
	InterruptedCount int
}

// Share returns this task's percentage of total.
func (t TaskSummary) Share(total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(t.TotalDuration) / float64(total) * 100
}

// DaySummary aggregates the sessions that started on one local day.
type DaySummary struct {
	Date          time.Time
	TotalDuration time.Duration
	SessionCount  int
}

// Summary is the aggregated view of a period.
type Summary struct {
	Window           Window
	Period           Period
	TotalDuration    time.Duration
	SessionCount     int
	CompletedCount   int
	InterruptedCount int
	Tasks            []TaskSummary
	Days             []DaySummary
}

// IsEmpty reports whether no session fell inside the period.
func (s *Summary) IsEmpty() bool {
	return s.SessionCount == 0
}

// Task returns the summary for a task name, if present.
func (s *Summary) Task(name string) (TaskSummary, bool) {
	for _, t := range s.Tasks {
		if t.TaskName == name {
			return t, true
		}
	}
	return TaskSummary{}, false
}

// Accumulator folds sessions into a Summary. Interrupted sessions count
// toward totals with their actual duration.
type Accumulator struct {
	summary Summary
	tasks   map[string]*TaskSummary
	days    map[dayKey]*DaySummary
	loc     *time.Location
}

// dayKey is a calendar date. time.Time keys would split one date across
// distinct *Location values.
type dayKey struct {
	year  int
	month time.Month
	day   int
}

// NewAccumulator starts an empty summary for the given period. Days are
// bucketed in the location of period.End, or time.Local when it is zero.
func NewAccumulator(window Window, period Period) *Accumulator {
	loc := time.Local
	if !period.End.IsZero() {
		loc = period.End.Location()
	}
	return &Accumulator{
		summary: Summary{Window: window, Period: period},
		tasks:   make(map[string]*TaskSummary),
		days:    make(map[dayKey]*DaySummary),
		loc:     loc,
	}
}

// Add folds one session in.
func (a *Accumulator) Add(s *Session) {
	a.summary.TotalDuration += s.ActualDuration
	a.summary.SessionCount++

	ts, ok := a.tasks[s.TaskName]
	if !ok {
		ts = &TaskSummary{TaskName: s.TaskName}
		a.tasks[s.TaskName] = ts
	}
	ts.TotalDuration += s.ActualDuration
	ts.SessionCount++

	if s.Completed {
		a.summary.CompletedCount++
		ts.CompletedCount++
	} else {
		a.summary.InterruptedCount++
		ts.InterruptedCount++
	}

	start := s.StartTime.In(a.loc)
	y, m, d := start.Date()
	key := dayKey{year: y, month: m, day: d}
	ds, ok := a.days[key]
	if !ok {
		ds = &DaySummary{Date: StartOfDay(start)}
		a.days[key] = ds
	}
	ds.TotalDuration += s.ActualDuration
	ds.SessionCount++
}

// Finish returns the summary with tasks ordered by total duration
// descending (ties by name) and days newest first.
func (a *Accumulator) Finish() *Summary {
	out := a.summary
	out.Tasks = make([]TaskSummary, 0, len(a.tasks))
	for _, ts := range a.tasks {
		out.Tasks = append(out.Tasks, *ts)
	}
	sort.Slice(out.Tasks, func(i, j int) bool {
		if out.Tasks[i].TotalDuration != out.Tasks[j].TotalDuration {
			return out.Tasks[i].TotalDuration > out.Tasks[j].TotalDuration
		}
		return out.Tasks[i].TaskName < out.Tasks[j].TaskName
	})

	out.Days = make([]DaySummary, 0, len(a.days))
	for _, ds := range a.days {
		out.Days = append(out.Days, *ds)
	}
	sort.Slice(out.Days, func(i, j int) bool {
		return out.Days[i].Date.After(out.Days[j].Date)
	})
	return &out
}
