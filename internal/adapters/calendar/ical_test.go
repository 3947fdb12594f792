package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/domain"
)

func testSession(t *testing.T, task string, start time.Time, planned, actual time.Duration) *domain.Session {
	t.Helper()
	s, err := domain.NewSession(task, start, planned, actual, planned == actual)
	require.NoError(t, err)
	return s
}

func TestEventUID(t *testing.T) {
	assert.Equal(t, "pomo-abc@pomo-cli", EventUID("abc"))
}

func TestExport_RoundTrip(t *testing.T) {
	zone := time.FixedZone("CET", 3600)
	start := time.Date(2024, 3, 4, 10, 0, 0, 0, zone)
	a := testSession(t, "coding", start, 25*time.Minute, 25*time.Minute)
	b := testSession(t, "reading", start.Add(time.Hour), 25*time.Minute, 10*time.Minute)

	var buf bytes.Buffer
	n, err := Export(&buf, Each([]*domain.Session{a, b}), func(task string) string { return "#61afef" }, start)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, strings.HasPrefix(buf.String(), "BEGIN:VCALENDAR"))

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	uid, err := events[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, EventUID(a.ID), uid)

	summary, err := events[1].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "🍅 reading", summary)

	dtStart, err := events[0].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, dtStart.Equal(start))

	dtEnd, err := events[1].DateTimeEnd(time.UTC)
	require.NoError(t, err)
	assert.True(t, dtEnd.Equal(b.EndTime()))

	desc, err := events[1].Props.Text(ical.PropDescription)
	require.NoError(t, err)
	assert.Contains(t, desc, "Status: interrupted")

	color := events[0].Props.Get("COLOR")
	require.NotNil(t, color)
	assert.Equal(t, "#61afef", color.Value)
}

func TestSessionCalendar(t *testing.T) {
	s := testSession(t, "coding", time.Now(), time.Minute, time.Minute)
	cal := SessionCalendar(s, "", time.Now())

	require.Len(t, cal.Children, 1)
	assert.Equal(t, ical.CompEvent, cal.Children[0].Name)
	assert.Nil(t, cal.Children[0].Props.Get("COLOR"))

	var buf bytes.Buffer
	require.NoError(t, ical.NewEncoder(&buf).Encode(cal))
}
