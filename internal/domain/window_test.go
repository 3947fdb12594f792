package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in   string
		want Window
	}{
		{"", WindowWeek},
		{"w", WindowWeek},
		{"Week", WindowWeek},
		{"m", WindowMonth},
		{"month", WindowMonth},
		{"y", WindowYear},
		{"a", WindowAll},
		{"all", WindowAll},
		{"all-time", WindowAll},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWindow(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseWindow("fortnight")
	assert.True(t, errors.Is(err, ErrInvalidWindow))
}

func TestWindow_Resolve(t *testing.T) {
	// Wednesday.
	now := time.Date(2024, 3, 6, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		window    Window
		weekStart time.Weekday
		wantStart time.Time
	}{
		{"week monday", WindowWeek, time.Monday, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"week sunday", WindowWeek, time.Sunday, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"week wednesday", WindowWeek, time.Wednesday, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)},
		{"month", WindowMonth, time.Monday, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"year", WindowYear, time.Monday, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"all", WindowAll, time.Monday, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.window.Resolve(now, tt.weekStart)
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(p.Start), "start = %v, want %v", p.Start, tt.wantStart)
			assert.Equal(t, now, p.End)
		})
	}

	_, err := Window("decade").Resolve(now, time.Monday)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestStartOfWeek_Sunday(t *testing.T) {
	sunday := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	got := StartOfWeek(sunday, time.Monday)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), got)
}

func TestPeriod_Contains(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)
	p := Period{Start: start, End: end}

	assert.True(t, p.Contains(start))
	assert.False(t, p.Contains(end))
	assert.False(t, p.Contains(start.Add(-time.Nanosecond)))
	assert.True(t, Period{End: end}.Contains(time.Time{}.Add(time.Hour)))
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	d, err = ParseWeekday("sun")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	_, err = ParseWeekday("funday")
	assert.Error(t, err)
}
