package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultPlannedDuration is used when no duration is given.
const DefaultPlannedDuration = 25 * time.Minute

// durationPattern accepts "<n>h", "<n>m" and "<n>h<n>m".
var durationPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)

// ParseDuration parses user input such as "25m", "1h" or "2h30m".
// Empty input yields DefaultPlannedDuration.
func ParseDuration(input string) (time.Duration, error) {
	return ParseDurationOr(input, DefaultPlannedDuration)
}

// ParseDurationOr parses input like ParseDuration but returns fallback
// for empty input.
func ParseDurationOr(input string, fallback time.Duration) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return fallback, nil
	}

	m := durationPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, fmt.Errorf("%w: %q (use forms like 25m, 1h, 2h30m)", ErrInvalidDurationFormat, input)
	}

	var total time.Duration
	for i, unit := range []time.Duration{time.Hour, time.Minute} {
		raw := m[i+1]
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidDurationFormat, input, err)
		}
		if n == 0 {
			return 0, fmt.Errorf("%w: %q has a zero component", ErrInvalidDurationFormat, input)
		}
		if n > int64((1<<63-1)/unit) {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidDurationFormat, input)
		}
		part := time.Duration(n) * unit
		if total > (1<<63-1)-part {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidDurationFormat, input)
		}
		total += part
	}

	if total <= 0 {
		return 0, fmt.Errorf("%w: %q resolves to zero", ErrInvalidDurationFormat, input)
	}
	return total, nil
}

// FormatDuration renders d as "1h 30m", "45m" or "0m".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "0m"
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatClock renders d as MM:SS, growing to H:MM:SS past an hour.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
