package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TaskColor is the stable display color assigned to a task name.
type TaskColor struct {
	TaskName   string
	Color      string
	AssignedAt time.Time
}

// DefaultPalette is the ordered palette colors are allocated from.
var DefaultPalette = []string{
	"#e06c75",
	"#61afef",
	"#98c379",
	"#e5c07b",
	"#c678dd",
	"#56b6c2",
	"#d19a66",
	"#be5046",
	"#7f9f7f",
	"#f4a6c0",
	"#5c7cfa",
	"#a0a0a0",
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NormalizeColor validates a #rrggbb color and lowercases it.
func NormalizeColor(c string) (string, error) {
	c = strings.TrimSpace(c)
	if !hexColor.MatchString(c) {
		return "", fmt.Errorf("%w: %q (expected #rrggbb)", ErrInvalidColor, c)
	}
	return strings.ToLower(c), nil
}

// NextColor picks the color for a newly seen task given the colors already
// assigned. The first palette entry not in use wins; once the palette is
// exhausted colors repeat in palette order.
func NextColor(palette []string, assigned []string) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	used := make(map[string]struct{}, len(assigned))
	for _, c := range assigned {
		used[strings.ToLower(c)] = struct{}{}
	}
	for _, c := range palette {
		if _, ok := used[strings.ToLower(c)]; !ok {
			return c
		}
	}
	return palette[len(assigned)%len(palette)]
}
