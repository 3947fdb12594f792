package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphRows = 5

// glyphs holds a 5-row block rendering of every clock character.
var glyphs = map[rune][glyphRows]string{
	'0': {"████", "█  █", "█  █", "█  █", "████"},
	'1': {" █ ", "██ ", " █ ", " █ ", "███"},
	'2': {"████", "   █", "████", "█   ", "████"},
	'3': {"████", "   █", "████", "   █", "████"},
	'4': {"█  █", "█  █", "████", "   █", "   █"},
	'5': {"████", "█   ", "████", "   █", "████"},
	'6': {"████", "█   ", "████", "█  █", "████"},
	'7': {"████", "   █", "  █ ", " █  ", " █  "},
	'8': {"████", "█  █", "████", "█  █", "████"},
	'9': {"████", "█  █", "████", "   █", "████"},
	':': {" ", "█", " ", "█", " "},
}

// minBigWidth is the narrowest terminal that gets the block clock.
const minBigWidth = 40

// renderClock draws a clock string such as "24:59" or "1:05:00" in block
// glyphs, or as a single bold line when the terminal is narrow.
func renderClock(clock string, style lipgloss.Style, width int) string {
	if width < minBigWidth {
		return style.Render(clock)
	}

	var rows [glyphRows]strings.Builder
	for i, ch := range clock {
		glyph, ok := glyphs[ch]
		if !ok {
			continue
		}
		for r := range rows {
			if i > 0 {
				rows[r].WriteByte(' ')
			}
			rows[r].WriteString(glyph[r])
		}
	}

	out := make([]string, glyphRows)
	for r := range rows {
		out[r] = style.Render(rows[r].String())
	}
	return strings.Join(out, "\n")
}
