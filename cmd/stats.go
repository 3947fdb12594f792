package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/web"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// maxDays is how many days the daily breakdown shows.
const maxDays = 10

var statsCmd = &cobra.Command{
	Use:   "stats [week|month|year|all]",
	Short: "Show where your focused time went",
	Long: `Show totals per task for a window ending now. The window defaults to the
current week and accepts the shortcuts w, m, y and a.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var input string
		if len(args) > 0 {
			input = args[0]
		}
		window, err := domain.ParseWindow(input)
		if err != nil {
			return err
		}

		summary, err := app.stats.Aggregate(commandContext(cmd), window)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), web.NewSummaryView(summary))
		}
		fmt.Fprintln(cmd.OutOrStdout())
		renderSummary(cmd.OutOrStdout(), summary)
		return nil
	},
}

var (
	statsTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6FE0"))
	statsDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	statsValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
)

func renderSummary(w io.Writer, s *domain.Summary) {
	// Header
	fmt.Fprintf(w, "  %s\n", statsTitleStyle.Render(summaryLabel(s)))
	fmt.Fprintf(w, "  %s\n\n", statsDimStyle.Render(strings.Repeat("─", 40)))

	fmt.Fprintf(w, "  Total: %s focused in %s sessions (%d completed, %d interrupted)\n\n",
		statsValueStyle.Render(domain.FormatDuration(s.TotalDuration)),
		statsValueStyle.Render(fmt.Sprintf("%d", s.SessionCount)),
		s.CompletedCount,
		s.InterruptedCount,
	)

	if s.IsEmpty() {
		fmt.Fprintf(w, "  %s\n\n", statsDimStyle.Render("No sessions in this period."))
		return
	}

	fmt.Fprintf(w, "  %s\n", statsDimStyle.Render("By task"))
	nameWidth := 0
	for _, t := range s.Tasks {
		nameWidth = max(nameWidth, lipgloss.Width(t.TaskName))
	}
	maxBarWidth := 24
	for _, t := range s.Tasks {
		share := t.Share(s.TotalDuration)
		barWidth := int(math.Round(share / 100 * float64(maxBarWidth)))
		if barWidth < 1 && t.TotalDuration > 0 {
			barWidth = 1
		}
		color := t.Color
		if color == "" {
			color = "#7C6FE0"
		}
		barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		name := t.TaskName + strings.Repeat(" ", nameWidth-lipgloss.Width(t.TaskName))

		bar := barStyle.Render(buildBar(barWidth)) + strings.Repeat(" ", max(maxBarWidth-barWidth, 0))

		fmt.Fprintf(w, "  %s  %s %8s  %s  %s  %s\n",
			barStyle.Render(name),
			bar,
			domain.FormatDuration(t.TotalDuration),
			statsDimStyle.Render(pluralize(t.SessionCount, "session")),
			statsDimStyle.Render(fmt.Sprintf("%d✓ %d✗", t.CompletedCount, t.InterruptedCount)),
			statsValueStyle.Render(fmt.Sprintf("%.0f%%", share)),
		)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", statsDimStyle.Render("By day"))
	days := s.Days
	if len(days) > maxDays {
		days = days[:maxDays]
	}
	for _, d := range days {
		fmt.Fprintf(w, "  %s  %8s  %s\n",
			statsDimStyle.Render(d.Date.Format("Mon Jan 02")),
			domain.FormatDuration(d.TotalDuration),
			statsDimStyle.Render(pluralize(d.SessionCount, "session")),
		)
	}
	fmt.Fprintln(w)
}

// summaryLabel names the window and the first day it covers.
func summaryLabel(s *domain.Summary) string {
	if s.Period.Start.IsZero() {
		return s.Window.Label()
	}
	return fmt.Sprintf("%s (since %s)", s.Window.Label(), s.Period.Start.Format("Jan 2, 2006"))
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
