package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/calendar"
	"github.com/xvierd/pomo-cli/internal/domain"
)

var (
	exportFormat string
	exportPeriod string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session history",
	Long:  "Export your session history as an iCalendar file, CSV or markdown.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}
		n, err := runExport(commandContext(cmd), w, exportFormat, exportPeriod, time.Now())
		if err != nil {
			return err
		}
		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", pluralize(n, "session"), exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "ics", "Output format: ics, csv or md")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "all", "Time period: week, month, year or all")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

// runExport writes every session of the period, oldest first.
func runExport(ctx context.Context, w io.Writer, format, period string, now time.Time) (int, error) {
	window, err := domain.ParseWindow(period)
	if err != nil {
		return 0, err
	}

	sessions, err := app.stats.Sessions(ctx, window, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	slices.Reverse(sessions)

	switch format {
	case "ics", "ical":
		return calendar.Export(w, calendar.Each(sessions), colorFunc(), now)
	case "csv":
		return len(sessions), exportCSV(w, sessions)
	case "md", "markdown":
		return len(sessions), exportMarkdown(w, sessions, now)
	default:
		return 0, fmt.Errorf("unknown export format %q (use ics, csv or md)", format)
	}
}

func exportMarkdown(w io.Writer, sessions []*domain.Session, now time.Time) error {
	fmt.Fprintf(w, "# Pomodoro Session Export\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", now.Format("2006-01-02 15:04"))

	var day string
	for _, s := range sessions {
		if d := s.StartTime.Format("2006-01-02"); d != day {
			day = d
			fmt.Fprintf(w, "## %s\n\n", day)
		}
		fmt.Fprintf(w, "- %s %s: %s of %s (%s)",
			s.StartTime.Format("15:04"),
			s.TaskName,
			domain.FormatDuration(s.ActualDuration),
			domain.FormatDuration(s.PlannedDuration),
			s.StatusLabel(),
		)
		if s.GitBranch != "" {
			fmt.Fprintf(w, " on `%s`", s.GitBranch)
		}
		fmt.Fprintln(w)
	}
	if len(sessions) > 0 {
		fmt.Fprintln(w)
	}
	return nil
}

func exportCSV(w io.Writer, sessions []*domain.Session) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{
		"id", "task", "start_time", "end_time", "planned_min",
		"actual_min", "completed", "git_branch",
	})

	for _, s := range sessions {
		_ = cw.Write([]string{
			s.ID,
			s.TaskName,
			s.StartTime.Format(time.RFC3339),
			s.EndTime().Format(time.RFC3339),
			fmt.Sprintf("%.0f", s.PlannedDuration.Minutes()),
			fmt.Sprintf("%.1f", s.ActualDuration.Minutes()),
			strconv.FormatBool(s.Completed),
			s.GitBranch,
		})
	}
	cw.Flush()
	return cw.Error()
}
