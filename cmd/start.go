package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/adapters/web"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/services"
)

var startPlain bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start <task> [duration]",
	Short: "Start a pomodoro session",
	Long: `Start a focused work session for a task and count it down.

The duration accepts forms like 25m, 1h or 2h30m and defaults to
timer.default_duration. Press q or Ctrl+C to stop early; the time worked
so far is still recorded.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSession,
}

func init() {
	startCmd.Flags().BoolVar(&startPlain, "plain", false, "Print the remaining time line by line instead of the full-screen countdown")
}

// runSession starts a session, renders the countdown and reports the outcome.
func runSession(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()

	workingDir, _ := os.Getwd()
	req := services.StartRequest{
		TaskName:   args[0],
		WorkingDir: workingDir,
	}
	if len(args) > 1 {
		req.DurationInput = args[1]
	}

	snap, err := app.engine.Start(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	// The color is allocated when the session is recorded.
	color := app.colors.PeekColor(ctx, snap.TaskName)

	done := make(chan struct{})
	var (
		term    *domain.Termination
		waitErr error
	)
	go func() {
		defer close(done)
		term, waitErr = app.engine.Wait(ctx)
	}()

	// Keep stdout clean for the JSON result.
	out := cmd.OutOrStdout()
	if jsonOutput {
		out = cmd.ErrOrStderr()
	}

	_, runErr := tui.Run(ctx, app.engine, tui.Options{
		TaskColor:    color,
		TickInterval: app.config.Timer.TickInterval,
		Interrupt: func() {
			_, _ = app.engine.Interrupt(ctx)
		},
		Done:   done,
		Plain:  startPlain || jsonOutput,
		Output: out,
	})
	if runErr != nil {
		_, _ = app.engine.Interrupt(ctx)
	}
	<-done

	if err := reportTermination(cmd.OutOrStdout(), term, waitErr, jsonOutput); err != nil {
		return err
	}
	return runErr
}

// terminationView is the JSON form of a finished session.
type terminationView struct {
	Session   web.SessionView `json:"session"`
	Color     string          `json:"color,omitempty"`
	Discarded bool            `json:"discarded"`
	Recorded  bool            `json:"recorded"`
}

// reportTermination prints how the session ended. A record failure is
// reported and returned.
func reportTermination(w io.Writer, term *domain.Termination, err error, asJSON bool) error {
	if term == nil {
		if err == nil {
			err = domain.ErrNotRunning
		}
		return err
	}

	s := term.Session
	if asJSON {
		if jerr := printJSON(w, terminationView{
			Session:   web.NewSessionView(s),
			Color:     term.Color,
			Discarded: term.Discarded,
			Recorded:  err == nil && !term.Discarded,
		}); jerr != nil {
			return jerr
		}
		return err
	}

	switch {
	case term.Discarded:
		fmt.Fprintf(w, "Session for %q discarded (stopped after %s).\n", s.TaskName, domain.FormatClock(s.ActualDuration))
	case s.Completed:
		fmt.Fprintf(w, "🍅 Completed: %s (%s)\n", s.TaskName, domain.FormatDuration(s.PlannedDuration))
	default:
		fmt.Fprintf(w, "⏹️  Stopped: %s after %s of %s\n", s.TaskName, domain.FormatDuration(s.ActualDuration), domain.FormatDuration(s.PlannedDuration))
	}

	if err != nil {
		fmt.Fprintf(w, "⚠️  Session was not saved: %v\n", err)
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		return err
	}
	return nil
}
