package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// PlainInterval is how often the plain renderer prints the remaining time.
const PlainInterval = time.Minute

// Options configures a countdown.
type Options struct {
	// TaskColor colors the clock; empty uses the default.
	TaskColor string
	// TickInterval is the refresh rate of the interactive view.
	TickInterval time.Duration
	// Interrupt is called once when the user stops the session.
	Interrupt func()
	// Done is closed when the session has terminated.
	Done <-chan struct{}
	// Plain forces line output even on a terminal.
	Plain bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

// IsInteractive reports whether stdout is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(os.Stdout.Fd())
}

// Run renders the countdown until opts.Done is closed or ctx is cancelled.
// It returns true when the user asked to stop the session.
func Run(ctx context.Context, source ports.TimerSource, opts Options) (bool, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Plain || !IsInteractive() {
		return false, RunPlain(ctx, source, opts)
	}

	model := NewModel(source, opts.TaskColor, opts.TickInterval, opts.Interrupt)
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil {
		model.width = w
		model.progress.Width = max(w-16, 20)
	}

	program := tea.NewProgram(model, tea.WithOutput(opts.Output))

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-opts.Done:
		case <-ctx.Done():
		case <-stop:
			return
		}
		program.Send(finishedMsg{})
	}()

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run TUI: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Stopping(), nil
	}
	return false, nil
}

// RunPlain prints the remaining time every PlainInterval. It is used when
// output is not a terminal.
func RunPlain(ctx context.Context, source ports.TimerSource, opts Options) error {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	snap := source.Snapshot()
	fmt.Fprintf(out, "🍅 %s: %s (%s remaining)\n", snap.TaskName, domain.FormatDuration(snap.Planned), domain.FormatClock(snap.Remaining))

	ticker := time.NewTicker(PlainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-opts.Done:
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap := source.Snapshot()
			if !snap.IsRunning() {
				continue
			}
			fmt.Fprintf(out, "   %s remaining\n", domain.FormatClock(snap.Remaining))
		}
	}
}
