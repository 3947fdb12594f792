// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// tickMsg is sent on every timer tick.
type tickMsg time.Time

// finishedMsg is sent once the session has terminated.
type finishedMsg struct{}

// Model is the countdown shown while a session runs. It only reads the
// timer; stopping is delegated to the interrupt callback.
type Model struct {
	source    ports.TimerSource
	interrupt func()
	tick      time.Duration

	snap     domain.TimerSnapshot
	color    string
	progress progress.Model
	width    int
	stopping bool
	finished bool
}

// NewModel creates a countdown model polling source every tick.
func NewModel(source ports.TimerSource, color string, tick time.Duration, interrupt func()) Model {
	if tick <= 0 {
		tick = time.Second
	}
	bar := progress.New(progress.WithGradient(gradientStart, gradientEnd))
	bar.Width = 40
	return Model{
		source:    source,
		interrupt: interrupt,
		tick:      tick,
		snap:      source.Snapshot(),
		color:     color,
		progress:  bar,
		width:     80,
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.stopping || m.finished {
				return m, nil
			}
			m.stopping = true
			return m, m.interruptCmd()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(msg.Width-16, 20)

	case tickMsg:
		m.snap = m.source.Snapshot()
		if m.finished {
			return m, nil
		}
		return m, tickCmd(m.tick)

	case finishedMsg:
		m.finished = true
		m.snap = m.source.Snapshot()
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) interruptCmd() tea.Cmd {
	if m.interrupt == nil {
		return nil
	}
	interrupt := m.interrupt
	return func() tea.Msg {
		interrupt()
		return nil
	}
}

// Stopping reports whether the user asked to stop the session.
func (m Model) Stopping() bool {
	return m.stopping
}

func (m Model) View() string {
	if m.finished {
		return ""
	}

	snap := m.snap
	var b strings.Builder

	b.WriteString(titleStyle.Render("🍅 "+snap.TaskName) + "\n\n")
	b.WriteString(renderClock(domain.FormatClock(snap.Remaining), taskStyle(m.color), m.width))
	b.WriteString("\n\n")

	prog := snap.Progress()
	b.WriteString(m.progress.ViewAs(prog))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %d%%", int(prog*100))))
	b.WriteString("\n\n")

	if m.stopping {
		b.WriteString(stoppingStyle.Render("Stopping..."))
	} else {
		b.WriteString(helpStyle.Render(fmt.Sprintf("%s planned · [q] stop", domain.FormatDuration(snap.Planned))))
	}
	b.WriteString("\n")

	return b.String()
}

// tickCmd creates a command that sends a tick message.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
