package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

const maxPickerRows = 8

// PickerResult holds the outcome of a task picker interaction.
type PickerResult struct {
	TaskName string
	Aborted  bool
}

// pickerModel lets the user type a task name while fuzzy-filtering the
// recently used ones.
type pickerModel struct {
	recent   []string
	matches  []string
	input    textinput.Model
	cursor   int
	aborted  bool
	selected string
}

func newPickerModel(recent []string) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "task name"
	ti.CharLimit = 120
	ti.Width = 50
	ti.Focus()

	m := pickerModel{recent: recent, input: ti}
	m.filter()
	return m
}

func (m *pickerModel) filter() {
	query := strings.TrimSpace(m.input.Value())
	m.matches = m.matches[:0]
	if query == "" {
		m.matches = append(m.matches, m.recent...)
	} else {
		for _, match := range fuzzy.Find(query, m.recent) {
			m.matches = append(m.matches, match.Str)
		}
	}
	if len(m.matches) > maxPickerRows {
		m.matches = m.matches[:maxPickerRows]
	}
	// cursor 0 is the typed text; 1..n are matches
	if m.cursor > len(m.matches) {
		m.cursor = len(m.matches)
	}
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n", "tab":
			if m.cursor < len(m.matches) {
				m.cursor++
			}
			return m, nil
		case "enter":
			m.selected = m.current()
			if m.selected == "" {
				return m, nil
			}
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter()
	return m, cmd
}

func (m pickerModel) current() string {
	if m.cursor > 0 && m.cursor <= len(m.matches) {
		return m.matches[m.cursor-1]
	}
	return strings.TrimSpace(m.input.Value())
}

func (m pickerModel) View() string {
	var b strings.Builder

	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorTitle)).Bold(true)

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  🍅 What are you working on?") + " ")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for i, name := range m.matches {
		if i+1 == m.cursor {
			b.WriteString(fmt.Sprintf("  %s\n", activeStyle.Render("▸ "+name)))
		} else {
			b.WriteString(helpStyle.Render("    "+name) + "\n")
		}
	}
	if len(m.matches) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("  ↑/↓ recent tasks · enter start · esc cancel") + "\n")

	return b.String()
}

// RunTaskPicker asks for a task name, offering recent tasks as suggestions.
func RunTaskPicker(recent []string) PickerResult {
	p := tea.NewProgram(newPickerModel(recent))
	result, err := p.Run()
	if err != nil {
		return PickerResult{Aborted: true}
	}

	final := result.(pickerModel)
	if final.aborted || final.selected == "" {
		return PickerResult{Aborted: true}
	}
	return PickerResult{TaskName: final.selected}
}
