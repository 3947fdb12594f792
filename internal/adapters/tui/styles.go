package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorTitle       = "#FF6B6B"
	colorHelp        = "#626262"
	colorStopping    = "#FFA500"
	gradientStart    = "#FF6B6B"
	gradientEnd      = "#FFE66D"
	defaultTaskColor = "#e06c75"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorTitle))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorHelp))
	stoppingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorStopping))
)

func taskStyle(color string) lipgloss.Style {
	if color == "" {
		color = defaultTaskColor
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}
