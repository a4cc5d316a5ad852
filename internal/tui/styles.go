package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Title      lipgloss.Style
	Display    lipgloss.Style
	Expression lipgloss.Style
	Preview    lipgloss.Style
	Error      lipgloss.Style
	Selected   lipgloss.Style
	Muted      lipgloss.Style
	Status     lipgloss.Style
}

var (
	colorPrimary = lipgloss.Color("#7c3aed")
	colorError   = lipgloss.Color("#ef4444")
	colorMuted   = lipgloss.Color("#737373")
	colorText    = lipgloss.Color("#fafafa")
	colorSuccess = lipgloss.Color("#10b981")
)

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1),
		Display: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1).
			Width(32),
		Expression: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Right).
			Width(30),
		Preview: lipgloss.NewStyle().
			Foreground(colorMuted).
			Align(lipgloss.Right).
			Width(30),
		Error: lipgloss.NewStyle().
			Foreground(colorError).
			Align(lipgloss.Right).
			Width(30),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary),
		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),
		Status: lipgloss.NewStyle().
			Foreground(colorSuccess).
			MarginTop(1),
	}
}
