package tui

import (
	"fmt"

	"go-chi-calculator/internal/calculator"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the keypad UI until the user quits.
func Run(session *calculator.Session, history HistorySource) error {
	p := tea.NewProgram(New(session, history), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run calculator ui: %w", err)
	}
	return nil
}
