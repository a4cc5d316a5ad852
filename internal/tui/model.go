package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/history"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HistorySource is the part of the history log the UI needs.
type HistorySource interface {
	List(ctx context.Context) ([]history.Calculation, error)
	Clear(ctx context.Context) error
}

// Screen selects what the model renders.
type Screen int

const (
	ScreenCalculator Screen = iota
	ScreenHistory
)

// historyTimeout bounds how long a history request may wait on the worker.
const historyTimeout = 5 * time.Second

type historyLoadedMsg struct {
	calculations []history.Calculation
	err          error
}

type historyClearedMsg struct {
	err error
}

// Model is the bubbletea model of the keypad UI. It drives one Session; all
// edits run synchronously inside Update.
type Model struct {
	session *calculator.Session
	history HistorySource

	keys   KeyMap
	help   help.Model
	styles Styles

	screen       Screen
	calculations []history.Calculation
	cursor       int
	status       string
	lastErr      error

	width    int
	quitting bool
}

// New builds a model around session. history may be nil, which disables the
// history screen.
func New(session *calculator.Session, history HistorySource) Model {
	return Model{
		session: session,
		history: history,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		styles:  DefaultStyles(),
		screen:  ScreenCalculator,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Screen returns the screen currently shown.
func (m Model) Screen() Screen {
	return m.screen
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case historyLoadedMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.calculations = msg.calculations
			if m.cursor >= len(m.calculations) {
				m.cursor = max(len(m.calculations)-1, 0)
			}
		}
		return m, nil

	case historyClearedMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.calculations = nil
			m.cursor = 0
			m.status = "History cleared"
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.ToggleHistory) && m.history != nil {
			return m.toggleScreen()
		}

		if m.screen == ScreenHistory {
			return m.updateHistory(msg)
		}
		return m.updateCalculator(msg)
	}

	return m, nil
}

func (m Model) toggleScreen() (tea.Model, tea.Cmd) {
	m.status = ""
	if m.screen == ScreenHistory {
		m.screen = ScreenCalculator
		return m, nil
	}
	m.screen = ScreenHistory
	return m, m.loadHistory()
}

func (m Model) updateCalculator(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Digit):
		// The Digit binding only matches 0-9, which AppendDigit always accepts.
		_ = m.session.AppendDigit(msg.Runes[0])
	case key.Matches(msg, m.keys.Decimal):
		m.session.AppendDecimal()
	case key.Matches(msg, m.keys.Add):
		m.session.AppendOperator(calculator.Add)
	case key.Matches(msg, m.keys.Subtract):
		m.session.AppendOperator(calculator.Subtract)
	case key.Matches(msg, m.keys.Multiply):
		m.session.AppendOperator(calculator.Multiply)
	case key.Matches(msg, m.keys.Divide):
		m.session.AppendOperator(calculator.Divide)
	case key.Matches(msg, m.keys.Delete):
		m.session.Delete()
	case key.Matches(msg, m.keys.Clear):
		m.session.Clear()
	case key.Matches(msg, m.keys.Apply):
		m.session.Apply()
	}

	return m, nil
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.calculations)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Load):
		if m.cursor < len(m.calculations) {
			calc := m.calculations[m.cursor]
			if err := m.session.Load(calc.Expression); err != nil {
				m.lastErr = err
				return m, nil
			}
			m.screen = ScreenCalculator
			m.status = fmt.Sprintf("Loaded %s", calc.Expression)
		}
	case key.Matches(msg, m.keys.ClearHistory):
		return m, m.clearHistory()
	case key.Matches(msg, m.keys.Clear):
		m.screen = ScreenCalculator
	}

	return m, nil
}

func (m Model) loadHistory() tea.Cmd {
	source := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		calcs, err := source.List(ctx)
		return historyLoadedMsg{calculations: calcs, err: err}
	}
}

func (m Model) clearHistory() tea.Cmd {
	source := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		return historyClearedMsg{err: source.Clear(ctx)}
	}
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Calculator"))
	b.WriteString("\n")

	if m.screen == ScreenHistory {
		b.WriteString(m.historyView())
		b.WriteString("\n")
		b.WriteString(m.help.View(historyHelp(m.keys)))
	} else {
		b.WriteString(m.calculatorView())
		b.WriteString("\n")
		b.WriteString(m.help.View(calculatorHelp(m.keys)))
	}

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.UnsetWidth().UnsetAlign().Render(m.lastErr.Error()))
	}

	return b.String()
}

func (m Model) calculatorView() string {
	st := m.session.State()

	preview := m.styles.Preview.Render(st.Preview)
	if st.Err != nil {
		preview = m.styles.Error.Render(st.Preview)
	}

	display := m.styles.Display.Render(lipgloss.JoinVertical(lipgloss.Right,
		m.styles.Expression.Render(orPlaceholder(st.Expression, "0")),
		preview,
	))

	if m.status == "" {
		return display
	}
	return lipgloss.JoinVertical(lipgloss.Left, display, m.styles.Status.Render(m.status))
}

func (m Model) historyView() string {
	if len(m.calculations) == 0 {
		empty := m.styles.Muted.Render("No calculations yet")
		if m.status != "" {
			empty = lipgloss.JoinVertical(lipgloss.Left, empty, m.styles.Status.Render(m.status))
		}
		return empty
	}

	var b strings.Builder
	for i, c := range m.calculations {
		line := fmt.Sprintf("%s = %s  %s", c.Expression, c.Result,
			m.styles.Muted.Render(c.CreatedAt.Local().Format("15:04:05")))
		if i == m.cursor {
			line = m.styles.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status))
	}
	return b.String()
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
