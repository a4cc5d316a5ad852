package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/history"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	calcs   []history.Calculation
	cleared bool
	err     error
}

func (f *fakeHistory) Record(expression, result string) {
	f.calcs = append(f.calcs, history.Calculation{
		ID:         expression,
		Expression: expression,
		Result:     result,
		CreatedAt:  time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
	})
}

func (f *fakeHistory) List(context.Context) ([]history.Calculation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.calcs, nil
}

func (f *fakeHistory) Clear(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.calcs = nil
	f.cleared = true
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds each message through Update, running any returned command
// that is not a quit so async history results land in the model.
func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = next.(Model)
		if cmd == nil {
			continue
		}
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func typeString(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, runes(string(r)))
	}
	return msgs
}

func TestModelEditsAndApplies(t *testing.T) {
	hist := &fakeHistory{}
	session := calculator.NewSession(hist)
	m := New(session, hist)

	m = press(t, m, typeString("2+3*4")...)
	st := session.State()
	assert.Equal(t, "2+3*4", st.Expression)
	assert.Equal(t, "14", st.Preview)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "14", session.Expression())
	require.Len(t, hist.calcs, 1)
	assert.Equal(t, "2+3*4", hist.calcs[0].Expression)
	assert.Contains(t, m.View(), "14")
}

func TestModelAcceptsEveryDigitKey(t *testing.T) {
	session := calculator.NewSession(nil)
	m := New(session, nil)

	press(t, m, typeString("1234567890")...)
	assert.Equal(t, "1234567890", session.Expression())
}

func TestModelDeleteAndClear(t *testing.T) {
	session := calculator.NewSession(nil)
	m := New(session, nil)

	m = press(t, m, typeString("12.5")...)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "12.", session.Expression())

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "", session.Expression())
}

func TestModelShowsApplyError(t *testing.T) {
	session := calculator.NewSession(nil)
	m := New(session, nil)

	m = press(t, m, typeString("8/0=")...)
	assert.ErrorIs(t, session.State().Err, calculator.ErrDivideByZero)
	assert.Contains(t, m.View(), "Can't divide by zero")
}

func TestModelHistoryScreen(t *testing.T) {
	hist := &fakeHistory{}
	session := calculator.NewSession(hist)
	m := New(session, hist)

	m = press(t, m, typeString("1+1=")...)
	m = press(t, m, typeString("c")...)
	m = press(t, m, typeString("5*5=")...)
	require.Len(t, hist.calcs, 2)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ScreenHistory, m.Screen())
	view := m.View()
	assert.True(t, strings.Contains(view, "1+1 = 2"), view)
	assert.True(t, strings.Contains(view, "5*5 = 25"), view)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ScreenCalculator, m.Screen())
	assert.Equal(t, "5*5", session.Expression())
	assert.Equal(t, "25", session.State().Preview)
	assert.Contains(t, m.View(), "Loaded 5*5")
}

func TestModelHistoryCursorStaysInRange(t *testing.T) {
	hist := &fakeHistory{}
	hist.Record("1+1", "2")
	session := calculator.NewSession(hist)
	m := New(session, hist)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "1+1", session.Expression())
}

func TestModelClearHistory(t *testing.T) {
	hist := &fakeHistory{}
	hist.Record("2*2", "4")
	m := New(calculator.NewSession(hist), hist)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("x"))
	assert.True(t, hist.cleared)
	assert.Contains(t, m.View(), "No calculations yet")
	assert.Contains(t, m.View(), "History cleared")
}

func TestModelHistoryError(t *testing.T) {
	hist := &fakeHistory{err: errors.New("history unavailable")}
	m := New(calculator.NewSession(nil), hist)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, m.View(), "history unavailable")
}

func TestModelWithoutHistoryIgnoresToggle(t *testing.T) {
	m := New(calculator.NewSession(nil), nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ScreenCalculator, m.Screen())
}

func TestModelQuit(t *testing.T) {
	m := New(calculator.NewSession(nil), nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.(Model).View())
}
