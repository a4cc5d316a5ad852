package calculator

import (
	"fmt"
	"strings"
)

// Recorder receives every successfully applied calculation. Implementations
// must not block: Apply runs on the editing path.
type Recorder interface {
	Record(expression, result string)
}

// State is a snapshot of what a presentation layer shows.
type State struct {
	Expression string
	// Preview is the live result, or the error message after a rejected apply.
	Preview string
	// Err is set only while Preview holds an error message.
	Err error
}

// Session couples an Editor with its live preview. Every edit recomputes the
// preview before returning. A Session is not safe for concurrent use; callers
// that share one across goroutines must serialize access.
type Session struct {
	editor   Editor
	recorder Recorder

	preview string
	pending error

	// display differs from preview only after a rejected apply.
	display string
	failure error
}

// NewSession starts an empty session. recorder may be nil.
func NewSession(recorder Recorder) *Session {
	s := &Session{recorder: recorder}
	s.recompute()
	return s
}

// State returns the current expression and what to show as its preview.
func (s *Session) State() State {
	return State{
		Expression: s.editor.Text(),
		Preview:    s.display,
		Err:        s.failure,
	}
}

// Expression returns the current expression text.
func (s *Session) Expression() string {
	return s.editor.Text()
}

// Pending returns the error an apply would report right now, or nil.
func (s *Session) Pending() error {
	return s.pending
}

func (s *Session) AppendDigit(d rune) error {
	if err := s.editor.AppendDigit(d); err != nil {
		return err
	}
	s.recompute()
	return nil
}

func (s *Session) AppendDecimal() {
	s.editor.AppendDecimal()
	s.recompute()
}

func (s *Session) AppendOperator(op Operator) {
	s.editor.AppendOperator(op)
	s.recompute()
}

func (s *Session) Delete() {
	s.editor.Delete()
	s.recompute()
}

func (s *Session) Clear() {
	s.editor.Clear()
	s.recompute()
}

// Load replaces the expression with a previously recorded one.
func (s *Session) Load(expression string) error {
	if !isExpressionText(expression) {
		return fmt.Errorf("%w: %q", ErrInvalidExpression, expression)
	}
	s.editor.SetText(expression)
	s.recompute()
	return nil
}

// Apply commits the preview as the new expression. It succeeds only when
// there is a preview and nothing pending; the applied calculation is then
// handed to the recorder and the session is armed so that a second apply
// without further edits is rejected. A rejected apply leaves the expression
// untouched and shows the pending error instead of the preview.
func (s *Session) Apply() bool {
	if s.pending != nil || s.preview == "" {
		err := s.pending
		if err == nil {
			err = ErrInvalidExpression
		}
		s.display = ErrorMessage(err)
		s.failure = err
		return false
	}

	expression, result := s.editor.Text(), s.preview

	s.editor.SetText(result)
	s.preview = ""
	s.display = ""
	s.failure = nil
	s.pending = ErrInvalidExpression

	if s.recorder != nil && result != "" {
		s.recorder.Record(expression, result)
	}
	return true
}

func (s *Session) recompute() {
	s.preview, s.pending = Preview(s.editor.Text())
	s.display = s.preview
	s.failure = nil
}

func isExpressionText(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		return !(r >= '0' && r <= '9') && r != DecimalPoint && !isOperatorSymbol(r)
	}) < 0
}
