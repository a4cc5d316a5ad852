package calculator

import (
	"fmt"
	"strings"
	"unicode"
)

// Editor holds the expression text and keeps it well formed while it is
// built one key at a time. The zero value is an empty expression.
type Editor struct {
	text string
}

// Text returns the current expression.
func (e *Editor) Text() string {
	return e.text
}

// SetText replaces the expression wholesale.
func (e *Editor) SetText(text string) {
	e.text = text
}

// AppendDigit appends d, collapsing a redundant leading zero ("0" then "5"
// gives "5", while "0." then "5" gives "0.5").
func (e *Editor) AppendDigit(d rune) error {
	if d < '0' || d > '9' {
		return fmt.Errorf("%w: %q", ErrInvalidDigit, d)
	}

	if hasRedundantZero(LastTerm(e.text)) {
		e.text = dropLast(e.text)
	}
	e.text += string(d)
	return nil
}

func hasRedundantZero(term string) bool {
	if strings.ContainsRune(term, DecimalPoint) {
		return false
	}
	v, err := ParseTerm(term)
	return err == nil && v.IsZero()
}

// AppendDecimal appends a decimal point unless the last term already has one.
func (e *Editor) AppendDecimal() {
	if strings.ContainsRune(LastTerm(e.text), DecimalPoint) {
		return
	}
	e.text += string(DecimalPoint)
}

// AppendOperator appends op. Subtract right after the start of the
// expression, '*' or '/' becomes the negative sign of the next term. Any
// other operator replaces a dangling operator instead of stacking on it, and
// is dropped when there is no term before it.
func (e *Editor) AppendOperator(op Operator) {
	text := strings.TrimSuffix(e.text, string(DecimalPoint))

	symbol := op.Symbol()
	negate := false
	if op == Subtract {
		switch lastRune(text) {
		case 0, Multiply.Symbol(), Divide.Symbol():
			negate = true
		}
	}

	if !negate {
		text = strings.TrimRightFunc(text, func(r rune) bool { return !unicode.IsDigit(r) })
	}

	if negate || text != "" {
		text += string(symbol)
	}
	e.text = text
}

// Delete removes the last character.
func (e *Editor) Delete() {
	e.text = dropLast(e.text)
}

// Clear empties the expression.
func (e *Editor) Clear() {
	e.text = ""
}

func dropLast(s string) string {
	if s == "" {
		return s
	}
	return s[:len(s)-1]
}

func lastRune(s string) rune {
	if s == "" {
		return 0
	}
	return rune(s[len(s)-1])
}
