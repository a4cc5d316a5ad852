package calculator

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Evaluate computes the value of expr honoring operator precedence.
//
// The expression is split on the loosest operator, every part is evaluated
// recursively with the remaining operators, and the parts are folded left to
// right. Parts that are left once every operator has been split on must be
// plain numerals. A zero divisor anywhere yields ErrDivideByZero; any other
// failure yields ErrInvalidExpression.
func Evaluate(expr string) (decimal.Decimal, error) {
	return evaluate(expr, orderOfOperations)
}

func evaluate(expr string, order []Operator) (decimal.Decimal, error) {
	op := order[len(order)-1]
	rest := order[:len(order)-1]

	parts := op.split(expr)
	terms := make([]decimal.Decimal, len(parts))
	invalid := false

	for i, part := range parts {
		var (
			term decimal.Decimal
			err  error
		)
		if len(rest) > 0 {
			term, err = evaluate(part, rest)
		} else {
			term, err = ParseTerm(part)
		}

		switch {
		case errors.Is(err, ErrDivideByZero):
			return decimal.Zero, err
		case err != nil:
			invalid = true
		}
		terms[i] = term
	}

	if invalid {
		return decimal.Zero, ErrInvalidExpression
	}

	result := terms[0]
	for _, term := range terms[1:] {
		var err error
		if result, err = op.Apply(result, term); err != nil {
			return decimal.Zero, err
		}
	}
	return result, nil
}

// ParseTerm parses a single numeral: an optional negative sign, digits and at
// most one decimal point. "5." and ".5" are accepted.
func ParseTerm(term string) (decimal.Decimal, error) {
	if !isNumeral(term) {
		return decimal.Zero, ErrInvalidExpression
	}

	digits := strings.TrimSuffix(term, string(DecimalPoint))
	if strings.HasPrefix(digits, ".") {
		digits = "0" + digits
	} else if strings.HasPrefix(digits, "-.") {
		digits = "-0" + digits[1:]
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, ErrInvalidExpression
	}
	return d, nil
}

func isNumeral(term string) bool {
	term = strings.TrimPrefix(term, string(NegativeSign))

	digits, points := 0, 0
	for _, r := range term {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == DecimalPoint:
			points++
		default:
			return false
		}
	}
	return digits > 0 && points <= 1
}

// LastTerm returns the trailing term of expr, including its negative sign.
func LastTerm(expr string) string {
	i := strings.LastIndexFunc(expr, isOperatorSymbol)
	if i < 0 {
		return expr
	}
	if expr[i] == NegativeSign && isSignAt(expr, i) {
		return expr[i:]
	}
	return expr[i+1:]
}

// Preview renders the live result of expr.
//
// A lone term has nothing to compute, so its preview is empty and the
// pending error is ErrInvalidExpression; the same goes for empty text. The
// returned error is what an apply would report right now.
func Preview(expr string) (string, error) {
	if expr == LastTerm(expr) {
		return "", ErrInvalidExpression
	}

	result, err := Evaluate(expr)
	if err != nil {
		return "", err
	}
	return FormatResult(result), nil
}

// FormatResult renders a value the way it is written back into an expression.
func FormatResult(d decimal.Decimal) string {
	return d.String()
}
