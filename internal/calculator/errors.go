package calculator

import "errors"

var (
	// ErrInvalidExpression covers malformed syntax, unparseable terms and
	// expressions with nothing to compute.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrDivideByZero is returned when any division step has an exact zero divisor.
	ErrDivideByZero = errors.New("divide by zero")

	ErrUnknownOperator = errors.New("unknown operator")
	ErrInvalidDigit    = errors.New("invalid digit")
)

// Messages shown in place of the preview when an apply is rejected.
const (
	InvalidExpressionMessage = "Invalid expression"
	DivideByZeroMessage      = "Can't divide by zero"
)

// ErrorMessage maps an evaluation failure onto its user-facing text.
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDivideByZero):
		return DivideByZeroMessage
	default:
		return InvalidExpressionMessage
	}
}

// ErrorKind is the machine-readable name of an evaluation failure.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDivideByZero):
		return "divide_by_zero"
	default:
		return "invalid_expression"
	}
}
