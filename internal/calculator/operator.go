package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DivisionPrecision is the number of fractional digits kept when a quotient
// does not terminate (1/3, 2/7, ...). Quotients below one keep that many
// digits after their first significant one.
const DivisionPrecision int32 = 16

// Operator is one of the four binary operators an expression may contain.
type Operator int

const (
	Add Operator = iota
	Subtract
	Multiply
	Divide
)

// NegativeSign marks a negated term. It shares its character with Subtract;
// position decides which one a '-' is.
const NegativeSign = '-'

// DecimalPoint separates the integer and fractional digits of a term.
const DecimalPoint = '.'

type operatorInfo struct {
	name   string
	symbol rune
	reduce func(a, b decimal.Decimal) (decimal.Decimal, error)
}

var operators = [...]operatorInfo{
	Add: {
		name:   "add",
		symbol: '+',
		reduce: func(a, b decimal.Decimal) (decimal.Decimal, error) {
			return a.Add(b), nil
		},
	},
	Subtract: {
		name:   "subtract",
		symbol: '-',
		reduce: func(a, b decimal.Decimal) (decimal.Decimal, error) {
			return a.Sub(b), nil
		},
	},
	Multiply: {
		name:   "multiply",
		symbol: '*',
		reduce: func(a, b decimal.Decimal) (decimal.Decimal, error) {
			return a.Mul(b), nil
		},
	},
	Divide: {
		name:   "divide",
		symbol: '/',
		reduce: func(a, b decimal.Decimal) (decimal.Decimal, error) {
			if b.IsZero() {
				return decimal.Zero, ErrDivideByZero
			}
			return a.DivRound(b, divisionScale(a, b)), nil
		},
	},
}

// divisionScale returns the fractional digits to keep for a/b. A divisor
// that outweighs the dividend by n places pushes the first significant
// digit of the quotient n places right, so the scale grows by n.
func divisionScale(a, b decimal.Decimal) int32 {
	shift := magnitude(b) - magnitude(a)
	if shift < 0 {
		shift = 0
	}
	return DivisionPrecision + int32(shift)
}

// magnitude is the power of ten of the most significant digit of d.
func magnitude(d decimal.Decimal) int {
	return d.NumDigits() + int(d.Exponent()) - 1
}

// orderOfOperations lists the operators from the tightest binding to the
// loosest. Evaluation splits on the last entry first, so the loosest
// operator ends up applied last.
var orderOfOperations = []Operator{Divide, Multiply, Subtract, Add}

// Operators returns every operator in declaration order.
func Operators() []Operator {
	return []Operator{Add, Subtract, Multiply, Divide}
}

func (o Operator) valid() bool {
	return o >= Add && o <= Divide
}

// Symbol returns the character the operator is written as.
func (o Operator) Symbol() rune {
	if !o.valid() {
		return 0
	}
	return operators[o].symbol
}

func (o Operator) String() string {
	if !o.valid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operators[o].name
}

// Apply reduces two operands with the operator.
func (o Operator) Apply(a, b decimal.Decimal) (decimal.Decimal, error) {
	if !o.valid() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownOperator, o)
	}
	return operators[o].reduce(a, b)
}

// ParseOperator accepts either an operator name ("add") or its symbol ("+").
func ParseOperator(s string) (Operator, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, op := range Operators() {
		if s == op.String() || s == string(op.Symbol()) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

func isOperatorSymbol(r rune) bool {
	for _, info := range operators {
		if info.symbol == r {
			return true
		}
	}
	return false
}

// split cuts expr on every occurrence of the operator. A '-' only counts as
// Subtract when it follows a term; at the start of the expression or after
// another operator it is the sign of the next term.
func (o Operator) split(expr string) []string {
	if o != Subtract {
		return strings.Split(expr, string(o.Symbol()))
	}

	var parts []string
	start := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] != '-' || isSignAt(expr, i) {
			continue
		}
		parts = append(parts, expr[start:i])
		start = i + 1
	}
	return append(parts, expr[start:])
}

// isSignAt reports whether the '-' at index i is a negative sign.
func isSignAt(expr string, i int) bool {
	return i == 0 || isOperatorSymbol(rune(expr[i-1]))
}
