// Package calc evaluates the calculator's "a op b" expressions.
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrFormat       = errors.New("expected: number operator number (e.g. 2 + 2)")
	ErrOperator     = errors.New("invalid operator")
	ErrDivideByZero = errors.New("attempted to divide by zero")
)

// Eval parses and evaluates a single binary expression. Operands and the
// operator must be separated by single spaces.
func Eval(expr string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(expr), " ")
	if len(parts) != 3 {
		return 0, ErrFormat
	}
	a, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrFormat, parts[0])
	}
	b, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrFormat, parts[2])
	}
	switch parts[1] {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a / b, nil
	}
	return 0, fmt.Errorf("%w %q", ErrOperator, parts[1])
}

// Format renders a result without trailing zeros.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
