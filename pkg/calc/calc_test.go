package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	cases := map[string]float64{
		"2 + 2":     4,
		"10 - 4.5":  5.5,
		"3 * -2":    -6,
		"7 / 2":     3.5,
		"  1 + 1  ": 2,
	}
	for expr, want := range cases {
		got, err := Eval(expr)
		require.NoError(t, err, expr)
		assert.Equal(t, want, got, expr)
	}
}

func TestEvalErrors(t *testing.T) {
	_, err := Eval("1 / 0")
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = Eval("1 % 2")
	assert.ErrorIs(t, err, ErrOperator)

	for _, bad := range []string{"", "2+2", "1 + ", "a + 1", "1 + 2 + 3"} {
		_, err = Eval(bad)
		assert.ErrorIs(t, err, ErrFormat, bad)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "4", Format(4))
	assert.Equal(t, "3.5", Format(3.5))
}
