package fold

import (
	"context"
	"math"
	"testing"

	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/parser"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := parser.Parse(context.Background(), src)
	require.Nil(t, err)
	return expr
}

func TestEval(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"10 - 3", 7},
		{"20 / 4", 5},
		{"- - - 5", -5},
		{"+5", 5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 2 - 3", 5},
		{"-7 / 2", -3},
		{"40000 * 40000", 1600000000},
		{"-9223372036854775807 - 1", math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parse(t, tt.input)
			result, err := Eval(expr)
			require.Nil(t, err)
			require.Equal(t, tt.expected, result)

			wrapped, err := Wrapping(expr)
			require.Nil(t, err)
			require.Equal(t, tt.expected, wrapped)
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	tests := []struct {
		input   string
		cause   error
		wrapped int64
	}{
		{"5 / 0", errz.ErrDivisionByZero, 0},
		{"9223372036854775807 + 1", errz.ErrOverflow, math.MinInt64},
		{"-(-9223372036854775807 - 1)", errz.ErrOverflow, math.MinInt64},
		{"(-9223372036854775807 - 1) / -1", errz.ErrOverflow, math.MinInt64},
		{"3037000500 * 3037000500", errz.ErrOverflow, -9223372036709301616},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parse(t, tt.input)
			_, err := Eval(expr)
			require.ErrorIs(t, err, tt.cause)
			require.True(t, errz.IsArithmetic(err))

			wrapped, err := Wrapping(expr)
			if tt.cause == errz.ErrDivisionByZero {
				require.ErrorIs(t, err, errz.ErrDivisionByZero)
				return
			}
			require.Nil(t, err)
			require.Equal(t, tt.wrapped, wrapped)
		})
	}
}

func TestLeftOperandFailsFirst(t *testing.T) {
	// The left operand overflows before the division by zero is reached.
	_, err := Eval(parse(t, "(9223372036854775807 + 1) / 0"))
	require.ErrorIs(t, err, errz.ErrOverflow)
}

func TestInvalidTrees(t *testing.T) {
	var nilBinary *ast.Binary
	_, err := Eval(nil)
	require.ErrorIs(t, err, errz.ErrNilExpr)
	_, err = Eval(nilBinary)
	require.ErrorIs(t, err, errz.ErrNilExpr)
	_, err = Wrapping(ast.NewUnary(ast.Negate, nil))
	require.ErrorIs(t, err, errz.ErrNilExpr)
	_, err = Eval(ast.NewBinary(ast.BinaryOp(9), ast.NewInt(1), ast.NewInt(2)))
	require.ErrorIs(t, err, errz.ErrUnknownExpr)
}
