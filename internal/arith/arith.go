// Package arith implements overflow-checked and wrapping int64 arithmetic.
package arith

import (
	"math"

	"github.com/calcvm/calc/errz"
)

// Add returns a + b, or ErrOverflow if the result does not fit in an int64.
func Add(a, b int64) (int64, error) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, errz.ErrOverflow
	}
	return c, nil
}

// Sub returns a - b, or ErrOverflow if the result does not fit in an int64.
func Sub(a, b int64) (int64, error) {
	c := a - b
	if (c < a) != (b > 0) {
		return 0, errz.ErrOverflow
	}
	return c, nil
}

// Mul returns a * b, or ErrOverflow if the result does not fit in an int64.
func Mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || c/b != a {
		return 0, errz.ErrOverflow
	}
	return c, nil
}

// Div returns a / b truncated toward zero. It fails with ErrDivisionByZero
// when b is zero and with ErrOverflow for MinInt64 / -1.
func Div(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errz.ErrDivisionByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, errz.ErrOverflow
	}
	return a / b, nil
}

// Neg returns -a, or ErrOverflow for MinInt64.
func Neg(a int64) (int64, error) {
	if a == math.MinInt64 {
		return 0, errz.ErrOverflow
	}
	return -a, nil
}

// WrappingDiv returns a / b with two's complement wrapping, so MinInt64 / -1
// is MinInt64. Division by zero still fails.
func WrappingDiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errz.ErrDivisionByZero
	}
	if b == -1 {
		return -a, nil
	}
	return a / b, nil
}
