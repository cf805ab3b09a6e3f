package errz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/calcvm/calc/op"
	"github.com/stretchr/testify/require"
)

func TestArithmeticError(t *testing.T) {
	err := NewArithmeticError(At(3, op.Div), ErrDivisionByZero)
	require.Equal(t, "arithmetic error: division by zero (ip 3, DIV)", err.Error())
	require.True(t, errors.Is(err, ErrDivisionByZero))
	require.True(t, IsArithmetic(err))
	require.False(t, IsInvariant(err))
	require.Equal(t, E3001, err.Code())
}

func TestInvariantError(t *testing.T) {
	err := NewInvariantError(At(0, op.LoadConst), ErrConstantOutOfRange, "index %d, pool size %d", 4, 2)
	require.Equal(t,
		"internal invariant error: constant index out of range: index 4, pool size 2 (ip 0, LOAD_CONST)",
		err.Error())
	require.True(t, IsInvariant(err))
	require.Equal(t, E4005, err.Code())
}

func TestUnknownOpcodeLocation(t *testing.T) {
	err := NewInvariantError(At(1, op.Code(99)), ErrUnknownOpcode, "")
	require.Equal(t, "internal invariant error: unknown opcode (ip 1, op(99))", err.Error())
}

func TestWrappedKind(t *testing.T) {
	inner := NewCompileError(ErrTooManyConstants)
	wrapped := fmt.Errorf("compiling: %w", inner)
	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	require.Equal(t, ErrCompile, kind)
	require.Equal(t, "compile error: number of constants exceeded limits", inner.Error())

	_, ok = KindOf(errors.New("plain"))
	require.False(t, ok)
}

func TestFriendlyErrorMessage(t *testing.T) {
	err := NewArithmeticError(At(2, op.Mul), ErrOverflow)
	require.Equal(t, "arithmetic error[E3002]: integer overflow\n --> ip 2, MUL\n", err.FriendlyErrorMessage())

	err = NewStructuredErrorf(ErrRuntime, Location{}, "boom")
	require.Equal(t, "runtime error: boom\n", err.FriendlyErrorMessage())
}

func TestCodeDescription(t *testing.T) {
	require.Equal(t, "stack underflow", E4001.Description())
	require.Equal(t, "", ErrorCode("E9999").Description())
	require.Equal(t, ErrorCode(""), CodeOf(nil))
}
