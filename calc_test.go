package calc

import (
	"context"
	"testing"

	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/vm"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		input    string
		expected int64
	}{
		{"10 - 3", 7},
		{"20 / 4", 5},
		{"- - - 5", -5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 2 - 3", 5},
	}
	for _, tt := range tests {
		for _, backend := range Backends() {
			for _, mode := range Modes() {
				result, err := Eval(ctx, tt.input, WithBackend(backend), WithMode(mode))
				require.Nil(t, err, "%s %s %s", tt.input, backend, mode)
				require.Equal(t, tt.expected, result, "%s %s %s", tt.input, backend, mode)
			}
		}
	}
}

func TestEvalDefaults(t *testing.T) {
	result, err := Eval(context.Background(), "6 * 7")
	require.Nil(t, err)
	require.Equal(t, int64(42), result)

	_, err = Eval(context.Background(), "5 / 0")
	require.ErrorIs(t, err, errz.ErrDivisionByZero)

	_, err = Eval(context.Background(), "1 +")
	require.NotNil(t, err)

	_, err = Eval(context.Background(), "((1))", WithMaxDepth(1))
	require.NotNil(t, err)
}

func TestEvalWithObserver(t *testing.T) {
	usage := &vm.SlotUsage{}
	_, err := Eval(context.Background(), "1 + (2 + 3)", WithBackend(Stack), WithObserver(usage))
	require.Nil(t, err)
	require.Equal(t, 3, usage.Peak())
}

func TestProgram(t *testing.T) {
	e, err := Parse(context.Background(), "40000 + 1")
	require.Nil(t, err)

	p, err := Compile(e, Stack)
	require.Nil(t, err)
	require.Equal(t, Stack, p.Backend())
	require.Equal(t, e, p.Expr())
	require.Equal(t, 1, p.Stats().PoolLiterals)
	require.Equal(t, 2, p.Stats().StorageSize)
	require.Len(t, p.Disassemble(), 3)
	require.True(t, p.Bytecode().Trusted())

	result, err := p.Eval(Trusted)
	require.Nil(t, err)
	require.Equal(t, int64(40001), result)

	_, err = p.Eval(Mode("fast"))
	require.NotNil(t, err)

	_, err = Compile(e, Backend("tree"))
	require.NotNil(t, err)
}

func TestParseNames(t *testing.T) {
	b, err := ParseBackend("register")
	require.Nil(t, err)
	require.Equal(t, Register, b)
	_, err = ParseBackend("heap")
	require.NotNil(t, err)

	m, err := ParseMode("trusted")
	require.Nil(t, err)
	require.Equal(t, Trusted, m)
	_, err = ParseMode("")
	require.NotNil(t, err)
}
