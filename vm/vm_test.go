package vm

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/calcvm/calc/bytecode"
	"github.com/calcvm/calc/compiler"
	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/parser"
	"github.com/stretchr/testify/require"
)

type compiled struct {
	rpn   *bytecode.RPN
	stack *bytecode.Stack
	reg   *bytecode.Register
}

func compileAll(t testing.TB, src string) compiled {
	t.Helper()
	expr, err := parser.Parse(context.Background(), src)
	require.Nil(t, err)
	rpn, err := compiler.CompileRPN(expr)
	require.Nil(t, err)
	stack, err := compiler.CompileStack(expr)
	require.Nil(t, err)
	reg, err := compiler.CompileRegister(expr)
	require.Nil(t, err)
	return compiled{rpn: rpn, stack: stack, reg: reg}
}

func (c compiled) machines() map[string]*VirtualMachine {
	return map[string]*VirtualMachine{
		"rpn":      NewRPN(c.rpn),
		"stack":    NewStack(c.stack),
		"register": NewRegister(c.reg),
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"0", 0},
		{"42", 42},
		{"-42", -42},
		{"+7", 7},
		{"- - - 5", -5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 2 - 3", 5},
		{"100 / 10 / 5", 2},
		{"7 / 2", 3},
		{"-7 / 2", -3},
		{"7 / -2", -3},
		{"40000 * 3", 120000},
		{"-40000 - 32769", -72769},
		{"9000000000 / 3", 3000000000},
		{"32767 + -32768", -1},
		{"1 + (2 - (3 * (4 / (5 - 6))))", 15},
		{"9223372036854775807", math.MaxInt64},
		{"-9223372036854775807 - 1", math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			for name, machine := range compileAll(t, tt.input).machines() {
				result, err := machine.Run()
				require.Nil(t, err, name)
				require.Equal(t, tt.expected, result, name)

				result, err = machine.RunTrusted()
				require.Nil(t, err, name)
				require.Equal(t, tt.expected, result, name)
			}
		})
	}
}

func TestRepeatedRuns(t *testing.T) {
	machine := NewStack(compileAll(t, "(1 + 2) * (3 + 4)").stack)
	for i := 0; i < 3; i++ {
		result, err := machine.Run()
		require.Nil(t, err)
		require.Equal(t, int64(21), result)
	}
}

func TestConcurrentRuns(t *testing.T) {
	machine := NewRegister(compileAll(t, "(40000 - 1) * -(6 / 2)").reg)
	var wg sync.WaitGroup
	results := make([]int64, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				results[i], errs[i] = machine.Run()
			} else {
				results[i], errs[i] = machine.RunTrusted()
			}
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.Nil(t, errs[i])
		require.Equal(t, int64(-119997), results[i])
	}
}

func TestDivisionByZero(t *testing.T) {
	for name, machine := range compileAll(t, "1 + 4 / (2 - 2)").machines() {
		_, err := machine.Run()
		require.ErrorIs(t, err, errz.ErrDivisionByZero, name)
		require.True(t, errz.IsArithmetic(err), name)

		_, err = machine.RunTrusted()
		require.ErrorIs(t, err, errz.ErrDivisionByZero, name)
		require.True(t, errz.IsArithmetic(err), name)
	}
}

func TestOverflow(t *testing.T) {
	tests := []struct {
		input   string
		wrapped int64
	}{
		{"9223372036854775807 + 1", math.MinInt64},
		{"-9223372036854775807 - 2", math.MaxInt64},
		{"4611686018427387904 * 2", math.MinInt64},
		{"-(-9223372036854775807 - 1)", math.MinInt64},
		{"(-9223372036854775807 - 1) / -1", math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			for name, machine := range compileAll(t, tt.input).machines() {
				_, err := machine.Run()
				require.ErrorIs(t, err, errz.ErrOverflow, name)
				require.True(t, errz.IsArithmetic(err), name)

				result, err := machine.RunTrusted()
				require.Nil(t, err, name)
				require.Equal(t, tt.wrapped, result, name)
			}
		})
	}
}

func TestErrorLocation(t *testing.T) {
	machine := NewStack(compileAll(t, "1 / 0").stack)
	_, err := machine.Run()
	var serr *errz.StructuredError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, 2, serr.Location.IP)
	require.Equal(t, "ip 2, DIV", serr.Location.String())
	require.Equal(t, errz.E3001, serr.Code())
}

func TestMetadata(t *testing.T) {
	c := compileAll(t, "1 + 2")
	machine := NewRPN(c.rpn)
	require.True(t, machine.Trusted())
	require.Equal(t, "rpn", machine.Encoding())
	require.Equal(t, 3, machine.InstructionCount())
	require.Equal(t, "stack", NewStack(c.stack).Encoding())
	require.Equal(t, "register", NewRegister(c.reg).Encoding())
}

func TestRunHelpers(t *testing.T) {
	c := compileAll(t, "6 * 7")
	for _, run := range []func() (int64, error){
		func() (int64, error) { return RunRPN(c.rpn) },
		func() (int64, error) { return RunStack(c.stack) },
		func() (int64, error) { return RunRegister(c.reg) },
		func() (int64, error) { return RunRPNTrusted(c.rpn) },
		func() (int64, error) { return RunStackTrusted(c.stack) },
		func() (int64, error) { return RunRegisterTrusted(c.reg) },
	} {
		result, err := run()
		require.Nil(t, err)
		require.Equal(t, int64(42), result)
	}
}

func BenchmarkRun(b *testing.B) {
	c := compileAll(b, "(1 + 2) * (3 - 4) / (5 + -6) - 70000 * (8 + 9)")
	for name, machine := range c.machines() {
		b.Run(name+"/checked", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := machine.Run(); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(name+"/trusted", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := machine.RunTrusted(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
