package compiler

import (
	"context"
	"errors"
	"testing"

	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/bytecode"
	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/op"
	"github.com/calcvm/calc/parser"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := parser.Parse(context.Background(), src)
	require.Nil(t, err)
	return expr
}

func stackInstrs(p *bytecode.Stack) []bytecode.StackInstr {
	out := make([]bytecode.StackInstr, p.InstructionCount())
	for i := range out {
		out[i] = p.InstructionAt(i)
	}
	return out
}

func regInstrs(p *bytecode.Register) []bytecode.RegInstr {
	out := make([]bytecode.RegInstr, p.InstructionCount())
	for i := range out {
		out[i] = p.InstructionAt(i)
	}
	return out
}

func rpnInstrs(p *bytecode.RPN) []bytecode.RPNInstr {
	out := make([]bytecode.RPNInstr, p.InstructionCount())
	for i := range out {
		out[i] = p.InstructionAt(i)
	}
	return out
}

func TestCompileRPN(t *testing.T) {
	prog, err := CompileRPN(parse(t, "10 - 9000000000 * -3"))
	require.Nil(t, err)
	require.True(t, prog.Trusted())
	require.Equal(t, []bytecode.RPNInstr{
		bytecode.RPNLoad(10),
		bytecode.RPNLoad(9000000000),
		bytecode.RPNLoad(3),
		bytecode.RPNOp(op.Negate),
		bytecode.RPNOp(op.Mul),
		bytecode.RPNOp(op.Sub),
	}, rpnInstrs(prog))
}

func TestCompileStack(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		instrs []bytecode.StackInstr
		size   int
	}{
		{
			name: "precedence",
			src:  "2 + 3 * 4",
			instrs: []bytecode.StackInstr{
				bytecode.StackLoadInline(2),
				bytecode.StackLoadInline(3),
				bytecode.StackLoadInline(4),
				bytecode.StackOp(op.Mul),
				bytecode.StackOp(op.Add),
			},
			size: 3,
		},
		{
			name: "left associative",
			src:  "10 - 2 - 3",
			instrs: []bytecode.StackInstr{
				bytecode.StackLoadInline(10),
				bytecode.StackLoadInline(2),
				bytecode.StackOp(op.Sub),
				bytecode.StackLoadInline(3),
				bytecode.StackOp(op.Sub),
			},
			size: 2,
		},
		{
			name: "triple negation",
			src:  "- - - 5",
			instrs: []bytecode.StackInstr{
				bytecode.StackLoadInline(5),
				bytecode.StackOp(op.Negate),
				bytecode.StackOp(op.Negate),
				bytecode.StackOp(op.Negate),
			},
			size: 1,
		},
		{
			name:   "identity emits nothing",
			src:    "+5",
			instrs: []bytecode.StackInstr{bytecode.StackLoadInline(5)},
			size:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := CompileStack(parse(t, tt.src))
			require.Nil(t, err)
			require.Equal(t, tt.instrs, stackInstrs(prog))
			require.Equal(t, tt.size, prog.StackSize())
			require.Equal(t, 0, prog.ConstantCount())
			require.True(t, prog.Trusted())
		})
	}
}

func TestInlineBoundary(t *testing.T) {
	prog, err := CompileStack(ast.NewInt(32767))
	require.Nil(t, err)
	require.Equal(t, op.LoadInline, prog.InstructionAt(0).Op)
	require.Equal(t, int64(32767), prog.InstructionAt(0).Inline())
	require.Equal(t, 0, prog.ConstantCount())

	prog, err = CompileStack(ast.NewInt(32768))
	require.Nil(t, err)
	require.Equal(t, bytecode.StackLoadConst(0), prog.InstructionAt(0))
	require.Equal(t, 1, prog.ConstantCount())
	require.Equal(t, int64(32768), prog.ConstantAt(0))

	prog, err = CompileStack(ast.NewInt(-32768))
	require.Nil(t, err)
	require.Equal(t, op.LoadInline, prog.InstructionAt(0).Op)

	reg, err := CompileRegister(ast.NewInt(-32769))
	require.Nil(t, err)
	require.Equal(t, bytecode.RegLoadConst(0, 0), reg.InstructionAt(0))
	require.Equal(t, int64(-32769), reg.ConstantAt(0))
}

func TestDuplicatePoolEntries(t *testing.T) {
	expr := parse(t, "40000 + 40000")

	prog, err := CompileStack(expr)
	require.Nil(t, err)
	require.Equal(t, 2, prog.ConstantCount())
	require.Equal(t, bytecode.StackLoadConst(0), prog.InstructionAt(0))
	require.Equal(t, bytecode.StackLoadConst(1), prog.InstructionAt(1))
	require.Equal(t, prog.ConstantAt(0), prog.ConstantAt(1))

	reg, err := CompileRegister(expr)
	require.Nil(t, err)
	require.Equal(t, 2, reg.ConstantCount())
}

func TestCompileRegister(t *testing.T) {
	prog, err := CompileRegister(parse(t, "2 + 3 * 4"))
	require.Nil(t, err)
	require.Equal(t, []bytecode.RegInstr{
		bytecode.RegLoadInline(0, 2),
		bytecode.RegLoadInline(1, 3),
		bytecode.RegLoadInline(2, 4),
		bytecode.RegBinary(op.Mul, 1, 1, 2),
		bytecode.RegBinary(op.Add, 0, 0, 1),
	}, regInstrs(prog))
	require.Equal(t, 3, prog.RegisterCount())
	require.True(t, prog.Trusted())
}

func TestRegisterReuse(t *testing.T) {
	// A left-deep chain reuses r1 for every right operand.
	prog, err := CompileRegister(parse(t, "1 + 2 + 3 + 4 + 5"))
	require.Nil(t, err)
	require.Equal(t, 2, prog.RegisterCount())
	for i := 0; i < prog.InstructionCount(); i++ {
		instr := prog.InstructionAt(i)
		require.Less(t, int(instr.Dst), 2)
	}

	prog, err = CompileRegister(parse(t, "-(+(-7))"))
	require.Nil(t, err)
	require.Equal(t, []bytecode.RegInstr{
		bytecode.RegLoadInline(0, 7),
		bytecode.RegNegate(0, 0),
		bytecode.RegNegate(0, 0),
	}, regInstrs(prog))
	require.Equal(t, 1, prog.RegisterCount())
}

func rightDeep(n int) ast.Expr {
	var e ast.Expr = ast.NewInt(1)
	for i := 0; i < n; i++ {
		e = ast.NewBinary(ast.Add, ast.NewInt(1), e)
	}
	return e
}

func TestTooManyRegisters(t *testing.T) {
	prog, err := CompileRegister(rightDeep(255))
	require.Nil(t, err)
	require.Equal(t, 256, prog.RegisterCount())

	_, err = CompileRegister(rightDeep(256))
	require.ErrorIs(t, err, errz.ErrTooManyRegisters)
	kind, ok := errz.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrCompile, kind)

	// The stack encoding has no operand width limit on depth.
	stack, err := CompileStack(rightDeep(256))
	require.Nil(t, err)
	require.Equal(t, 257, stack.StackSize())
}

func TestTooManyConstants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large pool test in short mode")
	}
	var e ast.Expr = ast.NewInt(100000)
	for i := 1; i <= op.MaxConstants; i++ {
		e = ast.NewBinary(ast.Add, e, ast.NewInt(100000))
	}
	_, err := CompileStack(e)
	require.ErrorIs(t, err, errz.ErrTooManyConstants)
	_, err = CompileRegister(e)
	require.ErrorIs(t, err, errz.ErrTooManyConstants)
	_, err = CompileRPN(e)
	require.Nil(t, err)
}

func TestInvalidTrees(t *testing.T) {
	var nilInt *ast.Int
	tests := []struct {
		name  string
		expr  ast.Expr
		cause error
	}{
		{"nil", nil, errz.ErrNilExpr},
		{"typed nil", nilInt, errz.ErrNilExpr},
		{"missing operand", ast.NewBinary(ast.Add, ast.NewInt(1), nil), errz.ErrNilExpr},
		{"bad binary op", ast.NewBinary(ast.BinaryOp(42), ast.NewInt(1), ast.NewInt(2)), errz.ErrUnknownExpr},
		{"bad unary op", ast.NewUnary(ast.UnaryOp(42), ast.NewInt(1)), errz.ErrUnknownExpr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileRPN(tt.expr)
			require.True(t, errors.Is(err, tt.cause), "rpn: %v", err)
			_, err = CompileStack(tt.expr)
			require.True(t, errors.Is(err, tt.cause), "stack: %v", err)
			_, err = CompileRegister(tt.expr)
			require.True(t, errors.Is(err, tt.cause), "register: %v", err)
		})
	}
}

func TestDeterministic(t *testing.T) {
	expr := parse(t, "(40000 - 3) * -(2 / 70000) + 1")
	a, err := CompileRegister(expr)
	require.Nil(t, err)
	b, err := CompileRegister(expr)
	require.Nil(t, err)
	require.Equal(t, regInstrs(a), regInstrs(b))
	require.Equal(t, a.Stats(), b.Stats())
}

func TestAllocators(t *testing.T) {
	var s StackAlloc
	s.Push()
	s.Push()
	s.Pop()
	s.Push()
	s.Push()
	s.Pop()
	s.Pop()
	require.Equal(t, 1, s.Depth())
	require.Equal(t, 3, s.Size())

	var r RegAlloc
	r0, err := r.Alloc()
	require.Nil(t, err)
	r1, err := r.Alloc()
	require.Nil(t, err)
	require.Equal(t, uint8(0), r0)
	require.Equal(t, uint8(1), r1)
	r.Free(r1)
	again, err := r.Alloc()
	require.Nil(t, err)
	require.Equal(t, r1, again)
	require.Equal(t, 2, r.Live())
	require.Equal(t, 2, r.Size())
}
