package dis

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/bytecode"
	"github.com/calcvm/calc/compiler"
	"github.com/calcvm/calc/op"
	"github.com/calcvm/calc/parser"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := parser.Parse(context.Background(), src)
	require.Nil(t, err)
	return expr
}

func TestRegisterDisassembly(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	prog, err := compiler.CompileRegister(parse(t, "2 + 40000 * -3"))
	require.Nil(t, err)
	instructions := Register(prog)
	require.Equal(t, Instruction{
		Offset:     1,
		Name:       "LOAD_CONST",
		Operands:   []string{"r1", "#0"},
		Annotation: "r1 = 40000",
	}, instructions[1])

	var buf bytes.Buffer
	require.Nil(t, Print(instructions, &buf))
	expected := strings.TrimSpace(`
+--------+-------------+------------+--------------+
| OFFSET |   OPCODE    |  OPERANDS  |     INFO     |
+--------+-------------+------------+--------------+
|      0 | LOAD_INLINE | r0, 2      | r0 = 2       |
|      1 | LOAD_CONST  | r1, #0     | r1 = 40000   |
|      2 | LOAD_INLINE | r2, 3      | r2 = 3       |
|      3 | NEGATE      | r2, r2     | r2 = -r2     |
|      4 | MUL         | r1, r1, r2 | r1 = r1 * r2 |
|      5 | ADD         | r0, r0, r1 | r0 = r0 + r1 |
+--------+-------------+------------+--------------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestStackDisassembly(t *testing.T) {
	prog, err := compiler.CompileStack(parse(t, "70000 - 1"))
	require.Nil(t, err)
	require.Equal(t, []Instruction{
		{Offset: 0, Name: "LOAD_CONST", Operands: []string{"#0"}, Annotation: "depth 1, 70000"},
		{Offset: 1, Name: "LOAD_INLINE", Operands: []string{"1"}, Annotation: "depth 2"},
		{Offset: 2, Name: "SUB", Annotation: "depth 1"},
	}, Stack(prog))
}

func TestRPNDisassembly(t *testing.T) {
	prog, err := compiler.CompileRPN(parse(t, "-9000000000"))
	require.Nil(t, err)
	require.Equal(t, []Instruction{
		{Offset: 0, Name: "LOAD_INT", Operands: []string{"9000000000"}, Annotation: "depth 1"},
		{Offset: 1, Name: "NEGATE", Annotation: "depth 1"},
	}, RPN(prog))
}

func TestMalformedProgram(t *testing.T) {
	prog := bytecode.NewStack(bytecode.StackParams{
		Instructions: []bytecode.StackInstr{bytecode.StackLoadConst(2), {Op: 99}, {Op: op.Invalid}},
	})
	instructions := Stack(prog)
	require.Equal(t, "depth 1, <out of range>", instructions[0].Annotation)
	require.Equal(t, "op(99)", instructions[1].Name)
	require.Equal(t, "op(0)", instructions[2].Name)
}
