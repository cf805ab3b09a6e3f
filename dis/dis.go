// Package dis renders compiled calc programs as instruction listings.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/calcvm/calc/bytecode"
	"github.com/calcvm/calc/internal/table"
	"github.com/calcvm/calc/op"
	"github.com/fatih/color"
)

// Instruction is one disassembled instruction.
type Instruction struct {
	Offset     int      `json:"offset" yaml:"offset"`
	Name       string   `json:"name" yaml:"name"`
	Operands   []string `json:"operands,omitempty" yaml:"operands,omitempty"`
	Annotation string   `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// RPN disassembles an RPN program. Operators are annotated with the operand
// stack depth after they execute.
func RPN(p *bytecode.RPN) []Instruction {
	var out []Instruction
	depth := 0
	for i := 0; i < p.InstructionCount(); i++ {
		instr := p.InstructionAt(i)
		depth += op.GetInfo(instr.Op).StackEffect
		ins := Instruction{Offset: i, Name: name(instr.Op)}
		if instr.Op == op.LoadInt {
			ins.Operands = []string{strconv.FormatInt(instr.Value, 10)}
		}
		ins.Annotation = fmt.Sprintf("depth %d", depth)
		out = append(out, ins)
	}
	return out
}

// Stack disassembles a sized stack program. Pool loads are annotated with
// the constant they load.
func Stack(p *bytecode.Stack) []Instruction {
	var out []Instruction
	depth := 0
	for i := 0; i < p.InstructionCount(); i++ {
		instr := p.InstructionAt(i)
		depth += op.GetInfo(instr.Op).StackEffect
		ins := Instruction{Offset: i, Name: name(instr.Op)}
		switch instr.Op {
		case op.LoadInline:
			ins.Operands = []string{strconv.FormatInt(instr.Inline(), 10)}
			ins.Annotation = fmt.Sprintf("depth %d", depth)
		case op.LoadConst:
			ins.Operands = []string{"#" + strconv.Itoa(instr.Index())}
			ins.Annotation = fmt.Sprintf("depth %d, %s", depth, constant(p, instr.Index()))
		default:
			ins.Annotation = fmt.Sprintf("depth %d", depth)
		}
		out = append(out, ins)
	}
	return out
}

// Register disassembles a register program. Every instruction is annotated
// with the assignment it performs.
func Register(p *bytecode.Register) []Instruction {
	var out []Instruction
	for i := 0; i < p.InstructionCount(); i++ {
		instr := p.InstructionAt(i)
		ins := Instruction{Offset: i, Name: name(instr.Op)}
		dst := reg(instr.Dst)
		switch {
		case instr.Op == op.LoadInline:
			v := strconv.FormatInt(instr.Inline(), 10)
			ins.Operands = []string{dst, v}
			ins.Annotation = dst + " = " + v
		case instr.Op == op.LoadConst:
			ins.Operands = []string{dst, "#" + strconv.Itoa(instr.Index())}
			ins.Annotation = dst + " = " + constant(p, instr.Index())
		case instr.Op == op.Negate:
			ins.Operands = []string{dst, reg(instr.Lhs)}
			ins.Annotation = dst + " = -" + reg(instr.Lhs)
		case instr.Op.IsBinary():
			ins.Operands = []string{dst, reg(instr.Lhs), reg(instr.Rhs)}
			ins.Annotation = fmt.Sprintf("%s = %s %s %s", dst, reg(instr.Lhs), instr.Op.Symbol(), reg(instr.Rhs))
		}
		out = append(out, ins)
	}
	return out
}

type pool interface {
	ConstantCount() int
	ConstantAt(index int) int64
}

func constant(p pool, idx int) string {
	if idx >= p.ConstantCount() {
		return "<out of range>"
	}
	return strconv.FormatInt(p.ConstantAt(idx), 10)
}

func reg(r uint8) string {
	return "r" + strconv.Itoa(int(r))
}

func name(code op.Code) string {
	if op.Valid(code) {
		return op.GetInfo(code).Name
	}
	return fmt.Sprintf("op(%d)", code)
}

// Print writes the instructions as a table. Opcode names are colored unless
// color output is disabled.
func Print(instructions []Instruction, w io.Writer) error {
	opcodeColor := color.New(color.FgCyan)
	t := table.NewTable(w)
	t.WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"})
	t.WithColumnAlignment([]table.Alignment{
		table.AlignRight,
		table.AlignLeft,
		table.AlignLeft,
		table.AlignLeft,
	})
	for _, instr := range instructions {
		t.Append([]string{
			strconv.Itoa(instr.Offset),
			opcodeColor.Sprint(instr.Name),
			strings.Join(instr.Operands, ", "),
			instr.Annotation,
		})
	}
	return t.Render()
}
