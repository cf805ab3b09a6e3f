package bytecode

import (
	"github.com/calcvm/calc/internal/seal"
	"github.com/calcvm/calc/op"
)

// Program is the behavior shared by the three compiled program types.
type Program interface {
	InstructionCount() int
	ConstantCount() int
	Trusted() bool
	Stats() Stats
}

var (
	_ Program = (*RPN)(nil)
	_ Program = (*Stack)(nil)
	_ Program = (*Register)(nil)
)

// RPN is a compiled program in the RPN encoding. It is immutable after
// creation and safe for concurrent use.
type RPN struct {
	instructions []RPNInstr
	trusted      bool
}

// RPNParams contains parameters for creating a new RPN program.
type RPNParams struct {
	Instructions []RPNInstr
	Seal         *seal.Seal
}

// NewRPN creates a new immutable RPN program. Input slices are copied.
func NewRPN(params RPNParams) *RPN {
	return &RPN{
		instructions: copySlice(params.Instructions),
		trusted:      params.Seal == seal.Compiler,
	}
}

// InstructionCount returns the number of instructions.
func (c *RPN) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given index.
func (c *RPN) InstructionAt(index int) RPNInstr {
	return c.instructions[index]
}

// ConstantCount always returns zero: literals are carried in the instructions.
func (c *RPN) ConstantCount() int {
	return 0
}

// Trusted returns true if the program was produced by the compiler.
func (c *RPN) Trusted() bool {
	return c.trusted
}

// Stats returns statistics about the program.
func (c *RPN) Stats() Stats {
	s := Stats{InstructionCount: len(c.instructions)}
	depth := 0
	for _, instr := range c.instructions {
		if instr.Op == op.LoadInt {
			s.InlineLiterals++
		}
		depth += op.GetInfo(instr.Op).StackEffect
		if depth > s.StorageSize {
			s.StorageSize = depth
		}
	}
	return s
}

// Stack is a compiled program in the sized stack encoding. StackSize is the
// exact peak operand depth, so a buffer of that length is sufficient.
type Stack struct {
	instructions []StackInstr
	constants    []int64
	size         int
	trusted      bool
}

// StackParams contains parameters for creating a new Stack program.
type StackParams struct {
	Instructions []StackInstr
	Constants    []int64
	Size         int
	Seal         *seal.Seal
}

// NewStack creates a new immutable Stack program. Input slices are copied.
func NewStack(params StackParams) *Stack {
	return &Stack{
		instructions: copySlice(params.Instructions),
		constants:    copySlice(params.Constants),
		size:         params.Size,
		trusted:      params.Seal == seal.Compiler,
	}
}

// InstructionCount returns the number of instructions.
func (c *Stack) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given index.
func (c *Stack) InstructionAt(index int) StackInstr {
	return c.instructions[index]
}

// ConstantCount returns the number of constants.
func (c *Stack) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index.
func (c *Stack) ConstantAt(index int) int64 {
	return c.constants[index]
}

// StackSize returns the number of slots the program needs.
func (c *Stack) StackSize() int {
	return c.size
}

// Trusted returns true if the program was produced by the compiler.
func (c *Stack) Trusted() bool {
	return c.trusted
}

// Stats returns statistics about the program.
func (c *Stack) Stats() Stats {
	s := Stats{
		InstructionCount: len(c.instructions),
		ConstantCount:    len(c.constants),
		StorageSize:      c.size,
	}
	for _, instr := range c.instructions {
		switch instr.Op {
		case op.LoadInline:
			s.InlineLiterals++
		case op.LoadConst:
			s.PoolLiterals++
		}
	}
	return s
}

// Register is a compiled program in the register encoding. The result is
// left in register 0.
type Register struct {
	instructions []RegInstr
	constants    []int64
	registers    int
	trusted      bool
}

// RegisterParams contains parameters for creating a new Register program.
type RegisterParams struct {
	Instructions []RegInstr
	Constants    []int64
	Registers    int
	Seal         *seal.Seal
}

// NewRegister creates a new immutable Register program. Input slices are
// copied.
func NewRegister(params RegisterParams) *Register {
	return &Register{
		instructions: copySlice(params.Instructions),
		constants:    copySlice(params.Constants),
		registers:    params.Registers,
		trusted:      params.Seal == seal.Compiler,
	}
}

// InstructionCount returns the number of instructions.
func (c *Register) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given index.
func (c *Register) InstructionAt(index int) RegInstr {
	return c.instructions[index]
}

// ConstantCount returns the number of constants.
func (c *Register) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index.
func (c *Register) ConstantAt(index int) int64 {
	return c.constants[index]
}

// RegisterCount returns the number of registers the program needs.
func (c *Register) RegisterCount() int {
	return c.registers
}

// Trusted returns true if the program was produced by the compiler.
func (c *Register) Trusted() bool {
	return c.trusted
}

// Stats returns statistics about the program.
func (c *Register) Stats() Stats {
	s := Stats{
		InstructionCount: len(c.instructions),
		ConstantCount:    len(c.constants),
		StorageSize:      c.registers,
	}
	for _, instr := range c.instructions {
		switch instr.Op {
		case op.LoadInline:
			s.InlineLiterals++
		case op.LoadConst:
			s.PoolLiterals++
		}
	}
	return s
}
