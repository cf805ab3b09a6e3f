package vm

import (
	"github.com/calcvm/calc/bytecode"
	"github.com/calcvm/calc/op"
)

type encoding uint8

const (
	encodingRPN encoding = iota + 1
	encodingStack
	encodingRegister
)

func (e encoding) String() string {
	switch e {
	case encodingRPN:
		return "rpn"
	case encodingStack:
		return "stack"
	case encodingRegister:
		return "register"
	default:
		return "unknown"
	}
}

// code is a program copied into flat slices for dispatch. Exactly one of the
// instruction slices is populated, matching the encoding.
type code struct {
	encoding  encoding
	rpn       []bytecode.RPNInstr
	stack     []bytecode.StackInstr
	reg       []bytecode.RegInstr
	constants []int64
	size      int
	trusted   bool
}

func wrapRPN(p *bytecode.RPN) *code {
	c := &code{
		encoding: encodingRPN,
		rpn:      make([]bytecode.RPNInstr, p.InstructionCount()),
		trusted:  p.Trusted(),
	}
	for i := 0; i < p.InstructionCount(); i++ {
		c.rpn[i] = p.InstructionAt(i)
	}
	c.size = rpnDepth(c.rpn)
	return c
}

func wrapStack(p *bytecode.Stack) *code {
	c := &code{
		encoding:  encodingStack,
		stack:     make([]bytecode.StackInstr, p.InstructionCount()),
		constants: make([]int64, p.ConstantCount()),
		size:      p.StackSize(),
		trusted:   p.Trusted(),
	}
	for i := 0; i < p.InstructionCount(); i++ {
		c.stack[i] = p.InstructionAt(i)
	}
	for i := 0; i < p.ConstantCount(); i++ {
		c.constants[i] = p.ConstantAt(i)
	}
	return c
}

func wrapRegister(p *bytecode.Register) *code {
	c := &code{
		encoding:  encodingRegister,
		reg:       make([]bytecode.RegInstr, p.InstructionCount()),
		constants: make([]int64, p.ConstantCount()),
		size:      p.RegisterCount(),
		trusted:   p.Trusted(),
	}
	for i := 0; i < p.InstructionCount(); i++ {
		c.reg[i] = p.InstructionAt(i)
	}
	for i := 0; i < p.ConstantCount(); i++ {
		c.constants[i] = p.ConstantAt(i)
	}
	return c
}

// rpnDepth returns the peak stack depth of an RPN program. The RPN encoding
// does not carry a size, so the trusted path sizes its buffer from this.
func rpnDepth(instrs []bytecode.RPNInstr) int {
	depth, peak := 0, 0
	for _, instr := range instrs {
		depth += op.GetInfo(instr.Op).StackEffect
		if depth > peak {
			peak = depth
		}
	}
	return peak
}

func (c *code) instructionCount() int {
	switch c.encoding {
	case encodingRPN:
		return len(c.rpn)
	case encodingStack:
		return len(c.stack)
	default:
		return len(c.reg)
	}
}
