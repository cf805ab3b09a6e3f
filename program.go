package calc

import (
	"fmt"

	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/bytecode"
	"github.com/calcvm/calc/dis"
	"github.com/calcvm/calc/vm"
)

// Program is an expression compiled for one backend.
// It is immutable after creation and safe for concurrent use.
type Program struct {
	backend Backend
	expr    ast.Expr
	rpn     *bytecode.RPN
	stack   *bytecode.Stack
	reg     *bytecode.Register
}

// Backend returns the encoding the program was compiled to.
func (p *Program) Backend() Backend {
	return p.backend
}

// Expr returns the expression the program was compiled from.
func (p *Program) Expr() ast.Expr {
	return p.expr
}

// Bytecode returns the compiled program.
func (p *Program) Bytecode() bytecode.Program {
	switch p.backend {
	case RPN:
		return p.rpn
	case Stack:
		return p.stack
	default:
		return p.reg
	}
}

// Stats returns statistics about the compiled program.
func (p *Program) Stats() bytecode.Stats {
	return p.Bytecode().Stats()
}

// VM returns a virtual machine loaded with the program.
func (p *Program) VM(opts ...vm.Option) *vm.VirtualMachine {
	switch p.backend {
	case RPN:
		return vm.NewRPN(p.rpn, opts...)
	case Stack:
		return vm.NewStack(p.stack, opts...)
	default:
		return vm.NewRegister(p.reg, opts...)
	}
}

// Eval runs the program in the given mode.
func (p *Program) Eval(mode Mode, opts ...vm.Option) (int64, error) {
	machine := p.VM(opts...)
	switch mode {
	case Checked:
		return machine.Run()
	case Trusted:
		return machine.RunTrusted()
	default:
		return 0, fmt.Errorf("unknown mode %q", mode)
	}
}

// Disassemble returns the program's instruction listing.
func (p *Program) Disassemble() []dis.Instruction {
	switch p.backend {
	case RPN:
		return dis.RPN(p.rpn)
	case Stack:
		return dis.Stack(p.stack)
	default:
		return dis.Register(p.reg)
	}
}
