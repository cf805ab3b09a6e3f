// Package compiler compiles a calc abstract syntax tree (AST) into bytecode.
//
// Three encoders are provided, one per bytecode encoding:
//
//   - CompileRPN emits full-width literals and operators for a growable stack
//   - CompileStack emits 16-bit inline literals or pool loads and computes the
//     exact peak stack depth with a StackAlloc
//   - CompileRegister emits three-address instructions and assigns registers
//     with a RegAlloc
//
// All encoders make a single post-order pass: both operands of a node are
// emitted before the node's operator. Unary plus emits nothing; unary minus
// emits one NEGATE after its operand.
//
// # Storage Invariant
//
// For CompileStack, every push stays below StackSize() and every pop happens
// at a depth of at least one (two for binary operators). For CompileRegister,
// every Dst, Lhs and Rhs is below RegisterCount() and the result ends in
// register 0. The unchecked virtual machines rely on these properties, so
// programs returned here carry the compiler's seal and report Trusted().
//
// # Register Assignment
//
// A binary node computes its left operand into its own destination register,
// allocates a fresh register for the right operand, emits
// "dst = dst op rhs" and frees rhs. A unary node reuses its operand's
// register. The whole expression is computed into register 0.
package compiler

import (
	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/bytecode"
	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/internal/seal"
	"github.com/calcvm/calc/op"
)

// CompileRPN compiles the expression into the RPN encoding.
func CompileRPN(e ast.Expr) (*bytecode.RPN, error) {
	c := &rpnCompiler{}
	if err := c.compile(e); err != nil {
		return nil, err
	}
	return bytecode.NewRPN(bytecode.RPNParams{
		Instructions: c.instructions,
		Seal:         seal.Compiler,
	}), nil
}

// CompileStack compiles the expression into the sized stack encoding.
func CompileStack(e ast.Expr) (*bytecode.Stack, error) {
	c := &stackCompiler{}
	var alloc StackAlloc
	if err := c.compile(e, &alloc); err != nil {
		return nil, err
	}
	return bytecode.NewStack(bytecode.StackParams{
		Instructions: c.instructions,
		Constants:    c.pool.Values(),
		Size:         alloc.Size(),
		Seal:         seal.Compiler,
	}), nil
}

// CompileRegister compiles the expression into the register encoding.
func CompileRegister(e ast.Expr) (*bytecode.Register, error) {
	c := &registerCompiler{}
	var alloc RegAlloc
	dst, err := alloc.Alloc()
	if err != nil {
		return nil, err
	}
	if err := c.compile(e, dst, &alloc); err != nil {
		return nil, err
	}
	return bytecode.NewRegister(bytecode.RegisterParams{
		Instructions: c.instructions,
		Constants:    c.pool.Values(),
		Registers:    alloc.Size(),
		Seal:         seal.Compiler,
	}), nil
}

type rpnCompiler struct {
	instructions []bytecode.RPNInstr
}

func (c *rpnCompiler) emit(instr bytecode.RPNInstr) int {
	c.instructions = append(c.instructions, instr)
	return len(c.instructions) - 1
}

func (c *rpnCompiler) compile(node ast.Expr) error {
	if err := checkNode(node); err != nil {
		return err
	}
	switch node := node.(type) {
	case *ast.Int:
		c.emit(bytecode.RPNLoad(node.Value))
	case *ast.Unary:
		negate, err := unaryEmits(node.Op)
		if err != nil {
			return err
		}
		if err := c.compile(node.X); err != nil {
			return err
		}
		if negate {
			c.emit(bytecode.RPNOp(op.Negate))
		}
	case *ast.Binary:
		code, err := binaryCode(node.Op)
		if err != nil {
			return err
		}
		if err := c.compile(node.X); err != nil {
			return err
		}
		if err := c.compile(node.Y); err != nil {
			return err
		}
		c.emit(bytecode.RPNOp(code))
	}
	return nil
}

type stackCompiler struct {
	instructions []bytecode.StackInstr
	pool         bytecode.Pool
}

func (c *stackCompiler) emit(instr bytecode.StackInstr) int {
	c.instructions = append(c.instructions, instr)
	return len(c.instructions) - 1
}

func (c *stackCompiler) compile(node ast.Expr, alloc *StackAlloc) error {
	if err := checkNode(node); err != nil {
		return err
	}
	switch node := node.(type) {
	case *ast.Int:
		if op.FitsInline(node.Value) {
			c.emit(bytecode.StackLoadInline(int16(node.Value)))
		} else {
			idx, err := c.pool.Add(node.Value)
			if err != nil {
				return err
			}
			c.emit(bytecode.StackLoadConst(idx))
		}
		alloc.Push()
	case *ast.Unary:
		negate, err := unaryEmits(node.Op)
		if err != nil {
			return err
		}
		if err := c.compile(node.X, alloc); err != nil {
			return err
		}
		if negate {
			c.emit(bytecode.StackOp(op.Negate))
		}
	case *ast.Binary:
		code, err := binaryCode(node.Op)
		if err != nil {
			return err
		}
		if err := c.compile(node.X, alloc); err != nil {
			return err
		}
		if err := c.compile(node.Y, alloc); err != nil {
			return err
		}
		c.emit(bytecode.StackOp(code))
		alloc.Pop()
	}
	return nil
}

type registerCompiler struct {
	instructions []bytecode.RegInstr
	pool         bytecode.Pool
}

func (c *registerCompiler) emit(instr bytecode.RegInstr) int {
	c.instructions = append(c.instructions, instr)
	return len(c.instructions) - 1
}

func (c *registerCompiler) compile(node ast.Expr, dst uint8, alloc *RegAlloc) error {
	if err := checkNode(node); err != nil {
		return err
	}
	switch node := node.(type) {
	case *ast.Int:
		if op.FitsInline(node.Value) {
			c.emit(bytecode.RegLoadInline(dst, int16(node.Value)))
			return nil
		}
		idx, err := c.pool.Add(node.Value)
		if err != nil {
			return err
		}
		c.emit(bytecode.RegLoadConst(dst, idx))
	case *ast.Unary:
		negate, err := unaryEmits(node.Op)
		if err != nil {
			return err
		}
		if err := c.compile(node.X, dst, alloc); err != nil {
			return err
		}
		if negate {
			c.emit(bytecode.RegNegate(dst, dst))
		}
	case *ast.Binary:
		code, err := binaryCode(node.Op)
		if err != nil {
			return err
		}
		if err := c.compile(node.X, dst, alloc); err != nil {
			return err
		}
		rhs, err := alloc.Alloc()
		if err != nil {
			return err
		}
		if err := c.compile(node.Y, rhs, alloc); err != nil {
			return err
		}
		c.emit(bytecode.RegBinary(code, dst, dst, rhs))
		alloc.Free(rhs)
	}
	return nil
}

// checkNode rejects nil nodes, including typed nil pointers, and node types
// the encoders do not know.
func checkNode(node ast.Expr) error {
	switch n := node.(type) {
	case nil:
		return errz.NewCompileError(errz.ErrNilExpr)
	case *ast.Int:
		if n == nil {
			return errz.NewCompileError(errz.ErrNilExpr)
		}
	case *ast.Unary:
		if n == nil {
			return errz.NewCompileError(errz.ErrNilExpr)
		}
	case *ast.Binary:
		if n == nil {
			return errz.NewCompileError(errz.ErrNilExpr)
		}
	default:
		return errz.NewStructuredErrorf(errz.ErrCompile, errz.Location{},
			"unknown expression type %T", node).WithCause(errz.ErrUnknownExpr)
	}
	return nil
}

func binaryCode(o ast.BinaryOp) (op.Code, error) {
	switch o {
	case ast.Add:
		return op.Add, nil
	case ast.Sub:
		return op.Sub, nil
	case ast.Mul:
		return op.Mul, nil
	case ast.Div:
		return op.Div, nil
	}
	return op.Invalid, errz.NewStructuredErrorf(errz.ErrCompile, errz.Location{},
		"unknown binary operator %d", o).WithCause(errz.ErrUnknownExpr)
}

// unaryEmits reports whether the operator produces an instruction.
func unaryEmits(o ast.UnaryOp) (bool, error) {
	switch o {
	case ast.Identity:
		return false, nil
	case ast.Negate:
		return true, nil
	}
	return false, errz.NewStructuredErrorf(errz.ErrCompile, errz.Location{},
		"unknown unary operator %d", o).WithCause(errz.ErrUnknownExpr)
}
