// Package fold evaluates calc expressions directly on the syntax tree. It is
// the reference the compiled backends are checked against.
package fold

import (
	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/errz"
	"github.com/calcvm/calc/internal/arith"
)

// Eval evaluates the expression with checked int64 arithmetic. Division by
// zero and overflow are reported as errz.ErrArithmetic errors. Operands are
// evaluated left to right, so the first failure matches the failure a
// compiled program reports.
func Eval(e ast.Expr) (int64, error) {
	return eval(e, checked)
}

// Wrapping evaluates the expression with two's complement wrapping on
// overflow, the behavior of the trusted virtual machines. It fails only on
// division by zero.
func Wrapping(e ast.Expr) (int64, error) {
	return eval(e, wrapping)
}

type semantics struct {
	binary func(op ast.BinaryOp, a, b int64) (int64, error)
	negate func(a int64) (int64, error)
}

var checked = semantics{
	binary: func(op ast.BinaryOp, a, b int64) (int64, error) {
		switch op {
		case ast.Add:
			return arith.Add(a, b)
		case ast.Sub:
			return arith.Sub(a, b)
		case ast.Mul:
			return arith.Mul(a, b)
		default:
			return arith.Div(a, b)
		}
	},
	negate: arith.Neg,
}

var wrapping = semantics{
	binary: func(op ast.BinaryOp, a, b int64) (int64, error) {
		switch op {
		case ast.Add:
			return a + b, nil
		case ast.Sub:
			return a - b, nil
		case ast.Mul:
			return a * b, nil
		default:
			return arith.WrappingDiv(a, b)
		}
	},
	negate: func(a int64) (int64, error) { return -a, nil },
}

func eval(node ast.Expr, sem semantics) (int64, error) {
	switch node := node.(type) {
	case nil:
		return 0, errz.NewCompileError(errz.ErrNilExpr)
	case *ast.Int:
		if node == nil {
			return 0, errz.NewCompileError(errz.ErrNilExpr)
		}
		return node.Value, nil
	case *ast.Unary:
		if node == nil {
			return 0, errz.NewCompileError(errz.ErrNilExpr)
		}
		if node.Op != ast.Identity && node.Op != ast.Negate {
			return 0, errz.NewCompileError(errz.ErrUnknownExpr)
		}
		x, err := eval(node.X, sem)
		if err != nil || node.Op == ast.Identity {
			return x, err
		}
		r, err := sem.negate(x)
		if err != nil {
			return 0, errz.NewArithmeticError(errz.Location{}, err)
		}
		return r, nil
	case *ast.Binary:
		if node == nil {
			return 0, errz.NewCompileError(errz.ErrNilExpr)
		}
		switch node.Op {
		case ast.Add, ast.Sub, ast.Mul, ast.Div:
		default:
			return 0, errz.NewCompileError(errz.ErrUnknownExpr)
		}
		a, err := eval(node.X, sem)
		if err != nil {
			return 0, err
		}
		b, err := eval(node.Y, sem)
		if err != nil {
			return 0, err
		}
		r, err := sem.binary(node.Op, a, b)
		if err != nil {
			return 0, errz.NewArithmeticError(errz.Location{}, err)
		}
		return r, nil
	}
	return 0, errz.NewCompileError(errz.ErrUnknownExpr)
}
