// Package calc compiles integer arithmetic expressions to bytecode and
// evaluates them on small virtual machines.
//
// An expression is parsed into an ast.Expr and compiled to one of three
// encodings (see Backend). Each encoding has a checked virtual machine that
// validates every storage access and reports int64 overflow, and a trusted
// virtual machine that skips those checks for programs produced by the
// compiler. The fold package evaluates the tree directly and serves as the
// reference result.
//
//	result, err := calc.Eval(ctx, "2 + 3 * 4", calc.WithBackend(calc.Stack))
package calc

import (
	"context"
	"fmt"

	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/compiler"
	"github.com/calcvm/calc/parser"
)

// Parse parses source into an expression tree.
func Parse(ctx context.Context, source string, opts ...Option) (ast.Expr, error) {
	o := collectOptions(opts...)
	var parserOpts []parser.Option
	if o.maxDepth > 0 {
		parserOpts = append(parserOpts, parser.WithMaxDepth(o.maxDepth))
	}
	return parser.Parse(ctx, source, parserOpts...)
}

// Compile compiles the expression for the given backend.
func Compile(e ast.Expr, backend Backend) (*Program, error) {
	p := &Program{backend: backend, expr: e}
	var err error
	switch backend {
	case RPN:
		p.rpn, err = compiler.CompileRPN(e)
	case Stack:
		p.stack, err = compiler.CompileStack(e)
	case Register:
		p.reg, err = compiler.CompileRegister(e)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Eval parses, compiles and runs source with the configured backend and
// mode.
func Eval(ctx context.Context, source string, opts ...Option) (int64, error) {
	o := collectOptions(opts...)
	e, err := Parse(ctx, source, opts...)
	if err != nil {
		return 0, err
	}
	p, err := Compile(e, o.backend)
	if err != nil {
		return 0, err
	}
	return p.Eval(o.mode, o.vmOpts()...)
}
