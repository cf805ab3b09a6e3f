// Package ast defines the abstract syntax tree of calc expressions.
//
// The tree has three node types: Binary, Unary and Int. Nodes are immutable
// after construction and may be shared between trees and goroutines.
package ast

import "github.com/calcvm/calc/internal/token"

// Node represents a portion of the syntax tree. Nodes produced by the parser
// carry position information; nodes built programmatically report
// token.NoPos.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a fully parenthesized representation of the node that
	// parses back to an expression with the same value.
	String() string
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// BinaryOp is the operator of a Binary expression.
type BinaryOp uint8

const (
	Add BinaryOp = iota + 1
	Sub
	Mul
	Div
)

// String returns the operator symbol, for example "+" for Add.
func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// UnaryOp is the operator of a Unary expression.
type UnaryOp uint8

const (
	Identity UnaryOp = iota + 1
	Negate
)

// String returns the operator symbol, for example "-" for Negate.
func (op UnaryOp) String() string {
	switch op {
	case Identity:
		return "+"
	case Negate:
		return "-"
	default:
		return "?"
	}
}
