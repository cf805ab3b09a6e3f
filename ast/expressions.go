package ast

import (
	"bytes"
	"math"
	"strconv"

	"github.com/calcvm/calc/internal/token"
)

// Binary is an expression node that applies a binary operator.
type Binary struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    BinaryOp       // operator
	Y     Expr           // right operand
}

// NewBinary returns a Binary node without position information.
func NewBinary(op BinaryOp, x, y Expr) *Binary {
	return &Binary{X: x, Op: op, Y: y}
}

func (x *Binary) exprNode() {}

func (x *Binary) Pos() token.Position { return x.X.Pos() }
func (x *Binary) End() token.Position { return x.Y.End() }

func (x *Binary) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op.String() + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Unary is an expression node that applies a prefix operator.
type Unary struct {
	OpPos token.Position // position of operator
	Op    UnaryOp        // operator
	X     Expr           // operand
}

// NewUnary returns a Unary node without position information.
func NewUnary(op UnaryOp, x Expr) *Unary {
	return &Unary{Op: op, X: x}
}

func (x *Unary) exprNode() {}

func (x *Unary) Pos() token.Position { return x.OpPos }
func (x *Unary) End() token.Position { return x.X.End() }

func (x *Unary) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.Op.String())
	out.WriteString(x.X.String())
	out.WriteString(")")
	return out.String()
}

// Int is an expression node that represents a 64-bit signed integer literal.
type Int struct {
	ValuePos token.Position // position of the literal
	Literal  string         // source text; empty for built nodes
	Value    int64          // literal value
}

// NewInt returns an Int node without position information.
func NewInt(v int64) *Int {
	return &Int{Value: v}
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.ValuePos }
func (x *Int) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

// String renders negative values as a negation so that the result parses
// back to the same value. MinInt64 has no positive counterpart and is
// rendered as a subtraction.
func (x *Int) String() string {
	switch {
	case x.Value == math.MinInt64:
		return "(-9223372036854775807 - 1)"
	case x.Value < 0:
		return "(-" + strconv.FormatInt(-x.Value, 10) + ")"
	default:
		return strconv.FormatInt(x.Value, 10)
	}
}
