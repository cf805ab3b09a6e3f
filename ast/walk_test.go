package ast

import (
	"testing"

	"github.com/calcvm/calc/internal/token"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	// 1 + -2
	expr := &Binary{
		X: &Int{
			ValuePos: token.Position{Column: 0},
			Literal:  "1",
			Value:    1,
		},
		OpPos: token.Position{Column: 2},
		Op:    Add,
		Y: &Unary{
			OpPos: token.Position{Column: 4},
			Op:    Negate,
			X: &Int{
				ValuePos: token.Position{Column: 5, Char: 5},
				Literal:  "2",
				Value:    2,
			},
		},
	}

	var visited []string
	Inspect(expr, func(n Node) bool {
		switch node := n.(type) {
		case *Binary:
			visited = append(visited, "Binary("+node.Op.String()+")")
		case *Unary:
			visited = append(visited, "Unary("+node.Op.String()+")")
		case *Int:
			visited = append(visited, "Int("+node.Literal+")")
		}
		return true
	})
	require.Equal(t, []string{"Binary(+)", "Int(1)", "Unary(-)", "Int(2)"}, visited)
	require.Equal(t, 0, expr.Pos().Column)
	require.Equal(t, 6, expr.End().Column)
}

func TestInspectPrune(t *testing.T) {
	expr := NewBinary(Mul, NewBinary(Add, NewInt(1), NewInt(2)), NewInt(3))
	var ints int
	Inspect(expr, func(n Node) bool {
		if _, ok := n.(*Int); ok {
			ints++
		}
		// Do not descend into the nested sum.
		return n == Node(expr)
	})
	require.Equal(t, 1, ints)
}

func TestPreorderStop(t *testing.T) {
	expr := NewBinary(Sub, NewInt(1), NewUnary(Negate, NewInt(2)))
	var seen int
	for range Preorder(expr) {
		seen++
		if seen == 2 {
			break
		}
	}
	require.Equal(t, 2, seen)
}

func TestCountAndDepth(t *testing.T) {
	tests := []struct {
		name  string
		expr  Expr
		count int
		depth int
	}{
		{"literal", NewInt(5), 1, 1},
		{"unary", NewUnary(Negate, NewUnary(Negate, NewInt(5))), 3, 3},
		{"binary", NewBinary(Add, NewInt(1), NewInt(2)), 3, 2},
		{"left deep", NewBinary(Sub, NewBinary(Sub, NewInt(10), NewInt(2)), NewInt(3)), 5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.count, Count(tt.expr))
			require.Equal(t, tt.depth, Depth(tt.expr))
		})
	}
	require.Equal(t, 0, Depth(nil))
}
