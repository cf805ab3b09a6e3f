package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	switch n := node.(type) {
	case *Binary:
		if n.X != nil {
			Walk(v, n.X)
		}
		if n.Y != nil {
			Walk(v, n.Y)
		}
	case *Unary:
		if n.X != nil {
			Walk(v, n.X)
		}
	}
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			switch node := n.(type) {
			case *Binary:
				return visit(node.X) && visit(node.Y)
			case *Unary:
				return visit(node.X)
			}
			return true
		}
		if root != nil {
			visit(root)
		}
	}
}

// Count returns the number of nodes in the tree rooted at node.
func Count(node Node) int {
	n := 0
	for range Preorder(node) {
		n++
	}
	return n
}

// Depth returns the height of the tree rooted at node. A single literal has
// depth 1.
func Depth(node Node) int {
	switch n := node.(type) {
	case *Binary:
		return 1 + max(Depth(n.X), Depth(n.Y))
	case *Unary:
		return 1 + Depth(n.X)
	case nil:
		return 0
	default:
		return 1
	}
}
