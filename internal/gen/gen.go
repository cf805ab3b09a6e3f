// Package gen generates random calc expression trees for differential
// testing.
package gen

import (
	"encoding/binary"
	"math/rand"

	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/op"
)

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
	Int63() int64
}

// RandSource wraps math/rand.
type RandSource struct {
	*rand.Rand
}

// ByteSource uses a byte slice as a source of randomness. Once the data is
// exhausted every draw returns zero, which always selects a literal, so
// generation terminates for any input.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 || s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

func (s *ByteSource) Int63() int64 {
	var buf [8]byte
	s.pos += copy(buf[:], s.data[min(s.pos, len(s.data)):])
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}

const (
	// DefaultMaxDepth is the default maximum tree depth.
	DefaultMaxDepth = 8
	// DefaultLiteralBound is the default magnitude bound of small literals.
	DefaultLiteralBound = 127
)

// Generator generates random expression trees.
type Generator struct {
	src          RandomSource
	maxDepth     int
	literalBound int64
	division     bool
	large        bool
}

// Option is a configuration function for a Generator.
type Option func(*Generator)

// WithMaxDepth bounds the depth of generated trees. A depth of zero yields
// single literals.
func WithMaxDepth(depth int) Option {
	return func(g *Generator) {
		g.maxDepth = max(depth, 0)
	}
}

// WithLiteralBound sets the magnitude bound of small literals.
func WithLiteralBound(bound int64) Option {
	return func(g *Generator) {
		if bound < 0 {
			bound = -bound
		}
		g.literalBound = bound
	}
}

// WithDivision allows the division operator to appear.
func WithDivision(enabled bool) Option {
	return func(g *Generator) {
		g.division = enabled
	}
}

// WithLargeLiterals allows literals outside the inline range, which the
// compiled encodings store in the constant pool.
func WithLargeLiterals(enabled bool) Option {
	return func(g *Generator) {
		g.large = enabled
	}
}

// New returns a Generator seeded with seed.
func New(seed int64, opts ...Option) *Generator {
	return newGenerator(&RandSource{rand.New(rand.NewSource(seed))}, opts)
}

// NewFromData returns a Generator driven by data, for use with go test -fuzz.
func NewFromData(data []byte, opts ...Option) *Generator {
	return newGenerator(&ByteSource{data: data}, opts)
}

func newGenerator(src RandomSource, opts []Option) *Generator {
	g := &Generator{
		src:          src,
		maxDepth:     DefaultMaxDepth,
		literalBound: DefaultLiteralBound,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Expr returns a new random expression.
func (g *Generator) Expr() ast.Expr {
	return g.expr(0)
}

func (g *Generator) expr(depth int) ast.Expr {
	if depth >= g.maxDepth {
		return g.literal()
	}
	switch g.src.Intn(4) {
	case 0:
		return g.literal()
	case 1:
		uop := ast.Negate
		if g.src.Intn(3) == 0 {
			uop = ast.Identity
		}
		return ast.NewUnary(uop, g.expr(depth+1))
	default:
		ops := []ast.BinaryOp{ast.Add, ast.Sub, ast.Mul}
		if g.division {
			ops = append(ops, ast.Div)
		}
		bop := ops[g.src.Intn(len(ops))]
		return ast.NewBinary(bop, g.expr(depth+1), g.expr(depth+1))
	}
}

func (g *Generator) literal() *ast.Int {
	if g.large && g.src.Intn(4) == 0 {
		// Magnitudes up to 2^40 keep most products of two pool literals in
		// range.
		v := g.src.Int63()%(1<<40) + op.MaxInlineInt + 1
		if g.src.Intn(2) == 0 {
			v = -v
		}
		return ast.NewInt(v)
	}
	if g.literalBound == 0 {
		return ast.NewInt(0)
	}
	return ast.NewInt(int64(g.src.Intn(int(2*g.literalBound+1))) - g.literalBound)
}
