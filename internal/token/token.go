// Package token defines the tokens used when lexing calc source text.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int // byte offset within the input
	LineStart int // byte offset of the start of the current line
	Line      int // 0-indexed line number
	Column    int // 0-indexed column number
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// Note: This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	ASTERISK Type = "*"
	EOF      Type = "EOF"
	ILLEGAL  Type = "ILLEGAL"
	INT      Type = "INT"
	LPAREN   Type = "("
	MINUS    Type = "-"
	PLUS     Type = "+"
	RPAREN   Type = ")"
	SLASH    Type = "/"
)
