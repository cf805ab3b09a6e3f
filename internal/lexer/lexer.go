// Package lexer splits calc source text into tokens.
package lexer

import (
	"fmt"

	"github.com/calcvm/calc/internal/token"
)

// Lexer produces tokens from an input string. Whitespace, including
// newlines, separates tokens and is otherwise ignored.
type Lexer struct {
	input     string
	position  int // current position in input (points to current char)
	line      int
	lineStart int
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token. At the end of the input it returns an EOF
// token on every call.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	start := l.pos()
	if l.position >= len(l.input) {
		return token.Token{Type: token.EOF, StartPosition: start, EndPosition: start}, nil
	}
	ch := l.input[l.position]
	var typ token.Type
	switch ch {
	case '+':
		typ = token.PLUS
	case '-':
		typ = token.MINUS
	case '*':
		typ = token.ASTERISK
	case '/':
		typ = token.SLASH
	case '(':
		typ = token.LPAREN
	case ')':
		typ = token.RPAREN
	default:
		if isDigit(ch) {
			return l.readNumber(start), nil
		}
		l.position++
		tok := token.Token{
			Type:          token.ILLEGAL,
			Literal:       string(ch),
			StartPosition: start,
			EndPosition:   l.pos(),
		}
		return tok, fmt.Errorf("unexpected character %q", ch)
	}
	l.position++
	return token.Token{
		Type:          typ,
		Literal:       string(ch),
		StartPosition: start,
		EndPosition:   l.pos(),
	}, nil
}

// Tokens lexes the remaining input, stopping after EOF or the first error.
func (l *Lexer) Tokens() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) readNumber(start token.Position) token.Token {
	begin := l.position
	for l.position < len(l.input) && isDigit(l.input[l.position]) {
		l.position++
	}
	return token.Token{
		Type:          token.INT,
		Literal:       l.input[begin:l.position],
		StartPosition: start,
		EndPosition:   l.pos(),
	}
}

func (l *Lexer) skipWhitespace() {
	for l.position < len(l.input) {
		switch l.input[l.position] {
		case ' ', '\t', '\r':
			l.position++
		case '\n':
			l.position++
			l.line++
			l.lineStart = l.position
		default:
			return
		}
	}
}

func (l *Lexer) pos() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
	}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
