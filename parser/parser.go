// Package parser builds the abstract syntax tree (AST) for calc source text.
//
// The grammar is integer arithmetic: decimal literals, the binary operators
// + - * / with the usual precedence and left associativity, unary + and -,
// and parentheses. Parsing stops at the first error.
package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/internal/lexer"
	"github.com/calcvm/calc/internal/token"
)

type (
	prefixParseFn func() (ast.Expr, bool)
	infixParseFn  func(ast.Expr) (ast.Expr, bool)
)

// Parse the provided input as a calc expression and return the AST.
func Parse(ctx context.Context, input string, options ...Option) (ast.Expr, error) {
	p := New(input, options...)
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// input is kept to quote the offending line in errors
	input string

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// err is the first error encountered
	err ParserError

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the given input.
func New(input string, options ...Option) *Parser {
	p := &Parser{
		l:              lexer.New(input),
		input:          input,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]

	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.PLUS, p.parsePrefixExpr)

	p.registerInfix(token.PLUS, p.parseInfixExpr)
	p.registerInfix(token.MINUS, p.parseInfixExpr)
	p.registerInfix(token.ASTERISK, p.parseInfixExpr)
	p.registerInfix(token.SLASH, p.parseInfixExpr)
	return p
}

// nextToken moves to the next token from the lexer.
func (p *Parser) nextToken() {
	var err error
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	if err == nil {
		return
	}
	// Lexer errors are syntax errors and end parsing.
	p.setError(NewSyntaxError(ErrorOpts{
		Cause:         err,
		StartPosition: p.peekToken.StartPosition,
		EndPosition:   p.peekToken.EndPosition,
		SourceCode:    p.lineText(p.peekToken),
	}))
}

// Parse the expression provided to New. The whole input must form a single
// expression.
func (p *Parser) Parse(ctx context.Context) (ast.Expr, error) {
	p.ctx = ctx
	if p.err != nil {
		return nil, p.err
	}
	if p.curTokenIs(token.EOF) {
		p.setTokenError(p.curToken, "empty expression")
		return nil, p.err
	}
	expr := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil, p.err
	}
	if !p.peekTokenIs(token.EOF) {
		p.setTokenError(p.peekToken, "unexpected %s after expression", tokenDescription(p.peekToken))
		return nil, p.err
	}
	return expr, nil
}

// registerPrefix registers a function for handling a prefix-based expression.
func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers a function for handling an infix-based expression.
func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// setError records err unless an earlier error exists.
func (p *Parser) setError(err ParserError) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) setTokenError(tok token.Token, format string, args ...any) {
	p.setError(NewParserError(ErrorOpts{
		ErrType:       "parse error",
		Message:       fmt.Sprintf(format, args...),
		StartPosition: tok.StartPosition,
		EndPosition:   tok.EndPosition,
		SourceCode:    p.lineText(tok),
	}))
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	p.setTokenError(t, "invalid syntax (unexpected %s)", tokenDescription(t))
}

// peekError raises an error if the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	p.setTokenError(got, "unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, tokenTypeDescription(expected))
}

// cancelled checks if the parsing context has been cancelled.
func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		p.setError(NewParserError(ErrorOpts{
			ErrType: "context error",
			Message: p.ctx.Err().Error(),
		}))
		return true
	default:
		return false
	}
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has the given type and records an
// error otherwise.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) currentPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// lineText returns the source line containing the token.
func (p *Parser) lineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start > len(p.input) {
		return ""
	}
	line := p.input[start:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	return strings.TrimRight(line, "\r")
}
