package parser

import (
	"strconv"

	"github.com/calcvm/calc/ast"
	"github.com/calcvm/calc/internal/token"
)

var binaryOps = map[token.Type]ast.BinaryOp{
	token.PLUS:     ast.Add,
	token.MINUS:    ast.Sub,
	token.ASTERISK: ast.Mul,
	token.SLASH:    ast.Div,
}

var unaryOps = map[token.Type]ast.UnaryOp{
	token.PLUS:  ast.Identity,
	token.MINUS: ast.Negate,
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	if p.err != nil || p.cancelled() {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.setTokenError(p.curToken, "maximum nesting depth exceeded")
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left, ok := prefix()
	if !ok {
		return nil
	}
	for !p.peekTokenIs(token.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		if left, ok = infix(left); !ok {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefixExpr() (ast.Expr, bool) {
	opPos := p.curToken.StartPosition
	op := unaryOps[p.curToken.Type]
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if right == nil {
		return nil, false
	}
	return &ast.Unary{OpPos: opPos, Op: op, X: right}, true
}

func (p *Parser) parseInfixExpr(left ast.Expr) (ast.Expr, bool) {
	opPos := p.curToken.StartPosition
	op := binaryOps[p.curToken.Type]
	precedence := p.currentPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil, false
	}
	return &ast.Binary{X: left, OpPos: opPos, Op: op, Y: right}, true
}

func (p *Parser) parseGroupedExpr() (ast.Expr, bool) {
	p.nextToken() // move past '('
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil, false
	}
	if !p.expectPeek("grouped expression", token.RPAREN) {
		return nil, false
	}
	return expr, true
}

func (p *Parser) parseInt() (ast.Expr, bool) {
	tok, lit := p.curToken, p.curToken.Literal
	value, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		p.setTokenError(tok, "invalid integer: %s", lit)
		return nil, false
	}
	return &ast.Int{ValuePos: tok.StartPosition, Literal: lit, Value: value}, true
}
