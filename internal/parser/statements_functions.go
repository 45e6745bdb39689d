package parser

import (
	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/token"
)

// isArrowLambda reports whether the parenthesis at the current token opens
// the parameter list of an arrow lambda, i.e. the matching ')' is followed
// by '=>' or by a return type annotation.
func (p *Parser) isArrowLambda() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				next := p.at(i + 1).Type
				return next == token.ARROW || next == token.COLON
			}
		case token.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseParams() ([]*ast.Param, bool) {
	if _, ok := p.expect(token.LPAREN, "'('"); !ok {
		return nil, false
	}
	params := []*ast.Param{}
	p.skipNewlines()
	for !p.curTokenIs(token.RPAREN) {
		name, ok := p.expect(token.IDENT, "parameter name")
		if !ok {
			return nil, false
		}
		param := &ast.Param{Base: ast.Base{Span: name.Span}, Name: name.Lexeme}
		if p.curTokenIs(token.COLON) {
			p.nextToken()
			ref := p.parseTypeRef()
			if ref == nil {
				return nil, false
			}
			param.TypeAnn = ref
			param.Span = param.Span.To(ref.Span)
		}
		params = append(params, param)
		p.skipNewlines()
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.skipNewlines()
	}
	if _, ok := p.expect(token.RPAREN, "',' or ')'"); !ok {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseTypeRef() *ast.TypeRef {
	name, ok := p.expect(token.IDENT, "type name")
	if !ok {
		return nil
	}
	return &ast.TypeRef{Name: name.Lexeme, Span: name.Span}
}

// parseReturnType parses an optional ': TYPE'.
func (p *Parser) parseReturnType() (*ast.TypeRef, bool) {
	if !p.curTokenIs(token.COLON) {
		return nil, true
	}
	p.nextToken()
	ref := p.parseTypeRef()
	return ref, ref != nil
}

func (p *Parser) parseFunctionDef() *ast.FunctionDef {
	funTok := p.curToken
	p.nextToken()
	name, ok := p.expect(token.IDENT, "function name")
	if !ok {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	ret, ok := p.parseReturnType()
	if !ok {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.FunctionDef{
		Base:       ast.Base{Span: funTok.Span.To(body.Span)},
		Name:       name.Lexeme,
		NameSpan:   name.Span,
		Params:     params,
		ReturnType: ret,
		Body:       body,
	}
}

// parseLambda parses `fun (params) [: T] { ... }`.
func (p *Parser) parseLambda() ast.Node {
	funTok := p.curToken
	p.nextToken()
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	ret, ok := p.parseReturnType()
	if !ok {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.Lambda{
		Base:       ast.Base{Span: funTok.Span.To(body.Span)},
		Params:     params,
		ReturnType: ret,
		Body:       body,
	}
}

// parseArrowLambda parses `(params) [: T] => expr`.
func (p *Parser) parseArrowLambda() ast.Node {
	start := p.curToken
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	ret, ok := p.parseReturnType()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.ARROW, "'=>'"); !ok {
		return nil
	}
	p.skipNewlines()
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	exprSpan := expr.Meta().Span
	return &ast.Lambda{
		Base:       ast.Base{Span: start.Span.To(exprSpan)},
		Params:     params,
		ReturnType: ret,
		Body:       &ast.Block{Base: ast.Base{Span: exprSpan}, Exprs: []ast.Node{expr}},
	}
}
