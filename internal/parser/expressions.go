package parser

import (
	"strconv"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/token"
)

func (p *Parser) parseOperand() ast.Node {
	switch p.curToken.Type {
	case token.LET:
		return p.parseVarDef()
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			return p.parseAssignment()
		}
		return p.parsePostfix()
	case token.IF:
		return p.parseIf()
	case token.FUN:
		if p.peekTokenIs(token.IDENT) {
			if fn := p.parseFunctionDef(); fn != nil {
				return fn
			}
			return nil
		}
		return p.parseLambda()
	case token.CLASS:
		return p.parseClassDef()
	case token.LBRACE:
		if block := p.parseBlock(); block != nil {
			return block
		}
		return nil
	case token.LPAREN:
		if p.isArrowLambda() {
			return p.parseArrowLambda()
		}
		return p.parsePostfix()
	case token.INT:
		return p.parseIntegerLiteral()
	case token.STRING:
		tok := p.curToken
		p.nextToken()
		return &ast.StringLiteral{Base: ast.Base{Span: tok.Span}, Value: tok.Lexeme}
	case token.TRUE, token.FALSE:
		tok := p.curToken
		p.nextToken()
		return &ast.BooleanLiteral{Base: ast.Base{Span: tok.Span}, Value: tok.Type == token.TRUE}
	case token.ILLEGAL:
		if p.curToken.Lexeme == "unterminated string" {
			p.errorAt(p.curToken, "unterminated string")
		} else {
			p.errorAt(p.curToken, "unexpected character %s", describe(p.curToken))
		}
		return nil
	default:
		p.errorAt(p.curToken, "expected expression, got %s", describe(p.curToken))
		return nil
	}
}

func (p *Parser) parseIntegerLiteral() ast.Node {
	tok := p.curToken
	value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		p.errorAt(tok, "integer literal %s out of range", tok.Lexeme)
		return nil
	}
	p.nextToken()
	return &ast.IntegerLiteral{Base: ast.Base{Span: tok.Span}, Value: value}
}

// parsePostfix parses a name or parenthesized expression followed by any
// number of calls and property gets.
func (p *Parser) parsePostfix() ast.Node {
	var base ast.Node
	switch p.curToken.Type {
	case token.IDENT:
		base = &ast.Ref{Base: ast.Base{Span: p.curToken.Span}, Name: p.curToken.Lexeme}
		p.nextToken()
	case token.LPAREN:
		p.nextToken()
		p.skipNewlines()
		base = p.parseExpression()
		if base == nil {
			return nil
		}
		p.skipNewlines()
		if _, ok := p.expect(token.RPAREN, "')'"); !ok {
			return nil
		}
	default:
		p.errorAt(p.curToken, "expected expression, got %s", describe(p.curToken))
		return nil
	}

	for {
		switch p.curToken.Type {
		case token.LPAREN:
			args, end, ok := p.parseArgs()
			if !ok {
				return nil
			}
			base = &ast.Call{Base: ast.Base{Span: base.Meta().Span.To(end.Span)}, Callee: base, Args: args}
		case token.DOT:
			p.nextToken()
			name, ok := p.expect(token.IDENT, "property name")
			if !ok {
				return nil
			}
			base = &ast.GetProp{Base: ast.Base{Span: base.Meta().Span.To(name.Span)}, Object: base, Name: name.Lexeme}
		default:
			return base
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Node, token.Token, bool) {
	if _, ok := p.expect(token.LPAREN, "'('"); !ok {
		return nil, token.Token{}, false
	}
	args := []ast.Node{}
	p.skipNewlines()
	for !p.curTokenIs(token.RPAREN) {
		arg := p.parseExpression()
		if arg == nil {
			return nil, token.Token{}, false
		}
		args = append(args, arg)
		p.skipNewlines()
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.skipNewlines()
	}
	end, ok := p.expect(token.RPAREN, "',' or ')'")
	return args, end, ok
}

func (p *Parser) parseVarDef() ast.Node {
	letTok := p.curToken
	p.nextToken()
	name, ok := p.expect(token.IDENT, "variable name")
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.ASSIGN, "'='"); !ok {
		return nil
	}
	p.skipNewlines()
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	span := letTok.Span.To(value.Meta().Span)

	// A lambda bound with let becomes a named function so it can call
	// itself.
	if lambda, ok := value.(*ast.Lambda); ok {
		return &ast.FunctionDef{
			Base:       ast.Base{Span: span},
			Name:       name.Lexeme,
			NameSpan:   name.Span,
			Params:     lambda.Params,
			ReturnType: lambda.ReturnType,
			Body:       lambda.Body,
		}
	}
	return &ast.VarDef{Base: ast.Base{Span: span}, Name: name.Lexeme, NameSpan: name.Span, Value: value}
}

func (p *Parser) parseAssignment() ast.Node {
	name := p.curToken
	p.nextToken()
	if _, ok := p.expect(token.ASSIGN, "'='"); !ok {
		return nil
	}
	p.skipNewlines()
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	return &ast.Assignment{Base: ast.Base{Span: name.Span.To(value.Meta().Span)}, Name: name.Lexeme, Value: value}
}

func (p *Parser) parseIf() ast.Node {
	ifTok := p.curToken
	p.nextToken()
	if _, ok := p.expect(token.LPAREN, "'(' after if"); !ok {
		return nil
	}
	p.skipNewlines()
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	p.skipNewlines()
	if _, ok := p.expect(token.RPAREN, "')'"); !ok {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}

	p.skipNewlinesBefore(token.ELSE)
	if _, ok := p.expect(token.ELSE, "'else'"); !ok {
		return nil
	}

	var els *ast.Block
	if p.curTokenIs(token.IF) {
		nested := p.parseIf()
		if nested == nil {
			return nil
		}
		els = &ast.Block{Base: ast.Base{Span: nested.Meta().Span}, Exprs: []ast.Node{nested}}
	} else {
		els = p.parseBlock()
		if els == nil {
			return nil
		}
	}

	return &ast.If{Base: ast.Base{Span: ifTok.Span.To(els.Span)}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseBlock() *ast.Block {
	lbrace, ok := p.expect(token.LBRACE, "'{'")
	if !ok {
		return nil
	}
	block := &ast.Block{Exprs: []ast.Node{}}
	p.skipSeparators()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.errorAt(p.curToken, "expected '}', got end of input")
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Exprs = append(block.Exprs, stmt)
		if !p.endOfStatement(token.RBRACE) {
			return nil
		}
		p.skipSeparators()
	}
	rbrace := p.curToken
	p.nextToken()
	block.Span = lbrace.Span.To(rbrace.Span)
	return block
}
