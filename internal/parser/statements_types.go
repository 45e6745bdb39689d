package parser

import (
	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/token"
)

// parseClassDef parses a class body of methods and property declarations.
func (p *Parser) parseClassDef() ast.Node {
	classTok := p.curToken
	p.nextToken()
	name, ok := p.expect(token.IDENT, "class name")
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.LBRACE, "'{'"); !ok {
		return nil
	}

	class := &ast.ClassDef{Name: name.Lexeme, NameSpan: name.Span, Members: []ast.Node{}}
	p.skipSeparators()
	for !p.curTokenIs(token.RBRACE) {
		var member ast.Node
		switch {
		case p.curTokenIs(token.FUN) && p.peekTokenIs(token.IDENT):
			if fn := p.parseFunctionDef(); fn != nil {
				member = fn
			}
		case p.curTokenIs(token.PROP):
			if prop := p.parsePropDecl(); prop != nil {
				member = prop
			}
		default:
			p.errorAt(p.curToken, "expected method or property declaration, got %s", describe(p.curToken))
		}
		if member == nil {
			return nil
		}
		class.Members = append(class.Members, member)
		if !p.endOfStatement(token.RBRACE) {
			return nil
		}
		p.skipSeparators()
	}
	rbrace := p.curToken
	p.nextToken()
	class.Span = classTok.Span.To(rbrace.Span)
	return class
}

func (p *Parser) parsePropDecl() *ast.PropDecl {
	propTok := p.curToken
	p.nextToken()
	name, ok := p.expect(token.IDENT, "property name")
	if !ok {
		return nil
	}
	prop := &ast.PropDecl{Base: ast.Base{Span: propTok.Span.To(name.Span)}, Name: name.Lexeme}
	if p.curTokenIs(token.COLON) {
		p.nextToken()
		ref := p.parseTypeRef()
		if ref == nil {
			return nil
		}
		prop.TypeAnn = ref
		prop.Span = prop.Span.To(ref.Span)
	}
	return prop
}
