package parser

import (
	"fmt"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/token"
)

// Parser is a recursive-descent parser over a complete token slice. Parse
// functions return nil after recording an error; the first error ends the
// parse.
type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.Error
}

// New creates a parser. tokens must end with an EOF token.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF})
	}
	p := &Parser{tokens: tokens, pos: -1}
	p.nextToken()
	return p
}

func (p *Parser) Errors() []*diagnostics.Error {
	return p.errors
}

func (p *Parser) at(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.at(p.pos)
	p.peekToken = p.at(p.pos + 1)
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expect consumes the current token if it has type t.
func (p *Parser) expect(t token.TokenType, what string) (token.Token, bool) {
	tok := p.curToken
	if tok.Type != t {
		p.errorAt(tok, "expected %s, got %s", what, describe(tok))
		return tok, false
	}
	p.nextToken()
	return tok, true
}

func (p *Parser) errorAt(tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewError(diagnostics.SyntaxError, tok.Span, fmt.Sprintf(format, args...)))
}

func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

func (p *Parser) skipSeparators() {
	for p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// skipNewlinesBefore skips newlines only if the first token after them has
// type t, so that e.g. `else` may start a new line.
func (p *Parser) skipNewlinesBefore(t token.TokenType) {
	i := p.pos
	for p.at(i).Type == token.NEWLINE {
		i++
	}
	if p.at(i).Type == t {
		p.skipNewlines()
	}
}

// endOfStatement checks that a statement is followed by a separator or by
// closer, without consuming either.
func (p *Parser) endOfStatement(closer token.TokenType) bool {
	switch p.curToken.Type {
	case token.NEWLINE, token.SEMICOLON, closer:
		return true
	}
	p.errorAt(p.curToken, "expected newline or ';' after expression, got %s", describe(p.curToken))
	return false
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.NEWLINE:
		return "newline"
	case token.STRING:
		return fmt.Sprintf("string %q", tok.Lexeme)
	case token.ILLEGAL:
		if tok.Lexeme == "unterminated string" {
			return tok.Lexeme
		}
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

// ParseProgram parses statements up to EOF.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipSeparators()
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt == nil {
			return prog
		}
		prog.Statements = append(prog.Statements, stmt)
		if !p.endOfStatement(token.EOF) {
			return prog
		}
		p.skipSeparators()
	}
	if n := len(prog.Statements); n > 0 {
		prog.Span = prog.Statements[0].Meta().Span.To(prog.Statements[n-1].Meta().Span)
	}
	return prog
}

func (p *Parser) parseStatement() ast.Node {
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.curTokenIs(token.ASSIGN) {
		return expr
	}

	get, ok := expr.(*ast.GetProp)
	if !ok {
		p.errorAt(p.curToken, "can only assign to variables and properties")
		return nil
	}
	p.nextToken()
	p.skipNewlines()
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	return &ast.SetProp{
		Base:   ast.Base{Span: get.Span.To(value.Meta().Span)},
		Object: get.Object,
		Name:   get.Name,
		Value:  value,
	}
}

// parseExpression parses a flat operand/operator sequence and normalizes
// it into a tree of Infix nodes.
func (p *Parser) parseExpression() ast.Node {
	first := p.parseOperand()
	if first == nil {
		return nil
	}
	operands := []ast.Node{first}
	var operators []token.Token

	for isOperator(p.curToken) {
		operators = append(operators, p.curToken)
		p.nextToken()
		p.skipNewlines()
		operand := p.parseOperand()
		if operand == nil {
			return nil
		}
		operands = append(operands, operand)
	}

	if len(operators) == 0 {
		return first
	}
	return normalize(operands, operators)
}
