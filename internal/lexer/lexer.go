package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ddfreyne/clarke/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.readPosition = len(l.input) + 1
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.readPosition += w
	}
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) pos() token.Position {
	offset := l.position
	if offset > len(l.input) {
		offset = len(l.input)
	}
	return token.Position{Offset: offset, Line: l.line, Column: l.column}
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token, or EOF forever once the input is
// exhausted.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	start := l.pos()
	if l.atEOF() {
		return token.Token{Type: token.EOF, Span: token.Span{Start: start, End: start}}
	}

	switch l.ch {
	case '\n':
		return l.single(token.NEWLINE, start)
	case '=':
		switch l.peekChar() {
		case '=':
			return l.double(token.EQ, start)
		case '>':
			return l.double(token.ARROW, start)
		}
		return l.single(token.ASSIGN, start)
	case '<':
		if l.peekChar() == '=' {
			return l.double(token.LTE, start)
		}
		return l.single(token.LT, start)
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.GTE, start)
		}
		return l.single(token.GT, start)
	case '&':
		if l.peekChar() == '&' {
			return l.double(token.AND, start)
		}
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.OR, start)
		}
	case '+':
		return l.single(token.PLUS, start)
	case '-':
		return l.single(token.MINUS, start)
	case '*':
		return l.single(token.ASTERISK, start)
	case '/':
		return l.single(token.SLASH, start)
	case '^':
		return l.single(token.CARET, start)
	case ',':
		return l.single(token.COMMA, start)
	case ';':
		return l.single(token.SEMICOLON, start)
	case ':':
		return l.single(token.COLON, start)
	case '.':
		return l.single(token.DOT, start)
	case '(':
		return l.single(token.LPAREN, start)
	case ')':
		return l.single(token.RPAREN, start)
	case '{':
		return l.single(token.LBRACE, start)
	case '}':
		return l.single(token.RBRACE, start)
	case '"':
		return l.readString(start)
	default:
		if isLetter(l.ch) {
			ident := l.readWhile(isIdentChar)
			return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Span: token.Span{Start: start, End: l.pos()}}
		}
		if isDigit(l.ch) {
			num := l.readWhile(isDigit)
			return token.Token{Type: token.INT, Lexeme: num, Span: token.Span{Start: start, End: l.pos()}}
		}
	}
	return l.single(token.ILLEGAL, start)
}

// Tokenize returns all tokens up to and including EOF.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) single(t token.TokenType, start token.Position) token.Token {
	lexeme := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Lexeme: lexeme, Span: token.Span{Start: start, End: l.pos()}}
}

func (l *Lexer) double(t token.TokenType, start token.Position) token.Token {
	lexeme := string(l.ch)
	l.readChar()
	lexeme += string(l.ch)
	l.readChar()
	return token.Token{Type: t, Lexeme: lexeme, Span: token.Span{Start: start, End: l.pos()}}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '#':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readWhile(pred func(rune) bool) string {
	from := l.position
	for !l.atEOF() && pred(l.ch) {
		l.readChar()
	}
	return l.input[from:l.position]
}

// readString reads a double-quoted string. The token's Lexeme is the decoded
// contents. An unterminated string yields an ILLEGAL token.
func (l *Lexer) readString(start token.Position) token.Token {
	var sb strings.Builder
	l.readChar() // opening quote
	for {
		if l.atEOF() {
			return token.Token{Type: token.ILLEGAL, Lexeme: "unterminated string", Span: token.Span{Start: start, End: l.pos()}}
		}
		if l.ch == '"' {
			l.readChar()
			return token.Token{Type: token.STRING, Lexeme: sb.String(), Span: token.Span{Start: start, End: l.pos()}}
		}
		if l.ch == '\\' {
			switch l.peekChar() {
			case '"':
				sb.WriteRune('"')
				l.readChar()
			case '\\':
				sb.WriteRune('\\')
				l.readChar()
			case 'n':
				sb.WriteRune('\n')
				l.readChar()
			case 't':
				sb.WriteRune('\t')
				l.readChar()
			default:
				sb.WriteRune('\\')
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentChar(ch rune) bool {
	return isLetter(ch) || isDigit(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
