package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE"

	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	STRING TokenType = "STRING"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	CARET    TokenType = "^"
	EQ       TokenType = "=="
	LT       TokenType = "<"
	GT       TokenType = ">"
	LTE      TokenType = "<="
	GTE      TokenType = ">="
	AND      TokenType = "&&"
	OR       TokenType = "||"
	ARROW    TokenType = "=>"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"

	// Keywords
	LET   TokenType = "LET"
	FUN   TokenType = "FUN"
	CLASS TokenType = "CLASS"
	PROP  TokenType = "PROP"
	IF    TokenType = "IF"
	ELSE  TokenType = "ELSE"
	TRUE  TokenType = "TRUE"
	FALSE TokenType = "FALSE"
)

var keywords = map[string]TokenType{
	"let":   LET,
	"fun":   FUN,
	"class": CLASS,
	"prop":  PROP,
	"if":    IF,
	"else":  ELSE,
	"true":  TRUE,
	"false": FALSE,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Position is a location in source text. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers the source text [Start, End).
type Span struct {
	Start Position
	End   Position
}

// To returns the span from the start of s to the end of other.
func (s Span) To(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

// IsZero reports whether the span carries no position.
func (s Span) IsZero() bool {
	return s.Start.Line == 0
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

type Token struct {
	Type   TokenType
	Lexeme string
	Span   Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.Type, t.Lexeme, t.Span.Start)
}
