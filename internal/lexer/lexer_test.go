package lexer

import (
	"testing"

	"github.com/ddfreyne/clarke/internal/token"
	"github.com/google/go-cmp/cmp"
)

type tokSummary struct {
	Type   token.TokenType
	Lexeme string
}

func summarize(tokens []token.Token) []tokSummary {
	out := make([]tokSummary, len(tokens))
	for i, tok := range tokens {
		out[i] = tokSummary{tok.Type, tok.Lexeme}
	}
	return out
}

func TestNextToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokSummary
	}{
		{
			name:  "let",
			input: "let x = 5",
			want: []tokSummary{
				{token.LET, "let"},
				{token.IDENT, "x"},
				{token.ASSIGN, "="},
				{token.INT, "5"},
				{token.EOF, ""},
			},
		},
		{
			name:  "operators",
			input: "+ - * / ^ == > < >= <= && || =>",
			want: []tokSummary{
				{token.PLUS, "+"},
				{token.MINUS, "-"},
				{token.ASTERISK, "*"},
				{token.SLASH, "/"},
				{token.CARET, "^"},
				{token.EQ, "=="},
				{token.GT, ">"},
				{token.LT, "<"},
				{token.GTE, ">="},
				{token.LTE, "<="},
				{token.AND, "&&"},
				{token.OR, "||"},
				{token.ARROW, "=>"},
				{token.EOF, ""},
			},
		},
		{
			name:  "class",
			input: "class Foo {\n  prop a: int\n}",
			want: []tokSummary{
				{token.CLASS, "class"},
				{token.IDENT, "Foo"},
				{token.LBRACE, "{"},
				{token.NEWLINE, "\n"},
				{token.PROP, "prop"},
				{token.IDENT, "a"},
				{token.COLON, ":"},
				{token.IDENT, "int"},
				{token.NEWLINE, "\n"},
				{token.RBRACE, "}"},
				{token.EOF, ""},
			},
		},
		{
			name:  "comments",
			input: "a # the rest is ignored\nb",
			want: []tokSummary{
				{token.IDENT, "a"},
				{token.NEWLINE, "\n"},
				{token.IDENT, "b"},
				{token.EOF, ""},
			},
		},
		{
			name:  "strings",
			input: `"hi" "say \"x\"" "a\nb"`,
			want: []tokSummary{
				{token.STRING, "hi"},
				{token.STRING, `say "x"`},
				{token.STRING, "a\nb"},
				{token.EOF, ""},
			},
		},
		{
			name:  "unterminated string",
			input: `"abc`,
			want: []tokSummary{
				{token.ILLEGAL, "unterminated string"},
				{token.EOF, ""},
			},
		},
		{
			name:  "illegal",
			input: "a & b $",
			want: []tokSummary{
				{token.IDENT, "a"},
				{token.ILLEGAL, "&"},
				{token.IDENT, "b"},
				{token.ILLEGAL, "$"},
				{token.EOF, ""},
			},
		},
		{
			name:  "keywords and booleans",
			input: "fun if else true false f_2",
			want: []tokSummary{
				{token.FUN, "fun"},
				{token.IF, "if"},
				{token.ELSE, "else"},
				{token.TRUE, "true"},
				{token.FALSE, "false"},
				{token.IDENT, "f_2"},
				{token.EOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarize(New(tt.input).Tokenize())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSpans(t *testing.T) {
	tokens := New("let ab = 1\n  x").Tokenize()

	want := []token.Span{
		{Start: token.Position{Offset: 0, Line: 1, Column: 1}, End: token.Position{Offset: 3, Line: 1, Column: 4}},
		{Start: token.Position{Offset: 4, Line: 1, Column: 5}, End: token.Position{Offset: 6, Line: 1, Column: 7}},
		{Start: token.Position{Offset: 7, Line: 1, Column: 8}, End: token.Position{Offset: 8, Line: 1, Column: 9}},
		{Start: token.Position{Offset: 9, Line: 1, Column: 10}, End: token.Position{Offset: 10, Line: 1, Column: 11}},
		{Start: token.Position{Offset: 10, Line: 1, Column: 11}, End: token.Position{Offset: 11, Line: 2, Column: 1}},
		{Start: token.Position{Offset: 13, Line: 2, Column: 3}, End: token.Position{Offset: 14, Line: 2, Column: 4}},
	}

	for i, w := range want {
		if diff := cmp.Diff(w, tokens[i].Span); diff != "" {
			t.Errorf("token %d (%s) span mismatch (-want +got):\n%s", i, tokens[i].Lexeme, diff)
		}
	}
	if last := tokens[len(tokens)-1]; last.Type != token.EOF {
		t.Errorf("last token = %s, want EOF", last.Type)
	}
}
