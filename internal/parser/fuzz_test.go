package parser

import (
	"testing"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/lexer"
)

// FuzzParser checks that arbitrary input never panics the parser, that
// every syntax error carries a position and that successful parses yield
// a walkable tree.
func FuzzParser(f *testing.F) {
	f.Add("let x = 1 + 2 * 3")
	f.Add("fun f(a: int): int { if (a > 0) { a } else { 0 - a } }")
	f.Add("class C { prop a\n fun init() { this.a = 1 } }")
	f.Add("let g = (x) => x\ng(1)(2).h")
	f.Add("1 +")
	f.Add("\"unterminated")
	f.Add("{ { { }")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 2000 {
			return
		}
		p := New(lexer.New(input).Tokenize())
		prog := p.ParseProgram()
		if errs := p.Errors(); len(errs) > 0 {
			for _, err := range errs {
				if err.Span.IsZero() {
					t.Errorf("syntax error without a position: %v", err)
				}
			}
			return
		}
		ast.Inspect(prog, func(n ast.Node) bool {
			ast.KindOf(n)
			return true
		})
	})
}
