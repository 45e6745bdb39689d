package prettyprinter

import (
	"testing"

	"github.com/ddfreyne/clarke/internal/lexer"
	"github.com/ddfreyne/clarke/internal/parser"
)

// FuzzFormat verifies that the code printer is idempotent.
// code1 = print(ast1)
// ast2 = parse(code1)
// code2 = print(ast2)
// code1 == code2
func FuzzFormat(f *testing.F) {
	f.Add("let x = 1 + 2 * 3")
	f.Add("if (a) { 1 } else if (b) { 2 } else { 3 }")
	f.Add("class C {\n prop a: int\n fun m(x: int): int { this.a + x }\n}")
	f.Add("a.each((x) => print(x))")
	f.Add("(2 ^ 3) ^ 2 - (1 - 1)")
	f.Add(`let s = "tab\there"`)

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 2000 {
			return
		}
		p1 := parser.New(lexer.New(input).Tokenize())
		prog1 := p1.ParseProgram()
		if len(p1.Errors()) > 0 {
			return
		}
		code1 := Format(prog1)

		p2 := parser.New(lexer.New(code1).Tokenize())
		prog2 := p2.ParseProgram()
		if errs := p2.Errors(); len(errs) > 0 {
			t.Fatalf("Formatter produced invalid code:\n%s\nErrors: %v", code1, errs)
		}
		if code2 := Format(prog2); code1 != code2 {
			t.Errorf("Formatter instability:\nPass 1:\n%s\nPass 2:\n%s", code1, code2)
		}
	})
}
