package prettyprinter

import (
	"strings"
	"testing"

	"github.com/ddfreyne/clarke/internal/analyzer"
	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/lexer"
	"github.com/ddfreyne/clarke/internal/parser"
	"github.com/ddfreyne/clarke/internal/symbols"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(input).Tokenize())
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse %q: %v", input, errs[0])
	}
	return prog
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"precedence kept", "1 + 2 * 3", "1 + 2 * 3\n"},
		{"grouping kept", "(1 + 2) * 3", "(1 + 2) * 3\n"},
		{"redundant parens dropped", "1 + (2 * 3)", "1 + 2 * 3\n"},
		{"right assoc", "2 ^ 3 ^ 2", "2 ^ 3 ^ 2\n"},
		{"right assoc grouped left", "(2 ^ 3) ^ 2", "(2 ^ 3) ^ 2\n"},
		{"left assoc grouped right", "10 - (4 - 3)", "10 - (4 - 3)\n"},
		{"string escapes", `let s = "a\"b\n"`, `let s = "a\"b\n"` + "\n"},
		{"statements", "let a = 1; a = 2", "let a = 1\na = 2\n"},
		{"empty block", "{}", "{}\n"},
		{
			"else if chain",
			"if (x) { 1 } else if (y) { 2 } else { 3 }",
			"if (x) {\n    1\n} else if (y) {\n    2\n} else {\n    3\n}\n",
		},
		{
			"class",
			"class C {\n prop a: int\n fun get(): int { this.a }\n}",
			"class C {\n    prop a: int\n    fun get(): int {\n        this.a\n    }\n}\n",
		},
		{
			"arrow lambda",
			"a.each((x) => print(x))",
			"a.each(fun(x) {\n    print(x)\n})\n",
		},
		{"set prop", "this.a = 5", "this.a = 5\n"},
		{"call on call", "f(1)(2)", "f(1)(2)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(parse(t, tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Format mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	src := strings.Join([]string{
		"class Counter {",
		"  prop n: int",
		"  fun init() { this.n = 0 }",
		"  fun inc() { this.n = this.n + 1 }",
		"}",
		"let c = Counter()",
		"let f = (x: int): int => x * (x - 1)",
		"if (c.n > 0 && true) { f(1) } else { 2 ^ 2 ^ 2 }",
	}, "\n")

	once := Format(parse(t, src))
	twice := Format(parse(t, once))
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second Format differs (-first +second):\n%s", diff)
	}
}

func TestDump(t *testing.T) {
	prog := parse(t, "let x = 1\nx + 2")
	if err := analyzer.Analyze(prog, symbols.NewPrelude()); err != nil {
		t.Fatal(err)
	}

	out, err := Dump(prog, DumpOptions{})
	if err != nil {
		t.Fatal(err)
	}

	var root dumpNode
	if err := yaml.Unmarshal(out, &root); err != nil {
		t.Fatalf("dump is not valid YAML: %v\n%s", err, out)
	}
	if root.Kind != "program" || len(root.Children) != 2 {
		t.Fatalf("unexpected root: %+v", root)
	}

	def := root.Children[0]
	want := &dumpSymbol{Name: "x", Kind: "variable", Declares: true}
	if diff := cmp.Diff(want, def.Symbol); diff != "" {
		t.Errorf("var_def symbol mismatch (-want +got):\n%s", diff)
	}
	if def.Type != "int" {
		t.Errorf("var_def type = %q, want int", def.Type)
	}

	sum := root.Children[1]
	if sum.Kind != "infix" || sum.Value != "+" || sum.Type != "int" {
		t.Errorf("unexpected infix: %+v", sum)
	}
	ref := sum.Children[0]
	if ref.Symbol == nil || ref.Symbol.Name != "x" || ref.Symbol.Declares {
		t.Errorf("ref symbol = %+v", ref.Symbol)
	}
	if strings.Contains(string(out), "id:") {
		t.Errorf("symbol ids present without SymbolIDs:\n%s", out)
	}
}

func TestDumpSymbolIDsShared(t *testing.T) {
	prog := parse(t, "let x = 1\nx")
	if err := analyzer.Analyze(prog, symbols.NewPrelude()); err != nil {
		t.Fatal(err)
	}

	out, err := Dump(prog, DumpOptions{SymbolIDs: true})
	if err != nil {
		t.Fatal(err)
	}
	var root dumpNode
	if err := yaml.Unmarshal(out, &root); err != nil {
		t.Fatal(err)
	}
	decl, ref := root.Children[0].Symbol, root.Children[1].Symbol
	if decl.ID == "" || decl.ID != ref.ID {
		t.Errorf("declaration id %q, reference id %q; want equal and non-empty", decl.ID, ref.ID)
	}
}
