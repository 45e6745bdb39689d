package analyzer

import (
	"testing"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/symbols"
)

func TestSymbolOf(t *testing.T) {
	prog, _ := mustAnalyze(t, "class C {\n prop a: int\n}\nlet i = C()\ni.a = 1\nfun f(p) { p.a }\ni.a")

	class := find(prog, func(n *ast.ClassDef) bool { return true })
	classSym, declares := SymbolOf(class)
	if !declares || classSym.Kind() != symbols.ClassSymbol {
		t.Fatalf("class_def: got %v, %v", classSym, declares)
	}

	decl := find(prog, func(n *ast.PropDecl) bool { return true })
	prop, declares := SymbolOf(decl)
	if !declares || prop.Kind() != symbols.PropertySymbol {
		t.Fatalf("prop_decl: got %v, %v", prop, declares)
	}

	for _, get := range findAll[*ast.GetProp](prog) {
		sym, declares := SymbolOf(get)
		if declares {
			t.Errorf("get_prop at %s reported as a declaration", get.Span)
		}
		if ref, ok := get.Object.(*ast.Ref); ok && ref.Name == "p" {
			if sym != nil {
				t.Errorf("member of any-typed value resolved to %v", sym)
			}
			continue
		}
		if sym != prop {
			t.Errorf("get_prop at %s resolved to %v, want the declared property", get.Span, sym)
		}
	}

	set := find(prog, func(n *ast.SetProp) bool { return true })
	if sym, _ := SymbolOf(set); sym != prop {
		t.Errorf("set_prop resolved to %v", sym)
	}

	lit := find(prog, func(n *ast.IntegerLiteral) bool { return true })
	if sym, _ := SymbolOf(lit); sym != nil {
		t.Errorf("literal resolved to %v", sym)
	}
}
