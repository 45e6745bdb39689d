package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOperatorFor(t *testing.T) {
	for _, lexeme := range []string{"+", "-", "*", "/", "^", "==", ">", "<", ">=", "<=", "&&", "||"} {
		op, ok := OperatorFor(lexeme)
		if !ok {
			t.Errorf("OperatorFor(%q) not found", lexeme)
			continue
		}
		if op.String() != lexeme {
			t.Errorf("OperatorFor(%q).String() = %q", lexeme, op.String())
		}
	}
	if _, ok := OperatorFor("%"); ok {
		t.Errorf("%% is not an operator")
	}
}

func TestInspectOrder(t *testing.T) {
	// let x = 1 + 2; f(x)
	prog := &Program{Statements: []Node{
		&VarDef{Name: "x", Value: &Infix{
			Operator: OpAdd,
			Left:     &IntegerLiteral{Value: 1},
			Right:    &IntegerLiteral{Value: 2},
		}},
		&Call{Callee: &Ref{Name: "f"}, Args: []Node{&Ref{Name: "x"}}},
	}}

	var kinds []string
	Inspect(prog, func(n Node) bool {
		kinds = append(kinds, KindOf(n))
		return true
	})

	want := []string{"program", "var_def", "infix", "integer", "integer", "call", "ref", "ref"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("Inspect order mismatch (-want +got):\n%s", diff)
	}
}

func TestInspectSkip(t *testing.T) {
	fn := &FunctionDef{
		Name:   "f",
		Params: []*Param{{Name: "a"}},
		Body:   &Block{Exprs: []Node{&Ref{Name: "a"}}},
	}
	count := 0
	Inspect(fn, func(n Node) bool {
		count++
		_, isFn := n.(*FunctionDef)
		return !isFn
	})
	if count != 1 {
		t.Errorf("visited %d nodes, want 1", count)
	}
}

func TestMetaIsShared(t *testing.T) {
	ref := &Ref{Name: "x"}
	var n Node = ref
	n.Meta().Span.Start.Line = 4
	if ref.Span.Start.Line != 4 {
		t.Errorf("Meta() must point at the node's own annotations")
	}
}
