package symbols

import (
	"errors"
	"testing"

	"github.com/ddfreyne/clarke/internal/token"
)

// ============================================================================
// Table
// ============================================================================

func TestTableDefineIsPersistent(t *testing.T) {
	t0 := NewTable()
	a := NewVariable("a", token.Span{})

	t1, err := t0.Define(a)
	if err != nil {
		t.Fatalf("Define() error: %v", err)
	}

	if _, err := t0.Resolve("a"); err == nil {
		t.Errorf("original table must not see a later definition")
	}
	got, err := t1.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != a {
		t.Errorf("Resolve() returned a different symbol")
	}
}

func TestTableDoubleName(t *testing.T) {
	tbl, _ := NewTable().Define(NewVariable("a", token.Span{}))

	_, err := tbl.Define(NewVariable("a", token.Span{}))
	var dn *DoubleNameError
	if !errors.As(err, &dn) {
		t.Fatalf("expected DoubleNameError, got %v", err)
	}
	if dn.Error() != "a: already defined" {
		t.Errorf("message = %q", dn.Error())
	}
	if dn.Code() != "DoubleNameError" {
		t.Errorf("code = %q", dn.Code())
	}
}

func TestTableShadowingInChildFrame(t *testing.T) {
	outer := NewVariable("x", token.Span{})
	inner := NewVariable("x", token.Span{})

	t1, _ := NewTable().Define(outer)
	t2, err := t1.Push().Define(inner)
	if err != nil {
		t.Fatalf("shadowing in a child frame should be allowed: %v", err)
	}

	if got, _ := t2.Resolve("x"); got != inner {
		t.Errorf("child should resolve the inner symbol")
	}
	if got, _ := t1.Resolve("x"); got != outer {
		t.Errorf("parent should still resolve the outer symbol")
	}
	if t2.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", t2.Depth())
	}
}

func TestTableChildDoesNotSeeLaterParentDefinitions(t *testing.T) {
	t1 := NewTable()
	child := t1.Push()
	t2, _ := t1.Define(NewVariable("late", token.Span{}))

	if _, err := child.Resolve("late"); err == nil {
		t.Errorf("child pushed before the definition must not see it")
	}
	if _, err := t2.Resolve("late"); err != nil {
		t.Errorf("Resolve() error: %v", err)
	}
}

func TestTableResolveMissing(t *testing.T) {
	tbl := NewTable()
	_, err := tbl.Resolve("nope")
	var ne *NameError
	if !errors.As(err, &ne) || ne.Name != "nope" {
		t.Fatalf("expected NameError for nope, got %v", err)
	}
	if ne.Error() != "nope: no such name" {
		t.Errorf("message = %q", ne.Error())
	}

	fallback := NewVariable("fallback", token.Span{})
	if got := tbl.ResolveOr("nope", fallback); got != fallback {
		t.Errorf("ResolveOr() should return the fallback")
	}
}

func TestTableMembersInOrder(t *testing.T) {
	tbl := NewTable()
	names := []string{"c", "a", "b"}
	for _, n := range names {
		var err error
		tbl, err = tbl.Define(NewVariable(n, token.Span{}))
		if err != nil {
			t.Fatal(err)
		}
	}
	members := tbl.Members()
	if len(members) != len(names) {
		t.Fatalf("got %d members, want %d", len(members), len(names))
	}
	for i, m := range members {
		if m.Name() != names[i] {
			t.Errorf("member %d = %s, want %s", i, m.Name(), names[i])
		}
	}
}

// ============================================================================
// Scope
// ============================================================================

func TestScopeKinds(t *testing.T) {
	global := NewGlobalScope()
	if global.Kind() != GlobalScope {
		t.Errorf("kind = %s", global.Kind())
	}
	local := global.PushLocal()
	if local.Kind() != LocalScope || local.Class() != nil {
		t.Errorf("PushLocal() gave %s scope", local.Kind())
	}
	c := NewClass("C", token.Span{})
	cs := local.PushClass(c)
	if cs.Kind() != ClassScope || cs.Class() != c {
		t.Errorf("PushClass() should remember its class")
	}
	defined, err := cs.Define(NewVariable("v", token.Span{}))
	if err != nil {
		t.Fatal(err)
	}
	if defined.Kind() != ClassScope || defined.Class() != c {
		t.Errorf("Define() must keep the scope kind and class")
	}
}

func TestScopeResolveMember(t *testing.T) {
	global := NewGlobalScope()
	outerVar := NewVariable("outer", token.Span{})
	global, _ = global.Define(outerVar)

	c := NewClass("C", token.Span{})
	cs := global.PushClass(c)
	c.This = NewVariable("this", token.Span{})
	cs, _ = cs.Define(c.This)
	prop := NewProperty("a", token.Span{})
	cs, _ = cs.Define(prop)
	c.Scope = cs

	got, err := cs.ResolveMember("a")
	if err != nil || got != prop {
		t.Errorf("ResolveMember(a) = %v, %v", got, err)
	}
	if _, err := cs.ResolveMember("outer"); err == nil {
		t.Errorf("ResolveMember must not look outside the class frame")
	}
	if _, err := cs.ResolveMember("this"); err == nil {
		t.Errorf("this is not a member")
	}
	if _, err := global.ResolveMember("outer"); err == nil {
		t.Errorf("ResolveMember on a non-class scope should fail")
	}
}

// ============================================================================
// Types
// ============================================================================

func TestEqual(t *testing.T) {
	p := NewPrelude()
	c := NewClass("C", token.Span{})
	d := NewClass("D", token.Span{})

	mkFn := func(ret Type, params ...Type) *Function {
		fn := NewFunction("f", token.Span{})
		for _, pt := range params {
			v := NewVariable("p", token.Span{})
			v.Type = pt
			fn.Params = append(fn.Params, v)
		}
		fn.Return = Resolved{Type: ret}
		return fn
	}

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same builtin", p.Int, p.Int, true},
		{"different builtins", p.Int, p.String, false},
		{"any is not int", p.Any, p.Int, false},
		{"same class instances", &InstanceType{Class: c}, &InstanceType{Class: c}, true},
		{"different class instances", &InstanceType{Class: c}, &InstanceType{Class: d}, false},
		{"same signature", mkFn(p.Int, p.Int), mkFn(p.Int, p.Int), true},
		{"different return", mkFn(p.Int, p.Int), mkFn(p.Bool, p.Int), false},
		{"different arity", mkFn(p.Int), mkFn(p.Int, p.Int), false},
		{"unresolved return", NewFunction("g", token.Span{}), NewFunction("h", token.Span{}), false},
		{"nil", nil, p.Int, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFunctionTypeName(t *testing.T) {
	p := NewPrelude()
	if got := p.Print.TypeName(); got != "fun(any): void" {
		t.Errorf("TypeName() = %q", got)
	}
	if got := NewFunction("f", token.Span{}).TypeName(); got != "fun()" {
		t.Errorf("TypeName() = %q", got)
	}
}

func TestReturnTypeStates(t *testing.T) {
	fn := NewFunction("f", token.Span{})
	if _, ok := fn.ReturnType(); ok {
		t.Errorf("a new function's return type should be unresolved")
	}
	p := NewPrelude()
	fn.Return = Resolved{Type: p.Int}
	if got, ok := fn.ReturnType(); !ok || got != p.Int {
		t.Errorf("ReturnType() = %v, %v", got, ok)
	}
}

func TestSymbolIdentity(t *testing.T) {
	a := NewVariable("x", token.Span{})
	b := NewVariable("x", token.Span{})
	if a.ID() == b.ID() {
		t.Errorf("distinct declarations must have distinct ids")
	}
}

// ============================================================================
// Prelude
// ============================================================================

func TestPrelude(t *testing.T) {
	p := NewPrelude()

	for _, name := range []string{"bool", "int", "string", "void", "any", "auto", "print", "Array"} {
		if _, err := p.Scope.Resolve(name); err != nil {
			t.Errorf("prelude is missing %s", name)
		}
	}

	if _, err := p.Scope.Define(NewVariable("print", token.Span{})); err == nil {
		t.Errorf("redefining print in the global frame should fail")
	}
	if _, err := p.Scope.PushLocal().Define(NewVariable("print", token.Span{})); err != nil {
		t.Errorf("shadowing print in a child scope should work: %v", err)
	}

	methods := p.Array.Methods()
	if len(methods) != 3 {
		t.Fatalf("Array has %d methods, want 3", len(methods))
	}
	for _, m := range methods {
		if m.Owner != p.Array {
			t.Errorf("%s is not owned by Array", m.Name())
		}
	}
	if sym, err := p.Array.Scope.ResolveMember("add"); err != nil || sym != p.ArrayAdd {
		t.Errorf("ResolveMember(add) = %v, %v", sym, err)
	}

	if p1, p2 := NewPrelude(), NewPrelude(); p1.Int == p2.Int {
		t.Errorf("each prelude must mint its own symbols")
	}
}
