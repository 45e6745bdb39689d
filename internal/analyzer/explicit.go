package analyzer

import (
	"fmt"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/symbols"
)

// ResolveExplicitTypes attaches written type annotations to parameter,
// property and function symbols. Unannotated parameters get any,
// unannotated properties auto and unannotated return types stay
// Unresolved.
func ResolveExplicitTypes(prog *ast.Program, prelude *symbols.Prelude) error {
	r := &typeResolver{prelude: prelude}
	var err error
	ast.Inspect(prog, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		switch n := n.(type) {
		case *ast.FunctionDef:
			err = r.resolveFunction(n.Type.(*symbols.Function), n.Params, n.ReturnType, n.Scope)
		case *ast.Lambda:
			err = r.resolveFunction(n.Type.(*symbols.Function), n.Params, n.ReturnType, n.Scope)
		case *ast.PropDecl:
			err = r.resolveProperty(n)
		}
		return err == nil
	})
	return err
}

type typeResolver struct {
	prelude *symbols.Prelude
}

func (r *typeResolver) resolveFunction(fn *symbols.Function, params []*ast.Param, ret *ast.TypeRef, scope *symbols.Scope) error {
	for i, p := range params {
		fn.Params[i].Type = r.prelude.Any
		if p.TypeAnn == nil {
			continue
		}
		t, err := r.resolve(p.TypeAnn, scope)
		if err != nil {
			return err
		}
		if t != r.prelude.Auto {
			fn.Params[i].Type = t
		}
	}

	if ret == nil {
		return nil
	}
	t, err := r.resolve(ret, scope)
	if err != nil {
		return err
	}
	if t != r.prelude.Auto {
		fn.Return = symbols.Resolved{Type: t}
	}
	return nil
}

func (r *typeResolver) resolveProperty(n *ast.PropDecl) error {
	sym, err := n.Scope.Resolve(n.Name)
	if err != nil {
		panic(fmt.Sprintf("internal error: property %s was not collected", n.Name))
	}
	prop := sym.(*symbols.Property)
	prop.Type = r.prelude.Auto
	if n.TypeAnn == nil {
		return nil
	}
	t, err := r.resolve(n.TypeAnn, n.Scope)
	if err != nil {
		return err
	}
	prop.Type = t
	return nil
}

// resolve looks up a type name. Class names denote instances of the class.
func (r *typeResolver) resolve(ref *ast.TypeRef, scope *symbols.Scope) (symbols.Type, error) {
	sym, err := scope.Resolve(ref.Name)
	if err != nil {
		return nil, diagnostics.Wrap(err, ref.Span)
	}
	switch s := sym.(type) {
	case *symbols.BuiltinType:
		return s, nil
	case *symbols.Class:
		return &symbols.InstanceType{Class: s}, nil
	default:
		return nil, diagnostics.NewError(diagnostics.TypeError, ref.Span,
			"expected a type, but %s is a %s", ref.Name, sym.Kind())
	}
}

