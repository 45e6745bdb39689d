package analyzer

import (
	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/symbols"
)

// SymbolOf returns the symbol that n declares or refers to in an analyzed
// tree, and whether n declares it. It returns nil for nodes that name no
// symbol, and for member accesses on values of type any.
func SymbolOf(n ast.Node) (sym symbols.Symbol, declares bool) {
	switch n := n.(type) {
	case *ast.VarDef:
		return resolveIn(n.Scope, n.Name), true
	case *ast.Param:
		return resolveIn(n.Scope, n.Name), true
	case *ast.PropDecl:
		return resolveIn(n.Scope, n.Name), true
	case *ast.FunctionDef:
		if fn, ok := n.Type.(*symbols.Function); ok {
			return fn, true
		}
	case *ast.ClassDef:
		if c, ok := n.Type.(*symbols.Class); ok {
			return c, true
		}
	case *ast.Ref:
		return resolveIn(n.Scope, n.Name), false
	case *ast.Assignment:
		return resolveIn(n.Scope, n.Name), false
	case *ast.GetProp:
		return memberOf(n.Object, n.Name), false
	case *ast.SetProp:
		return memberOf(n.Object, n.Name), false
	}
	return nil, false
}

func resolveIn(scope *symbols.Scope, name string) symbols.Symbol {
	if scope == nil {
		return nil
	}
	sym, err := scope.Resolve(name)
	if err != nil {
		return nil
	}
	return sym
}

func memberOf(object ast.Node, name string) symbols.Symbol {
	inst, ok := object.Meta().Type.(*symbols.InstanceType)
	if !ok {
		return nil
	}
	sym, err := inst.Class.Scope.ResolveMember(name)
	if err != nil {
		return nil
	}
	return sym
}
