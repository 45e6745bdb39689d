package analyzer

import (
	"fmt"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/symbols"
)

// CollectSymbols mints a symbol for every declaration and stamps every node
// with the scope it appears in. Top-level declarations go straight into
// the prelude's global frame, so they cannot redefine built-ins.
func CollectSymbols(prog *ast.Program, prelude *symbols.Prelude) error {
	c := &collector{}
	_, err := c.visit(prog, prelude.Scope)
	return err
}

type collector struct{}

// visit stamps n and returns the scope that following siblings see.
func (c *collector) visit(n ast.Node, scope *symbols.Scope) (*symbols.Scope, error) {
	switch n := n.(type) {
	case *ast.Program:
		n.Scope = scope
		return c.visitSequence(n.Statements, scope)

	case *ast.Block:
		n.Scope = scope
		if _, err := c.visitSequence(n.Exprs, scope.PushLocal()); err != nil {
			return scope, err
		}
		return scope, nil

	case *ast.IntegerLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.Ref:
		n.Meta().Scope = scope
		return scope, nil

	case *ast.VarDef:
		if err := c.visitAll(scope, n.Value); err != nil {
			return scope, err
		}
		next, err := scope.Define(symbols.NewVariable(n.Name, n.NameSpan))
		if err != nil {
			return scope, diagnostics.Wrap(err, n.NameSpan)
		}
		n.Scope = next
		return next, nil

	case *ast.Assignment:
		n.Scope = scope
		return scope, c.visitAll(scope, n.Value)

	case *ast.If:
		n.Scope = scope
		return scope, c.visitAll(scope, n.Cond, n.Then, n.Else)

	case *ast.Infix:
		n.Scope = scope
		return scope, c.visitAll(scope, n.Left, n.Right)

	case *ast.Call:
		n.Scope = scope
		return scope, c.visitAll(scope, append([]ast.Node{n.Callee}, n.Args...)...)

	case *ast.GetProp:
		n.Scope = scope
		return scope, c.visitAll(scope, n.Object)

	case *ast.SetProp:
		n.Scope = scope
		return scope, c.visitAll(scope, n.Object, n.Value)

	case *ast.FunctionDef:
		return c.visitFunctionDef(n, scope, nil)

	case *ast.Lambda:
		fn := symbols.NewFunction(config.AnonymousFnName, n.Span)
		n.Scope = scope
		n.Type = fn
		return scope, c.visitFunctionBody(fn, n.Params, n.Body, scope)

	case *ast.ClassDef:
		return c.visitClassDef(n, scope)

	case *ast.PropDecl, *ast.Param:
		panic(fmt.Sprintf("internal error: %T outside of its parent", n))

	default:
		panic(fmt.Sprintf("internal error: unhandled node %T", n))
	}
}

func (c *collector) visitSequence(nodes []ast.Node, scope *symbols.Scope) (*symbols.Scope, error) {
	for _, n := range nodes {
		var err error
		scope, err = c.visit(n, scope)
		if err != nil {
			return scope, err
		}
	}
	return scope, nil
}

// visitAll visits nodes in a position where declarations do not leak to
// siblings.
func (c *collector) visitAll(scope *symbols.Scope, nodes ...ast.Node) error {
	for _, n := range nodes {
		if _, err := c.visit(n, scope); err != nil {
			return err
		}
	}
	return nil
}

// visitFunctionDef defines the function in the enclosing scope before its
// body is visited, so the body can call it recursively.
func (c *collector) visitFunctionDef(n *ast.FunctionDef, scope *symbols.Scope, owner *symbols.Class) (*symbols.Scope, error) {
	fn := symbols.NewFunction(n.Name, n.NameSpan)
	fn.Owner = owner
	next, err := scope.Define(fn)
	if err != nil {
		return scope, diagnostics.Wrap(err, n.NameSpan)
	}
	n.Scope = next
	n.Type = fn
	return next, c.visitFunctionBody(fn, n.Params, n.Body, next)
}

func (c *collector) visitFunctionBody(fn *symbols.Function, params []*ast.Param, body *ast.Block, scope *symbols.Scope) error {
	local := scope.PushLocal()
	for _, p := range params {
		v := symbols.NewVariable(p.Name, p.Span)
		var err error
		local, err = local.Define(v)
		if err != nil {
			return diagnostics.Wrap(err, p.Span)
		}
		p.Scope = local
		fn.Params = append(fn.Params, v)
	}
	_, err := c.visit(body, local)
	return err
}

func (c *collector) visitClassDef(n *ast.ClassDef, scope *symbols.Scope) (*symbols.Scope, error) {
	class := symbols.NewClass(n.Name, n.NameSpan)
	next, err := scope.Define(class)
	if err != nil {
		return scope, diagnostics.Wrap(err, n.NameSpan)
	}
	n.Scope = next
	n.Type = class

	cs := next.PushClass(class)
	class.This = symbols.NewVariable(config.ThisName, n.NameSpan)
	class.This.Type = &symbols.InstanceType{Class: class}
	cs, err = cs.Define(class.This)
	if err != nil {
		return next, diagnostics.Wrap(err, n.NameSpan)
	}

	for _, m := range n.Members {
		switch m := m.(type) {
		case *ast.FunctionDef:
			cs, err = c.visitFunctionDef(m, cs, class)
			if err != nil {
				return next, err
			}
		case *ast.PropDecl:
			prop := symbols.NewProperty(m.Name, m.Span)
			prop.Owner = class
			cs, err = cs.Define(prop)
			if err != nil {
				return next, diagnostics.Wrap(err, m.Span)
			}
			m.Scope = cs
			class.Props = append(class.Props, prop)
		default:
			panic(fmt.Sprintf("internal error: unexpected class member %T", m))
		}
	}
	class.Scope = cs
	return next, nil
}
