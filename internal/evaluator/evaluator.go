package evaluator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/symbols"
)

// Evaluator walks an analyzed tree. It is not safe for concurrent use; run
// one Evaluator per program.
type Evaluator struct {
	// Out receives the output of print.
	Out io.Writer

	// MaxCallDepth bounds the number of active calls. 0 means no limit.
	MaxCallDepth int

	// Context, if set, is checked on every call so a long-running program
	// can be cancelled.
	Context context.Context

	callDepth int
}

func New() *Evaluator {
	return &Evaluator{
		Out:          os.Stdout,
		MaxCallDepth: config.DefaultMaxCallDepth,
	}
}

// Run evaluates prog in a fresh global environment seeded from prelude.
func (e *Evaluator) Run(prog *ast.Program, prelude *symbols.Prelude) (Object, error) {
	return e.Eval(prog, NewGlobalEnvironment(prelude))
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) (Object, error) {
	switch node := node.(type) {
	case *ast.Program:
		return e.evalSequence(node.Statements, env)

	case *ast.Block:
		return e.evalSequence(node.Exprs, NewEnclosedEnvironment(env))

	case *ast.IntegerLiteral:
		return NewInteger(node.Value), nil

	case *ast.StringLiteral:
		return &String{Value: node.Value}, nil

	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value), nil

	case *ast.Ref:
		return e.evalRef(node, env)

	case *ast.VarDef:
		val, err := e.Eval(node.Value, env)
		if err != nil {
			return nil, err
		}
		return env.Declare(resolve(node.Scope, node.Name), val), nil

	case *ast.Assignment:
		val, err := e.Eval(node.Value, env)
		if err != nil {
			return nil, err
		}
		if !env.Assign(resolve(node.Scope, node.Name), val) {
			return nil, diagnostics.NewError(diagnostics.NameError, node.Span, "%s: no such name", node.Name)
		}
		return val, nil

	case *ast.If:
		return e.evalIf(node, env)

	case *ast.Infix:
		left, err := e.Eval(node.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := e.Eval(node.Right, env)
		if err != nil {
			return nil, err
		}
		return e.evalInfix(node, left, right)

	case *ast.FunctionDef:
		fn := node.Type.(*symbols.Function)
		return env.Declare(fn, &Function{Symbol: fn, Body: node.Body, Env: env, Scope: node.Scope}), nil

	case *ast.Lambda:
		fn := node.Type.(*symbols.Function)
		return &Function{Symbol: fn, Body: node.Body, Env: env, Scope: node.Scope}, nil

	case *ast.Call:
		return e.evalCall(node, env)

	case *ast.ClassDef:
		return e.evalClassDef(node, env), nil

	case *ast.GetProp:
		return e.evalGetProp(node, env)

	case *ast.SetProp:
		return e.evalSetProp(node, env)

	default:
		panic(fmt.Sprintf("internal error: cannot evaluate %T", node))
	}
}

func (e *Evaluator) evalSequence(nodes []ast.Node, env *Environment) (Object, error) {
	var result Object = NULL
	for _, n := range nodes {
		var err error
		result, err = e.Eval(n, env)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (e *Evaluator) evalRef(node *ast.Ref, env *Environment) (Object, error) {
	val, ok := env.Get(resolve(node.Scope, node.Name))
	if !ok {
		return nil, diagnostics.NewError(diagnostics.NameError, node.Span, "%s: no such name", node.Name)
	}
	return val, nil
}

func (e *Evaluator) evalIf(node *ast.If, env *Environment) (Object, error) {
	cond, err := e.Eval(node.Cond, env)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(*Boolean)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.TypeError, node.Cond.Meta().Span,
			"expected bool, but got %s", describe(cond))
	}
	if b.Value {
		return e.Eval(node.Then, env)
	}
	return e.Eval(node.Else, env)
}

// evalClassDef creates the class value. Methods close over the class's own
// environment, which encloses the defining environment.
func (e *Evaluator) evalClassDef(node *ast.ClassDef, env *Environment) Object {
	sym := node.Type.(*symbols.Class)
	class := &Class{Symbol: sym, Name: sym.Name(), Env: NewEnclosedEnvironment(env), Scope: sym.Scope}
	env.Declare(sym, class)
	for _, m := range node.Members {
		fnDef, ok := m.(*ast.FunctionDef)
		if !ok {
			continue
		}
		fn := fnDef.Type.(*symbols.Function)
		class.Env.Declare(fn, &Function{Symbol: fn, Body: fnDef.Body, Env: class.Env, Scope: fnDef.Scope})
	}
	return class
}

func resolve(scope *symbols.Scope, name string) symbols.Symbol {
	if scope == nil {
		panic(fmt.Sprintf("internal error: %s has no scope; was the tree analyzed?", name))
	}
	sym, err := scope.Resolve(name)
	if err != nil {
		panic(fmt.Sprintf("internal error: %v after analysis", err))
	}
	return sym
}
