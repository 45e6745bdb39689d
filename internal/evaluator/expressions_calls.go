package evaluator

import (
	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/symbols"
)

func (e *Evaluator) evalCall(node *ast.Call, env *Environment) (Object, error) {
	callee, err := e.Eval(node.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]Object, len(node.Args))
	for i, arg := range node.Args {
		if args[i], err = e.Eval(arg, env); err != nil {
			return nil, err
		}
	}
	return e.apply(callee, args, node)
}

// apply calls fn with already evaluated arguments. call supplies the span
// for errors raised by the call itself.
func (e *Evaluator) apply(fn Object, args []Object, call *ast.Call) (Object, error) {
	switch fn := fn.(type) {
	case *Function:
		return e.applyFunction(fn, args, call)
	case *Class:
		return e.instantiate(fn, args, call)
	default:
		return nil, diagnostics.NewError(diagnostics.NotCallable, call.Callee.Meta().Span, diagnostics.MsgNotCallable)
	}
}

func (e *Evaluator) applyFunction(fn *Function, args []Object, call *ast.Call) (Object, error) {
	params := fn.Symbol.Params
	if len(params) != len(args) {
		return nil, diagnostics.NewError(diagnostics.ArgumentCountError, call.Span,
			"wrong number of arguments: expected %d, but got %d", len(params), len(args))
	}
	// Calls through any-typed values and from each are not checked statically.
	for i, p := range params {
		if !conforms(args[i], p.Type) {
			return nil, diagnostics.NewError(diagnostics.ArgumentTypeMismatch, call.Span,
				"argument has type %s, which is incompatible with parameter type %s", describe(args[i]), p.Type.TypeName())
		}
	}

	if e.MaxCallDepth > 0 && e.callDepth >= e.MaxCallDepth {
		return nil, diagnostics.NewError(diagnostics.RecursionError, call.Span,
			"maximum call depth (%d) exceeded", e.MaxCallDepth)
	}
	if e.Context != nil {
		if err := e.Context.Err(); err != nil {
			return nil, err
		}
	}
	e.callDepth++
	defer func() { e.callDepth-- }()

	if fn.Native != nil {
		return fn.Native(e, fn.Env, args, call)
	}

	env := NewEnclosedEnvironment(fn.Env)
	for i, p := range params {
		env.Declare(p, args[i])
	}
	return e.Eval(fn.Body, env)
}

// instantiate creates an instance of class and runs its init method, if
// any. A class without init takes no arguments.
func (e *Evaluator) instantiate(class *Class, args []Object, call *ast.Call) (Object, error) {
	inst := &Instance{Class: class, Env: NewEnvironment()}

	init, ok := e.method(inst, config.InitMethodName)
	if !ok {
		if len(args) != 0 {
			return nil, diagnostics.NewError(diagnostics.ArgumentCountError, call.Span,
				"wrong number of arguments: expected 0, but got %d", len(args))
		}
		return inst, nil
	}
	if _, err := e.applyFunction(init, args, call); err != nil {
		return nil, err
	}
	return inst, nil
}

// method looks name up among the methods of inst's class and binds it.
func (e *Evaluator) method(inst *Instance, name string) (*Function, bool) {
	sym, err := inst.Class.Scope.ResolveMember(name)
	if err != nil {
		return nil, false
	}
	fn, ok := sym.(*symbols.Function)
	if !ok {
		return nil, false
	}
	val, ok := inst.Class.Env.GetLocal(fn)
	if !ok {
		return nil, false
	}
	return val.(*Function).Bind(inst), true
}

func (e *Evaluator) evalGetProp(node *ast.GetProp, env *Environment) (Object, error) {
	obj, err := e.Eval(node.Object, env)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.NotGettable, node.Span, diagnostics.MsgNotGettable)
	}

	sym, err := inst.Class.Scope.ResolveMember(node.Name)
	if err != nil {
		return nil, diagnostics.Wrap(err, node.Span)
	}
	if val, ok := inst.Env.GetLocal(sym); ok {
		return val, nil
	}
	if fn, ok := e.method(inst, node.Name); ok {
		return fn, nil
	}
	return nil, diagnostics.NewError(diagnostics.NameError, node.Span, "%s: no such name", node.Name)
}

func (e *Evaluator) evalSetProp(node *ast.SetProp, env *Environment) (Object, error) {
	obj, err := e.Eval(node.Object, env)
	if err != nil {
		return nil, err
	}
	val, err := e.Eval(node.Value, env)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.NotGettable, node.Span, diagnostics.MsgNotSettable)
	}

	sym, err := inst.Class.Scope.ResolveMember(node.Name)
	if err != nil {
		return nil, diagnostics.Wrap(err, node.Span)
	}
	prop, ok := sym.(*symbols.Property)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.TypeError, node.Span, "cannot assign to %s %s", sym.Kind(), node.Name)
	}
	if !conforms(val, prop.Type) {
		return nil, diagnostics.NewError(diagnostics.TypeError, node.Value.Meta().Span,
			"expected %s, but got %s", prop.Type.TypeName(), describe(val))
	}
	return inst.Env.Declare(prop, val), nil
}
