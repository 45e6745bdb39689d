package analyzer

import (
	"fmt"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/symbols"
	"github.com/ddfreyne/clarke/internal/token"
)

// ResolveImplicitTypes types every node bottom-up and checks operators,
// conditionals, calls, assignments and property access. Functions without
// a declared return type get the type of their body.
func ResolveImplicitTypes(prog *ast.Program, prelude *symbols.Prelude) error {
	c := newChecker(prelude)
	ast.Inspect(prog, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FunctionDef:
			c.functions[n.Type.(*symbols.Function)] = n
		case *ast.Lambda:
			c.functions[n.Type.(*symbols.Function)] = n
		case *ast.PropDecl:
			c.props = append(c.props, n)
		}
		return true
	})

	if _, err := c.check(prog); err != nil {
		return err
	}
	for _, n := range c.props {
		sym, _ := n.Scope.Resolve(n.Name)
		n.Type = sym.(*symbols.Property).Type
	}
	return nil
}

type checkState int

const (
	unchecked checkState = iota
	checking
	checked
)

type checker struct {
	prelude   *symbols.Prelude
	functions map[*symbols.Function]ast.Node
	state     map[*symbols.Function]checkState
	props     []*ast.PropDecl
}

func newChecker(prelude *symbols.Prelude) *checker {
	return &checker{
		prelude:   prelude,
		functions: make(map[*symbols.Function]ast.Node),
		state:     make(map[*symbols.Function]checkState),
	}
}

func (c *checker) isAny(t symbols.Type) bool {
	return t == symbols.Type(c.prelude.Any)
}

// compatible reports whether a value of type actual may be used where
// expected is required.
func (c *checker) compatible(expected, actual symbols.Type) bool {
	return c.isAny(expected) || symbols.Equal(expected, actual)
}

// check computes and records the type of n.
func (c *checker) check(n ast.Node) (symbols.Type, error) {
	t, err := c.checkNode(n)
	if err != nil {
		return nil, err
	}
	n.Meta().Type = t
	return t, nil
}

func (c *checker) checkNode(n ast.Node) (symbols.Type, error) {
	switch n := n.(type) {
	case *ast.Program:
		return c.checkSequence(n.Statements)

	case *ast.Block:
		return c.checkSequence(n.Exprs)

	case *ast.IntegerLiteral:
		return c.prelude.Int, nil

	case *ast.StringLiteral:
		return c.prelude.String, nil

	case *ast.BooleanLiteral:
		return c.prelude.Bool, nil

	case *ast.Ref:
		return c.checkRef(n)

	case *ast.VarDef:
		t, err := c.check(n.Value)
		if err != nil {
			return nil, err
		}
		v := mustResolve(n.Scope, n.Name).(*symbols.Variable)
		v.Type = t
		return t, nil

	case *ast.Assignment:
		return c.checkAssignment(n)

	case *ast.If:
		return c.checkIf(n)

	case *ast.Infix:
		return c.checkInfix(n)

	case *ast.FunctionDef:
		fn := n.Type.(*symbols.Function)
		if err := c.checkFunction(fn); err != nil {
			return nil, err
		}
		return fn, nil

	case *ast.Lambda:
		fn := n.Type.(*symbols.Function)
		if err := c.checkFunction(fn); err != nil {
			return nil, err
		}
		return fn, nil

	case *ast.Call:
		return c.checkCall(n)

	case *ast.ClassDef:
		for _, m := range n.Members {
			if fn, ok := m.(*ast.FunctionDef); ok {
				if _, err := c.check(fn); err != nil {
					return nil, err
				}
			}
		}
		return n.Type, nil

	case *ast.GetProp:
		return c.checkGetProp(n)

	case *ast.SetProp:
		return c.checkSetProp(n)

	default:
		panic(fmt.Sprintf("internal error: unhandled node %T", n))
	}
}

func (c *checker) checkSequence(nodes []ast.Node) (symbols.Type, error) {
	var last symbols.Type = c.prelude.Void
	for _, n := range nodes {
		t, err := c.check(n)
		if err != nil {
			return nil, err
		}
		last = t
	}
	return last, nil
}

func (c *checker) checkRef(n *ast.Ref) (symbols.Type, error) {
	sym, err := n.Scope.Resolve(n.Name)
	if err != nil {
		return nil, diagnostics.Wrap(err, n.Span)
	}
	switch s := sym.(type) {
	case *symbols.Property:
		return nil, diagnostics.NewError(diagnostics.NameError, n.Span,
			"%s: no such name (use this.%s)", n.Name, n.Name)
	case *symbols.Function:
		if s.IsMethod() {
			return nil, diagnostics.NewError(diagnostics.NameError, n.Span,
				"%s: no such name (use this.%s)", n.Name, n.Name)
		}
		return s, nil
	case *symbols.Class:
		return s, nil
	case *symbols.Variable:
		if s.Type == nil {
			return nil, diagnostics.NewError(diagnostics.UntypedError, n.Span, "%s: type not known yet", n.Name)
		}
		return s.Type, nil
	default:
		return nil, diagnostics.NewError(diagnostics.TypeError, n.Span,
			"%s is a %s, not a value", n.Name, sym.Kind())
	}
}

func (c *checker) checkAssignment(n *ast.Assignment) (symbols.Type, error) {
	sym, err := n.Scope.Resolve(n.Name)
	if err != nil {
		return nil, diagnostics.Wrap(err, n.Span)
	}
	v, ok := sym.(*symbols.Variable)
	if !ok || v.Name() == config.ThisName {
		return nil, diagnostics.NewError(diagnostics.TypeError, n.Span, "cannot assign to %s %s", sym.Kind(), n.Name)
	}
	t, err := c.check(n.Value)
	if err != nil {
		return nil, err
	}
	if !c.compatible(v.Type, t) {
		return nil, diagnostics.NewError(diagnostics.TypeError, n.Value.Meta().Span,
			"expected %s, but got %s", v.Type.TypeName(), t.TypeName())
	}
	return t, nil
}

func (c *checker) checkIf(n *ast.If) (symbols.Type, error) {
	cond, err := c.check(n.Cond)
	if err != nil {
		return nil, err
	}
	if cond != symbols.Type(c.prelude.Bool) && !c.isAny(cond) {
		return nil, diagnostics.NewError(diagnostics.TypeError, n.Cond.Meta().Span,
			"expected bool, but got %s", cond.TypeName())
	}
	then, err := c.check(n.Then)
	if err != nil {
		return nil, err
	}
	els, err := c.check(n.Else)
	if err != nil {
		return nil, err
	}
	if !symbols.Equal(then, els) {
		return nil, diagnostics.NewError(diagnostics.IfTypeMismatch, n.Span,
			"true and false bodies have distinct types (%q and %q, respectively)", then.TypeName(), els.TypeName())
	}
	return then, nil
}

func (c *checker) checkInfix(n *ast.Infix) (symbols.Type, error) {
	left, err := c.check(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.check(n.Right)
	if err != nil {
		return nil, err
	}
	if !symbols.Equal(left, right) {
		return nil, diagnostics.NewError(diagnostics.BinOpTypeMismatch, n.Span,
			"left-hand side and right-hand side have distinct types (%q and %q, respectively)", left.TypeName(), right.TypeName())
	}
	result, ok := c.operatorResult(n.Operator, left)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.BinOpTypeMismatch, n.Span,
			"operator %s is not defined for %q", n.Operator, left.TypeName())
	}
	return result, nil
}

// checkFunction types a function body once. It may run before the walk
// reaches the definition, when a call needs the inferred return type.
func (c *checker) checkFunction(fn *symbols.Function) error {
	if c.state[fn] != unchecked {
		return nil
	}
	c.state[fn] = checking

	var params []*ast.Param
	var body *ast.Block
	switch n := c.functions[fn].(type) {
	case *ast.FunctionDef:
		params, body = n.Params, n.Body
	case *ast.Lambda:
		params, body = n.Params, n.Body
	default:
		panic(fmt.Sprintf("internal error: no definition for function %s", fn.Name()))
	}
	for i, p := range params {
		p.Type = fn.Params[i].Type
	}

	bodyType, err := c.check(body)
	if err != nil {
		return err
	}
	if declared, ok := fn.ReturnType(); ok {
		if !c.compatible(declared, bodyType) {
			return diagnostics.NewError(diagnostics.TypeError, lastSpan(body),
				"expected %s, but got %s", declared.TypeName(), bodyType.TypeName())
		}
	} else {
		if inner, ok := bodyType.(*symbols.Function); ok {
			if _, resolved := inner.ReturnType(); !resolved {
				return diagnostics.NewError(diagnostics.UntypedError, lastSpan(body),
					"%s: cannot infer the return type; declare it", fn.Name())
			}
		}
		fn.Return = symbols.Resolved{Type: bodyType}
	}
	c.state[fn] = checked
	return nil
}

func lastSpan(b *ast.Block) token.Span {
	if len(b.Exprs) == 0 {
		return b.Span
	}
	return b.Exprs[len(b.Exprs)-1].Meta().Span
}

// returnType returns the return type of fn, typing its body first if
// needed.
func (c *checker) returnType(fn *symbols.Function, n *ast.Call) (symbols.Type, error) {
	if t, ok := fn.ReturnType(); ok {
		return t, nil
	}
	if _, known := c.functions[fn]; known {
		if err := c.checkFunction(fn); err != nil {
			return nil, err
		}
	}
	if t, ok := fn.ReturnType(); ok {
		return t, nil
	}
	return nil, diagnostics.NewError(diagnostics.UntypedError, n.Span,
		"%s: return type of a recursive call cannot be inferred; declare it", fn.Name())
}

func (c *checker) checkCall(n *ast.Call) (symbols.Type, error) {
	callee, err := c.check(n.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]symbols.Type, len(n.Args))
	for i, arg := range n.Args {
		if args[i], err = c.check(arg); err != nil {
			return nil, err
		}
	}

	switch t := callee.(type) {
	case *symbols.Function:
		if err := c.checkArgs(t.Params, args, n); err != nil {
			return nil, err
		}
		return c.returnType(t, n)
	case *symbols.Class:
		var params []*symbols.Variable
		if sym, err := t.Scope.ResolveMember(config.InitMethodName); err == nil {
			if init, ok := sym.(*symbols.Function); ok {
				params = init.Params
			}
		}
		if err := c.checkArgs(params, args, n); err != nil {
			return nil, err
		}
		return &symbols.InstanceType{Class: t}, nil
	default:
		if c.isAny(callee) {
			return c.prelude.Any, nil
		}
		return nil, diagnostics.NewError(diagnostics.NotCallable, n.Callee.Meta().Span, diagnostics.MsgNotCallable)
	}
}

func (c *checker) checkArgs(params []*symbols.Variable, args []symbols.Type, n *ast.Call) error {
	if len(params) != len(args) {
		return diagnostics.NewError(diagnostics.ArgumentCountError, n.Span,
			"wrong number of arguments: expected %d, but got %d", len(params), len(args))
	}
	for i, p := range params {
		if !c.compatible(p.Type, args[i]) {
			return diagnostics.NewError(diagnostics.ArgumentTypeMismatch, n.Args[i].Meta().Span,
				"argument has type %s, which is incompatible with parameter type %s", args[i].TypeName(), p.Type.TypeName())
		}
	}
	return nil
}

// member resolves name on the class of an instance-typed expression. It
// returns nil without error when the object has type any.
func (c *checker) member(object symbols.Type, name string, n ast.Node, notInstance string) (symbols.Symbol, error) {
	if c.isAny(object) {
		return nil, nil
	}
	inst, ok := object.(*symbols.InstanceType)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.NotGettable, n.Meta().Span, notInstance)
	}
	sym, err := inst.Class.Scope.ResolveMember(name)
	if err != nil {
		return nil, diagnostics.Wrap(err, n.Meta().Span)
	}
	return sym, nil
}

func (c *checker) checkGetProp(n *ast.GetProp) (symbols.Type, error) {
	object, err := c.check(n.Object)
	if err != nil {
		return nil, err
	}
	sym, err := c.member(object, n.Name, n, diagnostics.MsgNotGettable)
	if err != nil {
		return nil, err
	}
	switch s := sym.(type) {
	case nil:
		return c.prelude.Any, nil
	case *symbols.Property:
		if s.Type == symbols.Type(c.prelude.Auto) {
			return nil, diagnostics.NewError(diagnostics.UntypedError, n.Span,
				"%s: property type not known yet; annotate it or set it first", n.Name)
		}
		return s.Type, nil
	case *symbols.Function:
		return s, nil
	default:
		panic(fmt.Sprintf("internal error: unexpected member %T", s))
	}
}

func (c *checker) checkSetProp(n *ast.SetProp) (symbols.Type, error) {
	object, err := c.check(n.Object)
	if err != nil {
		return nil, err
	}
	value, err := c.check(n.Value)
	if err != nil {
		return nil, err
	}
	sym, err := c.member(object, n.Name, n, diagnostics.MsgNotSettable)
	if err != nil || sym == nil {
		return value, err
	}
	prop, ok := sym.(*symbols.Property)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.TypeError, n.Span, "cannot assign to %s %s", sym.Kind(), n.Name)
	}
	switch {
	case prop.Type == symbols.Type(c.prelude.Auto):
		prop.Type = value
	case !c.compatible(prop.Type, value):
		return nil, diagnostics.NewError(diagnostics.TypeError, n.Value.Meta().Span,
			"expected %s, but got %s", prop.Type.TypeName(), value.TypeName())
	}
	return value, nil
}

func mustResolve(scope *symbols.Scope, name string) symbols.Symbol {
	sym, err := scope.Resolve(name)
	if err != nil {
		panic(fmt.Sprintf("internal error: %s was not collected", name))
	}
	return sym
}
