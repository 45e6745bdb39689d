package evaluator

import (
	"fmt"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/symbols"
)

// NewGlobalEnvironment binds the runtime values of the prelude's built-ins:
// print and the Array class.
func NewGlobalEnvironment(prelude *symbols.Prelude) *Environment {
	env := NewEnvironment()

	env.Declare(prelude.Print, &Function{Symbol: prelude.Print, Native: builtinPrint, Env: env})

	array := &Class{
		Symbol: prelude.Array,
		Name:   prelude.Array.Name(),
		Env:    NewEnclosedEnvironment(env),
		Scope:  prelude.Array.Scope,
	}
	env.Declare(prelude.Array, array)

	this := prelude.Array.This
	natives := map[*symbols.Function]NativeFunc{
		prelude.ArrayInit: func(e *Evaluator, env *Environment, args []Object, call *ast.Call) (Object, error) {
			receiver(env, this).Elements = []Object{}
			return NULL, nil
		},
		prelude.ArrayAdd: func(e *Evaluator, env *Environment, args []Object, call *ast.Call) (Object, error) {
			inst := receiver(env, this)
			inst.Elements = append(inst.Elements, args[0])
			return args[0], nil
		},
		prelude.ArrayEach: func(e *Evaluator, env *Environment, args []Object, call *ast.Call) (Object, error) {
			inst := receiver(env, this)
			elems := make([]Object, len(inst.Elements))
			copy(elems, inst.Elements)
			for _, elem := range elems {
				if _, err := e.apply(args[0], []Object{elem}, call); err != nil {
					return nil, err
				}
			}
			return NULL, nil
		},
	}
	for sym, native := range natives {
		array.Env.Declare(sym, &Function{Symbol: sym, Native: native, Env: array.Env, Scope: array.Scope})
	}

	return env
}

func builtinPrint(e *Evaluator, env *Environment, args []Object, call *ast.Call) (Object, error) {
	if _, err := fmt.Fprintln(e.Out, args[0].Inspect()); err != nil {
		return nil, err
	}
	return NULL, nil
}

func receiver(env *Environment, this *symbols.Variable) *Instance {
	obj, ok := env.Get(this)
	if !ok {
		panic("internal error: native method called without a receiver")
	}
	return obj.(*Instance)
}
