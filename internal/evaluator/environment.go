package evaluator

import "github.com/ddfreyne/clarke/internal/symbols"

// Environment is a chain of frames mapping symbols to values. Because
// symbols are unique per declaration, two variables called x never collide
// even when both are visible.
type Environment struct {
	store map[symbols.Symbol]Object
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[symbols.Symbol]Object)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(sym symbols.Symbol) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[sym]; ok {
			return obj, true
		}
	}
	return nil, false
}

// GetLocal looks sym up in the innermost frame only.
func (e *Environment) GetLocal(sym symbols.Symbol) (Object, bool) {
	obj, ok := e.store[sym]
	return obj, ok
}

// Declare binds sym in the innermost frame.
func (e *Environment) Declare(sym symbols.Symbol, val Object) Object {
	e.store[sym] = val
	return val
}

// Containing returns the frame that binds sym, or nil.
func (e *Environment) Containing(sym symbols.Symbol) *Environment {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[sym]; ok {
			return env
		}
	}
	return nil
}

// Assign rebinds sym in the frame that already holds it.
func (e *Environment) Assign(sym symbols.Symbol, val Object) bool {
	env := e.Containing(sym)
	if env == nil {
		return false
	}
	env.store[sym] = val
	return true
}
