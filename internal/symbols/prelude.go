package symbols

import (
	"fmt"

	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/token"
)

// Prelude is the global scope seeded with the built-in types, print and
// Array. Every analysis gets its own Prelude.
type Prelude struct {
	Scope *Scope

	Bool   *BuiltinType
	Int    *BuiltinType
	String *BuiltinType
	Void   *BuiltinType
	Any    *BuiltinType
	Auto   *BuiltinType

	Print *Function

	Array     *Class
	ArrayInit *Function
	ArrayAdd  *Function
	ArrayEach *Function
}

func NewPrelude() *Prelude {
	p := &Prelude{Scope: NewGlobalScope()}

	types := make(map[string]*BuiltinType, len(config.BuiltinTypeNames))
	for _, name := range config.BuiltinTypeNames {
		t := NewBuiltinType(name)
		types[name] = t
		p.Scope = p.mustDefine(p.Scope, t)
	}
	p.Bool = types[config.BoolTypeName]
	p.Int = types[config.IntTypeName]
	p.String = types[config.StringTypeName]
	p.Void = types[config.VoidTypeName]
	p.Any = types[config.AnyTypeName]
	p.Auto = types[config.AutoTypeName]

	p.Print = p.function(config.PrintFuncName, p.Void, "a")
	p.Scope = p.mustDefine(p.Scope, p.Print)

	p.Array = NewClass(config.ArrayClassName, token.Span{})
	p.Scope = p.mustDefine(p.Scope, p.Array)

	cs := p.Scope.PushClass(p.Array)
	p.Array.This = NewVariable(config.ThisName, token.Span{})
	p.Array.This.Type = &InstanceType{Class: p.Array}
	cs = p.mustDefine(cs, p.Array.This)

	p.ArrayInit = p.function(config.InitMethodName, p.Void)
	p.ArrayAdd = p.function(config.AddMethodName, p.Any, "elem")
	p.ArrayEach = p.function(config.EachMethodName, p.Void, "fn")
	for _, m := range []*Function{p.ArrayInit, p.ArrayAdd, p.ArrayEach} {
		m.Owner = p.Array
		cs = p.mustDefine(cs, m)
	}
	p.Array.Scope = cs

	return p
}

// function builds a native function symbol whose parameters are all any.
func (p *Prelude) function(name string, ret Type, params ...string) *Function {
	fn := NewFunction(name, token.Span{})
	for _, param := range params {
		v := NewVariable(param, token.Span{})
		v.Type = p.Any
		fn.Params = append(fn.Params, v)
	}
	fn.Return = Resolved{Type: ret}
	return fn
}

func (p *Prelude) mustDefine(s *Scope, sym Symbol) *Scope {
	next, err := s.Define(sym)
	if err != nil {
		panic(fmt.Sprintf("internal error: prelude: %v", err))
	}
	return next
}
