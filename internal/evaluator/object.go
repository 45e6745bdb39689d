package evaluator

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/symbols"
)

type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	BOOLEAN_OBJ  = "BOOLEAN"
	STRING_OBJ   = "STRING"
	NULL_OBJ     = "NULL"
	FUNCTION_OBJ = "FUNCTION"
	CLASS_OBJ    = "CLASS"
	INSTANCE_OBJ = "INSTANCE"
)

// Object is a runtime value. Inspect returns its display string, as
// written by print.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer has arbitrary precision. Value is never mutated after creation.
type Integer struct {
	Value *big.Int
}

func NewInteger(v int64) *Integer {
	return &Integer{Value: big.NewInt(v)}
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return i.Value.String() }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return config.NullDisplay }

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NULL  = &Null{}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// NativeFunc implements a built-in function. env is the function's
// environment; for methods it binds the class's this symbol.
type NativeFunc func(e *Evaluator, env *Environment, args []Object, call *ast.Call) (Object, error)

// Function is a closure: a body together with the environment and scope it
// was defined in. Exactly one of Body and Native is set.
type Function struct {
	Symbol *symbols.Function
	Body   *ast.Block
	Native NativeFunc
	Env    *Environment
	Scope  *symbols.Scope
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return config.FunctionDisplay }

// Bind returns a copy of the method f whose environment has this bound to
// inst.
func (f *Function) Bind(inst *Instance) *Function {
	owner := f.Symbol.Owner
	if owner == nil {
		panic(fmt.Sprintf("internal error: binding non-method %s", f.Symbol.Name()))
	}
	env := NewEnclosedEnvironment(f.Env)
	env.Declare(owner.This, inst)
	return &Function{Symbol: f.Symbol, Body: f.Body, Native: f.Native, Env: env, Scope: f.Scope}
}

// Class holds the method values of a class definition in its own
// environment.
type Class struct {
	Symbol *symbols.Class
	Name   string
	Env    *Environment
	Scope  *symbols.Scope
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return fmt.Sprintf("<Class %s>", c.Name) }

// Instance holds property values in its own environment. Elements is
// storage for the built-in Array.
type Instance struct {
	Class    *Class
	Env      *Environment
	Elements []Object
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return fmt.Sprintf("<Instance class=%s>", i.Class.Name) }

// conforms reports whether obj is a value of the static type t. any, auto
// and unknown types accept everything.
func conforms(obj Object, t symbols.Type) bool {
	switch t := t.(type) {
	case *symbols.BuiltinType:
		switch t.TypeName() {
		case config.IntTypeName:
			_, ok := obj.(*Integer)
			return ok
		case config.BoolTypeName:
			_, ok := obj.(*Boolean)
			return ok
		case config.StringTypeName:
			_, ok := obj.(*String)
			return ok
		case config.VoidTypeName:
			_, ok := obj.(*Null)
			return ok
		}
		return true
	case *symbols.InstanceType:
		inst, ok := obj.(*Instance)
		return ok && inst.Class.Symbol == t.Class
	case *symbols.Function:
		fn, ok := obj.(*Function)
		return ok && len(fn.Symbol.Params) == len(t.Params)
	case *symbols.Class:
		class, ok := obj.(*Class)
		return ok && class.Symbol == t
	}
	return true
}

// describe names the kind of a value in runtime error messages.
func describe(obj Object) string {
	switch obj := obj.(type) {
	case *Integer:
		return config.IntTypeName
	case *Boolean:
		return config.BoolTypeName
	case *String:
		return config.StringTypeName
	case *Null:
		return config.NullDisplay
	case *Function:
		return "function"
	case *Class:
		return "class " + obj.Name
	case *Instance:
		return obj.Class.Name
	default:
		return fmt.Sprintf("%T", obj)
	}
}
