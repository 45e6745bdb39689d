package symbols

import (
	"strings"

	"github.com/ddfreyne/clarke/internal/token"
)

// Type is a static type. Built-in types, instance types, functions and
// classes are types.
type Type interface {
	TypeName() string
}

// BuiltinType is one of bool, int, string, void, any or auto. Each global
// scope defines its own set, looked up by name.
type BuiltinType struct {
	base
}

func NewBuiltinType(name string) *BuiltinType {
	return &BuiltinType{base: newBase(name, token.Span{})}
}

func (t *BuiltinType) Kind() SymbolKind { return TypeSymbol }
func (t *BuiltinType) TypeName() string { return t.name }

// InstanceType is the type of values constructed by calling Class.
type InstanceType struct {
	Class *Class
}

func (t *InstanceType) TypeName() string { return t.Class.Name() }

func (f *Function) TypeName() string {
	var sb strings.Builder
	sb.WriteString("fun(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(typeName(p.Type))
	}
	sb.WriteString(")")
	if ret, ok := f.ReturnType(); ok {
		sb.WriteString(": ")
		sb.WriteString(ret.TypeName())
	}
	return sb.String()
}

func (c *Class) TypeName() string { return "class " + c.name }

func typeName(t Type) string {
	if t == nil {
		return "?"
	}
	return t.TypeName()
}

// ReturnType is either Unresolved or Resolved.
type ReturnType interface {
	isReturnType()
}

// Unresolved marks a return type still to be inferred from the body.
type Unresolved struct{}

type Resolved struct {
	Type Type
}

func (Unresolved) isReturnType() {}
func (Resolved) isReturnType()   {}

// ReturnType returns the resolved return type of f.
func (f *Function) ReturnType() (Type, bool) {
	if r, ok := f.Return.(Resolved); ok {
		return r.Type, true
	}
	return nil, false
}

// Equal reports whether a and b denote the same type. Instance types are
// equal when they wrap the same class; function types are compared by
// signature.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return false
	}
	switch at := a.(type) {
	case *InstanceType:
		bt, ok := b.(*InstanceType)
		return ok && at.Class == bt.Class
	case *Function:
		bt, ok := b.(*Function)
		if !ok {
			return false
		}
		if at == bt {
			return true
		}
		if len(at.Params) != len(bt.Params) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i].Type, bt.Params[i].Type) {
				return false
			}
		}
		ar, aok := at.ReturnType()
		br, bok := bt.ReturnType()
		return aok && bok && Equal(ar, br)
	default:
		return a == b
	}
}

// IsNamed reports whether t is the built-in type called name.
func IsNamed(t Type, name string) bool {
	bt, ok := t.(*BuiltinType)
	return ok && bt.name == name
}
