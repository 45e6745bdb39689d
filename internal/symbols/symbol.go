package symbols

import (
	"github.com/ddfreyne/clarke/internal/token"
	"github.com/google/uuid"
)

type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	FunctionSymbol
	ClassSymbol
	PropertySymbol
	TypeSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case VariableSymbol:
		return "variable"
	case FunctionSymbol:
		return "function"
	case ClassSymbol:
		return "class"
	case PropertySymbol:
		return "property"
	case TypeSymbol:
		return "type"
	default:
		return "unknown"
	}
}

// Symbol is one declaration. Symbols are compared by identity, never by
// name: two declarations of x in different scopes are different symbols.
type Symbol interface {
	Name() string
	ID() uuid.UUID
	Kind() SymbolKind
	// Span is the declaration site. Built-ins have a zero span.
	Span() token.Span
}

type base struct {
	name string
	id   uuid.UUID
	span token.Span
}

func newBase(name string, span token.Span) base {
	return base{name: name, id: uuid.New(), span: span}
}

func (b *base) Name() string     { return b.name }
func (b *base) ID() uuid.UUID    { return b.id }
func (b *base) Span() token.Span { return b.span }
func (b *base) String() string   { return b.name }

type Variable struct {
	base
	Type Type
}

func NewVariable(name string, span token.Span) *Variable {
	return &Variable{base: newBase(name, span)}
}

func (v *Variable) Kind() SymbolKind { return VariableSymbol }

// Function is both the symbol of a function declaration and its type.
// Lambdas get an anonymous Function that is never defined in any scope.
type Function struct {
	base
	Params []*Variable
	Return ReturnType
	// Owner is the class declaring this function as a method, or nil.
	Owner *Class
}

func NewFunction(name string, span token.Span) *Function {
	return &Function{base: newBase(name, span), Return: Unresolved{}}
}

func (f *Function) Kind() SymbolKind { return FunctionSymbol }

// IsMethod reports whether f is declared inside a class body.
func (f *Function) IsMethod() bool { return f.Owner != nil }

type Class struct {
	base
	// Scope is the class body scope once all members are collected.
	Scope *Scope
	Props []*Property
	This  *Variable
}

func NewClass(name string, span token.Span) *Class {
	return &Class{base: newBase(name, span)}
}

func (c *Class) Kind() SymbolKind { return ClassSymbol }

// Methods returns the functions declared in the class body.
func (c *Class) Methods() []*Function {
	if c.Scope == nil {
		return nil
	}
	var methods []*Function
	for _, sym := range c.Scope.Members() {
		if fn, ok := sym.(*Function); ok {
			methods = append(methods, fn)
		}
	}
	return methods
}

type Property struct {
	base
	Type  Type
	Owner *Class
}

func NewProperty(name string, span token.Span) *Property {
	return &Property{base: newBase(name, span)}
}

func (p *Property) Kind() SymbolKind { return PropertySymbol }

// TypeOf returns the static type a symbol has when referenced as a value.
func TypeOf(sym Symbol) Type {
	switch s := sym.(type) {
	case *Variable:
		return s.Type
	case *Property:
		return s.Type
	case *Function:
		return s
	case *Class:
		return s
	default:
		return nil
	}
}
