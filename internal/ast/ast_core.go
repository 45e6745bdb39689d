package ast

import (
	"github.com/ddfreyne/clarke/internal/symbols"
	"github.com/ddfreyne/clarke/internal/token"
)

// Base carries what every node has: its source span and the two annotation
// slots filled in by the analyzer. Scope is set by symbol collection, Type by
// type checking. Nothing else on a node changes after parsing.
type Base struct {
	Span  token.Span
	Scope *symbols.Scope
	Type  symbols.Type
}

func (b *Base) Meta() *Base { return b }
func (b *Base) node()       {}

// Node is implemented by every syntax tree node. The set of node types is
// closed; passes switch over it and panic on anything else.
type Node interface {
	Meta() *Base
	node()
}

// Program is the root node of every tree the parser produces.
type Program struct {
	Base
	File       string
	Statements []Node
}

// TypeRef is a type annotation as written, e.g. the int in `x: int`.
type TypeRef struct {
	Name string
	Span token.Span
}

// Block is a brace-delimited sequence of expressions with its own scope.
type Block struct {
	Base
	Exprs []Node
}

type IntegerLiteral struct {
	Base
	Value int64
}

type StringLiteral struct {
	Base
	Value string
}

type BooleanLiteral struct {
	Base
	Value bool
}

// Ref is a reference to a named declaration.
type Ref struct {
	Base
	Name string
}

// VarDef is `let Name = Value`.
type VarDef struct {
	Base
	Name     string
	NameSpan token.Span
	Value    Node
}

// Assignment is `Name = Value` on an existing variable.
type Assignment struct {
	Base
	Name  string
	Value Node
}

// If always has both branches. `else if` is parsed as an Else block holding
// a single If.
type If struct {
	Base
	Cond Node
	Then *Block
	Else *Block
}
