package ast

import "github.com/ddfreyne/clarke/internal/token"

type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpExp
	OpEq
	OpGt
	OpLt
	OpGte
	OpLte
	OpAnd
	OpOr
)

var operatorNames = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpExp: "^",
	OpEq:  "==",
	OpGt:  ">",
	OpLt:  "<",
	OpGte: ">=",
	OpLte: "<=",
	OpAnd: "&&",
	OpOr:  "||",
}

func (o Operator) String() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return "?"
}

// OperatorFor maps an operator lexeme to its Operator.
func OperatorFor(lexeme string) (Operator, bool) {
	for i, name := range operatorNames {
		if name == lexeme {
			return Operator(i), true
		}
	}
	return 0, false
}

// Infix is a binary operation. The parser only produces it after
// normalizing an operator sequence by precedence.
type Infix struct {
	Base
	Operator Operator
	Left     Node
	Right    Node
}

type Param struct {
	Base
	Name    string
	TypeAnn *TypeRef
}

// FunctionDef is a named function. `let f = <lambda>` is parsed into one.
type FunctionDef struct {
	Base
	Name       string
	NameSpan   token.Span
	Params     []*Param
	ReturnType *TypeRef
	Body       *Block
}

// Lambda is an anonymous function. The arrow form `(x) => e` has a body
// block holding the single expression e.
type Lambda struct {
	Base
	Params     []*Param
	ReturnType *TypeRef
	Body       *Block
}

type Call struct {
	Base
	Callee Node
	Args   []Node
}

// ClassDef members are *FunctionDef and *PropDecl.
type ClassDef struct {
	Base
	Name     string
	NameSpan token.Span
	Members  []Node
}

type PropDecl struct {
	Base
	Name    string
	TypeAnn *TypeRef
}

type GetProp struct {
	Base
	Object Node
	Name   string
}

type SetProp struct {
	Base
	Object Node
	Name   string
	Value  Node
}
