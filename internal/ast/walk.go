package ast

import "fmt"

// Children returns the direct children of n in evaluation order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Program:
		return n.Statements
	case *Block:
		return n.Exprs
	case *IntegerLiteral, *StringLiteral, *BooleanLiteral, *Ref, *Param, *PropDecl:
		return nil
	case *VarDef:
		return []Node{n.Value}
	case *Assignment:
		return []Node{n.Value}
	case *If:
		return []Node{n.Cond, n.Then, n.Else}
	case *Infix:
		return []Node{n.Left, n.Right}
	case *FunctionDef:
		return append(paramNodes(n.Params), n.Body)
	case *Lambda:
		return append(paramNodes(n.Params), n.Body)
	case *Call:
		return append([]Node{n.Callee}, n.Args...)
	case *ClassDef:
		return n.Members
	case *GetProp:
		return []Node{n.Object}
	case *SetProp:
		return []Node{n.Object, n.Value}
	default:
		panic(fmt.Sprintf("internal error: unhandled node %T", n))
	}
}

func paramNodes(params []*Param) []Node {
	out := make([]Node, 0, len(params)+1)
	for _, p := range params {
		out = append(out, p)
	}
	return out
}

// Inspect traverses the tree rooted at n depth-first, calling f before the
// children of each node. Children are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// KindOf names the node type, as used in dumps.
func KindOf(n Node) string {
	switch n.(type) {
	case *Program:
		return "program"
	case *Block:
		return "block"
	case *IntegerLiteral:
		return "integer"
	case *StringLiteral:
		return "string"
	case *BooleanLiteral:
		return "boolean"
	case *Ref:
		return "ref"
	case *VarDef:
		return "var_def"
	case *Assignment:
		return "assignment"
	case *If:
		return "if"
	case *Infix:
		return "infix"
	case *Param:
		return "param"
	case *FunctionDef:
		return "fun_def"
	case *Lambda:
		return "lambda"
	case *Call:
		return "call"
	case *ClassDef:
		return "class_def"
	case *PropDecl:
		return "prop_decl"
	case *GetProp:
		return "get_prop"
	case *SetProp:
		return "set_prop"
	default:
		panic(fmt.Sprintf("internal error: unhandled node %T", n))
	}
}
