package analyzer

import (
	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/symbols"
)

// operatorResult returns the result type of applying op to two operands of
// type operand. Only combinations the evaluator implements are allowed.
func (c *checker) operatorResult(op ast.Operator, operand symbols.Type) (symbols.Type, bool) {
	p := c.prelude
	switch operand {
	case symbols.Type(p.Int):
		switch op {
		case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpExp:
			return p.Int, true
		case ast.OpEq, ast.OpGt, ast.OpLt, ast.OpGte, ast.OpLte:
			return p.Bool, true
		}
	case symbols.Type(p.String):
		switch op {
		case ast.OpAdd:
			return p.String, true
		case ast.OpEq:
			return p.Bool, true
		}
	case symbols.Type(p.Bool):
		switch op {
		case ast.OpEq, ast.OpAnd, ast.OpOr:
			return p.Bool, true
		}
	}
	return nil, false
}
