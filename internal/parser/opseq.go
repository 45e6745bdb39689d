package parser

import (
	"fmt"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/token"
)

func isOperator(tok token.Token) bool {
	_, ok := config.Precedences[tok.Lexeme]
	return ok && tok.Type != token.STRING && tok.Type != token.IDENT
}

// normalize turns operands[0] op[0] operands[1] ... into a tree using the
// shunting-yard algorithm. An operator on the stack is applied before the
// incoming one when it binds tighter, or equally tight and the incoming
// operator is left-associative.
func normalize(operands []ast.Node, operators []token.Token) ast.Node {
	if len(operands) != len(operators)+1 {
		panic(fmt.Sprintf("internal error: %d operands for %d operators", len(operands), len(operators)))
	}

	output := []ast.Node{operands[0]}
	var stack []token.Token

	reduce := func() {
		op := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		right := output[len(output)-1]
		left := output[len(output)-2]
		output = output[:len(output)-2]
		output = append(output, newInfix(op, left, right))
	}

	for i, op := range operators {
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			topPrec := config.Precedences[top.Lexeme]
			opPrec := config.Precedences[op.Lexeme]
			if topPrec > opPrec || (topPrec == opPrec && config.Associativities[op.Lexeme] == config.LeftAssoc) {
				reduce()
				continue
			}
			break
		}
		stack = append(stack, op)
		output = append(output, operands[i+1])
	}
	for len(stack) > 0 {
		reduce()
	}
	return output[0]
}

func newInfix(op token.Token, left, right ast.Node) *ast.Infix {
	operator, ok := ast.OperatorFor(op.Lexeme)
	if !ok {
		panic(fmt.Sprintf("internal error: no operator for %q", op.Lexeme))
	}
	return &ast.Infix{
		Base:     ast.Base{Span: left.Meta().Span.To(right.Meta().Span)},
		Operator: operator,
		Left:     left,
		Right:    right,
	}
}
