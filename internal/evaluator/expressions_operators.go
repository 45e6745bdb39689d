package evaluator

import (
	"fmt"
	"math/big"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/diagnostics"
)

func (e *Evaluator) evalInfix(node *ast.Infix, left, right Object) (Object, error) {
	switch {
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return e.evalIntegerInfix(node, left.(*Integer).Value, right.(*Integer).Value)
	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		l, r := left.(*String).Value, right.(*String).Value
		switch node.Operator {
		case ast.OpAdd:
			return &String{Value: l + r}, nil
		case ast.OpEq:
			return nativeBoolToBooleanObject(l == r), nil
		}
	case left.Type() == BOOLEAN_OBJ && right.Type() == BOOLEAN_OBJ:
		l, r := left.(*Boolean).Value, right.(*Boolean).Value
		switch node.Operator {
		case ast.OpEq:
			return nativeBoolToBooleanObject(l == r), nil
		case ast.OpAnd:
			return nativeBoolToBooleanObject(l && r), nil
		case ast.OpOr:
			return nativeBoolToBooleanObject(l || r), nil
		}
	}
	panic(fmt.Sprintf("internal error: no operator %s for %s and %s", node.Operator, describe(left), describe(right)))
}

func (e *Evaluator) evalIntegerInfix(node *ast.Infix, l, r *big.Int) (Object, error) {
	switch node.Operator {
	case ast.OpAdd:
		return &Integer{Value: new(big.Int).Add(l, r)}, nil
	case ast.OpSub:
		return &Integer{Value: new(big.Int).Sub(l, r)}, nil
	case ast.OpMul:
		return &Integer{Value: new(big.Int).Mul(l, r)}, nil
	case ast.OpDiv:
		if r.Sign() == 0 {
			return nil, diagnostics.NewError(diagnostics.ArithmeticError, node.Span, "division by zero")
		}
		return &Integer{Value: floorDiv(l, r)}, nil
	case ast.OpExp:
		v, err := pow(l, r)
		if err != nil {
			return nil, diagnostics.NewError(diagnostics.ArithmeticError, node.Span, "%v", err)
		}
		return &Integer{Value: v}, nil
	case ast.OpEq:
		return nativeBoolToBooleanObject(l.Cmp(r) == 0), nil
	case ast.OpGt:
		return nativeBoolToBooleanObject(l.Cmp(r) > 0), nil
	case ast.OpLt:
		return nativeBoolToBooleanObject(l.Cmp(r) < 0), nil
	case ast.OpGte:
		return nativeBoolToBooleanObject(l.Cmp(r) >= 0), nil
	case ast.OpLte:
		return nativeBoolToBooleanObject(l.Cmp(r) <= 0), nil
	}
	panic(fmt.Sprintf("internal error: no operator %s for int", node.Operator))
}

// floorDiv rounds toward negative infinity. big.Int's Div is Euclidean,
// which differs for negative divisors.
func floorDiv(a, b *big.Int) *big.Int {
	q, m := new(big.Int).QuoRem(a, b, new(big.Int))
	if m.Sign() != 0 && m.Sign() != b.Sign() {
		q.Sub(q, big.NewInt(1))
	}
	return q
}

func pow(base, exp *big.Int) (*big.Int, error) {
	if exp.Sign() < 0 {
		return nil, fmt.Errorf("negative exponent %s", exp)
	}
	// 0, 1 and -1 stay small for any exponent.
	if base.CmpAbs(big.NewInt(1)) <= 0 {
		switch {
		case exp.Sign() == 0:
			return big.NewInt(1), nil
		case base.Sign() < 0 && exp.Bit(0) == 1:
			return big.NewInt(-1), nil
		case base.Sign() < 0:
			return big.NewInt(1), nil
		default:
			return new(big.Int).Set(base), nil
		}
	}
	if !exp.IsInt64() || exp.Int64() > config.MaxIntegerBits ||
		int64(base.BitLen()-1)*exp.Int64() > config.MaxIntegerBits {
		return nil, fmt.Errorf("%s ^ %s is too large", base, exp)
	}
	return new(big.Int).Exp(base, exp, nil), nil
}
