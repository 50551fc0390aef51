package eval

import (
	"fmt"
)

// apply performs the given arithmetic operation on operands a and b
// and returns the result. Returns an error if something went wrong.
//
// Operands are expected to be of the types int64 or string. Strings are
// only valid as a complete expression, so every operation rejects them.
//
// Supported operations are: + - * / % << >> & | ^
func apply(op string, a, b interface{}) (interface{}, error) {
	va, oka := a.(int64)
	vb, okb := b.(int64)
	if !oka || !okb {
		return nil, fmt.Errorf("can not evaluate %T %s %T", a, op, b)
	}

	switch op {
	case "+":
		return va + vb, nil
	case "-":
		return va - vb, nil
	case "*":
		return va * vb, nil
	case "/":
		if vb == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return va / vb, nil
	case "%":
		if vb == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return va % vb, nil
	case "<<":
		if vb < 0 {
			return nil, fmt.Errorf("negative shift count %d", vb)
		}
		return va << uint64(vb), nil
	case ">>":
		if vb < 0 {
			return nil, fmt.Errorf("negative shift count %d", vb)
		}
		return va >> uint64(vb), nil
	case "&":
		return va & vb, nil
	case "|":
		return va | vb, nil
	case "^":
		return va ^ vb, nil
	default:
		return nil, fmt.Errorf("unrecognized operation %q", op)
	}
}

// isUnary returns true for operators marked as unary by toPostfix.
func isUnary(op string) bool {
	switch op {
	case "u+", "u-", "u~":
		return true
	}
	return false
}

// unary applies the given unary operator to a.
func unary(op string, a interface{}) (interface{}, error) {
	va, ok := a.(int64)
	if !ok {
		return nil, fmt.Errorf("can not evaluate %s%T", op[1:], a)
	}

	switch op {
	case "u+":
		return va, nil
	case "u-":
		return -va, nil
	case "u~":
		return ^va, nil
	default:
		return nil, fmt.Errorf("unrecognized operation %q", op)
	}
}
