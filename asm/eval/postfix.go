package eval

import "github.com/hexaflex/chip8/asm/parser"

// ref: https://en.wikipedia.org/wiki/Shunting-yard_algorithm

// toPostfix uses Dijkstra's Shunting Yard algorithm to convert the given
// infix expression into postfix notation. This makes it a lot easier to
// evaluate later on. Unary operators are renamed to "u-", "u+" and "u~".
//
// There should be no more parentheses once this call is finished.
func toPostfix(n *parser.List) ([]parser.Node, error) {
	out := make([]parser.Node, 0, n.Len())
	ops := make([]parser.Node, 0, n.Len()/2)

	var prev parser.Node
	if err := n.Each(func(i int, n parser.Node) error {
		var err error

		switch n.Type() {
		case parser.Operator:
			if startsOperand(prev) {
				n, err = markUnary(n)
				if err != nil {
					return err
				}
			} else if hasValue(n, "~") {
				return parser.NewError(n.Position(), "operator %q takes a single operand", "~")
			}
			out, ops, err = postfixHandleOp(out, ops, n)
		default:
			out = append(out, n)
		}

		prev = n
		return err
	}); err != nil {
		return nil, err
	}

	for i := len(ops) - 1; i >= 0; i-- {
		if hasValue(ops[i], "(") {
			return nil, parser.NewError(ops[i].Position(), "mismatched opening parenthesis")
		}
		out = append(out, ops[i])
	}

	return out, nil
}

// startsOperand returns true if an operator following prev is in a
// position where an operand is expected.
func startsOperand(prev parser.Node) bool {
	if prev == nil {
		return true
	}
	return prev.Type() == parser.Operator && !hasValue(prev, ")")
}

// markUnary returns the unary version of operator n. Parentheses are
// returned as-is.
func markUnary(n parser.Node) (parser.Node, error) {
	v := n.(*parser.Value)

	switch v.Value {
	case "(":
		return n, nil
	case "+", "-", "~":
		return parser.NewValue(v.Position(), parser.Operator, "u"+v.Value), nil
	}

	return nil, parser.NewError(v.Position(), "missing operand for operation %q", v.Value)
}

// postfixHandleOp handles the given operator according to the Shunting yard algorithm rules.
func postfixHandleOp(out, ops []parser.Node, n parser.Node) ([]parser.Node, []parser.Node, error) {
	if hasValue(n, "(") {
		ops = append(ops, n)
		return out, ops, nil
	}

	if hasValue(n, ")") {
		var haveParen bool

		for len(ops) > 0 {
			top := ops[len(ops)-1]
			ops = ops[:len(ops)-1]
			if hasValue(top, "(") {
				haveParen = true
				break
			}
			out = append(out, top)
		}

		if !haveParen {
			return nil, nil, parser.NewError(n.Position(), "mismatched closing parenthesis")
		}

		return out, ops, nil
	}

	if len(ops) == 0 || hasValue(ops[len(ops)-1], "(") {
		ops = append(ops, n)
		return out, ops, nil
	}

	np, nleft := opProperties(n)

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		if hasValue(top, "(") {
			break
		}

		tp, _ := opProperties(top)
		if (np < tp) || (np == tp && nleft) {
			out = append(out, top)
			ops = ops[:len(ops)-1]
		} else {
			break
		}
	}

	ops = append(ops, n)
	return out, ops, nil
}

// opProperties treats n as an operator and returns its precedence,
// as well as true if it is left-associative. Higher values bind tighter.
func opProperties(n parser.Node) (int, bool) {
	switch n.(*parser.Value).Value {
	case "(", ")":
		return 1, true
	case "|":
		return 2, true
	case "^":
		return 3, true
	case "&":
		return 4, true
	case ">>", "<<":
		return 5, true
	case "+", "-":
		return 6, true
	case "*", "/", "%":
		return 7, true
	case "u+", "u-", "u~":
		return 8, false
	}

	panic("eval: unknown operator " + n.(*parser.Value).Value)
}
