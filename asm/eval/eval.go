// Package eval facilitates compile-time evaluation of operand expressions.
package eval

import (
	"strconv"
	"strings"

	"github.com/hexaflex/chip8/asm/parser"
)

// ReferenceFunc finds the address or value for a given symbol reference.
// This is a label name or the current address "$$".
type ReferenceFunc func(name string) (int, error)

// Evaluate evaluates the operand expressions in the given instruction or
// constant definition. The first child, the instruction name, is skipped.
// Register and special operands are left untouched.
func Evaluate(instr *parser.List, resolve ReferenceFunc) error {
	return instr.Each(func(i int, n parser.Node) error {
		if i == 0 {
			return nil
		}
		return evalExpression(n.(*parser.List), resolve)
	})
}

// evalExpression evaluates the given expression and reduces it to a single
// Number or String node.
func evalExpression(n *parser.List, resolve ReferenceFunc) error {
	if n.Len() == 1 {
		switch n.At(0).Type() {
		case parser.Register, parser.Special:
			return nil
		}
	}

	postfix, err := toPostfix(n)
	if err != nil {
		return err
	}

	value, err := evalPostfix(postfix, resolve)
	if err != nil {
		return err
	}

	n.Clear()
	n.Append(value)
	return nil
}

// evalPostfix evaluates the given postfix expression and returns its value if possible.
func evalPostfix(expr []parser.Node, resolve ReferenceFunc) (parser.Node, error) {
	if len(expr) == 0 {
		return nil, parser.NewError(parser.Position{}, "invalid expression; no result")
	}

	stack := make([]interface{}, 0, len(expr))

	for _, n := range expr {
		switch n.Type() {
		case parser.Register, parser.Special:
			return nil, parser.NewError(n.Position(), "register %q can not be used in an expression", n.(*parser.Value).Value)

		case parser.Ident:
			name := n.(*parser.Value)
			value, err := resolve(strings.ToLower(name.Value))
			if err != nil {
				return nil, parser.NewError(n.Position(), "%v", err)
			}

			stack = append(stack, int64(value))

		case parser.Number, parser.String:
			ev, err := parseValue(n)
			if err != nil {
				return nil, err
			}
			stack = append(stack, ev)

		case parser.Operator:
			op := n.(*parser.Value).Value

			if isUnary(op) {
				if len(stack) < 1 {
					return nil, parser.NewError(n.Position(), "missing operand for operation %q", op[1:])
				}

				va, err := unary(op, stack[len(stack)-1])
				if err != nil {
					return nil, parser.NewError(n.Position(), "%v", err)
				}
				stack[len(stack)-1] = va
				continue
			}

			if len(stack) < 2 {
				return nil, parser.NewError(n.Position(), "missing operands for operation %q", op)
			}

			va := stack[len(stack)-2]
			vb := stack[len(stack)-1]
			stack = stack[:len(stack)-2]

			vc, err := apply(op, va, vb)
			if err != nil {
				return nil, parser.NewError(n.Position(), "%v", err)
			}

			stack = append(stack, vc)

		default:
			return nil, parser.NewError(n.Position(), "unexpected %s in expression", n.Type())
		}
	}

	pos := expr[0].Position()

	if len(stack) == 0 {
		return nil, parser.NewError(pos, "invalid expression; no result")
	}

	if len(stack) > 1 {
		return nil, parser.NewError(pos, "invalid expression; too many results")
	}

	switch tv := stack[0].(type) {
	case int64:
		return parser.NewValue(pos, parser.Number, strconv.FormatInt(tv, 10)), nil
	case string:
		return parser.NewValue(pos, parser.String, tv), nil
	default:
		return nil, parser.NewError(pos, "expression evaluates to invalid type %T", tv)
	}
}

// parseValue parses the given value into its real representation.
// E.g.: a numeric literal becomes the actual int64.
func parseValue(n parser.Node) (interface{}, error) {
	str := n.(*parser.Value).Value

	switch n.Type() {
	case parser.Number:
		nv, err := parser.ParseNumber(str)
		if err != nil {
			return nil, parser.NewError(n.Position(), "invalid number %q", str)
		}
		return nv, nil

	case parser.String:
		return str, nil

	default:
		return nil, parser.NewError(n.Position(), "invalid node type %s; expected number or string", n.Type())
	}
}

// hasValue returns true if the given node represents the given value
func hasValue(n parser.Node, v string) bool {
	tn, ok := n.(*parser.Value)
	return ok && tn.Value == v
}
