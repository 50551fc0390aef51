// Package syntax performs syntax verification on an AST to ensure it is in a sane state.
// Additionally performs some mutations to simplify or amend structure where needed.
package syntax

import (
	"strings"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/asm/parser"
)

// Verify performs syntax verification on the given AST to ensure it has a sane state.
// Constant references are replaced with the constant's expression.
func Verify(ast *parser.AST) error {
	if err := testInstructions(ast.Nodes()); err != nil {
		return err
	}

	if err := testNames(ast.Nodes()); err != nil {
		return err
	}

	if err := translateConst(ast.Nodes()); err != nil {
		return err
	}

	return testNumbers(ast.Nodes())
}

// IsDataDirective returns true if name is one of the data directives.
// If true, returns the byte size of a single element.
func IsDataDirective(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "d8":
		return 1, true
	case "d16":
		return 2, true
	}
	return 0, false
}

// IsReserved returns true if name can not be used for a label or constant.
func IsReserved(name string) bool {
	if arch.IsRegister(name) || arch.IsMnemonic(name) {
		return true
	}

	if _, ok := arch.Special(name); ok {
		return true
	}

	if _, ok := IsDataDirective(name); ok {
		return true
	}

	switch strings.ToLower(name) {
	case "const", "include":
		return true
	}

	return false
}

// testInstructions ensures instructions are properly formatted and refer to
// known mnemonics or directives with a valid operand count.
func testInstructions(nodes *parser.List) error {
	return nodes.Each(func(_ int, n parser.Node) error {
		if n.Type() != parser.Instruction {
			return nil
		}

		instr := n.(*parser.List)
		name := instr.At(0).(*parser.Value)
		argc := instr.Len() - 1

		for i := 1; i < instr.Len(); i++ {
			expr := instr.At(i).(*parser.List)
			if expr.Len() == 0 {
				return parser.NewError(expr.Position(), "unexpected empty expression in instruction operand")
			}
		}

		if _, ok := IsDataDirective(name.Value); ok {
			if argc == 0 {
				return parser.NewError(name.Position(), "missing operands for %q", name.Value)
			}
			return nil
		}

		if strings.EqualFold(name.Value, "include") {
			return parser.NewError(name.Position(), "unresolved include statement")
		}

		forms := arch.FormsFor(name.Value)
		if len(forms) == 0 {
			return parser.NewError(name.Position(), "unknown instruction %q", name.Value)
		}

		for _, f := range forms {
			if len(f.Operands) == argc {
				return nil
			}
		}

		return parser.NewError(name.Position(), "invalid operand count %d for instruction %q", argc, name.Value)
	})
}

// testNames ensures label and constant names are unique and do not collide
// with reserved words. Names are case insensitive.
func testNames(nodes *parser.List) error {
	seen := make(map[string]parser.Position)

	return nodes.Each(func(_ int, n parser.Node) error {
		var name *parser.Value

		switch n.Type() {
		case parser.Label:
			name = n.(*parser.Value)

		case parser.Constant:
			constant := n.(*parser.List)
			if constant.Len() != 3 {
				return parser.NewError(constant.Position(), "invalid constant definition; expected `const NAME value`")
			}

			expr := constant.At(1).(*parser.List)
			if expr.Len() != 1 || expr.At(0).Type() != parser.Ident {
				return parser.NewError(expr.Position(), "invalid constant name; expected ident")
			}

			name = expr.At(0).(*parser.Value)

		default:
			return nil
		}

		if IsReserved(name.Value) {
			return parser.NewError(name.Position(), "%q is a reserved word", name.Value)
		}

		key := strings.ToLower(name.Value)
		if pos, ok := seen[key]; ok {
			return parser.NewError(name.Position(), "duplicate symbol %q; previously defined at %s", name.Value, pos)
		}

		seen[key] = name.Position()
		return nil
	})
}

// translateConst finds constant definitions. It looks for uses of these in the rest
// of the program and replaces those uses with the expression represented by the constant.
// The const nodes are replaced with simplified versions of themselves:
//
//    List{"const", Expr1, Expr2}
//
// where Expr1 contains the constant name and Expr2 the value, becomes:
//
//    List{Name, Expr2}
//
// Multi-token expressions are inserted in parentheses to keep their precedence.
func translateConst(nodes *parser.List) error {
	for i := 0; i < nodes.Len(); i++ {
		n := nodes.At(i)
		if n.Type() != parser.Constant {
			continue
		}

		constant := n.(*parser.List)
		if constant.Len() != 3 {
			continue // already translated
		}

		name := constant.At(1).(*parser.List).At(0).(*parser.Value)
		expr := constant.At(2).(*parser.List)

		if refersTo(expr, name.Value) {
			return parser.NewError(expr.Position(), "constant %q refers to itself", name.Value)
		}

		newConst := parser.NewList(n.Position(), parser.Constant)
		newConst.Append(name, expr)
		nodes.ReplaceAt(i, newConst)

		replaceConst(nodes, name.Value, substitute(expr))
	}
	return nil
}

// substitute returns the nodes used in place of a reference to the
// constant with the given value expression.
func substitute(expr *parser.List) []parser.Node {
	if expr.Len() == 1 {
		return expr.Slice()
	}

	pos := expr.Position()
	out := make([]parser.Node, 0, expr.Len()+2)
	out = append(out, parser.NewValue(pos, parser.Operator, "("))
	out = append(out, expr.Slice()...)
	return append(out, parser.NewValue(pos, parser.Operator, ")"))
}

// replaceConst finds references to the given constant and replaces the reference
// with copies of the specified expression.
func replaceConst(nodes *parser.List, name string, expr []parser.Node) {
	for i := 0; i < nodes.Len(); i++ {
		n := nodes.At(i)

		// Skip instruction and constant names.
		if i == 0 && (nodes.Type() == parser.Instruction || nodes.Type() == parser.Constant) {
			continue
		}

		if list, ok := n.(*parser.List); ok {
			replaceConst(list, name, expr)
			continue
		}

		if !isIdent(n, name) {
			continue
		}

		set := make([]parser.Node, len(expr))
		for j := range expr {
			set[j] = expr[j].Copy()
		}

		nodes.ReplaceAt(i, set...)
		i += len(set) - 1
	}
}

// refersTo returns true if the given expression references name.
func refersTo(expr *parser.List, name string) bool {
	for _, n := range expr.Slice() {
		if isIdent(n, name) {
			return true
		}
	}
	return false
}

// testNumbers finds numeric literals and ensures they can be parsed into
// actual integers without issue.
func testNumbers(nodes *parser.List) error {
	return nodes.Each(func(_ int, n parser.Node) error {
		if list, ok := n.(*parser.List); ok {
			return testNumbers(list)
		}

		if n.Type() != parser.Number {
			return nil
		}

		node := n.(*parser.Value)
		if _, err := parser.ParseNumber(node.Value); err != nil {
			return parser.NewError(node.Position(), "invalid number %q", node.Value)
		}

		return nil
	})
}

// isIdent returns true if n is an Ident with the given value.
func isIdent(n parser.Node, value string) bool {
	return n.Type() == parser.Ident &&
		strings.EqualFold(value, n.(*parser.Value).Value)
}
