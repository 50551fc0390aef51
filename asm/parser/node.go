package parser

type Type int

// Known node types.
const (
	_ Type = iota
	Ident
	String
	Number
	Operator
	Register
	Special
	Label
	Instruction
	Expression
	Constant
)

func (t Type) String() string {
	switch t {
	case Ident:
		return "Ident"
	case String:
		return "String"
	case Number:
		return "Number"
	case Operator:
		return "Operator"
	case Register:
		return "Register"
	case Special:
		return "Special"
	case Label:
		return "Label"
	case Instruction:
		return "Instruction"
	case Expression:
		return "Expression"
	case Constant:
		return "Constant"
	}

	return ""
}

// Node represents a generic AST node.
type Node interface {
	Position() Position
	Type() Type
	Copy() Node
}

// nodeBase is embedded by concrete node types and ensures
// they qualify as a Node interface.
type nodeBase struct {
	pos   Position
	ntype Type
}

func newNodeBase(pos Position, ntype Type) *nodeBase {
	return &nodeBase{
		pos:   pos,
		ntype: ntype,
	}
}

func (n *nodeBase) Position() Position {
	return n.pos
}

func (n *nodeBase) Type() Type {
	return n.ntype
}

// Value is a leaf node holding a single token.
type Value struct {
	*nodeBase
	Value string
}

// NewValue creates a new leaf node.
func NewValue(pos Position, ntype Type, value string) *Value {
	return &Value{
		nodeBase: newNodeBase(pos, ntype),
		Value:    value,
	}
}

// Copy returns a copy of this value.
func (n *Value) Copy() Node {
	return NewValue(n.pos, n.ntype, n.Value)
}
