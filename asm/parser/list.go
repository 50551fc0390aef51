package parser

// List defines a generic collection of nodes and is itself a node.
type List struct {
	*nodeBase
	children []Node
}

// NewList creates a new, empty list.
func NewList(pos Position, ntype Type) *List {
	return &List{
		nodeBase: newNodeBase(pos, ntype),
	}
}

func (n *List) Len() int {
	return len(n.children)
}

func (n *List) Clear() {
	n.children = n.children[:0]
}

func (n *List) Append(set ...Node) {
	n.children = append(n.children, set...)
}

// At returns the node at index x.
func (n *List) At(x int) Node {
	return n.children[x]
}

// Slice returns the list of child elements as a slice.
func (n *List) Slice() []Node {
	return n.children
}

// Remove removes the node at index from the list.
func (n *List) Remove(index int) {
	n.ReplaceAt(index)
}

// Copy returns a deep copy of this list and its contents.
func (n *List) Copy() Node {
	nn := NewList(n.pos, n.ntype)
	nn.children = make([]Node, len(n.children))

	for i := range n.children {
		nn.children[i] = n.children[i].Copy()
	}

	return nn
}

type IterFunc func(int, Node) error

// Each calls f for each element in the list.
// Iteration stops if f returns an error.
func (n *List) Each(f IterFunc) error {
	for i, v := range n.children {
		if err := f(i, v); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceAt replaces the node at index with the given set.
// ReplaceAt(x) is equivalent to Remove(x).
// ReplaceAt(len(List), set) is equivalent to Append(set...).
func (n *List) ReplaceAt(index int, set ...Node) {
	switch {
	case len(set) == 0:
		copy(n.children[index:], n.children[index+1:])
		n.children[len(n.children)-1] = nil
		n.children = n.children[:len(n.children)-1]

	case index >= n.Len():
		n.children = append(n.children, set...)

	case len(set) == 1:
		n.children[index] = set[0]

	default:
		out := append(n.children, set[1:]...)
		copy(out[index+len(set):], out[index+1:])
		copy(out[index:], set)
		n.children = out
	}
}
