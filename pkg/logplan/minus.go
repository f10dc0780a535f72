package logplan

// MinusNode removes from Left each row compatible with some row of Right
// that shares at least one bound variable (§4.7). Its schema is Left's
// unchanged.
type MinusNode struct {
	Left, Right Node
}

func (n *MinusNode) Schema() []string { return n.Left.Schema() }

func (n *MinusNode) Children() []Node { return []Node{n.Left, n.Right} }
