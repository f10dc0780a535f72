package logplan

// RenameNode renames Input's output columns per Mapping (old name -> new
// name); a variable absent from Mapping passes through unchanged. Used by
// property-path lowering (pkg/optimize) to swap a path's start/end columns
// for `^p` without a dedicated inverse-path node type, and to align a join
// variable's name across the two sides of a sequence path.
type RenameNode struct {
	Input   Node
	Mapping map[string]string
}

func (n *RenameNode) Schema() []string {
	out := make([]string, len(n.Input.Schema()))
	for i, v := range n.Input.Schema() {
		if to, ok := n.Mapping[v]; ok {
			out[i] = to
		} else {
			out[i] = v
		}
	}
	return out
}

func (n *RenameNode) Children() []Node { return []Node{n.Input} }
