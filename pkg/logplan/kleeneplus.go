package logplan

// KleenePlusClosureNode computes the transitive closure of Input's (graph,
// start, end) edges (§4.7, lowered by PropertyPathLoweringRule's `p+` case
// and executed by pkg/physical.KleenePlusOperator). CrossGraph allows edges
// from any graph to chain together instead of staying within one graph's
// edge set; §4.9.1 permits this only when no graph-name variable is bound.
type KleenePlusClosureNode struct {
	Input      Node // schema: graph, start, end
	CrossGraph bool
}

func (n *KleenePlusClosureNode) Schema() []string { return n.Input.Schema() }

func (n *KleenePlusClosureNode) Children() []Node { return []Node{n.Input} }
