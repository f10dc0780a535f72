package logplan

import "github.com/aleksaelezovic/qcore/pkg/exprbuilder"

// ExtendNode adds Variable = Expr to every input row (§4.7). Variable must
// not already appear in Input's schema.
type ExtendNode struct {
	Input    Node
	Variable string
	Expr     exprbuilder.Expr
}

func (n *ExtendNode) Schema() []string {
	return dedupVars(n.Input.Schema(), []string{n.Variable})
}

func (n *ExtendNode) Children() []Node { return []Node{n.Input} }
