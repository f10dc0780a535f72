package logplan

import "github.com/aleksaelezovic/qcore/pkg/exprbuilder"

// JoinKind discriminates a SparqlJoinNode (§4.7).
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
)

// SparqlJoinNode performs a multiset join under SPARQL compatibility
// semantics (a row matches iff the shared bindings are pair-wise
// is_compatible): Inner drops non-matching rows, Left keeps every lhs row,
// nulling rhs columns when nothing matched.
type SparqlJoinNode struct {
	Left, Right Node
	Kind        JoinKind
	Filter      *exprbuilder.Expr // nil if none; only meaningful for JoinLeft per §4.8's mapping table
}

func (n *SparqlJoinNode) Schema() []string {
	return dedupVars(n.Left.Schema(), n.Right.Schema())
}

func (n *SparqlJoinNode) Children() []Node { return []Node{n.Left, n.Right} }
