package rewrite

import (
	"fmt"

	"github.com/aleksaelezovic/qcore/pkg/algebra"
	"github.com/aleksaelezovic/qcore/pkg/exprbuilder"
	"github.com/aleksaelezovic/qcore/pkg/logplan"
)

// rewriteBGP lowers a basic graph pattern to a left-deep chain of inner
// SparqlJoinNodes over one QuadPatternNode per triple pattern (§4.8).
func (r *Rewriter) rewriteBGP(n *algebra.BGP) (logplan.Node, error) {
	if len(n.Patterns) == 0 {
		return nil, fmt.Errorf("rewrite: empty BGP")
	}
	result := logplan.Node(r.quadPatternNode(n.Patterns[0]))
	for _, tp := range n.Patterns[1:] {
		result = &logplan.SparqlJoinNode{Left: result, Right: r.quadPatternNode(tp), Kind: logplan.JoinInner}
	}
	return result, nil
}

// rewriteJoin lowers algebra Join to an inner SparqlJoinNode.
func (r *Rewriter) rewriteJoin(n *algebra.Join) (logplan.Node, error) {
	left, err := r.Rewrite(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := r.Rewrite(n.Right)
	if err != nil {
		return nil, err
	}
	return &logplan.SparqlJoinNode{Left: left, Right: right, Kind: logplan.JoinInner}, nil
}

// rewriteLeftJoin lowers algebra LeftJoin (OPTIONAL) to a left SparqlJoinNode,
// carrying the join filter (if any) unmodified — SparqlJoinNode's Kind
// already governs when it applies.
func (r *Rewriter) rewriteLeftJoin(n *algebra.LeftJoin) (logplan.Node, error) {
	left, err := r.Rewrite(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := r.Rewrite(n.Right)
	if err != nil {
		return nil, err
	}
	join := &logplan.SparqlJoinNode{Left: left, Right: right, Kind: logplan.JoinLeft}
	if n.Filter != nil {
		schema := r.schemaFor(join)
		b := exprbuilder.NewBuilder(schema)
		built, err := r.rewriteExprWith(b, n.Filter)
		if err != nil {
			return nil, err
		}
		ebv := b.EBV(built)
		join.Filter = &ebv
	}
	return join, nil
}

// rewriteMinus lowers algebra Minus directly to MinusNode.
func (r *Rewriter) rewriteMinus(n *algebra.Minus) (logplan.Node, error) {
	left, err := r.Rewrite(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := r.Rewrite(n.Right)
	if err != nil {
		return nil, err
	}
	return &logplan.MinusNode{Left: left, Right: right}, nil
}
