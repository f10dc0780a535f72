package rewrite

import (
	"fmt"

	"github.com/aleksaelezovic/qcore/pkg/algebra"
	"github.com/aleksaelezovic/qcore/pkg/logplan"
	"github.com/aleksaelezovic/qcore/pkg/rdf"
	"github.com/aleksaelezovic/qcore/pkg/storage"
)

// rewriteGraph lowers GRAPH <iri> { P } / GRAPH ?g { P } by pushing a new
// active-graph frame around P, then popping it before returning (§4.8).
func (r *Rewriter) rewriteGraph(n *algebra.Graph) (logplan.Node, error) {
	var ag storage.ActiveGraph
	var graphVar string
	switch {
	case n.Variable != "":
		// GRAPH ?g ranges over every named graph; §4.5's Between(1,
		// MaxUint32) trick is what ActiveGraphAnyNamed lowers to at scan
		// time, excluding the default graph's reserved ID 0.
		ag = storage.ActiveGraph{Kind: storage.ActiveGraphAnyNamed}
		graphVar = n.Variable
	case n.Name != nil:
		ag = storage.ActiveGraph{Kind: storage.ActiveGraphUnion, Graphs: []rdf.Term{n.Name}}
	default:
		return nil, fmt.Errorf("rewrite: GRAPH clause names neither a term nor a variable")
	}
	r.push(ag, graphVar)
	defer r.pop()
	return r.Rewrite(n.Input)
}

// rewritePath lowers a property-path pattern to a PropertyPathNode leaf;
// PropertyPathLoweringRule (pkg/optimize, §4.9.1) rewrites it away before
// physical execution.
func (r *Rewriter) rewritePath(n *algebra.Path) (logplan.Node, error) {
	f := r.top()
	return &logplan.PropertyPathNode{
		ActiveGraph: f.activeGraph,
		GraphVar:    f.graphVar,
		Path:        n.Expr,
		Subject:     slotFor(n.Subject),
		Object:      slotFor(n.Object),
	}, nil
}
