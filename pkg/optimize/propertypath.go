package optimize

import (
	"fmt"

	"github.com/aleksaelezovic/qcore/pkg/algebra"
	"github.com/aleksaelezovic/qcore/pkg/exprbuilder"
	"github.com/aleksaelezovic/qcore/pkg/logplan"
	"github.com/aleksaelezovic/qcore/pkg/rdf"
	"github.com/aleksaelezovic/qcore/pkg/storage"
)

// PropertyPathLoweringRule rewrites PropertyPathNode into regular quad-scan
// / union / join / recursive nodes per §4.9.1's grammar table. It runs
// bottom-up (via RunToFixpoint) and preserves PropertyPathNode's output
// schema exactly, by finishing with a PatternNode reshape.
type PropertyPathLoweringRule struct{}

// internal plumbing column names every lowerPath call produces: a quad's
// graph id, and the path's two endpoints before they are reshaped onto the
// caller's actual subject/object slots.
const (
	colGraph = "graph"
	colStart = "start"
	colEnd   = "end"
)

func (PropertyPathLoweringRule) Apply(node logplan.Node) (logplan.Node, bool, error) {
	pp, ok := node.(*logplan.PropertyPathNode)
	if !ok {
		return node, false, nil
	}
	crossGraph := pp.GraphVar == ""
	inner, err := lowerPath(pp.Path, pp.ActiveGraph, crossGraph)
	if err != nil {
		return nil, false, err
	}
	filtered, err := applyEndpointFilters(inner, pp.Subject, pp.Object)
	if err != nil {
		return nil, false, err
	}
	return &logplan.PatternNode{Input: filtered, GraphVar: pp.GraphVar, Subject: pp.Subject, Object: pp.Object}, true, nil
}

// applyEndpointFilters restricts inner's (graph,start,end) rows to a bound
// subject/object term, since PatternNode itself only reshapes columns and
// never filters.
func applyEndpointFilters(input logplan.Node, subject, object storage.Slot) (logplan.Node, error) {
	b := exprbuilder.NewBuilder(map[string]exprbuilder.Encoding{
		colGraph: exprbuilder.EncPlainTerm,
		colStart: exprbuilder.EncPlainTerm,
		colEnd:   exprbuilder.EncPlainTerm,
	})
	node := input
	for _, pair := range []struct {
		column string
		slot   storage.Slot
	}{{colStart, subject}, {colEnd, object}} {
		if pair.slot.Kind != storage.SlotBound {
			continue
		}
		colExpr, err := b.Var(pair.column)
		if err != nil {
			return nil, err
		}
		eq, err := b.RDFTermEqual(colExpr, exprbuilder.Lit(pair.slot.Term))
		if err != nil {
			return nil, err
		}
		node = &logplan.FilterNode{Input: node, Expr: b.EBV(eq)}
	}
	return node, nil
}

// lowerPath lowers one property-path expression to a (graph,start,end)
// node per §4.9.1's grammar table. crossGraph is true iff the enclosing
// PropertyPathNode has no graph-name variable, and is threaded unchanged
// into every nested Kleene-plus closure.
func lowerPath(expr algebra.PathExpr, ag storage.ActiveGraph, crossGraph bool) (logplan.Node, error) {
	switch expr.Kind {
	case algebra.PathPredicate:
		return &logplan.QuadPatternNode{Pattern: storage.QuadPattern{
			ActiveGraph: ag,
			GraphVar:    colGraph,
			Subject:     storage.Variable(colStart),
			Predicate:   storage.Bound(expr.Pred),
			Object:      storage.Variable(colEnd),
		}}, nil

	case algebra.PathInverse:
		inner, err := lowerPath(*expr.Sub, ag, crossGraph)
		if err != nil {
			return nil, err
		}
		return &logplan.RenameNode{Input: inner, Mapping: map[string]string{colStart: colEnd, colEnd: colStart}}, nil

	case algebra.PathSequence:
		return lowerSequence(expr.Children, ag, crossGraph)

	case algebra.PathAlternative:
		return lowerAlternative(expr.Children, ag, crossGraph)

	case algebra.PathNegatedSet:
		return lowerNegatedSet(expr.Negated, ag)

	case algebra.PathOneOrMore:
		inner, err := lowerPath(*expr.Sub, ag, crossGraph)
		if err != nil {
			return nil, err
		}
		return &logplan.KleenePlusClosureNode{Input: inner, CrossGraph: crossGraph}, nil

	case algebra.PathZeroOrMore:
		plus, err := lowerPath(algebra.PathExpr{Kind: algebra.PathOneOrMore, Sub: expr.Sub}, ag, crossGraph)
		if err != nil {
			return nil, err
		}
		zero, err := lowerZeroLength(ag)
		if err != nil {
			return nil, err
		}
		return &logplan.DistinctNode{Input: &logplan.UnionByNameNode{Left: plus, Right: zero}}, nil

	case algebra.PathZeroOrOne:
		once, err := lowerPath(*expr.Sub, ag, crossGraph)
		if err != nil {
			return nil, err
		}
		zero, err := lowerZeroLength(ag)
		if err != nil {
			return nil, err
		}
		return &logplan.DistinctNode{Input: &logplan.UnionByNameNode{Left: once, Right: zero}}, nil

	default:
		return nil, fmt.Errorf("optimize: unhandled path expression kind %v", expr.Kind)
	}
}

// lowerSequence lowers p1/p2/.../pn by folding joinPathSegments left to
// right: each step joins the accumulated path's end to the next segment's
// start (and implicitly its graph, since every lowering carries a "graph"
// column even when the active graph has no surface-visible name).
func lowerSequence(children []algebra.PathExpr, ag storage.ActiveGraph, crossGraph bool) (logplan.Node, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("optimize: empty path sequence")
	}
	acc, err := lowerPath(children[0], ag, crossGraph)
	if err != nil {
		return nil, err
	}
	for _, next := range children[1:] {
		rightNode, err := lowerPath(next, ag, crossGraph)
		if err != nil {
			return nil, err
		}
		acc = joinPathSegments(acc, rightNode)
	}
	return acc, nil
}

func joinPathSegments(left, right logplan.Node) logplan.Node {
	leftRenamed := renameColumn(left, colEnd, "mid")
	rightRenamed := renameColumn(right, colStart, "mid")
	join := &logplan.SparqlJoinNode{Left: leftRenamed, Right: rightRenamed, Kind: logplan.JoinInner}
	projected := &logplan.ProjectNode{Input: join, Vars: []string{colGraph, colStart, colEnd}}
	return &logplan.DistinctNode{Input: projected}
}

func renameColumn(input logplan.Node, from, to string) logplan.Node {
	if from == to {
		return input
	}
	return &logplan.RenameNode{Input: input, Mapping: map[string]string{from: to}}
}

// lowerAlternative lowers p1|p2|...|pn by folding a distinct union left to
// right.
func lowerAlternative(children []algebra.PathExpr, ag storage.ActiveGraph, crossGraph bool) (logplan.Node, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("optimize: empty path alternative")
	}
	acc, err := lowerPath(children[0], ag, crossGraph)
	if err != nil {
		return nil, err
	}
	for _, next := range children[1:] {
		rightNode, err := lowerPath(next, ag, crossGraph)
		if err != nil {
			return nil, err
		}
		acc = &logplan.DistinctNode{Input: &logplan.UnionByNameNode{Left: acc, Right: rightNode}}
	}
	return acc, nil
}

// lowerNegatedSet lowers !{p1,...,pn} to a full quad scan filtered to
// exclude every negated predicate, distinct.
func lowerNegatedSet(negated []rdf.Term, ag storage.ActiveGraph) (logplan.Node, error) {
	base := &logplan.QuadPatternNode{Pattern: storage.QuadPattern{
		ActiveGraph: ag,
		GraphVar:    colGraph,
		Subject:     storage.Variable(colStart),
		Predicate:   storage.Variable("predicate"),
		Object:      storage.Variable(colEnd),
	}}
	b := exprbuilder.NewBuilder(map[string]exprbuilder.Encoding{
		colGraph:    exprbuilder.EncPlainTerm,
		colStart:    exprbuilder.EncPlainTerm,
		"predicate": exprbuilder.EncPlainTerm,
		colEnd:      exprbuilder.EncPlainTerm,
	})
	predVar, err := b.Var("predicate")
	if err != nil {
		return nil, err
	}

	var cond exprbuilder.Expr
	if len(negated) == 0 {
		cond = b.EBV(exprbuilder.Lit(rdf.NewBooleanLiteral(true)))
	} else {
		excluded, err := b.RDFTermEqual(predVar, exprbuilder.Lit(negated[0]))
		if err != nil {
			return nil, err
		}
		for _, term := range negated[1:] {
			eq, err := b.RDFTermEqual(predVar, exprbuilder.Lit(term))
			if err != nil {
				return nil, err
			}
			excluded, err = b.Or(excluded, eq)
			if err != nil {
				return nil, err
			}
		}
		notExcluded, err := b.Not(excluded)
		if err != nil {
			return nil, err
		}
		cond = b.EBV(notExcluded)
	}

	filtered := &logplan.FilterNode{Input: base, Expr: cond}
	projected := &logplan.ProjectNode{Input: filtered, Vars: []string{colGraph, colStart, colEnd}}
	return &logplan.DistinctNode{Input: projected}, nil
}

// lowerZeroLength builds the "zero-length" set of §4.9.1's `p*`/`p?` rows:
// (graph, s, s) for every term s occurring as subject or object in the
// active graph.
func lowerZeroLength(ag storage.ActiveGraph) (logplan.Node, error) {
	subjects := &logplan.QuadPatternNode{Pattern: storage.QuadPattern{
		ActiveGraph: ag, GraphVar: colGraph,
		Subject: storage.Variable("term"), Predicate: storage.Wildcard(), Object: storage.Wildcard(),
	}}
	objects := &logplan.QuadPatternNode{Pattern: storage.QuadPattern{
		ActiveGraph: ag, GraphVar: colGraph,
		Subject: storage.Wildcard(), Predicate: storage.Wildcard(), Object: storage.Variable("term"),
	}}
	terms := &logplan.DistinctNode{Input: &logplan.UnionByNameNode{Left: subjects, Right: objects}}
	started := renameColumn(terms, "term", colStart)

	b := exprbuilder.NewBuilder(map[string]exprbuilder.Encoding{colGraph: exprbuilder.EncPlainTerm, colStart: exprbuilder.EncPlainTerm})
	endExpr, err := b.Var(colStart)
	if err != nil {
		return nil, err
	}
	return &logplan.ExtendNode{Input: started, Variable: colEnd, Expr: endExpr}, nil
}
