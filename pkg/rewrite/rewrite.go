// Package rewrite implements the SPARQL algebra rewriter (C9, §4.8): it
// walks a pkg/algebra tree — the parsed-algebra stand-in described in §2 —
// and produces an equivalent pkg/logplan tree, threading the active graph
// through nested GRAPH blocks with a frame stack the way the teacher's
// optimizer threads query-wide state across its AST walk
// (internal/sparql/optimizer/optimizer.go).
package rewrite

import (
	"fmt"

	"github.com/aleksaelezovic/qcore/pkg/algebra"
	"github.com/aleksaelezovic/qcore/pkg/exprbuilder"
	"github.com/aleksaelezovic/qcore/pkg/logplan"
	"github.com/aleksaelezovic/qcore/pkg/storage"
)

func init() {
	// EXISTS/NOT EXISTS carry a correlated subquery plan no ordinary
	// builtin's Args can express; registering them here (rather than in
	// pkg/exprbuilder, which has no notion of a logical plan) keeps that
	// package ignorant of pkg/logplan.
	exprbuilder.Register(exprbuilder.FuncSpec{Name: "exists", Output: exprbuilder.EncPlainTerm, IsBoolean: true})
	exprbuilder.Register(exprbuilder.FuncSpec{Name: "not_exists", Output: exprbuilder.EncPlainTerm, IsBoolean: true})
}

// frame is one entry of the active-graph stack a nested GRAPH clause
// pushes and pops around its subtree.
type frame struct {
	activeGraph storage.ActiveGraph
	graphVar    string // "" if the enclosing GRAPH clause bound no variable
}

// Rewriter lowers algebra.Node trees into logplan.Node trees.
type Rewriter struct {
	plan  *logplan.Builder
	stack []frame

	// varEncodings records the output encoding Extend gave each variable
	// it introduced, so a later Filter/OrderBy/Group over that variable
	// builds its exprbuilder.Expr against the right schema entry instead
	// of assuming PlainTerm.
	varEncodings map[string]exprbuilder.Encoding
}

// NewRewriter constructs a Rewriter whose outermost active graph is ag
// (ActiveGraphDefault for a query with no FROM/FROM NAMED clauses).
func NewRewriter(ag storage.ActiveGraph) *Rewriter {
	return &Rewriter{plan: logplan.NewBuilder(), stack: []frame{{activeGraph: ag}}}
}

func (r *Rewriter) top() frame { return r.stack[len(r.stack)-1] }

func (r *Rewriter) push(ag storage.ActiveGraph, graphVar string) {
	r.stack = append(r.stack, frame{activeGraph: ag, graphVar: graphVar})
}

func (r *Rewriter) pop() { r.stack = r.stack[:len(r.stack)-1] }

// Rewrite lowers one algebra.Node, per §4.8's operator mapping table.
func (r *Rewriter) Rewrite(node algebra.Node) (logplan.Node, error) {
	switch n := node.(type) {
	case *algebra.BGP:
		return r.rewriteBGP(n)
	case *algebra.Join:
		return r.rewriteJoin(n)
	case *algebra.LeftJoin:
		return r.rewriteLeftJoin(n)
	case *algebra.Filter:
		return r.rewriteFilter(n)
	case *algebra.Extend:
		return r.rewriteExtend(n)
	case *algebra.Union:
		return r.rewriteUnion(n)
	case *algebra.Minus:
		return r.rewriteMinus(n)
	case *algebra.Graph:
		return r.rewriteGraph(n)
	case *algebra.Path:
		return r.rewritePath(n)
	case *algebra.Values:
		return r.rewriteValues(n)
	case *algebra.OrderBy:
		return r.rewriteOrderBy(n)
	case *algebra.Slice:
		return r.rewriteSlice(n)
	case *algebra.Distinct:
		return r.rewriteDistinct(n)
	case *algebra.Reduced:
		// REDUCED permits, but does not require, deduplication; emitting
		// duplicates is still a correct REDUCED answer, so this lowers to
		// a pass-through rather than a DistinctNode.
		return r.Rewrite(n.Input)
	case *algebra.Group:
		return r.rewriteGroup(n)
	case *algebra.Ask:
		return r.rewriteAsk(n)
	default:
		return nil, fmt.Errorf("rewrite: unhandled algebra node %T", node)
	}
}

// schemaFor builds the encoding map exprbuilder.NewBuilder needs for
// node's output schema, defaulting every variable to PlainTerm unless an
// earlier Extend recorded a different output encoding for it.
func (r *Rewriter) schemaFor(node logplan.Node) map[string]exprbuilder.Encoding {
	schema := make(map[string]exprbuilder.Encoding, len(node.Schema()))
	for _, v := range node.Schema() {
		if enc, ok := r.varEncodings[v]; ok {
			schema[v] = enc
		} else {
			schema[v] = exprbuilder.EncPlainTerm
		}
	}
	return schema
}

func slotFor(tv algebra.TermOrVar) storage.Slot {
	if tv.IsVariable() {
		return storage.Variable(tv.Variable)
	}
	if tv.Term == nil {
		return storage.Wildcard()
	}
	return storage.Bound(tv.Term)
}

func (r *Rewriter) quadPatternNode(tp algebra.TriplePattern) *logplan.QuadPatternNode {
	f := r.top()
	return &logplan.QuadPatternNode{Pattern: storage.QuadPattern{
		ActiveGraph: f.activeGraph,
		GraphVar:    f.graphVar,
		Subject:     slotFor(tp.Subject),
		Predicate:   slotFor(tp.Predicate),
		Object:      slotFor(tp.Object),
	}}
}
