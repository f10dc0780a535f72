package optimize

import (
	"testing"

	"github.com/aleksaelezovic/qcore/pkg/exprbuilder"
	"github.com/aleksaelezovic/qcore/pkg/logplan"
	"github.com/aleksaelezovic/qcore/pkg/storage"
)

func scan(s, p, o storage.Slot) *logplan.QuadPatternNode {
	return &logplan.QuadPatternNode{Pattern: storage.QuadPattern{
		ActiveGraph: storage.ActiveGraph{Kind: storage.ActiveGraphDefault},
		Subject:     s, Predicate: p, Object: o,
	}}
}

// An all-variable scan joined with a PO-bound one (sharing ?s, so both
// land in the same connected component) must be reordered so the cheaper
// PO-bound leaf runs first.
func TestSparqlJoinReorderingPutsMoreBoundLeafFirst(t *testing.T) {
	expensive := scan(storage.Variable("?s"), storage.Variable("?p"), storage.Variable("?o"))
	cheap := scan(storage.Variable("?s"), storage.Bound(ex("p")), storage.Bound(ex("b")))

	join := &logplan.SparqlJoinNode{
		Left:  expensive,
		Right: cheap,
		Kind:  logplan.JoinInner,
	}
	rewritten, changed, err := SparqlJoinReorderingRule{}.Apply(join)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Fatal("expected reordering to fire (cheap leaf was on the right)")
	}
	out, ok := rewritten.(*logplan.SparqlJoinNode)
	if !ok {
		t.Fatalf("got %T, want *logplan.SparqlJoinNode", rewritten)
	}
	if out.Left != logplan.Node(cheap) {
		t.Fatalf("Left = %#v, want the cheaper (PO-bound) leaf first", out.Left)
	}
}

// Already-optimal order must not be touched (rule reports no change, so
// RunToFixpoint terminates).
func TestSparqlJoinReorderingIsIdempotentOnOptimalOrder(t *testing.T) {
	cheap := scan(storage.Variable("?s"), storage.Bound(ex("p")), storage.Bound(ex("b")))
	expensive := scan(storage.Variable("?s"), storage.Variable("?p"), storage.Variable("?o"))
	join := &logplan.SparqlJoinNode{Left: cheap, Right: expensive, Kind: logplan.JoinInner}

	_, changed, err := SparqlJoinReorderingRule{}.Apply(join)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if changed {
		t.Fatal("rule fired again on an already-optimal order")
	}
}

// A join carrying a Filter (only meaningful for Left joins) must be left
// untouched even if its leaves are out of order.
func TestSparqlJoinReorderingSkipsFilteredJoins(t *testing.T) {
	expensive := scan(storage.Variable("?s"), storage.Variable("?p"), storage.Variable("?o"))
	cheap := scan(storage.Variable("?s"), storage.Bound(ex("p")), storage.Bound(ex("b")))
	filterExpr := exprbuilder.Expr{IsBoolean: true}
	join := &logplan.SparqlJoinNode{
		Left: expensive, Right: cheap, Kind: logplan.JoinInner,
		Filter: &filterExpr,
	}
	_, changed, err := SparqlJoinReorderingRule{}.Apply(join)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if changed {
		t.Fatal("rule must not reorder a filtered join")
	}
}

// Two disconnected components (no shared variables) must each be ordered
// internally and then placed smallest-estimated-size first.
func TestSparqlJoinReorderingOrdersDisconnectedComponents(t *testing.T) {
	bigComponent := scan(storage.Variable("?x"), storage.Variable("?p2"), storage.Variable("?y"))
	smallComponent := scan(storage.Variable("?a"), storage.Bound(ex("p")), storage.Bound(ex("b")))
	join := &logplan.SparqlJoinNode{Left: bigComponent, Right: smallComponent, Kind: logplan.JoinInner}

	rewritten, changed, err := SparqlJoinReorderingRule{}.Apply(join)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Fatal("expected reordering across disconnected components")
	}
	out := rewritten.(*logplan.SparqlJoinNode)
	if out.Left != logplan.Node(smallComponent) {
		t.Fatalf("Left = %#v, want the smaller disconnected component first", out.Left)
	}
}
