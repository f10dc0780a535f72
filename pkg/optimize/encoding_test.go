package optimize

import (
	"testing"

	"github.com/aleksaelezovic/qcore/pkg/exprbuilder"
	"github.com/aleksaelezovic/qcore/pkg/logplan"
	"github.com/aleksaelezovic/qcore/pkg/storage"
)

// A shared join variable left Sortable on one side and PlainTerm on the
// other must be forced to PlainTerm on the Sortable side.
func TestEncodingAlignmentForcesPlainTermOnMismatchedJoin(t *testing.T) {
	left := scan(storage.Variable("?s"), storage.Bound(ex("p")), storage.Variable("?o"))
	right := &logplan.ReencodeNode{
		Input:    scan(storage.Variable("?o"), storage.Variable("?p2"), storage.Variable("?x")),
		Variable: "?o",
		Target:   exprbuilder.EncSortable,
	}
	join := &logplan.SparqlJoinNode{Left: left, Right: right, Kind: logplan.JoinInner}

	rewritten, changed, err := EncodingAlignmentRule{}.Apply(join)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Fatal("expected a Sortable/PlainTerm mismatch on ?o to be realigned")
	}
	out := rewritten.(*logplan.SparqlJoinNode)
	reencoded, ok := out.Right.(*logplan.ReencodeNode)
	if !ok {
		t.Fatalf("Right = %T, want a *logplan.ReencodeNode forcing ?o back to PlainTerm", out.Right)
	}
	if reencoded.Variable != "?o" || reencoded.Target != exprbuilder.EncPlainTerm {
		t.Fatalf("Reencode = {%s -> %v}, want {?o -> PlainTerm}", reencoded.Variable, reencoded.Target)
	}
}

// Two PlainTerm-encoded sides sharing a variable need no realignment.
func TestEncodingAlignmentNoOpWhenAlreadyAligned(t *testing.T) {
	left := scan(storage.Variable("?s"), storage.Bound(ex("p")), storage.Variable("?o"))
	right := scan(storage.Variable("?o"), storage.Variable("?p2"), storage.Variable("?x"))
	join := &logplan.SparqlJoinNode{Left: left, Right: right, Kind: logplan.JoinInner}

	_, changed, err := EncodingAlignmentRule{}.Apply(join)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if changed {
		t.Fatal("two PlainTerm-encoded scan outputs should already be aligned")
	}
}

// Two ObjectId-encoded sides sharing a variable are aligned without a
// Reencode, since this engine has exactly one objectid.Mapping per store.
func TestEncodingAlignmentTreatsObjectIdAsAligned(t *testing.T) {
	left := &logplan.ReencodeNode{
		Input:    scan(storage.Variable("?s"), storage.Bound(ex("p")), storage.Variable("?o")),
		Variable: "?o",
		Target:   exprbuilder.EncObjectId,
	}
	right := &logplan.ReencodeNode{
		Input:    scan(storage.Variable("?o"), storage.Variable("?p2"), storage.Variable("?x")),
		Variable: "?o",
		Target:   exprbuilder.EncObjectId,
	}
	join := &logplan.SparqlJoinNode{Left: left, Right: right, Kind: logplan.JoinInner}

	_, changed, err := EncodingAlignmentRule{}.Apply(join)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if changed {
		t.Fatal("two ObjectId-encoded columns must be considered already aligned")
	}
}
