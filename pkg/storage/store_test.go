package storage

import (
	"context"
	"testing"

	"github.com/aleksaelezovic/qcore/pkg/qindex"
	"github.com/aleksaelezovic/qcore/pkg/rdf"
)

func quad(s, p, o string, g rdf.Term) *rdf.Quad {
	if g == nil {
		g = rdf.NewDefaultGraph()
	}
	return rdf.NewQuad(rdf.NewNamedNode(s), rdf.NewNamedNode(p), rdf.NewNamedNode(o), g)
}

func TestExtendDeduplicatesAndCounts(t *testing.T) {
	s := New()
	q1 := quad("s1", "p1", "o1", nil)
	q2 := quad("s2", "p2", "o2", nil)

	n, err := s.Extend([]*rdf.Quad{q1, q2, q1})
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 inserted, got %d", n)
	}
	if s.Len() != 2 {
		t.Fatalf("expected Len()=2, got %d", s.Len())
	}

	n2, err := s.Extend([]*rdf.Quad{q1})
	if err != nil {
		t.Fatalf("Extend (repeat): %v", err)
	}
	if n2 != 0 {
		t.Fatalf("expected 0 newly inserted on repeat, got %d", n2)
	}
}

func TestRemoveOnlyExistingQuads(t *testing.T) {
	s := New()
	q1 := quad("s1", "p1", "o1", nil)
	q2 := quad("s2", "p2", "o2", nil)
	if _, err := s.Extend([]*rdf.Quad{q1}); err != nil {
		t.Fatalf("Extend: %v", err)
	}

	n, err := s.Remove([]*rdf.Quad{q1, q2})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got Len()=%d", s.Len())
	}
}

// countIndex walks every permutation with unconstrained Traverse/Scan
// instructions and returns the multiset of (posA,posB,posC,posD) rows it
// yields, keyed by ID tuple in the index's own permutation order — used to
// check that all three permutations stay in lockstep (§3.4).
func countIndex(t *testing.T, idx *qindex.Index) map[[4]uint32]int {
	t.Helper()
	instrs := [4]qindex.ScanInstruction{
		qindex.Scan("a", qindex.ScanPredicate{}),
		qindex.Scan("b", qindex.ScanPredicate{}),
		qindex.Scan("c", qindex.ScanPredicate{}),
		qindex.Scan("d", qindex.ScanPredicate{}),
	}
	ctx := context.Background()
	it := idx.Scan(ctx, instrs)
	out := make(map[[4]uint32]int)
	for {
		b, err := it.Next(ctx)
		if err != nil {
			break
		}
		for i := 0; i < b.Len; i++ {
			key := [4]uint32{b.Columns["a"][i], b.Columns["b"][i], b.Columns["c"][i], b.Columns["d"][i]}
			out[key]++
		}
	}
	return out
}

func TestPermutationsStayInLockstep(t *testing.T) {
	s := New()
	quads := []*rdf.Quad{
		quad("s1", "p1", "o1", nil),
		quad("s1", "p2", "o2", nil),
		quad("s2", "p1", "o3", nil),
		quad("s3", "p3", "o1", nil),
	}
	if _, err := s.Extend(quads); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if _, err := s.Remove(quads[1:2]); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	gspo := countIndex(t, s.gspo.idx)
	gpos := countIndex(t, s.gpos.idx)
	gosp := countIndex(t, s.gosp.idx)

	if len(gspo) != 3 {
		t.Fatalf("expected 3 surviving quads in GSPO, got %d", len(gspo))
	}

	// Every permutation must report the same total row count.
	total := func(m map[[4]uint32]int) int {
		n := 0
		for _, c := range m {
			n += c
		}
		return n
	}
	if total(gspo) != total(gpos) || total(gpos) != total(gosp) {
		t.Fatalf("permutations disagree on row count: gspo=%d gpos=%d gosp=%d", total(gspo), total(gpos), total(gosp))
	}
}

func TestNamedGraphLifecycle(t *testing.T) {
	s := New()
	g := rdf.NewNamedNode("graph1")

	ok, err := s.InsertNamedGraph(g)
	if err != nil || !ok {
		t.Fatalf("InsertNamedGraph: ok=%v err=%v", ok, err)
	}
	ok2, err := s.InsertNamedGraph(g)
	if err != nil || ok2 {
		t.Fatalf("expected InsertNamedGraph to report already-exists, got ok=%v err=%v", ok2, err)
	}
	if !s.ContainsNamedGraph(g) {
		t.Fatalf("expected graph to be declared")
	}

	q := quad("s1", "p1", "o1", g)
	if _, err := s.Extend([]*rdf.Quad{q}); err != nil {
		t.Fatalf("Extend into named graph: %v", err)
	}

	dropped, err := s.DropNamedGraph(g)
	if err != nil || !dropped {
		t.Fatalf("DropNamedGraph: dropped=%v err=%v", dropped, err)
	}
	if s.ContainsNamedGraph(g) {
		t.Fatalf("expected graph to be gone after drop")
	}
}

func TestClearGraphLeavesOtherGraphsIntact(t *testing.T) {
	s := New()
	g1 := rdf.NewNamedNode("g1")
	q1 := quad("s1", "p1", "o1", g1)
	q2 := quad("s2", "p2", "o2", nil)

	if _, err := s.Extend([]*rdf.Quad{q1, q2}); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if err := s.ClearGraph(g1); err != nil {
		t.Fatalf("ClearGraph: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected only the default-graph quad left, got Len()=%d", s.Len())
	}
}

func TestClearRemovesEverything(t *testing.T) {
	s := New()
	if _, err := s.Extend([]*rdf.Quad{quad("s1", "p1", "o1", nil)}); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store after Clear, got Len()=%d", s.Len())
	}
}
