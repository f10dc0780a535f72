package physical

import (
	"context"
	"sort"
	"testing"

	"github.com/aleksaelezovic/qcore/pkg/column"
	"github.com/aleksaelezovic/qcore/pkg/rdf"
)

func term(local string) *rdf.NamedNode { return rdf.NewNamedNode("http://example.org/" + local) }

func edgeBatch(graph *rdf.NamedNode, pairs [][2]*rdf.NamedNode) Batch {
	g, s, e := column.NewPlainTermBuilder(), column.NewPlainTermBuilder(), column.NewPlainTermBuilder()
	for _, p := range pairs {
		g.Append(graph)
		s.Append(p[0])
		e.Append(p[1])
	}
	return Batch{Graph: g.Build(), Start: s.Build(), End: e.Build()}
}

func pairsOf(t *testing.T, b Batch) []string {
	t.Helper()
	var out []string
	for i := 0; i < b.len(); i++ {
		out = append(out, b.Start.Get(i).ToTerm().(*rdf.NamedNode).IRI+"->"+b.End.Get(i).ToTerm().(*rdf.NamedNode).IRI)
	}
	sort.Strings(out)
	return out
}

// E1: a chain a->b->c->d under ex:p+ must close to all 6 reachable pairs.
func TestKleenePlusClosureE1LinearChain(t *testing.T) {
	g1 := term("g1")
	input := edgeBatch(g1, [][2]*rdf.NamedNode{
		{term("a"), term("b")},
		{term("b"), term("c")},
		{term("c"), term("d")},
	})
	op := &KleenePlusOperator{CrossGraph: false}
	out, err := op.Run(context.Background(), NewStaticSource(input))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"http://example.org/a->http://example.org/b",
		"http://example.org/a->http://example.org/c",
		"http://example.org/a->http://example.org/d",
		"http://example.org/b->http://example.org/c",
		"http://example.org/b->http://example.org/d",
		"http://example.org/c->http://example.org/d",
	}
	got := pairsOf(t, out)
	if len(got) != len(want) {
		t.Fatalf("got %d pairs %v, want %d pairs %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

// A 2-cycle (a->b, b->a) must not loop forever and must not duplicate the
// already-present edges in "all paths".
func TestKleenePlusClosureHandlesCycles(t *testing.T) {
	g1 := term("g1")
	input := edgeBatch(g1, [][2]*rdf.NamedNode{
		{term("a"), term("b")},
		{term("b"), term("a")},
	})
	op := &KleenePlusOperator{}
	out, err := op.Run(context.Background(), NewStaticSource(input))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		"http://example.org/a->http://example.org/a",
		"http://example.org/a->http://example.org/b",
		"http://example.org/b->http://example.org/a",
		"http://example.org/b->http://example.org/b",
	}
	got := pairsOf(t, out)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// Single-graph mode: an edge in a different graph must not be followed.
func TestKleenePlusClosureSingleGraphDoesNotCrossGraphs(t *testing.T) {
	g1, g2 := term("g1"), term("g2")
	batch1 := edgeBatch(g1, [][2]*rdf.NamedNode{{term("a"), term("b")}})
	batch2 := edgeBatch(g2, [][2]*rdf.NamedNode{{term("b"), term("c")}})
	op := &KleenePlusOperator{CrossGraph: false}
	out, err := op.Run(context.Background(), NewStaticSource(batch1, batch2))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := pairsOf(t, out)
	want := []string{
		"http://example.org/a->http://example.org/b",
		"http://example.org/b->http://example.org/c",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want exactly the two ingested edges (no cross-graph chaining): %v", got, want)
	}
}

// Cross-graph mode chains a->b (graph 1) with b->c (graph 2) into a->c,
// keeping the original edge's graph label per §4.10.
func TestKleenePlusClosureCrossGraphChainsAcrossGraphs(t *testing.T) {
	g1, g2 := term("g1"), term("g2")
	batch1 := edgeBatch(g1, [][2]*rdf.NamedNode{{term("a"), term("b")}})
	batch2 := edgeBatch(g2, [][2]*rdf.NamedNode{{term("b"), term("c")}})
	op := &KleenePlusOperator{CrossGraph: true}
	out, err := op.Run(context.Background(), NewStaticSource(batch1, batch2))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := pairsOf(t, out)
	want := []string{
		"http://example.org/a->http://example.org/b",
		"http://example.org/a->http://example.org/c",
		"http://example.org/b->http://example.org/c",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d = %q, want %q", i, got[i], want[i])
		}
	}
	foundAC := false
	for i := 0; i < out.len(); i++ {
		if out.Start.Get(i).ToTerm().(*rdf.NamedNode).IRI == "http://example.org/a" &&
			out.End.Get(i).ToTerm().(*rdf.NamedNode).IRI == "http://example.org/c" {
			if out.Graph.Get(i).ToTerm().(*rdf.NamedNode).IRI != g1.IRI {
				t.Fatalf("a->c must keep the originating delta edge's graph (g1), got %v", out.Graph.Get(i))
			}
			foundAC = true
		}
	}
	if !foundAC {
		t.Fatal("expected an a->c edge from cross-graph chaining")
	}
}

// Context cancellation mid-iteration must be observed at the next boundary.
func TestKleenePlusClosureRespectsCancellation(t *testing.T) {
	g1 := term("g1")
	input := edgeBatch(g1, [][2]*rdf.NamedNode{{term("a"), term("b")}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	op := &KleenePlusOperator{}
	_, err := op.Run(ctx, NewStaticSource(input))
	if err == nil {
		t.Fatal("expected Run to observe a canceled context")
	}
}
