// Package physical implements the one physical operator this engine
// contributes directly (C11, §4.10): Kleene-plus closure. Every other
// logical node lowers onto the existing relational runtime and has no
// operator of its own here.
package physical

import (
	"context"
	"io"

	"github.com/aleksaelezovic/qcore/pkg/column"
)

// Batch is one input chunk feeding KleenePlusOperator: three equal-length
// PlainTerm columns, row i giving one (graph, start, end) edge.
type Batch struct {
	Graph *column.PlainTermArray
	Start *column.PlainTermArray
	End   *column.PlainTermArray
}

func (b Batch) len() int {
	if b.Graph == nil {
		return 0
	}
	return b.Graph.Len()
}

// Source yields input Batches the way qindex.Iterator yields index Batches
// (pkg/qindex/scan.go): io.EOF ends the stream, any other error aborts.
type Source interface {
	Next(ctx context.Context) (Batch, error)
}

// StaticSource replays a fixed slice of Batches, then io.EOF. It exists for
// tests and for callers that have already materialized their input (the
// KleenePlusClosureNode's Input side, once the relational runtime executing
// it is out of scope per spec.md §1's non-goals).
type StaticSource struct {
	batches []Batch
	pos     int
}

func NewStaticSource(batches ...Batch) *StaticSource { return &StaticSource{batches: batches} }

func (s *StaticSource) Next(ctx context.Context) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	if s.pos >= len(s.batches) {
		return Batch{}, io.EOF
	}
	b := s.batches[s.pos]
	s.pos++
	return b, nil
}

// edge is one (graph, start, end) path triple in PlainTerm encoding.
type edge struct {
	graph, start, end column.PlainTermScalar
}

// termKey gives a PlainTermScalar a comparable string identity, grounded on
// pkg/objectid's termShapeKey — duplicated rather than imported since that
// helper is unexported and objectid's term-shape key is specifically about
// interning, not general scalar equality, and has no case for
// KindDefaultGraph (a graph-position scalar Kleene-plus must compare too).
func termKey(s column.PlainTermScalar) string {
	switch s.Kind {
	case column.KindIRI:
		return "I\x00" + s.IRI
	case column.KindBlank:
		return "B\x00" + s.BlankLabel
	case column.KindLiteral:
		dt := ""
		if s.LitDatatype != nil {
			dt = s.LitDatatype.IRI
		}
		return "L\x00" + s.LitValue + "\x00" + s.LitLang + "\x00" + dt
	case column.KindDefaultGraph:
		return "D"
	default:
		return "N"
	}
}

func edgeKey(e edge) string {
	return termKey(e.graph) + "\x01" + termKey(e.start) + "\x01" + termKey(e.end)
}

// KleenePlusOperator computes the transitive closure of a (graph, start,
// end) edge relation per §4.10's three-phase ingest/iterate/emit algorithm.
// It declares emission "final" (nothing before fixpoint), boundedness
// "bounded" (the input must be a finite relation), and always runs as a
// single partition — the fixpoint loop has no way to shard and
// re-synchronize between iterations, the one place in this engine's
// otherwise-parallel scheduling model (§5) that is single-threaded by
// necessity.
type KleenePlusOperator struct {
	// CrossGraph allows a path to continue across graph boundaries rather
	// than staying within one graph's edge set. Set by
	// PropertyPathLoweringRule iff the enclosing PropertyPathNode binds no
	// graph-name variable (§4.9.1).
	CrossGraph bool
}

const (
	EmissionFinal    = "final"
	BoundednessBound = "bounded"
	Partitions       = 1
)

// Run executes the full ingest/iterate/emit algorithm against src and
// returns the closure as a single Batch. Context cancellation is polled at
// each input-batch boundary (via src.Next) and at each iteration boundary,
// per §5's cooperative cancellation model; an in-flight iteration always
// finishes.
func (op *KleenePlusOperator) Run(ctx context.Context, src Source) (Batch, error) {
	edgesByGraph := map[string][]edge{}
	allPaths := map[string]edge{}
	var order []edge
	var delta []edge

	// Phase 1: Ingest.
	for {
		b, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Batch{}, err
		}
		for i := 0; i < b.len(); i++ {
			e := edge{graph: b.Graph.Get(i), start: b.Start.Get(i), end: b.End.Get(i)}
			gk := termKey(e.graph)
			edgesByGraph[gk] = append(edgesByGraph[gk], e)
			if k := edgeKey(e); !hasPath(allPaths, k) {
				allPaths[k] = e
				order = append(order, e)
				delta = append(delta, e)
			}
		}
	}

	graphKeys := make([]string, 0, len(edgesByGraph))
	for gk := range edgesByGraph {
		graphKeys = append(graphKeys, gk)
	}

	// Phase 2: Iterate to fixpoint.
	for len(delta) > 0 {
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}
		var next []edge
		for _, d := range delta {
			candidateGraphs := graphKeys
			if !op.CrossGraph {
				candidateGraphs = []string{termKey(d.graph)}
			}
			bKey := termKey(d.end)
			for _, gk := range candidateGraphs {
				for _, bc := range edgesByGraph[gk] {
					if termKey(bc.start) != bKey {
						continue
					}
					candidate := edge{graph: d.graph, start: d.start, end: bc.end}
					k := edgeKey(candidate)
					if hasPath(allPaths, k) {
						continue
					}
					allPaths[k] = candidate
					order = append(order, candidate)
					next = append(next, candidate)
				}
			}
		}
		delta = next
	}

	// Phase 3: Emit.
	return buildBatch(order), nil
}

func hasPath(allPaths map[string]edge, k string) bool {
	_, ok := allPaths[k]
	return ok
}

func buildBatch(edges []edge) Batch {
	g, s, e := column.NewPlainTermBuilder(), column.NewPlainTermBuilder(), column.NewPlainTermBuilder()
	for _, ed := range edges {
		g.Append(ed.graph.ToTerm())
		s.Append(ed.start.ToTerm())
		e.Append(ed.end.ToTerm())
	}
	return Batch{Graph: g.Build(), Start: s.Build(), End: e.Build()}
}
