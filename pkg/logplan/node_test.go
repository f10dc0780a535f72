package logplan

import (
	"reflect"
	"sort"
	"testing"

	"github.com/aleksaelezovic/qcore/pkg/algebra"
	"github.com/aleksaelezovic/qcore/pkg/exprbuilder"
	"github.com/aleksaelezovic/qcore/pkg/rdf"
	"github.com/aleksaelezovic/qcore/pkg/storage"
)

func sorted(vars []string) []string {
	cp := append([]string(nil), vars...)
	sort.Strings(cp)
	return cp
}

func assertSchema(t *testing.T, n Node, want ...string) {
	t.Helper()
	got := sorted(n.Schema())
	wantSorted := sorted(want)
	if !reflect.DeepEqual(got, wantSorted) {
		t.Fatalf("Schema() = %v, want %v", got, wantSorted)
	}
}

func quadPattern(graphVar, s, p, o string) *QuadPatternNode {
	slot := func(v string) storage.Slot {
		if v == "" {
			return storage.Wildcard()
		}
		return storage.Variable(v)
	}
	return &QuadPatternNode{Pattern: storage.QuadPattern{
		GraphVar:  graphVar,
		Subject:   slot(s),
		Predicate: slot(p),
		Object:    slot(o),
	}}
}

func TestQuadPatternNodeSchemaCollectsBoundVariables(t *testing.T) {
	n := quadPattern("?g", "?s", "", "?o")
	assertSchema(t, n, "?g", "?s", "?o")
}

func TestQuadPatternNodeSchemaEmptyWhenAllBoundOrWildcard(t *testing.T) {
	n := quadPattern("", "", "", "")
	assertSchema(t, n)
}

func TestSparqlJoinNodeSchemaUnionsBothSides(t *testing.T) {
	left := quadPattern("", "?s", "", "?o1")
	right := quadPattern("", "?s", "", "?o2")
	join := &SparqlJoinNode{Left: left, Right: right, Kind: JoinInner}
	assertSchema(t, join, "?s", "?o1", "?o2")
	if len(join.Children()) != 2 {
		t.Fatalf("Children() len = %d, want 2", len(join.Children()))
	}
}

func TestExtendNodeAddsNewVariable(t *testing.T) {
	input := quadPattern("", "?s", "", "?o")
	ext := &ExtendNode{Input: input, Variable: "?computed", Expr: exprbuilder.Lit(rdf.NewIntegerLiteral(1))}
	assertSchema(t, ext, "?s", "?o", "?computed")
}

func TestMinusNodeSchemaIsLeftOnly(t *testing.T) {
	left := quadPattern("", "?s", "", "?o")
	right := quadPattern("", "?s", "", "?other")
	m := &MinusNode{Left: left, Right: right}
	assertSchema(t, m, "?s", "?o")
}

func TestPropertyPathNodeSchema(t *testing.T) {
	n := &PropertyPathNode{
		GraphVar: "?g",
		Path:     algebra.PathExpr{Kind: algebra.PathOneOrMore},
		Subject:  storage.Variable("?start"),
		Object:   storage.Variable("?end"),
	}
	assertSchema(t, n, "?g", "?start", "?end")
	if n.Children() != nil {
		t.Fatalf("Children() = %v, want nil (leaf)", n.Children())
	}
}

func TestPatternNodeReshapesPathSchema(t *testing.T) {
	closure := &KleenePlusClosureNode{Input: quadPattern("", "", "", ""), CrossGraph: false}
	pat := &PatternNode{
		Input:    closure,
		GraphVar: "",
		Subject:  storage.Variable("?a"),
		Object:   storage.Bound(rdf.NewNamedNode("http://example.org/fixed")),
	}
	assertSchema(t, pat, "?a")
	if len(pat.Children()) != 1 {
		t.Fatalf("Children() len = %d, want 1", len(pat.Children()))
	}
}

func TestKleenePlusClosureNodePassesThroughSchema(t *testing.T) {
	input := quadPattern("?g", "?s", "", "?o")
	k := &KleenePlusClosureNode{Input: input, CrossGraph: true}
	if !reflect.DeepEqual(sorted(k.Schema()), sorted(input.Schema())) {
		t.Fatalf("Schema() = %v, want %v", k.Schema(), input.Schema())
	}
}

func TestUnionByNameNodeDedupsSharedVariables(t *testing.T) {
	left := quadPattern("", "?s", "", "?o")
	right := quadPattern("", "?s", "", "?p2")
	u := &UnionByNameNode{Left: left, Right: right}
	assertSchema(t, u, "?s", "?o", "?p2")
}

func TestGroupNodeSchemaIncludesGroupVarsAndAggregateOutputs(t *testing.T) {
	input := quadPattern("", "?s", "", "?o")
	g := &GroupNode{
		Input:     input,
		GroupVars: []string{"?s"},
		Aggregates: map[string]exprbuilder.Aggregate{
			"?cnt": {Func: "count", Output: exprbuilder.EncTypedValue},
		},
	}
	assertSchema(t, g, "?s", "?cnt")
}

func TestProjectNodeSchemaIsExactlyVars(t *testing.T) {
	input := quadPattern("", "?s", "", "?o")
	p := &ProjectNode{Input: input, Vars: []string{"?o"}}
	if !reflect.DeepEqual(p.Schema(), []string{"?o"}) {
		t.Fatalf("Schema() = %v, want [?o]", p.Schema())
	}
}

func TestFilterAndDistinctNodesPassThroughSchema(t *testing.T) {
	input := quadPattern("", "?s", "", "?o")
	f := &FilterNode{Input: input, Expr: exprbuilder.Lit(rdf.NewBooleanLiteral(true))}
	assertSchema(t, f, "?s", "?o")
	d := &DistinctNode{Input: input}
	assertSchema(t, d, "?s", "?o")
}

func TestSliceNodePassesThroughSchema(t *testing.T) {
	input := quadPattern("", "?s", "", "?o")
	s := &SliceNode{Input: input, Offset: 5, Limit: 10}
	assertSchema(t, s, "?s", "?o")
}

func TestDedupVarsPreservesFirstOccurrenceOrder(t *testing.T) {
	got := dedupVars([]string{"?a", "?b"}, []string{"?b", "?c"})
	want := []string{"?a", "?b", "?c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dedupVars = %v, want %v", got, want)
	}
}
