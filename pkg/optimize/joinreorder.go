package optimize

import (
	"math"
	"sort"

	"github.com/aleksaelezovic/qcore/pkg/logplan"
	"github.com/aleksaelezovic/qcore/pkg/storage"
)

// Fixed cardinality estimates over a quad pattern's boundedness (§4.9.2).
// Subject/predicate and predicate/object bound are given equal weight
// (both leave one positional index fully narrowed); subject+object without
// the predicate is the next tier since that pairing still needs a
// cross-permutation scan; predicate-only is the worst case named directly
// in the spec's own example.
const (
	cardinalityFullyBound    = 1
	cardinalitySPBound       = 10
	cardinalityPOBound       = 10
	cardinalitySOBound       = 100
	cardinalityOneBound      = 1_000
	cardinalityPredicateOnly = 1_000_000
	cardinalityNoneBound     = 10_000_000
)

// SparqlJoinReorderingRule collects a maximal subtree of nested, filterless
// Inner SparqlJoins, partitions its leaves into connected components by
// shared variables, and greedily reorders each component by ascending
// cardinality estimate before recombining components (smallest estimated
// size first) with cross-joins (§4.9.2).
type SparqlJoinReorderingRule struct{}

func (SparqlJoinReorderingRule) Apply(node logplan.Node) (logplan.Node, bool, error) {
	join, ok := node.(*logplan.SparqlJoinNode)
	if !ok || join.Kind != logplan.JoinInner || join.Filter != nil {
		return node, false, nil
	}
	leaves := collectInnerJoinLeaves(join)
	if len(leaves) < 2 {
		return node, false, nil
	}
	ordered := reorderLeaves(leaves)
	if sameOrder(leaves, ordered) {
		return node, false, nil
	}
	return rebuildLeftDeep(ordered), true, nil
}

// collectInnerJoinLeaves flattens a maximal chain of filterless Inner
// SparqlJoinNodes into its leaves; a Left join, a filtered join, or any
// other node shape is itself a leaf (§4.9.2: "Joins with filters or
// non-Inner type are left untouched").
func collectInnerJoinLeaves(node logplan.Node) []logplan.Node {
	join, ok := node.(*logplan.SparqlJoinNode)
	if !ok || join.Kind != logplan.JoinInner || join.Filter != nil {
		return []logplan.Node{node}
	}
	return append(collectInnerJoinLeaves(join.Left), collectInnerJoinLeaves(join.Right)...)
}

func estimateCardinality(node logplan.Node) float64 {
	qp, ok := node.(*logplan.QuadPatternNode)
	if !ok {
		// Non-scan leaves (a nested subquery, an already-lowered property
		// path, ...) have no boundedness pattern to read off; treat them
		// as conservatively large, same tier as a predicate-only scan.
		return cardinalityPredicateOnly
	}
	boundS := qp.Pattern.Subject.Kind == storage.SlotBound
	boundP := qp.Pattern.Predicate.Kind == storage.SlotBound
	boundO := qp.Pattern.Object.Kind == storage.SlotBound
	switch {
	case boundS && boundP && boundO:
		return cardinalityFullyBound
	case boundS && boundP:
		return cardinalitySPBound
	case boundP && boundO:
		return cardinalityPOBound
	case boundS && boundO:
		return cardinalitySOBound
	case boundS, boundO:
		return cardinalityOneBound
	case boundP:
		return cardinalityPredicateOnly
	default:
		return cardinalityNoneBound
	}
}

func partitionByComponent(leaves []logplan.Node) [][]logplan.Node {
	n := len(leaves)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if len(intersectVars(leaves[i].Schema(), leaves[j].Schema())) > 0 {
				union(i, j)
			}
		}
	}
	groups := make(map[int][]logplan.Node)
	var order []int
	for i := 0; i < n; i++ {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], leaves[i])
	}
	result := make([][]logplan.Node, 0, len(order))
	for _, root := range order {
		result = append(result, groups[root])
	}
	return result
}

func unionVars(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, v := range a {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// greedyOrder implements §4.9.2's within-component ordering: lowest
// cardinality first, then each subsequent pick is the lowest-cardinality
// remaining leaf that shares a variable with everything chosen so far.
func greedyOrder(comp []logplan.Node) []logplan.Node {
	if len(comp) <= 1 {
		return comp
	}
	remaining := append([]logplan.Node(nil), comp...)
	lowest := func(candidates []logplan.Node, allowed func(logplan.Node) bool) int {
		best := -1
		for i, c := range candidates {
			if allowed != nil && !allowed(c) {
				continue
			}
			if best == -1 || estimateCardinality(c) < estimateCardinality(candidates[best]) {
				best = i
			}
		}
		return best
	}

	firstIdx := lowest(remaining, nil)
	ordered := []logplan.Node{remaining[firstIdx]}
	remaining = append(remaining[:firstIdx], remaining[firstIdx+1:]...)
	accVars := append([]string(nil), ordered[0].Schema()...)

	for len(remaining) > 0 {
		idx := lowest(remaining, func(c logplan.Node) bool {
			return len(intersectVars(accVars, c.Schema())) > 0
		})
		if idx == -1 {
			// No remaining leaf shares a variable — shouldn't happen
			// inside one connected component, but fall back to the
			// lowest-cardinality pick so the loop still terminates.
			idx = lowest(remaining, nil)
		}
		ordered = append(ordered, remaining[idx])
		accVars = unionVars(accVars, remaining[idx].Schema())
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return ordered
}

// componentCardinality folds the §4.9.2 join-size formula
// (|L|*|R|/1000^k) along an already-ordered component, giving the
// estimated size of the whole component once fully joined.
func componentCardinality(ordered []logplan.Node) float64 {
	acc := estimateCardinality(ordered[0])
	accVars := append([]string(nil), ordered[0].Schema()...)
	for _, next := range ordered[1:] {
		k := len(intersectVars(accVars, next.Schema()))
		acc = acc * estimateCardinality(next) / math.Pow(1000, float64(k))
		accVars = unionVars(accVars, next.Schema())
	}
	return acc
}

func reorderLeaves(leaves []logplan.Node) []logplan.Node {
	components := partitionByComponent(leaves)
	ordered := make([][]logplan.Node, len(components))
	for i, comp := range components {
		ordered[i] = greedyOrder(comp)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return componentCardinality(ordered[i]) < componentCardinality(ordered[j])
	})
	var result []logplan.Node
	for _, comp := range ordered {
		result = append(result, comp...)
	}
	return result
}

func rebuildLeftDeep(ordered []logplan.Node) logplan.Node {
	acc := ordered[0]
	for _, next := range ordered[1:] {
		acc = &logplan.SparqlJoinNode{Left: acc, Right: next, Kind: logplan.JoinInner}
	}
	return acc
}

func sameOrder(a, b []logplan.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
