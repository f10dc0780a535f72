package logplan

import "github.com/aleksaelezovic/qcore/pkg/exprbuilder"

// Builder constructs derived plan shapes on top of the node types (§4.7:
// "Derived helpers implemented on the builder, not new nodes"). It holds no
// state of its own; every method is a pure constructor, kept as methods
// (rather than free functions) to match the teacher's
// optimizer.Optimizer-as-method-receiver idiom for plan construction.
type Builder struct{}

// NewBuilder constructs a plan Builder.
func NewBuilder() *Builder { return &Builder{} }

// Distinct deduplicates input by full-row equality.
func (b *Builder) Distinct(input Node) Node {
	return &DistinctNode{Input: input}
}

// DistinctOnSort deduplicates by the given sort keys, consuming an
// enclosing OrderBy's keys so Sortable is produced once (§4.7).
func (b *Builder) DistinctOnSort(input Node, keys []OrderCondition) Node {
	return &DistinctOnSortNode{Input: input, Keys: keys}
}

// Slice applies LIMIT/OFFSET. limit < 0 means unbounded.
func (b *Builder) Slice(input Node, offset, limit int) Node {
	return &SliceNode{Input: input, Offset: offset, Limit: limit}
}

// OrderBy sorts input by conditions, forcing Sortable on each key
// expression's encoding (the caller is expected to have built each
// OrderCondition.Expr through exprbuilder already; OrderBy wraps every key
// not already Sortable in a KindReencode node targeting Sortable, and leaves
// an already-Sortable key as it is).
func (b *Builder) OrderBy(input Node, conditions []OrderCondition) Node {
	sortable := make([]OrderCondition, len(conditions))
	for i, c := range conditions {
		e := c.Expr
		if e.Encoding != exprbuilder.EncSortable {
			e = exprbuilder.Expr{
				Kind:     exprbuilder.KindReencode,
				Encoding: exprbuilder.EncSortable,
				Nullable: e.Nullable,
				Func:     "to_sortable",
				Args:     []exprbuilder.Expr{e},
			}
		}
		sortable[i] = OrderCondition{Expr: e, Descending: c.Descending}
	}
	return &OrderByNode{Input: input, Conditions: sortable}
}

// UnionByName unions left and right by column name, aligning both sides to
// PlainTerm first (§4.7); the node itself records that requirement — actual
// per-column reencoding happens wherever the physical layer lowers it,
// since this builder only shapes the logical tree.
func (b *Builder) UnionByName(left, right Node) Node {
	return &UnionByNameNode{Left: left, Right: right}
}

// Group partitions input by groupVars (forced to PlainTerm) and computes
// aggregates.
func (b *Builder) Group(input Node, groupVars []string, aggregates map[string]exprbuilder.Aggregate) Node {
	return &GroupNode{Input: input, GroupVars: groupVars, Aggregates: aggregates}
}

// Project restricts input's schema to vars, in order.
func (b *Builder) Project(input Node, vars []string) Node {
	return &ProjectNode{Input: input, Vars: vars}
}

// Filter wraps input with an already EBV-wrapped boolean expression.
func (b *Builder) Filter(input Node, expr exprbuilder.Expr) Node {
	return &FilterNode{Input: input, Expr: expr}
}
