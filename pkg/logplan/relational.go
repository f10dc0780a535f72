package logplan

import (
	"sort"

	"github.com/aleksaelezovic/qcore/pkg/exprbuilder"
)

// FilterNode keeps rows where Expr's native-boolean value is true (§4.8:
// "Filter | LogicalPlan.Filter with EBV-wrapped expression"). Expr is
// expected to already be EBV-wrapped (IsBoolean) by the caller.
type FilterNode struct {
	Input Node
	Expr  exprbuilder.Expr
}

func (n *FilterNode) Schema() []string  { return n.Input.Schema() }
func (n *FilterNode) Children() []Node { return []Node{n.Input} }

// DistinctNode deduplicates Input's rows by full-row equality.
type DistinctNode struct{ Input Node }

func (n *DistinctNode) Schema() []string  { return n.Input.Schema() }
func (n *DistinctNode) Children() []Node { return []Node{n.Input} }

// DistinctOnSortNode deduplicates by Keys, keeping the first row per key
// group under the accompanying sort order (§4.7: "Distinct optionally
// consumes the enclosing OrderBy's sort keys so the Sortable encoding is
// produced only once").
type DistinctOnSortNode struct {
	Input Node
	Keys  []OrderCondition
}

func (n *DistinctOnSortNode) Schema() []string  { return n.Input.Schema() }
func (n *DistinctOnSortNode) Children() []Node { return []Node{n.Input} }

// OrderCondition is one ORDER BY key, mirroring algebra.OrderCondition but
// over an already-built exprbuilder.Expr.
type OrderCondition struct {
	Expr       exprbuilder.Expr
	Descending bool
}

// OrderByNode sorts Input by Conditions, forcing the Sortable encoding on
// each key expression (§4.7).
type OrderByNode struct {
	Input      Node
	Conditions []OrderCondition
}

func (n *OrderByNode) Schema() []string  { return n.Input.Schema() }
func (n *OrderByNode) Children() []Node { return []Node{n.Input} }

// SliceNode applies LIMIT/OFFSET to Input.
type SliceNode struct {
	Input  Node
	Offset int
	Limit  int // -1 means unbounded
}

func (n *SliceNode) Schema() []string  { return n.Input.Schema() }
func (n *SliceNode) Children() []Node { return []Node{n.Input} }

// UnionByNameNode unions Left and Right by column name after aligning both
// sides to PlainTerm (§4.7); a variable present on only one side is padded
// with nulls on the other.
type UnionByNameNode struct{ Left, Right Node }

func (n *UnionByNameNode) Schema() []string { return dedupVars(n.Left.Schema(), n.Right.Schema()) }
func (n *UnionByNameNode) Children() []Node { return []Node{n.Left, n.Right} }

// GroupNode implements GROUP BY (§4.7): Input is partitioned by GroupVars
// (forced to PlainTerm), and Aggregates produce one output column each.
type GroupNode struct {
	Input      Node
	GroupVars  []string
	Aggregates map[string]exprbuilder.Aggregate // output variable -> aggregate
}

func (n *GroupNode) Schema() []string {
	vars := append([]string(nil), n.GroupVars...)
	aggVars := make([]string, 0, len(n.Aggregates))
	for v := range n.Aggregates {
		aggVars = append(aggVars, v)
	}
	sort.Strings(aggVars)
	return dedupVars(vars, aggVars)
}
func (n *GroupNode) Children() []Node { return []Node{n.Input} }

// ProjectNode restricts Input's schema to Vars, in that order.
type ProjectNode struct {
	Input Node
	Vars  []string
}

func (n *ProjectNode) Schema() []string  { return n.Vars }
func (n *ProjectNode) Children() []Node { return []Node{n.Input} }
