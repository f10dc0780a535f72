package rewrite

import (
	"fmt"

	"github.com/aleksaelezovic/qcore/pkg/algebra"
	"github.com/aleksaelezovic/qcore/pkg/exprbuilder"
	"github.com/aleksaelezovic/qcore/pkg/logplan"
)

// rewriteFilter lowers algebra Filter to FilterNode, EBV-wrapping the
// rewritten expression (§4.8).
func (r *Rewriter) rewriteFilter(n *algebra.Filter) (logplan.Node, error) {
	input, err := r.Rewrite(n.Input)
	if err != nil {
		return nil, err
	}
	b := exprbuilder.NewBuilder(r.schemaFor(input))
	built, err := r.rewriteExprWith(b, n.Expr)
	if err != nil {
		return nil, err
	}
	return r.plan.Filter(input, b.EBV(built)), nil
}

// rewriteExtend lowers algebra Extend (BIND) to ExtendNode, recording the
// bound variable's output encoding so later nodes build expressions over it
// against the right schema entry.
func (r *Rewriter) rewriteExtend(n *algebra.Extend) (logplan.Node, error) {
	input, err := r.Rewrite(n.Input)
	if err != nil {
		return nil, err
	}
	b := exprbuilder.NewBuilder(r.schemaFor(input))
	built, err := r.rewriteExprWith(b, n.Expr)
	if err != nil {
		return nil, err
	}
	if r.varEncodings == nil {
		r.varEncodings = make(map[string]exprbuilder.Encoding)
	}
	r.varEncodings[n.Variable] = built.Encoding
	return &logplan.ExtendNode{Input: input, Variable: n.Variable, Expr: built}, nil
}

// rewriteUnion lowers algebra Union to UnionByNameNode; per-column
// PlainTerm alignment across the two sides is deferred to physical
// lowering, which UnionByNameNode's own doc comment already records as its
// contract.
func (r *Rewriter) rewriteUnion(n *algebra.Union) (logplan.Node, error) {
	left, err := r.Rewrite(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := r.Rewrite(n.Right)
	if err != nil {
		return nil, err
	}
	return r.plan.UnionByName(left, right), nil
}

// rewriteValues lowers an inline VALUES table directly; its rows are
// already PlainTerm terms (or nil for UNDEF), so no exprbuilder pass is
// needed.
func (r *Rewriter) rewriteValues(n *algebra.Values) (logplan.Node, error) {
	return &logplan.ValuesNode{Variables: n.Variables, Rows: n.Rows}, nil
}

// rewriteOrderBy lowers algebra OrderBy to the builder's OrderBy helper,
// which forces each key expression's encoding to Sortable.
func (r *Rewriter) rewriteOrderBy(n *algebra.OrderBy) (logplan.Node, error) {
	input, err := r.Rewrite(n.Input)
	if err != nil {
		return nil, err
	}
	b := exprbuilder.NewBuilder(r.schemaFor(input))
	conditions := make([]logplan.OrderCondition, len(n.Conditions))
	for i, c := range n.Conditions {
		built, err := r.rewriteExprWith(b, c.Expr)
		if err != nil {
			return nil, err
		}
		conditions[i] = logplan.OrderCondition{Expr: built, Descending: c.Descending}
	}
	return r.plan.OrderBy(input, conditions), nil
}

// rewriteSlice lowers LIMIT/OFFSET directly.
func (r *Rewriter) rewriteSlice(n *algebra.Slice) (logplan.Node, error) {
	input, err := r.Rewrite(n.Input)
	if err != nil {
		return nil, err
	}
	return r.plan.Slice(input, n.Offset, n.Limit), nil
}

// rewriteDistinct lowers algebra Distinct. When its immediate input is an
// OrderByNode this just rewrote, it reuses that node's Sortable-forced keys
// via DistinctOnSort instead of a second, independent full-row compare —
// the Open Question #2 decision recorded in DESIGN.md.
func (r *Rewriter) rewriteDistinct(n *algebra.Distinct) (logplan.Node, error) {
	input, err := r.Rewrite(n.Input)
	if err != nil {
		return nil, err
	}
	if ob, ok := input.(*logplan.OrderByNode); ok {
		keys := append([]logplan.OrderCondition(nil), ob.Conditions...)
		return r.plan.DistinctOnSort(ob, keys), nil
	}
	return r.plan.Distinct(input), nil
}

// rewriteGroup lowers algebra Group (GROUP BY) to GroupNode, rewriting each
// aggregate's argument expression and dispatching to the matching
// exprbuilder.Builder aggregate constructor.
func (r *Rewriter) rewriteGroup(n *algebra.Group) (logplan.Node, error) {
	input, err := r.Rewrite(n.Input)
	if err != nil {
		return nil, err
	}
	b := exprbuilder.NewBuilder(r.schemaFor(input))
	aggregates := make(map[string]exprbuilder.Aggregate, len(n.Aggregates))
	for _, a := range n.Aggregates {
		var arg exprbuilder.Expr
		if a.Arg != nil {
			built, err := r.rewriteExprWith(b, a.Arg)
			if err != nil {
				return nil, err
			}
			arg = built
		}
		agg, err := buildAggregate(b, a, arg)
		if err != nil {
			return nil, err
		}
		aggregates[a.Variable] = agg
	}
	return r.plan.Group(input, n.GroupVars, aggregates), nil
}

func buildAggregate(b *exprbuilder.Builder, a algebra.AggregateExpr, arg exprbuilder.Expr) (exprbuilder.Aggregate, error) {
	switch a.Func {
	case "count":
		if a.Arg == nil {
			return b.CountStar(), nil
		}
		return b.Count(arg, a.Distinct), nil
	case "sum":
		return b.Sum(arg, a.Distinct), nil
	case "avg":
		return b.Avg(arg, a.Distinct), nil
	case "min":
		return b.Min(arg, a.Distinct), nil
	case "max":
		return b.Max(arg, a.Distinct), nil
	case "sample":
		return b.Sample(arg), nil
	case "group_concat":
		return b.GroupConcat(arg, a.Distinct, a.Separator), nil
	default:
		return exprbuilder.Aggregate{}, fmt.Errorf("rewrite: unknown aggregate %q", a.Func)
	}
}

// rewriteAsk lowers ASK to a limit-1 slice over Input; reducing that to a
// native bool is query execution's job (out of scope beyond the
// pkg/query.QueryResults shape, §6.2).
func (r *Rewriter) rewriteAsk(n *algebra.Ask) (logplan.Node, error) {
	input, err := r.Rewrite(n.Input)
	if err != nil {
		return nil, err
	}
	return r.plan.Slice(input, 0, 1), nil
}
