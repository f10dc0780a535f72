package rewrite

import (
	"fmt"

	"github.com/aleksaelezovic/qcore/pkg/algebra"
	"github.com/aleksaelezovic/qcore/pkg/exprbuilder"
)

// rewriteExprWith lowers one algebra.Expression into an exprbuilder.Expr
// against b's fixed schema.
func (r *Rewriter) rewriteExprWith(b *exprbuilder.Builder, expr algebra.Expression) (exprbuilder.Expr, error) {
	switch e := expr.(type) {
	case *algebra.ExprVariable:
		return b.Var(e.Name)
	case *algebra.ExprLiteral:
		return exprbuilder.Lit(e.Term), nil
	case *algebra.ExprCall:
		return r.rewriteCall(b, e)
	case *algebra.ExprExists:
		return r.rewriteExists(e)
	default:
		return exprbuilder.Expr{}, fmt.Errorf("rewrite: unhandled expression %T", expr)
	}
}

// rewriteCall lowers an ExprCall. bound() is special-cased the same way
// exprbuilder.Builder.Bound is: its argument is never evaluated, only
// checked for schema membership. and/or/not/if route through the builder
// methods that EBV-wrap their boolean operands first; every other function
// goes through the generic Build alignment path.
func (r *Rewriter) rewriteCall(b *exprbuilder.Builder, call *algebra.ExprCall) (exprbuilder.Expr, error) {
	if call.Func == "bound" {
		if len(call.Args) != 1 {
			return exprbuilder.Expr{}, fmt.Errorf("rewrite: bound() takes exactly one argument")
		}
		v, ok := call.Args[0].(*algebra.ExprVariable)
		if !ok {
			return exprbuilder.Expr{}, fmt.Errorf("rewrite: bound() requires a variable argument")
		}
		return b.Bound(v.Name)
	}

	args := make([]exprbuilder.Expr, len(call.Args))
	for i, a := range call.Args {
		built, err := r.rewriteExprWith(b, a)
		if err != nil {
			return exprbuilder.Expr{}, err
		}
		args[i] = built
	}

	switch call.Func {
	case "and":
		return b.And(args[0], args[1])
	case "or":
		return b.Or(args[0], args[1])
	case "not":
		return b.Not(args[0])
	case "if":
		return b.If(args[0], args[1], args[2])
	default:
		return b.Build(call.Func, args...)
	}
}

// rewriteExists lowers EXISTS/NOT EXISTS to the plan-correlated "exists"/
// "not_exists" UDF registered in this package's init(), attaching the
// rewritten subquery plan to Expr.Plan since no ordinary builtin arg can
// carry a logplan.Node.
func (r *Rewriter) rewriteExists(e *algebra.ExprExists) (exprbuilder.Expr, error) {
	sub, err := r.Rewrite(e.Pattern)
	if err != nil {
		return exprbuilder.Expr{}, err
	}
	fn := "exists"
	if e.Negated {
		fn = "not_exists"
	}
	return exprbuilder.Expr{
		Kind:      exprbuilder.KindCall,
		Encoding:  exprbuilder.EncPlainTerm,
		IsBoolean: true,
		Func:      fn,
		Plan:      sub,
	}, nil
}
