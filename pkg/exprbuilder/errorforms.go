package exprbuilder

func init() {
	register(FuncSpec{Name: "coalesce", Arity: arityAtLeast(1), Accepts: []Encoding{EncPlainTerm}, Output: EncPlainTerm})
	register(FuncSpec{Name: "if", Arity: func(n int) bool { return n == 3 }, Output: EncPlainTerm, Nullable: true})
	register(FuncSpec{Name: "bound", Arity: arity1, Output: EncPlainTerm, IsBoolean: true})
}

// Coalesce builds COALESCE(...): the first argument that is bound and
// error-free, or an unbound result if all are.
func (b *Builder) Coalesce(args ...Expr) (Expr, error) { return b.Build("coalesce", args...) }

// If builds IF(test, then, else); test is coerced to a native boolean via
// EBV first, matching §4.6's error-handling-forms semantics.
func (b *Builder) If(test, then, els Expr) (Expr, error) {
	return b.Build("if", b.EBV(test), then, els)
}

// Bound builds BOUND(var): true iff the named variable has a binding in the
// current row. Unlike every other builtin, it never evaluates its
// argument — the argument's presence in the schema is the whole check,
// mirroring the teacher's evaluateBound special-case.
func (b *Builder) Bound(name string) (Expr, error) {
	if _, ok := b.schema[name]; !ok {
		return Expr{}, errUnknownVariable(name)
	}
	return Expr{Kind: KindCall, Encoding: EncPlainTerm, IsBoolean: true, Func: "bound", Variable: name}, nil
}
