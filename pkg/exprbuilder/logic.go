package exprbuilder

func init() {
	register(FuncSpec{Name: "and", Arity: arity2, Output: EncPlainTerm, IsBoolean: true})
	register(FuncSpec{Name: "or", Arity: arity2, Output: EncPlainTerm, IsBoolean: true})
	register(FuncSpec{Name: "not", Arity: arity1, Output: EncPlainTerm, IsBoolean: true})
}

// And builds SPARQL logical AND with three-valued semantics (§4.6): both
// sides are coerced to native booleans via EBV first, since AND/OR combine
// booleans, not RDF terms.
func (b *Builder) And(x, y Expr) (Expr, error) { return b.Build("and", b.EBV(x), b.EBV(y)) }

// Or builds SPARQL logical OR.
func (b *Builder) Or(x, y Expr) (Expr, error) { return b.Build("or", b.EBV(x), b.EBV(y)) }

// Not builds SPARQL logical NOT.
func (b *Builder) Not(x Expr) (Expr, error) { return b.Build("not", b.EBV(x)) }
