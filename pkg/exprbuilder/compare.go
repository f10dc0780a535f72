package exprbuilder

func init() {
	register(FuncSpec{Name: "same_term", Arity: arity2, Accepts: []Encoding{EncPlainTerm}, Output: EncPlainTerm, IsBoolean: true})
	register(FuncSpec{Name: "rdf_term_equal", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm, IsBoolean: true, Nullable: true})
	register(FuncSpec{Name: "lt", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm, IsBoolean: true, Nullable: true})
	register(FuncSpec{Name: "le", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm, IsBoolean: true, Nullable: true})
	register(FuncSpec{Name: "gt", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm, IsBoolean: true, Nullable: true})
	register(FuncSpec{Name: "ge", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm, IsBoolean: true, Nullable: true})
}

// SameTerm builds sameTerm(a, b): term-identity, never reencoded off
// PlainTerm since identity must survive lexical-form differences TypedValue
// would erase.
func (b *Builder) SameTerm(a, y Expr) (Expr, error) { return b.Build("same_term", a, y) }

// RDFTermEqual builds the SPARQL value-equality comparison (a = b).
func (b *Builder) RDFTermEqual(a, y Expr) (Expr, error) { return b.Build("rdf_term_equal", a, y) }

// Lt builds a < b.
func (b *Builder) Lt(a, y Expr) (Expr, error) { return b.Build("lt", a, y) }

// Le builds a <= b.
func (b *Builder) Le(a, y Expr) (Expr, error) { return b.Build("le", a, y) }

// Gt builds a > b.
func (b *Builder) Gt(a, y Expr) (Expr, error) { return b.Build("gt", a, y) }

// Ge builds a >= b.
func (b *Builder) Ge(a, y Expr) (Expr, error) { return b.Build("ge", a, y) }
