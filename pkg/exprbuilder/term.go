package exprbuilder

func arity1(n int) bool { return n == 1 }
func arity2(n int) bool { return n == 2 }
func arity0(n int) bool { return n == 0 }

func init() {
	register(FuncSpec{Name: "is_iri", Arity: arity1, Accepts: []Encoding{EncPlainTerm}, Output: EncPlainTerm, IsBoolean: true})
	register(FuncSpec{Name: "is_blank", Arity: arity1, Accepts: []Encoding{EncPlainTerm}, Output: EncPlainTerm, IsBoolean: true})
	register(FuncSpec{Name: "is_literal", Arity: arity1, Accepts: []Encoding{EncPlainTerm}, Output: EncPlainTerm, IsBoolean: true})
	register(FuncSpec{Name: "is_numeric", Arity: arity1, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm, IsBoolean: true})
	register(FuncSpec{Name: "lang", Arity: arity1, Accepts: []Encoding{EncPlainTerm}, Output: EncPlainTerm})
	register(FuncSpec{Name: "datatype", Arity: arity1, Accepts: []Encoding{EncPlainTerm}, Output: EncPlainTerm})
	register(FuncSpec{Name: "str", Arity: arity1, Accepts: []Encoding{EncPlainTerm}, Output: EncPlainTerm})
}

// IsIRI builds isIRI(x).
func (b *Builder) IsIRI(x Expr) (Expr, error) { return b.Build("is_iri", x) }

// IsBlank builds isBLANK(x).
func (b *Builder) IsBlank(x Expr) (Expr, error) { return b.Build("is_blank", x) }

// IsLiteral builds isLITERAL(x).
func (b *Builder) IsLiteral(x Expr) (Expr, error) { return b.Build("is_literal", x) }

// IsNumeric builds isNUMERIC(x).
func (b *Builder) IsNumeric(x Expr) (Expr, error) { return b.Build("is_numeric", x) }

// Lang builds LANG(x).
func (b *Builder) Lang(x Expr) (Expr, error) { return b.Build("lang", x) }

// Datatype builds DATATYPE(x).
func (b *Builder) Datatype(x Expr) (Expr, error) { return b.Build("datatype", x) }

// Str builds STR(x).
func (b *Builder) Str(x Expr) (Expr, error) { return b.Build("str", x) }
