package exprbuilder

func arityAtLeast(min int) func(int) bool {
	return func(n int) bool { return n >= min }
}

func init() {
	register(FuncSpec{Name: "strlen", Arity: arity1, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue})
	register(FuncSpec{Name: "ucase", Arity: arity1, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue})
	register(FuncSpec{Name: "lcase", Arity: arity1, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue})
	register(FuncSpec{Name: "substr", Arity: func(n int) bool { return n == 2 || n == 3 }, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue})
	register(FuncSpec{Name: "replace", Arity: func(n int) bool { return n == 3 || n == 4 }, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue})
	// REGEX's SPARQL flag set is `smix`: dot-matches-newline, multiline,
	// case-insensitive, whitespace-extended — validated at execution time
	// against the 3rd argument's literal flag string, not here.
	register(FuncSpec{Name: "regex", Arity: func(n int) bool { return n == 2 || n == 3 }, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm, IsBoolean: true})
	register(FuncSpec{Name: "encode_for_uri", Arity: arity1, Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue})
	register(FuncSpec{Name: "concat", Arity: arityAtLeast(0), Accepts: []Encoding{EncTypedValue}, Output: EncTypedValue})
}

// StrLen builds STRLEN(x).
func (b *Builder) StrLen(x Expr) (Expr, error) { return b.Build("strlen", x) }

// UCase builds UCASE(x).
func (b *Builder) UCase(x Expr) (Expr, error) { return b.Build("ucase", x) }

// LCase builds LCASE(x).
func (b *Builder) LCase(x Expr) (Expr, error) { return b.Build("lcase", x) }

// SubStr builds SUBSTR(x, start[, length]).
func (b *Builder) SubStr(args ...Expr) (Expr, error) { return b.Build("substr", args...) }

// Replace builds REPLACE(x, pattern, replacement[, flags]).
func (b *Builder) Replace(args ...Expr) (Expr, error) { return b.Build("replace", args...) }

// Regex builds REGEX(x, pattern[, flags]).
func (b *Builder) Regex(args ...Expr) (Expr, error) { return b.Build("regex", args...) }

// EncodeForURI builds ENCODE_FOR_URI(x).
func (b *Builder) EncodeForURI(x Expr) (Expr, error) { return b.Build("encode_for_uri", x) }

// Concat builds CONCAT(...) — variadic, across the string-kind lattice
// (plain literal, xsd:string, language-tagged: the result drops the
// language tag unless every argument shares the same one).
func (b *Builder) Concat(args ...Expr) (Expr, error) { return b.Build("concat", args...) }
