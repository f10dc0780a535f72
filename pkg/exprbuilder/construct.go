package exprbuilder

func init() {
	register(FuncSpec{Name: "iri", Arity: func(n int) bool { return n == 1 || n == 2 }, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm})
	register(FuncSpec{Name: "bnode", Arity: func(n int) bool { return n == 0 || n == 1 }, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm})
	register(FuncSpec{Name: "uuid", Arity: arity0, Output: EncPlainTerm})
	register(FuncSpec{Name: "str_uuid", Arity: arity0, Output: EncTypedValue})
	register(FuncSpec{Name: "strdt", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm})
	register(FuncSpec{Name: "strlang", Arity: arity2, Accepts: []Encoding{EncTypedValue}, Output: EncPlainTerm})
}

// IRI builds IRI(x[, base]).
func (b *Builder) IRI(args ...Expr) (Expr, error) { return b.Build("iri", args...) }

// BNode builds BNODE([x]); with no argument, execution mints a fresh blank
// node per row.
func (b *Builder) BNode(args ...Expr) (Expr, error) { return b.Build("bnode", args...) }

// UUID builds UUID(): a fresh urn:uuid: IRI per row.
func (b *Builder) UUID() (Expr, error) { return b.Build("uuid") }

// StrUUID builds STRUUID(): a fresh UUID string per row.
func (b *Builder) StrUUID() (Expr, error) { return b.Build("str_uuid") }

// StrDT builds STRDT(lexical, datatypeIRI).
func (b *Builder) StrDT(lexical, datatype Expr) (Expr, error) { return b.Build("strdt", lexical, datatype) }

// StrLang builds STRLANG(lexical, languageTag).
func (b *Builder) StrLang(lexical, lang Expr) (Expr, error) { return b.Build("strlang", lexical, lang) }
