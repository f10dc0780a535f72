// Package exprbuilder builds typed SPARQL expression trees ahead of batch
// execution (C7, §4.6): it never evaluates a row, it only decides output
// encoding, nullability, and whether alignment requires a reencode.
package exprbuilder

import "github.com/aleksaelezovic/qcore/pkg/rdf"

// Encoding is one of the four column encodings an Expr can be carried in.
type Encoding int

const (
	EncPlainTerm Encoding = iota
	EncTypedValue
	EncObjectId
	EncSortable
)

func (e Encoding) String() string {
	switch e {
	case EncPlainTerm:
		return "PlainTerm"
	case EncTypedValue:
		return "TypedValue"
	case EncObjectId:
		return "ObjectId"
	case EncSortable:
		return "Sortable"
	default:
		return "?"
	}
}

// ExprKind discriminates an Expr's shape.
type ExprKind int

const (
	KindLiteral ExprKind = iota
	KindVariable
	KindCall
	KindReencode
)

// Expr is one node of a built expression tree: a constant term, a variable
// reference, a function call over already-aligned argument Exprs, or a
// Reencode node Build inserted to align an argument's encoding.
type Expr struct {
	Kind      ExprKind
	Encoding  Encoding
	Nullable  bool
	IsBoolean bool // true for expressions producing a native Go bool, not an RDF term

	Term     rdf.Term // KindLiteral
	Variable string   // KindVariable
	Func     string   // KindCall; for KindReencode, the conversion's name ("to_<encoding>")
	Args     []Expr

	// Plan is an attachment point for plan-correlated UDFs a builtin's
	// Args alone can't express — currently only pkg/rewrite's EXISTS/NOT
	// EXISTS lowering, which attaches the correlated subquery's
	// logplan.Node here. Left nil by every ordinary builtin.
	Plan any
}

// Lit wraps a constant RDF term as a PlainTerm-encoded leaf.
func Lit(t rdf.Term) Expr {
	return Expr{Kind: KindLiteral, Encoding: EncPlainTerm, Term: t}
}

// Var references a variable already bound in the builder's input schema.
func (b *Builder) Var(name string) (Expr, error) {
	enc, ok := b.schema[name]
	if !ok {
		return Expr{}, errUnknownVariable(name)
	}
	return Expr{Kind: KindVariable, Encoding: enc, Variable: name, Nullable: true}, nil
}
