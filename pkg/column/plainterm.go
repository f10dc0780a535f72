package column

import "github.com/aleksaelezovic/qcore/pkg/rdf"

// TermKind discriminates a PlainTermScalar's shape (§4.1 PlainTerm: "a
// struct-shaped column with child arrays for each term shape plus a
// discriminant").
type TermKind byte

const (
	KindNull TermKind = iota
	KindIRI
	KindBlank
	KindLiteral
	KindDefaultGraph
)

// PlainTermScalar preserves exact blank-node identity, lexical form, and
// datatype IRI — the reason PlainTerm exists alongside TypedValue.
type PlainTermScalar struct {
	Kind        TermKind
	IRI         string
	BlankLabel  string
	LitValue    string
	LitLang     string
	LitDatatype *rdf.NamedNode
}

// PlainTermNull is the PlainTerm "expected error" scalar.
var PlainTermNull = PlainTermScalar{Kind: KindNull}

// ToTerm converts a scalar back to an rdf.Term, or nil for a null scalar.
func (s PlainTermScalar) ToTerm() rdf.Term {
	switch s.Kind {
	case KindIRI:
		return rdf.NewNamedNode(s.IRI)
	case KindBlank:
		return rdf.NewBlankNode(s.BlankLabel)
	case KindLiteral:
		if s.LitLang != "" {
			return rdf.NewLiteralWithLanguage(s.LitValue, s.LitLang)
		}
		if s.LitDatatype != nil {
			return rdf.NewLiteralWithDatatype(s.LitValue, s.LitDatatype)
		}
		return rdf.NewLiteral(s.LitValue)
	case KindDefaultGraph:
		return rdf.NewDefaultGraph()
	default:
		return nil
	}
}

// PlainTermFromTerm converts an rdf.Term into its PlainTerm scalar; a nil
// term becomes the null scalar.
func PlainTermFromTerm(t rdf.Term) PlainTermScalar {
	if t == nil {
		return PlainTermNull
	}
	switch v := t.(type) {
	case *rdf.NamedNode:
		return PlainTermScalar{Kind: KindIRI, IRI: v.IRI}
	case *rdf.BlankNode:
		return PlainTermScalar{Kind: KindBlank, BlankLabel: v.ID}
	case *rdf.Literal:
		return PlainTermScalar{Kind: KindLiteral, LitValue: v.Value, LitLang: v.Language, LitDatatype: v.Datatype}
	case *rdf.DefaultGraph:
		return PlainTermScalar{Kind: KindDefaultGraph}
	default:
		return PlainTermNull
	}
}

// PlainTermArray is a column of PlainTermScalar rows.
type PlainTermArray struct {
	rows []PlainTermScalar
}

func (a *PlainTermArray) Len() int { return len(a.rows) }

func (a *PlainTermArray) IsNull(i int) bool { return a.rows[i].Kind == KindNull }

func (a *PlainTermArray) Get(i int) PlainTermScalar { return a.rows[i] }

// Rows exposes the underlying slice read-only for zero-copy decode_terms.
func (a *PlainTermArray) Rows() []PlainTermScalar { return a.rows }

// PlainTermBuilder implements Builder for the PlainTerm encoding.
type PlainTermBuilder struct {
	rows []PlainTermScalar
}

func NewPlainTermBuilder() *PlainTermBuilder { return &PlainTermBuilder{} }

func (b *PlainTermBuilder) Append(term rdf.Term) error {
	b.rows = append(b.rows, PlainTermFromTerm(term))
	return nil
}

func (b *PlainTermBuilder) AppendNull() { b.rows = append(b.rows, PlainTermNull) }

func (b *PlainTermBuilder) Len() int { return len(b.rows) }

func (b *PlainTermBuilder) Build() *PlainTermArray {
	return &PlainTermArray{rows: b.rows}
}

// NewPlainTermArray wraps an already-built row slice (used by decoders that
// produce rows directly without going through a Builder).
func NewPlainTermArray(rows []PlainTermScalar) *PlainTermArray {
	return &PlainTermArray{rows: rows}
}
