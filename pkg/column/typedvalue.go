package column

import "github.com/aleksaelezovic/qcore/pkg/rdf"

// TypedValueArray is a tagged-union column: one rdf.TypedValue per row,
// family discriminated by rdf.TypedValue.Family (§4.1 TypedValue).
type TypedValueArray struct {
	rows []rdf.TypedValue
}

func (a *TypedValueArray) Len() int { return len(a.rows) }

func (a *TypedValueArray) IsNull(i int) bool { return a.rows[i].Family == rdf.FamilyNull }

func (a *TypedValueArray) Get(i int) rdf.TypedValue { return a.rows[i] }

func (a *TypedValueArray) Rows() []rdf.TypedValue { return a.rows }

// TypedValueBuilder implements Builder for the TypedValue encoding.
type TypedValueBuilder struct {
	rows []rdf.TypedValue
}

func NewTypedValueBuilder() *TypedValueBuilder { return &TypedValueBuilder{} }

func (b *TypedValueBuilder) Append(term rdf.Term) error {
	if term == nil {
		b.rows = append(b.rows, rdf.Null)
		return nil
	}
	b.rows = append(b.rows, rdf.ToTypedValue(term))
	return nil
}

func (b *TypedValueBuilder) AppendNull() { b.rows = append(b.rows, rdf.Null) }

func (b *TypedValueBuilder) Len() int { return len(b.rows) }

func (b *TypedValueBuilder) Build() *TypedValueArray {
	return &TypedValueArray{rows: b.rows}
}

func NewTypedValueArray(rows []rdf.TypedValue) *TypedValueArray {
	return &TypedValueArray{rows: rows}
}
