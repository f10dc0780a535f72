// Package column implements the four columnar term encodings of §3.2/§4.1:
// PlainTerm, TypedValue, ObjectId, and Sortable. Each encoding exposes an
// Array (a batch of rows) and a Scalar (one row), built incrementally
// through a Builder and convertible to and from the other encodings via the
// free functions in convert.go.
package column

import "github.com/aleksaelezovic/qcore/pkg/rdf"

// Array is the common batch contract every encoding's array type satisfies.
type Array interface {
	Len() int
	IsNull(i int) bool
}

// Builder is the element-wise construction contract (§4.1): encode_term
// fails only on an internal fault, never on an "expected" (absent) term,
// which becomes a null row instead.
type Builder interface {
	Append(term rdf.Term) error
	AppendNull()
	Len() int
}
