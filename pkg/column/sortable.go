package column

import (
	"bytes"
	"math"

	"github.com/aleksaelezovic/qcore/pkg/rdf"
)

// Sortable top-level class tags (§4.1 Sortable: "null < blank nodes (by
// label) < named nodes (by IRI) < literals (grouped by value-space family,
// then by value)").
const (
	sortClassNull byte = iota
	sortClassBlank
	sortClassNamed
	sortClassLiteral
)

// Literal family sub-order within sortClassLiteral. The spec only requires
// that literals be grouped by family before ordering by value within a
// family; the relative order of families themselves is an implementation
// choice (DESIGN.md), fixed here to rdf.Family's declaration order.
var literalFamilyOrder = map[rdf.Family]byte{
	rdf.FamilyBoolean:      0,
	rdf.FamilyNumeric:      1,
	rdf.FamilyString:       2,
	rdf.FamilyDateTime:     3,
	rdf.FamilyDate:         4,
	rdf.FamilyTime:         5,
	rdf.FamilyDuration:     6,
	rdf.FamilyOtherLiteral: 7,
}

// SortableArray is a column of memcomparable keys, produced only by
// with_sortable_encoding and never stored long-term.
type SortableArray struct {
	keys  [][]byte
	nulls []bool
}

func (a *SortableArray) Len() int { return len(a.keys) }

func (a *SortableArray) IsNull(i int) bool { return a.nulls != nil && a.nulls[i] }

func (a *SortableArray) Get(i int) []byte { return a.keys[i] }

// Less reports whether row i sorts before row j, matching SPARQL ORDER BY.
func (a *SortableArray) Less(i, j int) bool { return bytes.Compare(a.keys[i], a.keys[j]) < 0 }

// sortableInt64 maps a signed 64-bit integer to an order-preserving
// unsigned byte encoding by flipping the sign bit.
func sortableInt64(v int64) []byte {
	u := uint64(v) ^ 0x8000000000000000 // #nosec G115 - intentional order-preserving bit flip
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(u)
		u >>= 8
	}
	return buf
}

// sortableFloat64 maps an IEEE-754 float64 to an order-preserving unsigned
// byte encoding: flip all bits for negatives, flip only the sign bit for
// non-negatives.
func sortableFloat64(v float64) []byte {
	bits := math.Float64bits(v)
	if bits&0x8000000000000000 != 0 {
		bits = ^bits
	} else {
		bits |= 0x8000000000000000
	}
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(bits)
		bits >>= 8
	}
	return buf
}

func sortableKeyForTypedValue(tv rdf.TypedValue) []byte {
	fam, ok := literalFamilyOrder[tv.Family]
	if !ok {
		fam = 255
	}
	key := []byte{fam}
	switch tv.Family {
	case rdf.FamilyBoolean:
		if tv.Bool {
			key = append(key, 1)
		} else {
			key = append(key, 0)
		}
	case rdf.FamilyNumeric:
		key = append(key, sortableFloat64(tv.Num.AsFloat64())...)
	case rdf.FamilyString:
		key = append(key, []byte(tv.Str)...)
		key = append(key, 0)
		key = append(key, []byte(tv.Lang)...)
	case rdf.FamilyDateTime, rdf.FamilyDate, rdf.FamilyTime:
		key = append(key, sortableInt64(tv.Time.UnixNano())...)
	case rdf.FamilyDuration:
		months := int64(0)
		if tv.Dur.Months != nil {
			months = *tv.Dur.Months
		}
		seconds := 0.0
		if tv.Dur.Seconds != nil {
			seconds = *tv.Dur.Seconds
		}
		key = append(key, sortableInt64(months)...)
		key = append(key, sortableFloat64(seconds)...)
	case rdf.FamilyOtherLiteral:
		key = append(key, []byte(tv.OtherLexical)...)
	}
	return key
}

// ToSortableScalar produces the memcomparable key for a single term.
func ToSortableScalar(term rdf.Term) []byte {
	if term == nil {
		return []byte{sortClassNull}
	}
	switch v := term.(type) {
	case *rdf.BlankNode:
		return append([]byte{sortClassBlank}, []byte(v.ID)...)
	case *rdf.NamedNode:
		return append([]byte{sortClassNamed}, []byte(v.IRI)...)
	case *rdf.Literal:
		return append([]byte{sortClassLiteral}, sortableKeyForTypedValue(rdf.ToTypedValue(v))...)
	default:
		return []byte{sortClassNull}
	}
}

// ToSortable converts a PlainTermArray into its Sortable encoding.
func ToSortable(arr *PlainTermArray) *SortableArray {
	keys := make([][]byte, arr.Len())
	nulls := make([]bool, arr.Len())
	for i, row := range arr.Rows() {
		if row.Kind == KindNull {
			keys[i] = []byte{sortClassNull}
			nulls[i] = true
			continue
		}
		keys[i] = ToSortableScalar(row.ToTerm())
	}
	return &SortableArray{keys: keys, nulls: nulls}
}
