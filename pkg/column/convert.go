package column

import "github.com/aleksaelezovic/qcore/pkg/rdf"

// ToTypedValue converts a PlainTermArray to TypedValue directly, without an
// ObjectId round-trip (§3.2's totality table: PlainTerm -> TypedValue is
// total).
func ToTypedValue(arr *PlainTermArray) *TypedValueArray {
	rows := make([]rdf.TypedValue, arr.Len())
	for i, row := range arr.Rows() {
		if row.Kind == KindNull {
			rows[i] = rdf.Null
			continue
		}
		rows[i] = rdf.ToTypedValue(row.ToTerm())
	}
	return &TypedValueArray{rows: rows}
}

// ToPlainTerm converts a TypedValueArray back to PlainTerm. This is total
// but lossy: it reconstructs a canonical lexical form, which need not equal
// whatever lexical form originally produced the TypedValue (e.g. "1.0" and
// "+1.0" both interpret to the same numeric value but canonicalize to one
// lexical form).
func ToPlainTerm(arr *TypedValueArray) *PlainTermArray {
	rows := make([]PlainTermScalar, arr.Len())
	for i, tv := range arr.Rows() {
		rows[i] = plainTermFromTypedValue(tv)
	}
	return &PlainTermArray{rows: rows}
}

func plainTermFromTypedValue(tv rdf.TypedValue) PlainTermScalar {
	switch tv.Family {
	case rdf.FamilyNull:
		return PlainTermNull
	case rdf.FamilyResource:
		if tv.IsBlank {
			return PlainTermScalar{Kind: KindBlank, BlankLabel: tv.BlankLabel}
		}
		return PlainTermScalar{Kind: KindIRI, IRI: tv.ResourceIRI}
	case rdf.FamilyBoolean:
		return PlainTermFromTerm(rdf.NewBooleanLiteral(tv.Bool))
	case rdf.FamilyNumeric:
		switch tv.Num.Kind {
		case rdf.NumInt:
			return PlainTermScalar{Kind: KindLiteral, LitValue: itoa(tv.Num.Int), LitDatatype: rdf.XSDInt}
		case rdf.NumInteger:
			return PlainTermFromTerm(rdf.NewIntegerLiteral(tv.Num.Int))
		case rdf.NumDecimal:
			return PlainTermScalar{Kind: KindLiteral, LitValue: tv.Num.Dec.String(), LitDatatype: rdf.XSDDecimal}
		case rdf.NumFloat:
			return PlainTermScalar{Kind: KindLiteral, LitValue: rdf.NewDoubleLiteral(tv.Num.Float).Value, LitDatatype: rdf.XSDFloat}
		default:
			return PlainTermFromTerm(rdf.NewDoubleLiteral(tv.Num.Float))
		}
	case rdf.FamilyString:
		if tv.Lang != "" {
			return PlainTermScalar{Kind: KindLiteral, LitValue: tv.Str, LitLang: tv.Lang}
		}
		return PlainTermScalar{Kind: KindLiteral, LitValue: tv.Str}
	case rdf.FamilyDateTime:
		return PlainTermFromTerm(rdf.NewDateTimeLiteral(tv.Time))
	case rdf.FamilyDate:
		return PlainTermScalar{Kind: KindLiteral, LitValue: tv.Time.Format("2006-01-02"), LitDatatype: rdf.XSDDate}
	case rdf.FamilyTime:
		return PlainTermScalar{Kind: KindLiteral, LitValue: tv.Time.Format("15:04:05"), LitDatatype: rdf.XSDTime}
	case rdf.FamilyDuration:
		return PlainTermScalar{Kind: KindLiteral, LitValue: formatDuration(tv.Dur), LitDatatype: rdf.XSDDuration}
	case rdf.FamilyOtherLiteral:
		return PlainTermScalar{Kind: KindLiteral, LitValue: tv.OtherLexical, LitDatatype: tv.OtherDatatype}
	default:
		return PlainTermNull
	}
}

func itoa(v int64) string {
	return rdf.NewIntegerLiteral(v).Value
}

func formatDuration(d rdf.Duration) string {
	out := "P"
	if d.Months != nil {
		m := *d.Months
		if m < 0 {
			out = "-P"
			m = -m
		}
		out += itoa(m/12) + "Y" + itoa(m%12) + "M"
	}
	if d.Seconds != nil && *d.Seconds != 0 {
		out += "T" + itoa(int64(*d.Seconds)) + "S"
	}
	if out == "P" {
		out = "PT0S"
	}
	return out
}

// ToObjectID interns arr's terms via enc, allocating new object IDs for any
// term not already known (§4.2 encode_array).
func ToObjectID(enc IDEncoder, arr *PlainTermArray) (*ObjectIdArray, error) {
	return enc.EncodeArray(arr)
}

// ToPlainTermFromID decodes an ObjectIdArray back to PlainTerm. Every ID
// must already be interned in dec.
func ToPlainTermFromID(dec IDDecoder, arr *ObjectIdArray) (*PlainTermArray, error) {
	return dec.DecodeArray(arr)
}

// ToTypedValueFromID decodes an ObjectIdArray directly to TypedValue,
// skipping PlainTerm reconstruction when dec has a cached typed value.
func ToTypedValueFromID(dec IDDecoder, arr *ObjectIdArray) (*TypedValueArray, error) {
	return dec.DecodeArrayToTypedValue(arr)
}
