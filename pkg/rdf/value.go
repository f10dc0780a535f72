package rdf

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Family identifies which XSD value-space family a TypedValue belongs to
// (§3.1, §4.1's TypedValue families).
type Family int

const (
	FamilyNull Family = iota // the "expected error" / absent value
	FamilyResource
	FamilyBoolean
	FamilyNumeric
	FamilyString
	FamilyDateTime
	FamilyDate
	FamilyTime
	FamilyDuration
	FamilyOtherLiteral
)

// NumericKind places a numeric TypedValue on the promotion lattice
// int ⊂ integer ⊂ decimal ⊂ {float, double} (§3.1).
type NumericKind int

const (
	NumInt NumericKind = iota
	NumInteger
	NumDecimal
	NumFloat
	NumDouble
)

// rank orders NumericKind along the promotion lattice; higher ranks are
// reached by widening, never narrowing, during promotion.
func (k NumericKind) rank() int {
	switch k {
	case NumInt:
		return 0
	case NumInteger:
		return 1
	case NumDecimal:
		return 2
	case NumFloat:
		return 3
	case NumDouble:
		return 4
	default:
		return -1
	}
}

func (k NumericKind) Datatype() *NamedNode {
	switch k {
	case NumInt:
		return XSDInt
	case NumInteger:
		return XSDInteger
	case NumDecimal:
		return XSDDecimal
	case NumFloat:
		return XSDFloat
	case NumDouble:
		return XSDDouble
	default:
		return XSDInteger
	}
}

// Decimal is a fixed-scale arbitrary-precision decimal: value = Unscaled *
// 10^-Scale. A 128-bit fixed-scale decimal (§4.1) is approximated with
// math/big.Int for the unscaled magnitude, which is exact for any scale the
// engine will see from XSD lexical forms.
type Decimal struct {
	Unscaled big.Int
	Scale    int32
}

func NewDecimalFromString(s string) (Decimal, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	} else if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	intPart, fracPart, hasFrac := s, "", false
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart, hasFrac = s[:i], s[i+1:], true
	}
	if intPart == "" {
		intPart = "0"
	}
	digits := intPart + fracPart
	if digits == "" {
		return Decimal{}, false
	}
	var u big.Int
	if _, ok := u.SetString(digits, 10); !ok {
		return Decimal{}, false
	}
	if neg {
		u.Neg(&u)
	}
	scale := int32(0)
	if hasFrac {
		scale = int32(len(fracPart))
	}
	return Decimal{Unscaled: u, Scale: scale}, true
}

// rescale returns a copy scaled to the target scale (must be >= d.Scale).
func (d Decimal) rescale(target int32) Decimal {
	if target == d.Scale {
		return d
	}
	diff := target - d.Scale
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(diff)), nil)
	var out big.Int
	out.Mul(&d.Unscaled, factor)
	return Decimal{Unscaled: out, Scale: target}
}

func alignScales(a, b Decimal) (Decimal, Decimal) {
	scale := a.Scale
	if b.Scale > scale {
		scale = b.Scale
	}
	return a.rescale(scale), b.rescale(scale)
}

func (d Decimal) String() string {
	s := d.Unscaled.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if d.Scale <= 0 {
		if neg {
			return "-" + s
		}
		return s
	}
	for int32(len(s)) <= d.Scale {
		s = "0" + s
	}
	cut := int32(len(s)) - d.Scale
	out := s[:cut] + "." + s[cut:]
	if neg {
		out = "-" + out
	}
	return out
}

func (d Decimal) Float64() float64 {
	f, _ := new(big.Float).SetInt(&d.Unscaled).Float64()
	scale := new(big.Float).SetFloat64(math.Pow(10, float64(d.Scale)))
	result, _ := new(big.Float).Quo(new(big.Float).SetInt(&d.Unscaled), scale).Float64()
	_ = f
	return result
}

// Numeric is a value in the numeric promotion lattice.
type Numeric struct {
	Kind  NumericKind
	Int   int64   // valid for NumInt, NumInteger
	Dec   Decimal // valid for NumDecimal
	Float float64 // valid for NumFloat, NumDouble
}

func (n Numeric) AsFloat64() float64 {
	switch n.Kind {
	case NumInt, NumInteger:
		return float64(n.Int)
	case NumDecimal:
		return n.Dec.Float64()
	default:
		return n.Float
	}
}

// Duration is SPARQL's combined duration, canonicalized into an optional
// year-month component and an optional day-time (seconds) component
// (Design Note/Open Question 1: a "partial" duration has exactly one of
// these set to non-nil; arithmetic across two differently-partial
// durations is an ExpectedError).
type Duration struct {
	Months  *int64
	Seconds *float64
}

// TypedValue is the SPARQL interpretation of a Term into the XSD value
// space (§3.1). A zero-value TypedValue with Family == FamilyNull is the
// "expected error" / absent value.
type TypedValue struct {
	Family Family

	// FamilyResource
	ResourceIRI string
	IsBlank     bool
	BlankLabel  string

	// FamilyBoolean
	Bool bool

	// FamilyNumeric
	Num Numeric

	// FamilyString
	Str  string
	Lang string // "" for plain strings

	// FamilyDateTime, FamilyDate, FamilyTime
	Time  time.Time
	HasTZ bool

	// FamilyDuration
	Dur Duration

	// FamilyOtherLiteral
	OtherLexical  string
	OtherDatatype *NamedNode
}

// Null is the canonical "expected error" TypedValue (§3.2 invariant ii).
var Null = TypedValue{Family: FamilyNull}

// ToTypedValue interprets a Term into the XSD value space. The conversion
// is total (§3.2 invariant iii): an unrecognized datatype becomes
// FamilyOtherLiteral rather than failing.
func ToTypedValue(t Term) TypedValue {
	switch v := t.(type) {
	case *NamedNode:
		return TypedValue{Family: FamilyResource, ResourceIRI: v.IRI}
	case *BlankNode:
		return TypedValue{Family: FamilyResource, IsBlank: true, BlankLabel: v.ID}
	case *Literal:
		return literalToTypedValue(v)
	case *DefaultGraph:
		return Null
	default:
		return Null
	}
}

func literalToTypedValue(l *Literal) TypedValue {
	if l.Language != "" {
		return TypedValue{Family: FamilyString, Str: l.Value, Lang: l.Language}
	}
	dt := l.Datatype
	if dt == nil {
		return TypedValue{Family: FamilyString, Str: l.Value}
	}
	switch dt.IRI {
	case XSDString.IRI:
		return TypedValue{Family: FamilyString, Str: l.Value}
	case XSDBoolean.IRI:
		b, err := strconv.ParseBool(strings.TrimSpace(l.Value))
		if err != nil {
			return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
		}
		return TypedValue{Family: FamilyBoolean, Bool: b}
	case XSDInt.IRI:
		i, err := strconv.ParseInt(strings.TrimSpace(l.Value), 10, 64)
		if err != nil {
			return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
		}
		return TypedValue{Family: FamilyNumeric, Num: Numeric{Kind: NumInt, Int: i}}
	case XSDInteger.IRI:
		i, err := strconv.ParseInt(strings.TrimSpace(l.Value), 10, 64)
		if err != nil {
			return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
		}
		return TypedValue{Family: FamilyNumeric, Num: Numeric{Kind: NumInteger, Int: i}}
	case XSDDecimal.IRI:
		d, ok := NewDecimalFromString(l.Value)
		if !ok {
			return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
		}
		return TypedValue{Family: FamilyNumeric, Num: Numeric{Kind: NumDecimal, Dec: d}}
	case XSDFloat.IRI:
		f, err := strconv.ParseFloat(strings.TrimSpace(l.Value), 64)
		if err != nil {
			return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
		}
		return TypedValue{Family: FamilyNumeric, Num: Numeric{Kind: NumFloat, Float: f}}
	case XSDDouble.IRI:
		f, err := strconv.ParseFloat(strings.TrimSpace(l.Value), 64)
		if err != nil {
			return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
		}
		return TypedValue{Family: FamilyNumeric, Num: Numeric{Kind: NumDouble, Float: f}}
	case XSDDateTime.IRI:
		t, hasTZ, err := parseXSDDateTime(l.Value)
		if err != nil {
			return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
		}
		return TypedValue{Family: FamilyDateTime, Time: t, HasTZ: hasTZ}
	case XSDDate.IRI:
		t, err := time.Parse("2006-01-02", strings.TrimSpace(l.Value))
		if err != nil {
			return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
		}
		return TypedValue{Family: FamilyDate, Time: t}
	case XSDTime.IRI:
		t, err := time.Parse("15:04:05", strings.TrimSpace(l.Value))
		if err != nil {
			return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
		}
		return TypedValue{Family: FamilyTime, Time: t}
	case XSDDuration.IRI, XSDYMDur.IRI, XSDDTDur.IRI:
		dur, ok := parseXSDDuration(l.Value)
		if !ok {
			return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
		}
		return TypedValue{Family: FamilyDuration, Dur: dur}
	default:
		return TypedValue{Family: FamilyOtherLiteral, OtherLexical: l.Value, OtherDatatype: dt}
	}
}

func parseXSDDateTime(value string) (time.Time, bool, error) {
	trimmed := strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, true, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", trimmed)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), false, nil
}

// parseXSDDuration parses a (possibly partial) xsd:duration lexical form
// such as "P1Y2M" (year-month only), "PT1H30M" (day-time only), or
// "P1Y2M3DT4H5M6S" (combined).
func parseXSDDuration(value string) (Duration, bool) {
	s := strings.TrimSpace(value)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return Duration{}, false
	}
	s = s[1:]
	datePart, timePart, hasTime := s, "", false
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		datePart, timePart, hasTime = s[:i], s[i+1:], true
	}

	var months int64
	var hasMonths bool
	num := ""
	for _, c := range datePart {
		switch {
		case c >= '0' && c <= '9':
			num += string(c)
		case c == 'Y':
			n, _ := strconv.ParseInt(num, 10, 64)
			months += n * 12
			hasMonths = true
			num = ""
		case c == 'M':
			n, _ := strconv.ParseInt(num, 10, 64)
			months += n
			hasMonths = true
			num = ""
		case c == 'D':
			n, _ := strconv.ParseFloat(num, 64)
			num = ""
			var seconds float64 = n * 86400
			if neg {
				seconds = -seconds
			}
			dur := Duration{}
			if hasMonths {
				m := months
				if neg {
					m = -m
				}
				dur.Months = &m
			}
			dur.Seconds = &seconds
			return mergeDurationTimePart(dur, timePart, neg)
		default:
			return Duration{}, false
		}
	}

	dur := Duration{}
	if hasMonths {
		m := months
		if neg {
			m = -m
		}
		dur.Months = &m
	}
	if !hasTime {
		if !hasMonths {
			return Duration{}, false
		}
		return dur, true
	}
	return mergeDurationTimePart(dur, timePart, neg)
}

func mergeDurationTimePart(dur Duration, timePart string, neg bool) (Duration, bool) {
	if timePart == "" {
		if dur.Seconds == nil {
			z := 0.0
			dur.Seconds = &z
		}
		return dur, true
	}
	var seconds float64
	num := ""
	for _, c := range timePart {
		switch {
		case (c >= '0' && c <= '9') || c == '.':
			num += string(c)
		case c == 'H':
			n, _ := strconv.ParseFloat(num, 64)
			seconds += n * 3600
			num = ""
		case c == 'M':
			n, _ := strconv.ParseFloat(num, 64)
			seconds += n * 60
			num = ""
		case c == 'S':
			n, _ := strconv.ParseFloat(num, 64)
			seconds += n
			num = ""
		default:
			return Duration{}, false
		}
	}
	if neg {
		seconds = -seconds
	}
	if dur.Seconds != nil {
		seconds += *dur.Seconds
	}
	dur.Seconds = &seconds
	return dur, true
}
