package objectid

import (
	"testing"

	"github.com/aleksaelezovic/qcore/pkg/column"
	"github.com/aleksaelezovic/qcore/pkg/rdf"
)

func buildArray(terms ...rdf.Term) *column.PlainTermArray {
	b := column.NewPlainTermBuilder()
	for _, term := range terms {
		if term == nil {
			b.AppendNull()
			continue
		}
		_ = b.Append(term)
	}
	return b.Build()
}

func TestEncodeArrayAllocatesStartingAtOne(t *testing.T) {
	m := New()
	arr := buildArray(rdf.NewNamedNode("http://example.org/a"), rdf.NewNamedNode("http://example.org/b"))

	ids, err := m.EncodeArray(arr)
	if err != nil {
		t.Fatalf("EncodeArray: %v", err)
	}
	if ids.Get(0) != 1 || ids.Get(1) != 2 {
		t.Errorf("got ids %d, %d; want 1, 2", ids.Get(0), ids.Get(1))
	}
}

func TestEncodeArrayDedupesIdenticalTermShapes(t *testing.T) {
	m := New()
	arr := buildArray(rdf.NewNamedNode("http://example.org/a"), rdf.NewNamedNode("http://example.org/a"))

	ids, err := m.EncodeArray(arr)
	if err != nil {
		t.Fatalf("EncodeArray: %v", err)
	}
	if ids.Get(0) != ids.Get(1) {
		t.Errorf("identical terms got different ids: %d != %d", ids.Get(0), ids.Get(1))
	}
}

func TestEncodeArrayPreservesNulls(t *testing.T) {
	m := New()
	arr := buildArray(rdf.NewNamedNode("http://example.org/a"), nil)

	ids, err := m.EncodeArray(arr)
	if err != nil {
		t.Fatalf("EncodeArray: %v", err)
	}
	if !ids.IsNull(1) {
		t.Errorf("row 1: expected null")
	}
}

func TestDefaultGraphIsReservedZero(t *testing.T) {
	m := New()
	arr := buildArray(rdf.NewDefaultGraph())

	ids, err := m.EncodeArray(arr)
	if err != nil {
		t.Fatalf("EncodeArray: %v", err)
	}
	if ids.Get(0) != column.DefaultGraphID {
		t.Errorf("got %d, want reserved id %d", ids.Get(0), column.DefaultGraphID)
	}
}

func TestDecodeArrayRoundTrip(t *testing.T) {
	m := New()
	original := rdf.NewLiteralWithLanguage("bonjour", "fr")
	arr := buildArray(original)

	ids, err := m.EncodeArray(arr)
	if err != nil {
		t.Fatalf("EncodeArray: %v", err)
	}
	decoded, err := m.DecodeArray(ids)
	if err != nil {
		t.Fatalf("DecodeArray: %v", err)
	}
	got := decoded.Get(0).ToTerm()
	if !got.Equals(original) {
		t.Errorf("got %s, want %s", got, original)
	}
}

func TestDecodeArrayUnknownIDErrors(t *testing.T) {
	m := New()
	bogus := column.NewObjectIdArray([]uint32{999}, []bool{false})

	if _, err := m.DecodeArray(bogus); err == nil {
		t.Fatal("expected error for unknown object id, got nil")
	}
}

func TestDecodeArrayToTypedValueUsesCache(t *testing.T) {
	m := New()
	arr := buildArray(rdf.NewIntegerLiteral(42))
	ids, err := m.EncodeArray(arr)
	if err != nil {
		t.Fatalf("EncodeArray: %v", err)
	}

	first, err := m.DecodeArrayToTypedValue(ids)
	if err != nil {
		t.Fatalf("DecodeArrayToTypedValue: %v", err)
	}
	second, err := m.DecodeArrayToTypedValue(ids)
	if err != nil {
		t.Fatalf("DecodeArrayToTypedValue (cached): %v", err)
	}
	if first.Get(0).Num.Int != second.Get(0).Num.Int {
		t.Errorf("cached typed value mismatch: %v != %v", first.Get(0), second.Get(0))
	}
}

func TestTryGetObjectIDNoSideEffect(t *testing.T) {
	m := New()
	scalar := column.PlainTermFromTerm(rdf.NewNamedNode("http://example.org/unseen"))

	if _, found := m.TryGetObjectID(scalar); found {
		t.Fatal("expected not found for never-interned term")
	}
	// Still not found after the read-only lookup: no interning side effect.
	if _, found := m.TryGetObjectID(scalar); found {
		t.Fatal("TryGetObjectID must not intern")
	}
}
