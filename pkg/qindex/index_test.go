package qindex

import (
	"context"
	"io"
	"testing"
)

func samplePermutation() Permutation { return Permutation{PosG, PosS, PosP, PosO} }

func TestInsertContainsRemove(t *testing.T) {
	idx := NewIndex(samplePermutation(), nil)
	idx.Insert(0, 1, 2, 3)

	if !idx.Contains(0, 1, 2, 3) {
		t.Fatal("expected quad to be present after insert")
	}
	if idx.Contains(0, 1, 2, 4) {
		t.Fatal("unrelated quad should not be present")
	}
	if !idx.Remove(0, 1, 2, 3) {
		t.Fatal("expected Remove to report the quad was present")
	}
	if idx.Contains(0, 1, 2, 3) {
		t.Fatal("quad should be gone after Remove")
	}
	if idx.Remove(0, 1, 2, 3) {
		t.Fatal("second Remove should report false")
	}
}

func TestRemovePrunesEmptyNodes(t *testing.T) {
	idx := NewIndex(samplePermutation(), nil)
	idx.Insert(0, 1, 2, 3)
	idx.Remove(0, 1, 2, 3)

	if !idx.root.empty() {
		t.Fatal("root should have no children after removing the only quad")
	}
}

func drainAll(t *testing.T, it *Iterator) []Batch {
	t.Helper()
	var batches []Batch
	for {
		b, err := it.Next(context.Background())
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if b.Len == 0 {
			t.Fatal("iterator returned a zero-row batch without EOF")
		}
		batches = append(batches, b)
	}
	return batches
}

func TestScanTraverseOnlyYieldsExistenceBatch(t *testing.T) {
	idx := NewIndex(samplePermutation(), nil)
	idx.Insert(0, 1, 2, 3)

	instrs := [4]ScanInstruction{
		Traverse(NewInPredicate([]uint32{0})),
		Traverse(NewInPredicate([]uint32{1})),
		Traverse(NewInPredicate([]uint32{2})),
		Traverse(NewInPredicate([]uint32{3})),
	}

	it := idx.Scan(context.Background(), instrs)
	batches := drainAll(t, it)
	if len(batches) != 1 || batches[0].Len != 1 {
		t.Fatalf("expected one single-row batch, got %+v", batches)
	}
	if len(batches[0].Columns) != 0 {
		t.Fatalf("expected zero columns, got %v", batches[0].Columns)
	}
}

func TestScanBindsVariables(t *testing.T) {
	idx := NewIndex(samplePermutation(), nil)
	idx.Insert(0, 1, 2, 3)
	idx.Insert(0, 1, 2, 4)
	idx.Insert(0, 1, 5, 6)

	instrs := [4]ScanInstruction{
		Scan("g", ScanPredicate{}),
		Scan("s", ScanPredicate{}),
		Scan("p", NewInPredicate([]uint32{2})),
		Scan("o", ScanPredicate{}),
	}
	it := idx.Scan(context.Background(), instrs)
	batches := drainAll(t, it)
	total := 0
	for _, b := range batches {
		total += b.Len
		for i := 0; i < b.Len; i++ {
			if b.Columns["p"][i] != 2 {
				t.Errorf("expected p == 2, got %d", b.Columns["p"][i])
			}
		}
	}
	if total != 2 {
		t.Fatalf("expected 2 matching rows, got %d", total)
	}
}

func TestScanBatchSizeDiscipline(t *testing.T) {
	idx := NewIndex(samplePermutation(), nil)
	idx.BatchSize = 4
	for i := uint32(0); i < 10; i++ {
		idx.Insert(0, 1, 2, i)
	}
	instrs := [4]ScanInstruction{
		Scan("g", ScanPredicate{}),
		Scan("s", ScanPredicate{}),
		Scan("p", ScanPredicate{}),
		Scan("o", ScanPredicate{}),
	}
	it := idx.Scan(context.Background(), instrs)
	batches := drainAll(t, it)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches (4, 4, 2), got %d: %+v", len(batches), batches)
	}
	for i, want := range []int{4, 4, 2} {
		if batches[i].Len != want {
			t.Errorf("batch %d: Len = %d, want %d", i, batches[i].Len, want)
		}
	}
}

func TestRepeatedVariableBecomesEqualityConstraint(t *testing.T) {
	idx := NewIndex(samplePermutation(), nil)
	idx.Insert(0, 1, 1, 9)
	idx.Insert(0, 1, 2, 9)

	instrs := [4]ScanInstruction{
		Scan("g", ScanPredicate{}),
		Scan("x", ScanPredicate{}),
		Scan("x", ScanPredicate{}), // same variable as level 1: now means s == p
		Scan("o", ScanPredicate{}),
	}
	it := idx.Scan(context.Background(), instrs)
	batches := drainAll(t, it)
	total := 0
	for _, b := range batches {
		total += b.Len
	}
	if total != 1 {
		t.Fatalf("expected exactly the s==p==1 row to match, got %d rows", total)
	}
}

func TestTryAndWithInIntersection(t *testing.T) {
	a := NewInPredicate([]uint32{1, 2, 3})
	b := NewInPredicate([]uint32{2, 3, 4})
	combined, ok := a.TryAndWith(b)
	if !ok {
		t.Fatal("In ∩ In should always combine")
	}
	if len(combined.In) != 2 || combined.In[0] != 2 || combined.In[1] != 3 {
		t.Fatalf("got %v, want [2 3]", combined.In)
	}
}

func TestTryAndWithFalseDominates(t *testing.T) {
	combined, ok := FalsePredicate.TryAndWith(NewInPredicate([]uint32{1}))
	if !ok || combined.Kind != PredicateFalse {
		t.Fatalf("False ∧ anything should stay False, got %+v, ok=%v", combined, ok)
	}
}

func TestTryAndWithBetweenIntersection(t *testing.T) {
	a := NewBetweenPredicate(5, 20)
	b := NewBetweenPredicate(10, 30)
	combined, ok := a.TryAndWith(b)
	if !ok || combined.Lo != 10 || combined.Hi != 20 {
		t.Fatalf("got %+v, ok=%v, want [10,20]", combined, ok)
	}
}

func TestTryAndWithEmptyRangeBecomesFalse(t *testing.T) {
	a := NewBetweenPredicate(5, 10)
	b := NewBetweenPredicate(20, 30)
	combined, ok := a.TryAndWith(b)
	if !ok || combined.Kind != PredicateFalse {
		t.Fatalf("disjoint ranges should combine to False, got %+v, ok=%v", combined, ok)
	}
}
