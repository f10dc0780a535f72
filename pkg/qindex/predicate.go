package qindex

import "sort"

// PredicateKind discriminates a ScanPredicate's shape (§4.3.2).
type PredicateKind int

const (
	PredicateNone PredicateKind = iota
	PredicateIn
	PredicateBetween
	PredicateEqualTo
	PredicateFalse
)

// ScanPredicate restricts which children a Traverse or Scan instruction
// visits at one trie level (§4.3.2).
type ScanPredicate struct {
	Kind PredicateKind
	In   []uint32 // sorted, deduplicated
	Lo   uint32   // Between, inclusive
	Hi   uint32   // Between, inclusive
	Var  string   // EqualTo: a variable bound earlier in the same row
}

func NewInPredicate(ids []uint32) ScanPredicate {
	sorted := append([]uint32(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:0]
	for i, id := range sorted {
		if i == 0 || id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return ScanPredicate{Kind: PredicateIn, In: out}
}

func NewBetweenPredicate(lo, hi uint32) ScanPredicate {
	return ScanPredicate{Kind: PredicateBetween, Lo: lo, Hi: hi}
}

func NewEqualToPredicate(variable string) ScanPredicate {
	return ScanPredicate{Kind: PredicateEqualTo, Var: variable}
}

var FalsePredicate = ScanPredicate{Kind: PredicateFalse}

func (p ScanPredicate) bounds() (lo, hi *uint32) {
	if p.Kind == PredicateBetween {
		l, h := p.Lo, p.Hi
		return &l, &h
	}
	return nil, nil
}

func (p ScanPredicate) matches(id uint32) bool {
	switch p.Kind {
	case PredicateNone:
		return true
	case PredicateIn:
		i := sort.Search(len(p.In), func(i int) bool { return p.In[i] >= id })
		return i < len(p.In) && p.In[i] == id
	case PredicateBetween:
		return id >= p.Lo && id <= p.Hi
	case PredicateFalse:
		return false
	default:
		return true
	}
}

func intersectSorted(a, b []uint32) []uint32 {
	out := make([]uint32, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// TryAndWith implements the AND algebra of §4.3.2: In∩In is set
// intersection, In∩Between filters the In set to the range, Between∩Between
// intersects the ranges, anything with False is False, and any other
// combination is incompatible (the caller keeps the residual filter).
func (p ScanPredicate) TryAndWith(other ScanPredicate) (combined ScanPredicate, ok bool) {
	if p.Kind == PredicateFalse || other.Kind == PredicateFalse {
		return FalsePredicate, true
	}
	if p.Kind == PredicateNone {
		return other, true
	}
	if other.Kind == PredicateNone {
		return p, true
	}
	switch {
	case p.Kind == PredicateIn && other.Kind == PredicateIn:
		return NewInPredicate(intersectSorted(p.In, other.In)), true
	case p.Kind == PredicateIn && other.Kind == PredicateBetween:
		filtered := make([]uint32, 0, len(p.In))
		for _, id := range p.In {
			if other.matches(id) {
				filtered = append(filtered, id)
			}
		}
		return NewInPredicate(filtered), true
	case p.Kind == PredicateBetween && other.Kind == PredicateIn:
		return other.TryAndWith(p)
	case p.Kind == PredicateBetween && other.Kind == PredicateBetween:
		lo := p.Lo
		if other.Lo > lo {
			lo = other.Lo
		}
		hi := p.Hi
		if other.Hi < hi {
			hi = other.Hi
		}
		if lo > hi {
			return FalsePredicate, true
		}
		return NewBetweenPredicate(lo, hi), true
	default:
		return ScanPredicate{}, false
	}
}
