package storage

import (
	"math"

	"github.com/aleksaelezovic/qcore/pkg/column"
	"github.com/aleksaelezovic/qcore/pkg/objectid"
	"github.com/aleksaelezovic/qcore/pkg/qindex"
	"github.com/aleksaelezovic/qcore/pkg/rdf"
)

// ActiveGraphKind is the four active-graph modes of §4.5.
type ActiveGraphKind int

const (
	ActiveGraphDefault ActiveGraphKind = iota
	ActiveGraphUnion
	ActiveGraphAnyNamed
	ActiveGraphAll
)

// ActiveGraph selects which graphs a quad pattern ranges over.
type ActiveGraph struct {
	Kind   ActiveGraphKind
	Graphs []rdf.Term // ActiveGraphUnion only
}

// SlotKind discriminates a pattern Slot.
type SlotKind int

const (
	SlotWildcard SlotKind = iota // not bound, not output
	SlotBound                    // a constant term
	SlotVariable                 // output under Variable
)

// Slot is one (subject, predicate, or object) position of a QuadPattern.
type Slot struct {
	Kind     SlotKind
	Term     rdf.Term
	Variable string
}

func Bound(term rdf.Term) Slot  { return Slot{Kind: SlotBound, Term: term} }
func Variable(name string) Slot { return Slot{Kind: SlotVariable, Variable: name} }
func Wildcard() Slot            { return Slot{Kind: SlotWildcard} }

// QuadPattern is the logical quad pattern §4.5 lowers to a scan.
type QuadPattern struct {
	ActiveGraph ActiveGraph
	GraphVar    string // "" if the graph position is not bound to a variable
	Subject     Slot
	Predicate   Slot
	Object      Slot
}

// PermutationChoice names which index permutation ChooseScan selected.
type PermutationChoice int

const (
	ChoseGSPO PermutationChoice = iota
	ChoseGPOS
	ChoseGOSP
)

func (c PermutationChoice) String() string {
	switch c {
	case ChoseGSPO:
		return "GSPO"
	case ChoseGPOS:
		return "GPOS"
	case ChoseGOSP:
		return "GOSP"
	default:
		return "?"
	}
}

// ChosenScan is ChooseScan's result: the permutation to scan, the
// instructions (already reordered into that permutation), and any pushdown
// predicates that could not be represented as scan predicates.
type ChosenScan struct {
	Permutation PermutationChoice
	Instrs      [4]qindex.ScanInstruction
	Residual    []ResidualPredicate
	Unsatisfiable bool // a bound term in the pattern has no object ID: nothing can match
}

// ResidualPredicate is a pushdown predicate that could not combine into the
// scan and must run as a trailing Filter physical operator (§4.5).
type ResidualPredicate struct {
	Variable  string
	Predicate qindex.ScanPredicate
}

// slotInfo is one logical quad position's scan information. ChooseScan
// builds the four entries keyed by G, S, P, O, independent of which
// permutation will ultimately be scanned (§4.5 step 1: "lower the pattern
// to a base MemIndexScanInstructions in GSPO order").
type slotInfo struct {
	variable string // "" if this position has no output variable
	pred     qindex.ScanPredicate
	ok       bool // false if a bound term could not be resolved to an id (pattern is unsatisfiable)
}

func graphSlotInfo(enc objectid.Mapping, ag ActiveGraph, graphVar string) slotInfo {
	switch ag.Kind {
	case ActiveGraphDefault:
		return slotInfo{variable: graphVar, pred: qindex.NewInPredicate([]uint32{column.DefaultGraphID}), ok: true}
	case ActiveGraphAnyNamed:
		return slotInfo{variable: graphVar, pred: qindex.NewBetweenPredicate(1, math.MaxUint32), ok: true}
	case ActiveGraphAll:
		return slotInfo{variable: graphVar, pred: qindex.ScanPredicate{}, ok: true}
	case ActiveGraphUnion:
		ids := make([]uint32, 0, len(ag.Graphs))
		for _, g := range ag.Graphs {
			id, found := enc.TryGetObjectID(column.PlainTermFromTerm(g))
			if !found {
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return slotInfo{ok: false}
		}
		return slotInfo{variable: graphVar, pred: qindex.NewInPredicate(ids), ok: true}
	default:
		return slotInfo{ok: false}
	}
}

func termSlotInfo(enc objectid.Mapping, s Slot) slotInfo {
	switch s.Kind {
	case SlotWildcard:
		return slotInfo{pred: qindex.ScanPredicate{}, ok: true}
	case SlotVariable:
		return slotInfo{variable: s.Variable, pred: qindex.ScanPredicate{}, ok: true}
	case SlotBound:
		id, found := enc.TryGetObjectID(column.PlainTermFromTerm(s.Term))
		if !found {
			return slotInfo{ok: false}
		}
		return slotInfo{pred: qindex.NewInPredicate([]uint32{id}), ok: true}
	default:
		return slotInfo{ok: false}
	}
}

// predicateSelectivityRank orders predicate kinds for tie-breaking: In is
// most selective, then Between, then no predicate (§4.5 step 3).
func predicateSelectivityRank(p qindex.ScanPredicate) int {
	switch p.Kind {
	case qindex.PredicateIn:
		return 0
	case qindex.PredicateBetween:
		return 1
	case qindex.PredicateFalse:
		return -1 // most selective of all: matches nothing
	default:
		return 2
	}
}

// ChooseScan lowers pattern plus any pushdown predicates to a scan over the
// cheapest available permutation (§4.5).
func ChooseScan(mapping *objectid.Mapping, pattern QuadPattern, pushdown map[string]qindex.ScanPredicate) ChosenScan {
	g := graphSlotInfo(*mapping, pattern.ActiveGraph, pattern.GraphVar)
	s := termSlotInfo(*mapping, pattern.Subject)
	p := termSlotInfo(*mapping, pattern.Predicate)
	o := termSlotInfo(*mapping, pattern.Object)
	if !g.ok || !s.ok || !p.ok || !o.ok {
		return ChosenScan{Unsatisfiable: true}
	}

	base := map[byte]slotInfo{qindex.PosG: g, qindex.PosS: s, qindex.PosP: p, qindex.PosO: o}

	var residual []ResidualPredicate
	applyPushdown := func(pos byte, info slotInfo) slotInfo {
		if info.variable == "" {
			return info
		}
		pd, has := pushdown[info.variable]
		if !has {
			return info
		}
		combined, ok := info.pred.TryAndWith(pd)
		if !ok {
			residual = append(residual, ResidualPredicate{Variable: info.variable, Predicate: pd})
			return info
		}
		info.pred = combined
		return info
	}
	base[qindex.PosG] = applyPushdown(qindex.PosG, base[qindex.PosG])
	base[qindex.PosS] = applyPushdown(qindex.PosS, base[qindex.PosS])
	base[qindex.PosP] = applyPushdown(qindex.PosP, base[qindex.PosP])
	base[qindex.PosO] = applyPushdown(qindex.PosO, base[qindex.PosO])

	permutations := []struct {
		choice PermutationChoice
		order  [4]byte
	}{
		{ChoseGSPO, [4]byte{qindex.PosG, qindex.PosS, qindex.PosP, qindex.PosO}},
		{ChoseGPOS, [4]byte{qindex.PosG, qindex.PosP, qindex.PosO, qindex.PosS}},
		{ChoseGOSP, [4]byte{qindex.PosG, qindex.PosO, qindex.PosS, qindex.PosP}},
	}

	bestIdx := 0
	bestPrefix, bestRank := -1, -1
	for i, perm := range permutations {
		prefix := 0
		for _, pos := range perm.order {
			if base[pos].variable == "" {
				prefix++
				continue
			}
			break
		}
		nextRank := -2
		if prefix < 4 {
			nextRank = -predicateSelectivityRank(base[perm.order[prefix]].pred)
		}
		if prefix > bestPrefix || (prefix == bestPrefix && nextRank > bestRank) {
			bestIdx, bestPrefix, bestRank = i, prefix, nextRank
		}
	}

	chosen := permutations[bestIdx]
	var instrs [4]qindex.ScanInstruction
	for i, pos := range chosen.order {
		info := base[pos]
		if info.variable == "" {
			instrs[i] = qindex.Traverse(info.pred)
		} else {
			instrs[i] = qindex.Scan(info.variable, info.pred)
		}
	}

	return ChosenScan{Permutation: chosen.choice, Instrs: instrs, Residual: residual}
}
