package qindex

import (
	"context"
	"io"
)

// InstructionKind discriminates a ScanInstruction (§4.3.2).
type InstructionKind int

const (
	InstrTraverse InstructionKind = iota
	InstrScan
)

// ScanInstruction drives one trie level of a Scan: Traverse walks children
// without emitting a column, Scan also binds the visited ID under a
// variable name.
type ScanInstruction struct {
	Kind      InstructionKind
	Variable  string
	Predicate ScanPredicate
}

func Traverse(pred ScanPredicate) ScanInstruction {
	return ScanInstruction{Kind: InstrTraverse, Predicate: pred}
}

func Scan(variable string, pred ScanPredicate) ScanInstruction {
	return ScanInstruction{Kind: InstrScan, Variable: variable, Predicate: pred}
}

// NormalizeRepeatedVariables rewrites a 4-instruction program so that a
// variable name reused at a later level becomes an EqualTo constraint
// against its first occurrence, per §4.3.2 ("the same variable appearing
// twice is automatically converted into an equality constraint on the
// later position").
func NormalizeRepeatedVariables(instrs [4]ScanInstruction) [4]ScanInstruction {
	seen := map[string]bool{}
	out := instrs
	for i, instr := range instrs {
		if instr.Kind != InstrScan {
			continue
		}
		if seen[instr.Variable] {
			eq, ok := instr.Predicate.TryAndWith(NewEqualToPredicate(instr.Variable))
			if !ok {
				eq = NewEqualToPredicate(instr.Variable)
			}
			out[i].Predicate = eq
		}
		seen[instr.Variable] = true
	}
	return out
}

// Batch is one emitted chunk of a Scan: a map from variable name to the
// ObjectId column bound at that level, for every Scan instruction in the
// program (§4.3.4).
type Batch struct {
	Columns map[string][]uint32
	Len     int
}

// ErrCanceled is returned by Iterator.Next when ctx is done.
var ErrCanceled = context.Canceled

// Iterator yields Batches honoring the batching contract of §4.3.3: every
// non-final batch has exactly the index's configured BatchSize rows; only
// the final batch (if any rows remain) may be smaller. It never returns a
// zero-row batch except by returning io.EOF.
type Iterator struct {
	batches chan Batch
	errc    chan error
	done    bool
}

// Next returns the next Batch, io.EOF at end of stream, or ctx.Err() if
// canceled.
func (it *Iterator) Next(ctx context.Context) (Batch, error) {
	if it.done {
		return Batch{}, io.EOF
	}
	select {
	case <-ctx.Done():
		return Batch{}, ctx.Err()
	case b, ok := <-it.batches:
		if !ok {
			it.done = true
			select {
			case err := <-it.errc:
				if err != nil {
					return Batch{}, err
				}
			default:
			}
			return Batch{}, io.EOF
		}
		return b, nil
	}
}

type rowAccumulator struct {
	vars    []string
	columns map[string][]uint32
	n       int
}

func newRowAccumulator(vars []string) *rowAccumulator {
	cols := make(map[string][]uint32, len(vars))
	for _, v := range vars {
		cols[v] = nil
	}
	return &rowAccumulator{vars: vars, columns: cols}
}

func (r *rowAccumulator) push(bound map[string]uint32) {
	for _, v := range r.vars {
		r.columns[v] = append(r.columns[v], bound[v])
	}
	r.n++
}

func (r *rowAccumulator) takeBatch(n int) Batch {
	out := make(map[string][]uint32, len(r.vars))
	for _, v := range r.vars {
		out[v] = r.columns[v][:n:n]
		r.columns[v] = r.columns[v][n:]
	}
	r.n -= n
	return Batch{Columns: out, Len: n}
}

// Scan opens an iterator over the given 4-instruction program, reordered
// into this index's permutation by the caller (§4.5 step 4 is the chooser's
// job; Scan just executes whatever program it is given). instrs[i]
// corresponds to idx.Permutation[i].
func (idx *Index) Scan(ctx context.Context, instrs [4]ScanInstruction) *Iterator {
	instrs = NormalizeRepeatedVariables(instrs)

	var vars []string
	for _, instr := range instrs {
		if instr.Kind == InstrScan {
			vars = append(vars, instr.Variable)
		}
	}

	it := &Iterator{
		batches: make(chan Batch),
		errc:    make(chan error, 1),
	}

	go func() {
		defer close(it.batches)
		acc := newRowAccumulator(vars)
		bound := make(map[string]uint32, 4)
		batchSize := idx.BatchSize
		if batchSize <= 0 {
			batchSize = DefaultBatchSize
		}

		emit := func() bool {
			if acc.n < batchSize {
				return true
			}
			select {
			case it.batches <- acc.takeBatch(batchSize):
				return true
			case <-ctx.Done():
				it.errc <- ctx.Err()
				return false
			}
		}

		ok := idx.walk(idx.root, instrs[:], 0, bound, acc, emit)
		if ok && acc.n > 0 {
			select {
			case it.batches <- acc.takeBatch(acc.n):
			case <-ctx.Done():
				it.errc <- ctx.Err()
			}
		}
	}()

	return it
}

// walk recursively visits level `depth` of the trie, resolving EqualTo
// predicates against bound, accumulating matching rows into acc, and
// flushing via emit whenever a full batch is ready. It returns false if
// the walk was aborted (by ctx cancellation signaled through emit).
func (idx *Index) walk(n *node, instrs []ScanInstruction, depth int, bound map[string]uint32, acc *rowAccumulator, emit func() bool) bool {
	instr := instrs[depth]
	pred := idx.resolvePredicate(instr.Predicate, bound)
	if pred.Kind == PredicateFalse {
		return true
	}
	lo, hi := pred.bounds()

	if depth == 3 {
		cont := true
		n.ascendLeaf(lo, hi, func(id uint32) bool {
			if !pred.matches(id) {
				return true
			}
			if instr.Kind == InstrScan {
				bound[instr.Variable] = id
			}
			acc.push(bound)
			cont = emit()
			return cont
		})
		return cont
	}

	cont := true
	n.ascendChildren(lo, hi, func(id uint32, child *node) bool {
		if !pred.matches(id) {
			return true
		}
		if instr.Kind == InstrScan {
			bound[instr.Variable] = id
		}
		cont = idx.walk(child, instrs, depth+1, bound, acc, emit)
		return cont
	})
	return cont
}

func (idx *Index) resolvePredicate(p ScanPredicate, bound map[string]uint32) ScanPredicate {
	if p.Kind == PredicateEqualTo {
		if v, ok := bound[p.Var]; ok {
			return NewBetweenPredicate(v, v)
		}
		return ScanPredicate{Kind: PredicateNone}
	}
	return p
}
