package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/aleksaelezovic/qcore/pkg/column"
	"github.com/aleksaelezovic/qcore/pkg/objectid"
	"github.com/aleksaelezovic/qcore/pkg/qerr"
	"github.com/aleksaelezovic/qcore/pkg/qindex"
	"github.com/aleksaelezovic/qcore/pkg/rdf"
)

// lockedIndex pairs a qindex.Index (not itself concurrency-safe) with the
// reader/writer guard that protects it (§5's "each quad index is protected
// by a reader/writer guard").
type lockedIndex struct {
	mu  sync.RWMutex
	idx *qindex.Index
}

// Store holds the object-ID mapping (C3) and the GSPO/GPOS/GOSP index
// permutations (C4), plus the append-only version log of §3.5. These three
// permutations are the minimum §4.4 requires ("covering the common 'bind
// two out of subject/predicate/object' patterns"); unlike the teacher's
// nine BadgerDB tables, no extra permutations are needed here because the
// default graph is just object ID 0 in the same trie, not a separate
// schema.
type Store struct {
	mapping *objectid.Mapping

	gspo *lockedIndex
	gpos *lockedIndex
	gosp *lockedIndex

	writeMu sync.Mutex // serializes writers at the store level (§5)
	version uint64
	log     []LogEntry

	namedGraphs map[string]rdf.Term // IRI/blank-label -> term, guarded by writeMu
}

// New constructs an empty store.
func New() *Store {
	mapping := objectid.New()
	return &Store{
		mapping:     mapping,
		gspo:        &lockedIndex{idx: qindex.NewIndex(qindex.Permutation{qindex.PosG, qindex.PosS, qindex.PosP, qindex.PosO}, mapping)},
		gpos:        &lockedIndex{idx: qindex.NewIndex(qindex.Permutation{qindex.PosG, qindex.PosP, qindex.PosO, qindex.PosS}, mapping)},
		gosp:        &lockedIndex{idx: qindex.NewIndex(qindex.Permutation{qindex.PosG, qindex.PosO, qindex.PosS, qindex.PosP}, mapping)},
		namedGraphs: make(map[string]rdf.Term),
	}
}

// allIndexesInLockOrder returns the three permutations in the fixed order
// (GOSP < GPOS < GSPO, lexical) writers must lock to avoid deadlock (§5).
func (s *Store) allIndexesInLockOrder() []*lockedIndex {
	return []*lockedIndex{s.gosp, s.gpos, s.gspo}
}

func (s *Store) lockAllForWrite() {
	for _, li := range s.allIndexesInLockOrder() {
		li.mu.Lock()
	}
}

func (s *Store) unlockAllForWrite() {
	order := s.allIndexesInLockOrder()
	for i := len(order) - 1; i >= 0; i-- {
		order[i].mu.Unlock()
	}
}

func (s *Store) lockAllForRead() {
	for _, li := range s.allIndexesInLockOrder() {
		li.mu.RLock()
	}
}

func (s *Store) unlockAllForRead() {
	order := s.allIndexesInLockOrder()
	for i := len(order) - 1; i >= 0; i-- {
		order[i].mu.RUnlock()
	}
}

// Mapping exposes the store's object-ID mapping.
func (s *Store) Mapping() *objectid.Mapping { return s.mapping }

func graphKey(g rdf.Term) string {
	if g == nil {
		return ""
	}
	switch v := g.(type) {
	case *rdf.NamedNode:
		return "I" + v.IRI
	case *rdf.BlankNode:
		return "B" + v.ID
	default:
		return ""
	}
}

func isDefaultGraph(g rdf.Term) bool {
	_, ok := g.(*rdf.DefaultGraph)
	return ok || g == nil
}

// encodeQuads interns every term of every quad and returns one ObjectId
// column per quad position.
func (s *Store) encodeQuads(quads []*rdf.Quad) (g, sub, pred, obj []uint32, err error) {
	gb, sb, pb, ob := column.NewPlainTermBuilder(), column.NewPlainTermBuilder(), column.NewPlainTermBuilder(), column.NewPlainTermBuilder()
	for _, q := range quads {
		graph := q.Graph
		if graph == nil {
			graph = rdf.NewDefaultGraph()
		}
		_ = gb.Append(graph)
		_ = sb.Append(q.Subject)
		_ = pb.Append(q.Predicate)
		_ = ob.Append(q.Object)
	}
	gArr, err := s.mapping.EncodeArray(gb.Build())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	sArr, err := s.mapping.EncodeArray(sb.Build())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	pArr, err := s.mapping.EncodeArray(pb.Build())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	oArr, err := s.mapping.EncodeArray(ob.Build())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return gArr.IDs(), sArr.IDs(), pArr.IDs(), oArr.IDs(), nil
}

func (s *Store) insertIntoIndexes(g, sub, pred, obj []uint32) {
	for i := range g {
		s.gspo.idx.Insert(g[i], sub[i], pred[i], obj[i])
		s.gpos.idx.Insert(g[i], sub[i], pred[i], obj[i])
		s.gosp.idx.Insert(g[i], sub[i], pred[i], obj[i])
	}
}

func (s *Store) removeFromIndexes(g, sub, pred, obj []uint32) int {
	removed := 0
	for i := range g {
		r1 := s.gspo.idx.Remove(g[i], sub[i], pred[i], obj[i])
		s.gpos.idx.Remove(g[i], sub[i], pred[i], obj[i])
		s.gosp.idx.Remove(g[i], sub[i], pred[i], obj[i])
		if r1 {
			removed++
		}
	}
	return removed
}

func (s *Store) containsLocked(g, sub, pred, obj uint32) bool {
	return s.gspo.idx.Contains(g, sub, pred, obj)
}

// Extend inserts quads, deduplicated against the current state, as a single
// Update log entry applied atomically to all permutations (§4.4.2).
func (s *Store) Extend(quads []*rdf.Quad) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	g, sub, pred, obj, err := s.encodeQuads(quads)
	if err != nil {
		return 0, qerr.NewExecError("storage.Extend", err)
	}

	s.lockAllForWrite()
	defer s.unlockAllForWrite()

	var toInsert []*rdf.Quad
	insertedG, insertedS, insertedP, insertedO := []uint32{}, []uint32{}, []uint32{}, []uint32{}
	seen := make(map[[4]uint32]bool)
	for i, q := range quads {
		key := [4]uint32{g[i], sub[i], pred[i], obj[i]}
		if seen[key] || s.containsLocked(key[0], key[1], key[2], key[3]) {
			continue
		}
		seen[key] = true
		toInsert = append(toInsert, q)
		insertedG = append(insertedG, key[0])
		insertedS = append(insertedS, key[1])
		insertedP = append(insertedP, key[2])
		insertedO = append(insertedO, key[3])
	}
	if len(toInsert) == 0 {
		return 0, nil
	}

	s.insertIntoIndexes(insertedG, insertedS, insertedP, insertedO)
	s.version++
	s.log = append(s.log, LogEntry{Version: s.version, Kind: EntryUpdate, Inserted: toInsert})
	return len(toInsert), nil
}

// Remove deletes quads present in the current state (§4.4.2).
func (s *Store) Remove(quads []*rdf.Quad) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	g, sub, pred, obj, err := s.encodeQuads(quads)
	if err != nil {
		return 0, qerr.NewExecError("storage.Remove", err)
	}

	s.lockAllForWrite()
	defer s.unlockAllForWrite()

	var toRemove []*rdf.Quad
	var rg, rs, rp, ro []uint32
	seen := make(map[[4]uint32]bool)
	for i, q := range quads {
		key := [4]uint32{g[i], sub[i], pred[i], obj[i]}
		if seen[key] || !s.containsLocked(key[0], key[1], key[2], key[3]) {
			continue
		}
		seen[key] = true
		toRemove = append(toRemove, q)
		rg, rs, rp, ro = append(rg, key[0]), append(rs, key[1]), append(rp, key[2]), append(ro, key[3])
	}
	if len(toRemove) == 0 {
		return 0, nil
	}

	s.removeFromIndexes(rg, rs, rp, ro)
	s.version++
	s.log = append(s.log, LogEntry{Version: s.version, Kind: EntryUpdate, Removed: toRemove})
	return len(toRemove), nil
}

// InsertNamedGraph declares a named graph, reporting false if it already
// exists (§4.4.2 CreateNamedGraph requires the graph to not exist).
func (s *Store) InsertNamedGraph(g rdf.Term) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	key := graphKey(g)
	if key == "" {
		return false, qerr.NewExecError("storage.InsertNamedGraph", fmt.Errorf("not a valid graph name: %s", g))
	}
	if _, exists := s.namedGraphs[key]; exists {
		return false, nil
	}
	s.namedGraphs[key] = g
	s.version++
	s.log = append(s.log, LogEntry{Version: s.version, Kind: EntryCreateNamedGraph, GraphName: g})
	return true, nil
}

// DropNamedGraph removes a named graph declaration and every quad in it.
func (s *Store) DropNamedGraph(g rdf.Term) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	key := graphKey(g)
	if key == "" {
		return false, qerr.NewExecError("storage.DropNamedGraph", fmt.Errorf("not a valid graph name: %s", g))
	}
	if _, exists := s.namedGraphs[key]; !exists {
		return false, nil
	}
	delete(s.namedGraphs, key)

	if err := s.clearGraphQuadsLocked(g); err != nil {
		return false, err
	}

	s.version++
	s.log = append(s.log, LogEntry{Version: s.version, Kind: EntryDropGraph, GraphName: g})
	return true, nil
}

// ContainsNamedGraph reports whether g has been declared.
func (s *Store) ContainsNamedGraph(g rdf.Term) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, ok := s.namedGraphs[graphKey(g)]
	return ok
}

// NamedGraphs lists every declared named graph.
func (s *Store) NamedGraphs() []rdf.Term {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	out := make([]rdf.Term, 0, len(s.namedGraphs))
	for _, g := range s.namedGraphs {
		out = append(out, g)
	}
	return out
}

// Len reports the number of quads in every graph, default included, by a
// full traversal of the GSPO index (cheap enough only for diagnostics, per
// the teacher's own Count()).
func (s *Store) Len() int {
	s.gspo.mu.RLock()
	defer s.gspo.mu.RUnlock()
	return countAll(context.Background(), s.gspo.idx)
}

func countAll(ctx context.Context, idx *qindex.Index) int {
	instrs := [4]qindex.ScanInstruction{
		qindex.Traverse(qindex.ScanPredicate{}),
		qindex.Traverse(qindex.ScanPredicate{}),
		qindex.Traverse(qindex.ScanPredicate{}),
		qindex.Scan("__count", qindex.ScanPredicate{}),
	}
	it := idx.Scan(ctx, instrs)
	total := 0
	for {
		b, err := it.Next(ctx)
		if err != nil {
			break
		}
		total += b.Len
	}
	return total
}

// Clear removes every quad from every graph, default included (§4.4.2).
func (s *Store) Clear() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.lockAllForWrite()
	s.gspo.idx = qindex.NewIndex(s.gspo.idx.Permutation, s.mapping)
	s.gpos.idx = qindex.NewIndex(s.gpos.idx.Permutation, s.mapping)
	s.gosp.idx = qindex.NewIndex(s.gosp.idx.Permutation, s.mapping)
	s.unlockAllForWrite()

	s.version++
	s.log = append(s.log, LogEntry{Version: s.version, Kind: EntryClear, ClearScope: ClearAll})
	return nil
}

// ClearGraph removes every quad in graph g, leaving its declaration intact.
func (s *Store) ClearGraph(g rdf.Term) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.clearGraphQuadsLocked(g); err != nil {
		return err
	}
	s.version++
	s.log = append(s.log, LogEntry{Version: s.version, Kind: EntryClear, ClearScope: ClearSingleGraph, GraphName: g})
	return nil
}

// clearGraphQuadsLocked removes every quad in graph g from all three
// indexes. Caller must already hold writeMu for the whole collect-then-
// remove-then-log operation, the same single-writer discipline
// Extend/Remove/Clear/InsertNamedGraph already use — ClearGraph and
// DropNamedGraph are the only callers, and both hold writeMu across this
// call and their own subsequent version bump and log append.
func (s *Store) clearGraphQuadsLocked(g rdf.Term) error {
	quads, err := s.collectGraphQuads(g)
	if err != nil {
		return err
	}
	if len(quads) == 0 {
		return nil
	}
	gIDs, sIDs, pIDs, oIDs, err := s.encodeQuads(quads)
	if err != nil {
		return qerr.NewExecError("storage.clearGraphQuadsLocked", err)
	}
	s.lockAllForWrite()
	s.removeFromIndexes(gIDs, sIDs, pIDs, oIDs)
	s.unlockAllForWrite()
	return nil
}

func (s *Store) collectGraphQuads(g rdf.Term) ([]*rdf.Quad, error) {
	scalar := column.PlainTermFromTerm(g)
	id, found := s.mapping.TryGetObjectID(scalar)
	if !found {
		return nil, nil
	}
	s.gspo.mu.RLock()
	defer s.gspo.mu.RUnlock()

	ctx := context.Background()
	instrs := [4]qindex.ScanInstruction{
		qindex.Traverse(qindex.NewInPredicate([]uint32{id})),
		qindex.Scan("s", qindex.ScanPredicate{}),
		qindex.Scan("p", qindex.ScanPredicate{}),
		qindex.Scan("o", qindex.ScanPredicate{}),
	}
	it := s.gspo.idx.Scan(ctx, instrs)
	var quads []*rdf.Quad
	for {
		b, err := it.Next(ctx)
		if err != nil {
			break
		}
		for i := 0; i < b.Len; i++ {
			quad, err := s.decodeRow(g, b.Columns["s"][i], b.Columns["p"][i], b.Columns["o"][i])
			if err != nil {
				return nil, err
			}
			quads = append(quads, quad)
		}
	}
	return quads, nil
}

func (s *Store) decodeRow(graph rdf.Term, sID, pID, oID uint32) (*rdf.Quad, error) {
	arr := column.NewObjectIdArray([]uint32{sID, pID, oID}, []bool{false, false, false})
	terms, err := s.mapping.DecodeArray(arr)
	if err != nil {
		return nil, qerr.NewStorageError("storage.decodeRow", err)
	}
	rows := terms.Rows()
	return rdf.NewQuad(rows[0].ToTerm(), rows[1].ToTerm(), rows[2].ToTerm(), graph), nil
}

// Optimize is a no-op hook for future cost-based index maintenance; the §6.1
// contract requires the method to exist even when there is nothing to do
// yet for an in-memory store.
func (s *Store) Optimize() error { return nil }
