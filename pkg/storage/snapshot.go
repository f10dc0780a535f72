package storage

import (
	"context"

	"github.com/aleksaelezovic/qcore/pkg/objectid"
	"github.com/aleksaelezovic/qcore/pkg/qindex"
)

// Snapshot binds a version and a read guard on every index permutation
// (§4.4.1): all scans opened against it see exactly the quads that existed
// at that version, because the guard blocks any writer from mutating the
// indexes until the release closure returned by Store.Snapshot is called.
type Snapshot struct {
	store   *Store
	version uint64
}

// Snapshot binds the current version and returns a read guard plus the
// release closure the caller must call when done (§5: Go has no
// defer-friendly RAII, so the guard is explicit).
func (s *Store) Snapshot() (*Snapshot, func()) {
	s.writeMu.Lock()
	s.lockAllForRead()
	version := s.version
	s.writeMu.Unlock()

	return &Snapshot{store: s, version: version}, s.unlockAllForRead
}

// Version reports the version this snapshot is bound to.
func (snap *Snapshot) Version() uint64 { return snap.version }

// Mapping exposes the store's object-ID mapping (read operations on it are
// always safe, independent of the snapshot's read guard).
func (snap *Snapshot) Mapping() *objectid.Mapping { return snap.store.mapping }

// ScanGSPO opens an iterator against the GSPO permutation.
func (snap *Snapshot) ScanGSPO(ctx context.Context, instrs [4]qindex.ScanInstruction) *qindex.Iterator {
	return snap.store.gspo.idx.Scan(ctx, instrs)
}

// ScanGPOS opens an iterator against the GPOS permutation.
func (snap *Snapshot) ScanGPOS(ctx context.Context, instrs [4]qindex.ScanInstruction) *qindex.Iterator {
	return snap.store.gpos.idx.Scan(ctx, instrs)
}

// ScanGOSP opens an iterator against the GOSP permutation.
func (snap *Snapshot) ScanGOSP(ctx context.Context, instrs [4]qindex.ScanInstruction) *qindex.Iterator {
	return snap.store.gosp.idx.Scan(ctx, instrs)
}
