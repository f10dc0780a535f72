// Package storage implements the MVCC quad store (C5) and the storage
// scan/index chooser (C6) of §3.5, §4.4, §4.5.
package storage

import "github.com/aleksaelezovic/qcore/pkg/rdf"

// EntryKind discriminates a LogEntry (§3.5).
type EntryKind int

const (
	EntryUpdate EntryKind = iota
	EntryClear
	EntryCreateNamedGraph
	EntryDropGraph
)

// ClearScope discriminates the target of an EntryClear entry.
type ClearScope int

const (
	ClearSingleGraph ClearScope = iota
	ClearAllNamed
	ClearAll
)

// LogEntry is one append-only entry of the store's version log (§3.5).
type LogEntry struct {
	Version     uint64
	Kind        EntryKind
	Inserted    []*rdf.Quad // EntryUpdate, deduplicated, disjoint from Removed
	Removed     []*rdf.Quad // EntryUpdate
	ClearScope  ClearScope  // EntryClear
	GraphName   rdf.Term    // EntryClear(SingleGraph), EntryCreateNamedGraph, EntryDropGraph
}
