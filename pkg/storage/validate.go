package storage

import (
	"strings"

	"github.com/aleksaelezovic/qcore/pkg/qerr"
	"github.com/aleksaelezovic/qcore/pkg/rdf"
)

const defaultGraphPrefix = "DEFAULT"

func quadShadowKey(q *rdf.Quad) string {
	gp := defaultGraphPrefix
	if !isDefaultGraph(q.Graph) {
		gp = graphKey(q.Graph)
	}
	return gp + "|" + q.Subject.String() + "|" + q.Predicate.String() + "|" + q.Object.String()
}

func removeGraphFromShadow(existing map[string]bool, prefix string) {
	want := prefix + "|"
	for k := range existing {
		if strings.HasPrefix(k, want) {
			delete(existing, k)
		}
	}
}

func removeNamedGraphsFromShadow(existing map[string]bool) {
	for k := range existing {
		if !strings.HasPrefix(k, defaultGraphPrefix+"|") {
			delete(existing, k)
		}
	}
}

// Validate walks the version log and checks every invariant of §3.5,
// reporting every corruption found (not only the first), each tagged with
// its offending version (§4.4.3).
func (s *Store) Validate() []*qerr.Error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var errs []*qerr.Error
	existing := make(map[string]bool)
	namedGraphs := make(map[string]bool)
	var lastVersion uint64

	for _, entry := range s.log {
		if entry.Version != lastVersion+1 {
			errs = append(errs, qerr.StorageErrorf("storage.Validate", entry.Version,
				"version sequence broken: expected %d, got %d", lastVersion+1, entry.Version))
		}
		lastVersion = entry.Version

		switch entry.Kind {
		case EntryUpdate:
			s.validateUpdate(entry, existing, &errs)
		case EntryClear:
			s.validateClear(entry, existing, namedGraphs, &errs)
		case EntryCreateNamedGraph:
			gk := graphKey(entry.GraphName)
			if namedGraphs[gk] {
				errs = append(errs, qerr.StorageErrorf("storage.Validate", entry.Version,
					"CreateNamedGraph on already-existing graph %s", entry.GraphName))
			}
			namedGraphs[gk] = true
		case EntryDropGraph:
			gk := graphKey(entry.GraphName)
			if !namedGraphs[gk] {
				errs = append(errs, qerr.StorageErrorf("storage.Validate", entry.Version,
					"DropGraph on nonexistent graph %s", entry.GraphName))
			}
			delete(namedGraphs, gk)
			removeGraphFromShadow(existing, gk)
		}
	}
	return errs
}

func (s *Store) validateUpdate(entry LogEntry, existing map[string]bool, errs *[]*qerr.Error) {
	insertedKeys := make(map[string]bool, len(entry.Inserted))
	for _, q := range entry.Inserted {
		k := quadShadowKey(q)
		if existing[k] {
			*errs = append(*errs, qerr.StorageErrorf("storage.Validate", entry.Version,
				"insert of already-existing quad %s", q))
		}
		if insertedKeys[k] {
			*errs = append(*errs, qerr.StorageErrorf("storage.Validate", entry.Version,
				"duplicate quad %s within one Update's insert set", q))
		}
		insertedKeys[k] = true
	}
	removedKeys := make(map[string]bool, len(entry.Removed))
	for _, q := range entry.Removed {
		k := quadShadowKey(q)
		if !existing[k] {
			*errs = append(*errs, qerr.StorageErrorf("storage.Validate", entry.Version,
				"delete of nonexistent quad %s", q))
		}
		if removedKeys[k] {
			*errs = append(*errs, qerr.StorageErrorf("storage.Validate", entry.Version,
				"duplicate quad %s within one Update's delete set", q))
		}
		removedKeys[k] = true
		if insertedKeys[k] {
			*errs = append(*errs, qerr.StorageErrorf("storage.Validate", entry.Version,
				"quad %s in both insert and delete sets of the same Update", q))
		}
	}
	for k := range insertedKeys {
		existing[k] = true
	}
	for k := range removedKeys {
		delete(existing, k)
	}
}

func (s *Store) validateClear(entry LogEntry, existing, namedGraphs map[string]bool, errs *[]*qerr.Error) {
	switch entry.ClearScope {
	case ClearSingleGraph:
		gk := graphKey(entry.GraphName)
		if !isDefaultGraph(entry.GraphName) && !namedGraphs[gk] {
			*errs = append(*errs, qerr.StorageErrorf("storage.Validate", entry.Version,
				"Clear(graph) on nonexistent graph %s", entry.GraphName))
		}
		if isDefaultGraph(entry.GraphName) {
			removeGraphFromShadow(existing, defaultGraphPrefix)
		} else {
			removeGraphFromShadow(existing, gk)
		}
	case ClearAllNamed:
		removeNamedGraphsFromShadow(existing)
	case ClearAll:
		for k := range existing {
			delete(existing, k)
		}
	default:
		*errs = append(*errs, qerr.StorageErrorf("storage.Validate", entry.Version,
			"unknown clear scope %v", entry.ClearScope))
	}
}

