// Package objectid implements the object-ID interning layer (§3.3, C3):
// each store owns a Mapping from term shapes to 32-bit object IDs, backed
// by sharded concurrent maps and a typed-value cache.
package objectid

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/zeebo/xxh3"

	"github.com/aleksaelezovic/qcore/pkg/column"
	"github.com/aleksaelezovic/qcore/pkg/rdf"
)

// ErrUnknownObjectID is returned when decoding an ID the mapping never
// allocated — §4.2 calls this "a programmer error", so callers should treat
// it as a bug, not a recoverable condition.
var ErrUnknownObjectID = errors.New("objectid: unknown object id")

// ErrIDSpaceExhausted is returned when the 32-bit ID counter would wrap.
var ErrIDSpaceExhausted = errors.New("objectid: id space exhausted")

const numShards = 64

type forwardShard struct {
	mu sync.RWMutex
	m  map[string]uint32
}

type reverseShard struct {
	mu sync.RWMutex
	m  map[uint32]column.PlainTermScalar
}

// Mapping is a store's ObjectIdMapping (§3.3). The zero value is not
// usable; construct with New.
type Mapping struct {
	forward [numShards]*forwardShard
	reverse [numShards]*reverseShard
	counter atomic.Uint32 // last id allocated (Add(1) yields the next); 0 is reserved for the default graph

	cache *ristretto.Cache[uint32, rdf.TypedValue]
}

// New constructs an empty Mapping. ID 0 is reserved for the default graph
// and is never handed out by EncodeArray.
func New() *Mapping {
	m := &Mapping{}
	for i := range m.forward {
		m.forward[i] = &forwardShard{m: make(map[string]uint32)}
		m.reverse[i] = &reverseShard{m: make(map[uint32]column.PlainTermScalar)}
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint32, rdf.TypedValue]{
		NumCounters: 1e6,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		// ristretto.NewCache only fails on invalid Config constants, which are
		// fixed above; a failure here means the qcore build itself is broken.
		panic(fmt.Sprintf("objectid: ristretto cache construction failed: %v", err))
	}
	m.cache = cache
	return m
}

// ObjectIDSize reports the fixed width of an object ID (§4.2).
func (m *Mapping) ObjectIDSize() int { return column.ObjectIDSize }

func shardIndex(h uint64) int { return int(h % numShards) }

func termShapeKey(s column.PlainTermScalar) (string, bool) {
	switch s.Kind {
	case column.KindIRI:
		return "I\x00" + s.IRI, true
	case column.KindBlank:
		return "B\x00" + s.BlankLabel, true
	case column.KindLiteral:
		dt := ""
		if s.LitDatatype != nil {
			dt = s.LitDatatype.IRI
		}
		return "L\x00" + s.LitValue + "\x00" + s.LitLang + "\x00" + dt, true
	default:
		return "", false
	}
}

// TryGetObjectID performs a read-only lookup with no interning side effect
// (§4.2 try_get_object_id).
func (m *Mapping) TryGetObjectID(s column.PlainTermScalar) (uint32, bool) {
	if s.Kind == column.KindDefaultGraph {
		return column.DefaultGraphID, true
	}
	key, ok := termShapeKey(s)
	if !ok {
		return 0, false
	}
	shard := m.forward[shardIndex(xxh3.HashString(key))]
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	id, found := shard.m[key]
	return id, found
}

// EncodeArray interns every non-null, non-default-graph row of arr,
// allocating fresh IDs for terms never seen before, and returns the
// resulting ObjectIdArray (§4.2 encode_array). It is safe under parallel
// callers.
func (m *Mapping) EncodeArray(arr *column.PlainTermArray) (*column.ObjectIdArray, error) {
	b := column.NewObjectIdBuilder()
	for _, row := range arr.Rows() {
		if row.Kind == column.KindNull {
			b.AppendNull()
			continue
		}
		if row.Kind == column.KindDefaultGraph {
			b.AppendID(column.DefaultGraphID)
			continue
		}
		id, err := m.intern(row)
		if err != nil {
			return nil, err
		}
		b.AppendID(id)
	}
	return b.Build(), nil
}

func (m *Mapping) intern(row column.PlainTermScalar) (uint32, error) {
	key, ok := termShapeKey(row)
	if !ok {
		return 0, fmt.Errorf("objectid: cannot intern term of kind %v", row.Kind)
	}
	fshard := m.forward[shardIndex(xxh3.HashString(key))]

	fshard.mu.RLock()
	if id, found := fshard.m[key]; found {
		fshard.mu.RUnlock()
		return id, nil
	}
	fshard.mu.RUnlock()

	fshard.mu.Lock()
	if id, found := fshard.m[key]; found {
		fshard.mu.Unlock()
		return id, nil
	}
	id := m.counter.Add(1)
	if id == 0 {
		fshard.mu.Unlock()
		return 0, ErrIDSpaceExhausted
	}
	fshard.m[key] = id
	fshard.mu.Unlock()

	rshard := m.reverse[shardIndex(uint64(id))]
	rshard.mu.Lock()
	rshard.m[id] = row
	rshard.mu.Unlock()

	return id, nil
}

// DecodeArray resolves every ID in arr back to its interned term shape
// (§4.2 decode_array). An unknown ID is reported as ErrUnknownObjectID
// rather than trusted, even though §4.2 calls it a programmer error.
func (m *Mapping) DecodeArray(arr *column.ObjectIdArray) (*column.PlainTermArray, error) {
	rows := make([]column.PlainTermScalar, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			rows[i] = column.PlainTermNull
			continue
		}
		id := arr.Get(i)
		if id == column.DefaultGraphID {
			rows[i] = column.PlainTermScalar{Kind: column.KindDefaultGraph}
			continue
		}
		row, err := m.lookup(id)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return column.NewPlainTermArray(rows), nil
}

func (m *Mapping) lookup(id uint32) (column.PlainTermScalar, error) {
	rshard := m.reverse[shardIndex(uint64(id))]
	rshard.mu.RLock()
	row, found := rshard.m[id]
	rshard.mu.RUnlock()
	if !found {
		return column.PlainTermScalar{}, fmt.Errorf("%w: %d", ErrUnknownObjectID, id)
	}
	return row, nil
}

// DecodeArrayToTypedValue decodes straight to TypedValue, consulting the
// per-ID cache before re-deriving a value from the interned term shape
// (§4.2 decode_array_to_typed_value).
func (m *Mapping) DecodeArrayToTypedValue(arr *column.ObjectIdArray) (*column.TypedValueArray, error) {
	rows := make([]rdf.TypedValue, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			rows[i] = rdf.Null
			continue
		}
		id := arr.Get(i)
		if id == column.DefaultGraphID {
			rows[i] = rdf.Null
			continue
		}
		if cached, found := m.cache.Get(id); found {
			rows[i] = cached
			continue
		}
		row, err := m.lookup(id)
		if err != nil {
			return nil, err
		}
		tv := rdf.ToTypedValue(row.ToTerm())
		m.cache.Set(id, tv, 1)
		rows[i] = tv
	}
	return column.NewTypedValueArray(rows), nil
}
