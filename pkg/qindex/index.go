package qindex

import "github.com/aleksaelezovic/qcore/pkg/objectid"

// Permutation names the four trie levels, in traversal order, by which
// quad position each level holds (§3.4: "a permutation of (G,S,P,O)").
type Permutation [4]byte

const (
	PosG byte = 'G'
	PosS byte = 'S'
	PosP byte = 'P'
	PosO byte = 'O'
)

// DefaultBatchSize is the target row count for Scan batches (§4.3.3).
const DefaultBatchSize = 1024

// Index is one trie permutation of a store's quads (§3.4). Each index
// records its permutation order, a batch-size target, and a reference to
// the store's object-ID mapping.
type Index struct {
	Permutation Permutation
	BatchSize   int
	Mapping     *objectid.Mapping

	root *node
}

// NewIndex constructs an empty index for the given permutation.
func NewIndex(perm Permutation, mapping *objectid.Mapping) *Index {
	return &Index{
		Permutation: perm,
		BatchSize:   DefaultBatchSize,
		Mapping:     mapping,
		root:        newInnerNode(),
	}
}

// quadInPermOrder reorders a (G,S,P,O) quad into this index's permutation.
func (idx *Index) quadInPermOrder(g, s, p, o uint32) [4]uint32 {
	var out [4]uint32
	values := map[byte]uint32{PosG: g, PosS: s, PosP: p, PosO: o}
	for i, pos := range idx.Permutation {
		out[i] = values[pos]
	}
	return out
}

// Insert adds one quad to the trie, creating nodes as needed (§4.3.1).
func (idx *Index) Insert(g, s, p, o uint32) {
	keys := idx.quadInPermOrder(g, s, p, o)
	n := idx.root
	n = n.childAt(keys[0], newInnerNode)
	n = n.childAt(keys[1], newInnerNode)
	n = n.childAt(keys[2], newLeafNode)
	n.insertLeaf(keys[3])
}

// Contains reports whether the quad is present.
func (idx *Index) Contains(g, s, p, o uint32) bool {
	keys := idx.quadInPermOrder(g, s, p, o)
	n := idx.root
	for _, k := range keys[:3] {
		next, ok := n.lookupChild(k)
		if !ok {
			return false
		}
		n = next
	}
	return n.hasLeaf(keys[3])
}

// Remove deletes one quad, pruning empty nodes bottom-up (§4.3.1). It
// reports whether the quad was present.
func (idx *Index) Remove(g, s, p, o uint32) bool {
	keys := idx.quadInPermOrder(g, s, p, o)
	path := make([]*node, 0, 3)
	n := idx.root
	for _, k := range keys[:3] {
		next, ok := n.lookupChild(k)
		if !ok {
			return false
		}
		path = append(path, n)
		n = next
	}
	if !n.removeLeaf(keys[3]) {
		return false
	}
	// Prune bottom-up: level 2 (leaf's parent) through level 0 (root).
	for i := len(path) - 1; i >= 0; i-- {
		child := n
		parent := path[i]
		if !child.empty() {
			break
		}
		parent.removeChild(keys[i])
		n = parent
	}
	return true
}
