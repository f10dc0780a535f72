// Package qindex implements the in-memory quad index (§3.4, §4.3): a
// 4-level trie over object IDs, in a fixed permutation of (G, S, P, O),
// driven by batched ScanInstruction-based scans.
package qindex

import "github.com/google/btree"

// childEntry is one edge of a trie level: an object ID paired with the
// subtree it leads to. It implements btree.Item, ordered by id alone so
// Get/Delete need only populate id.
type childEntry struct {
	id   uint32
	next *node
}

func (e childEntry) Less(than btree.Item) bool {
	return e.id < than.(childEntry).id
}

// idItem is a bare object ID at the trie's leaf level.
type idItem uint32

func (i idItem) Less(than btree.Item) bool { return i < than.(idItem) }

// node is one level of the trie. Levels 0-2 hold children keyed by object
// ID; level 3 (the leaf) holds a sorted set of object IDs directly.
type node struct {
	children *btree.BTree // nil at the leaf level
	leaf     *btree.BTree // nil above the leaf level
}

const btreeDegree = 32

func newInnerNode() *node {
	return &node{children: btree.New(btreeDegree)}
}

func newLeafNode() *node {
	return &node{leaf: btree.New(btreeDegree)}
}

// childAt returns the child subtree for id, creating it via newChild if
// absent.
func (n *node) childAt(id uint32, newChild func() *node) *node {
	if existing := n.children.Get(childEntry{id: id}); existing != nil {
		return existing.(childEntry).next
	}
	child := newChild()
	n.children.ReplaceOrInsert(childEntry{id: id, next: child})
	return child
}

// lookupChild returns the child subtree for id without creating it.
func (n *node) lookupChild(id uint32) (*node, bool) {
	item := n.children.Get(childEntry{id: id})
	if item == nil {
		return nil, false
	}
	return item.(childEntry).next, true
}

func (n *node) removeChild(id uint32) {
	n.children.Delete(childEntry{id: id})
}

func (n *node) insertLeaf(id uint32) {
	n.leaf.ReplaceOrInsert(idItem(id))
}

func (n *node) removeLeaf(id uint32) bool {
	return n.leaf.Delete(idItem(id)) != nil
}

func (n *node) hasLeaf(id uint32) bool {
	return n.leaf.Get(idItem(id)) != nil
}

func (n *node) empty() bool {
	if n.children != nil {
		return n.children.Len() == 0
	}
	return n.leaf.Len() == 0
}

// ascendChildren visits children in ascending ID order within [lo, hi]
// bounds (either may be nil for an open bound), stopping early if visit
// returns false.
func (n *node) ascendChildren(lo, hi *uint32, visit func(id uint32, child *node) bool) {
	iter := func(item btree.Item) bool {
		e := item.(childEntry)
		if hi != nil && e.id > *hi {
			return false
		}
		return visit(e.id, e.next)
	}
	if lo != nil {
		n.children.AscendGreaterOrEqual(childEntry{id: *lo}, iter)
	} else {
		n.children.Ascend(iter)
	}
}

// ascendLeaf visits leaf IDs in ascending order within [lo, hi] bounds.
func (n *node) ascendLeaf(lo, hi *uint32, visit func(id uint32) bool) {
	iter := func(item btree.Item) bool {
		id := uint32(item.(idItem))
		if hi != nil && id > *hi {
			return false
		}
		return visit(id)
	}
	if lo != nil {
		n.leaf.AscendGreaterOrEqual(idItem(*lo), iter)
	} else {
		n.leaf.Ascend(iter)
	}
}
