package gtree

/*
BSD 3-Clause License

Copyright (c) 2024–26, the gtree-experiments authors

Please refer to the License file in the repository root.

*/

import (
	"cmp"
	"fmt"
)

// Tree is a canonical rank-ordered binary search tree.
//
// A tree is in-order sorted by key and max-heap ordered by (rank, key)
// priority, where ranks come from the configured Ranker. For a fixed key
// set there is exactly one shape satisfying both orders, so tree shape is
// independent of operation history.
//
// Operations return new trees and never mutate their receiver. Nodes are
// immutable once linked into a tree; path-copy updates share untouched
// subtrees between tree values.
//
//	Operation     |  expected   |  worst case
//	--------------+-------------+------------
//	Contains      |  O(log n)   |  O(n)
//	Insert        |  O(log n)   |  O(n)
//	Delete        |  O(log n)   |  O(n)
//	Join          |  O(log n)   |  O(n)
//	Split         |  O(log n)   |  O(n)
//
// The worst case occurs for degenerate rank sequences: there is no
// self-balancing beyond what the rank distribution provides.
type Tree[K cmp.Ordered] struct {
	cfg       Config[K]
	root      *node[K]
	size      int
	rotations uint64
}

// node owns its key, the key's derived rank, and its two subtrees. There
// are no parent references; the structure is acyclic and single-owner.
type node[K cmp.Ordered] struct {
	key   K
	rank  uint64
	left  *node[K]
	right *node[K]
}

// Config configures a canonical tree.
type Config[K cmp.Ordered] struct {
	// Ranker derives deterministic priorities from keys.
	Ranker Ranker[K]
}

func (cfg Config[K]) validate() error {
	if cfg.Ranker == nil {
		return fmt.Errorf("%w: ranker is required", ErrInvalidConfig)
	}
	return nil
}

func rankerMagicID[K cmp.Ordered](cfg Config[K]) string {
	if cfg.Ranker == nil {
		return ""
	}
	return cfg.Ranker.MagicID()
}

// New creates an empty tree with validated configuration.
func New[K cmp.Ordered](cfg Config[K]) (*Tree[K], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Tree[K]{cfg: cfg}, nil
}

// Config returns a copy of the tree configuration.
func (t *Tree[K]) Config() Config[K] {
	return t.cfg
}

// clone returns a shallow copy of the tree container. Node contents are
// shared intentionally; mutating operations use path-copy semantics.
func (t *Tree[K]) clone() *Tree[K] {
	cloned := *t
	return &cloned
}

func cloneNode[K cmp.Ordered](n *node[K]) *node[K] {
	cloned := *n
	return &cloned
}

// IsEmpty reports whether the tree has no keys.
func (t *Tree[K]) IsEmpty() bool {
	return t == nil || t.root == nil
}

// Len returns the number of keys in the tree.
func (t *Tree[K]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Height returns the tree height, where 0 means empty and 1 means a single
// root node.
func (t *Tree[K]) Height() int {
	if t == nil {
		return 0
	}
	return nodeHeight(t.root)
}

func nodeHeight[K cmp.Ordered](n *node[K]) int {
	if n == nil {
		return 0
	}
	return 1 + max(nodeHeight(n.left), nodeHeight(n.right))
}

// countNodes is intentionally recursive and simple; subtree sizes are not
// cached because the reference design favors obvious correctness.
func countNodes[K cmp.Ordered](n *node[K]) int {
	if n == nil {
		return 0
	}
	return 1 + countNodes(n.left) + countNodes(n.right)
}

// Rotations returns the number of rotations performed while producing this
// tree value through Insert and Delete. The counter is an observable side
// channel for measurement only and never affects tree shape. Join and Split
// are compositional and do not rotate: Join sums its operands' counters,
// Split halves start at zero.
func (t *Tree[K]) Rotations() uint64 {
	if t == nil {
		return 0
	}
	return t.rotations
}

// Min returns the least key, with ok reporting whether the tree is
// non-empty.
func (t *Tree[K]) Min() (key K, ok bool) {
	if t.IsEmpty() {
		return key, false
	}
	n := t.root
	for n.left != nil {
		n = n.left
	}
	return n.key, true
}

// Max returns the greatest key, with ok reporting whether the tree is
// non-empty.
func (t *Tree[K]) Max() (key K, ok bool) {
	if t.IsEmpty() {
		return key, false
	}
	n := t.root
	for n.right != nil {
		n = n.right
	}
	return n.key, true
}

// Contains reports whether key is stored in the tree.
func (t *Tree[K]) Contains(key K) bool {
	if t == nil {
		return false
	}
	n := t.root
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return true
		}
	}
	return false
}

// Insert adds key and returns a new tree. Inserting a key that is already
// present reports ErrKeyAlreadyPresent and leaves the receiver usable.
//
// The key is placed by ordinary search-tree descent and then rotated upward
// past every ancestor with a lower (rank, key) priority. Because ranks are
// a pure function of keys, the resulting shape is the canonical tree of the
// enlarged key set, whatever the insertion order.
func (t *Tree[K]) Insert(key K) (*Tree[K], error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	rank := t.cfg.Ranker.Rank(key)
	T().Debugf("insert key %v with rank %d", key, rank)
	cloned := t.clone()
	root, err := cloned.insertNode(t.root, key, rank)
	if err != nil {
		return nil, err
	}
	cloned.root = root
	cloned.size = t.size + 1
	return cloned, nil
}

// insertNode rebuilds the search path to key's slot and restores the heap
// order by rotating the fresh node above lower-priority ancestors on the
// way back up. Every node it links is a private copy of the receiver.
func (t *Tree[K]) insertNode(n *node[K], key K, rank uint64) (*node[K], error) {
	if n == nil {
		return &node[K]{key: key, rank: rank}, nil
	}
	switch {
	case key < n.key:
		child, err := t.insertNode(n.left, key, rank)
		if err != nil {
			return nil, err
		}
		cloned := cloneNode(n)
		cloned.left = child
		if priorityLess(cloned.rank, cloned.key, child.rank, child.key) {
			return t.rotateRight(cloned), nil
		}
		return cloned, nil
	case key > n.key:
		child, err := t.insertNode(n.right, key, rank)
		if err != nil {
			return nil, err
		}
		cloned := cloneNode(n)
		cloned.right = child
		if priorityLess(cloned.rank, cloned.key, child.rank, child.key) {
			return t.rotateLeft(cloned), nil
		}
		return cloned, nil
	default:
		return nil, ErrKeyAlreadyPresent
	}
}

// rotateRight promotes n's left child. Both n and n.left must be private
// copies owned by the caller.
func (t *Tree[K]) rotateRight(n *node[K]) *node[K] {
	assert(n.left != nil, "rotateRight requires a left child")
	l := n.left
	n.left = l.right
	l.right = n
	t.rotations++
	return l
}

// rotateLeft promotes n's right child. Both n and n.right must be private
// copies owned by the caller.
func (t *Tree[K]) rotateLeft(n *node[K]) *node[K] {
	assert(n.right != nil, "rotateLeft requires a right child")
	r := n.right
	n.right = r.left
	r.left = n
	t.rotations++
	return r
}

// Delete removes key and returns a new tree. Deleting an absent key reports
// ErrKeyNotFound and leaves the receiver usable.
//
// The target node is rotated downward — always promoting its higher-priority
// child, so the heap order stays intact above it — until it has at most one
// child, then spliced out. This is the exact inverse of insertion under the
// same ranker: deleting and re-inserting a key reproduces the previous
// shape.
func (t *Tree[K]) Delete(key K) (*Tree[K], error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	T().Debugf("delete key %v", key)
	cloned := t.clone()
	root, err := cloned.deleteNode(t.root, key)
	if err != nil {
		return nil, err
	}
	cloned.root = root
	cloned.size = t.size - 1
	return cloned, nil
}

func (t *Tree[K]) deleteNode(n *node[K], key K) (*node[K], error) {
	if n == nil {
		return nil, ErrKeyNotFound
	}
	switch {
	case key < n.key:
		child, err := t.deleteNode(n.left, key)
		if err != nil {
			return nil, err
		}
		cloned := cloneNode(n)
		cloned.left = child
		return cloned, nil
	case key > n.key:
		child, err := t.deleteNode(n.right, key)
		if err != nil {
			return nil, err
		}
		cloned := cloneNode(n)
		cloned.right = child
		return cloned, nil
	default:
		return t.spliceOut(n), nil
	}
}

// spliceOut removes the root of n's subtree. While the node still has two
// children, the higher-priority child is rotated into its place; a node
// with at most one child is replaced by that child.
func (t *Tree[K]) spliceOut(n *node[K]) *node[K] {
	switch {
	case n.left == nil:
		return n.right
	case n.right == nil:
		return n.left
	}
	cloned := cloneNode(n)
	if priorityLess(cloned.left.rank, cloned.left.key, cloned.right.rank, cloned.right.key) {
		up := cloneNode(cloned.right)
		cloned.right = up.left
		t.rotations++
		up.left = t.spliceOut(cloned)
		return up
	}
	up := cloneNode(cloned.left)
	cloned.left = up.right
	t.rotations++
	up.right = t.spliceOut(cloned)
	return up
}

// Keys returns all keys in ascending order.
func (t *Tree[K]) Keys() []K {
	if t.IsEmpty() {
		return nil
	}
	keys := make([]K, 0, t.size)
	t.ForEachPair(func(key K, _ uint64) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Equal reports whether a and b are structurally identical: same shape,
// same keys, same ranks. Under a shared ranker this coincides with key-set
// equality, which is the point of keeping trees canonical.
func Equal[K cmp.Ordered](a, b *Tree[K]) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() && b.IsEmpty()
	}
	return equalNodes(a.root, b.root)
}

func equalNodes[K cmp.Ordered](a, b *node[K]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.key != b.key || a.rank != b.rank {
		return false
	}
	return equalNodes(a.left, b.left) && equalNodes(a.right, b.right)
}
