package gtree

import (
	"cmp"
	"iter"
)

// All returns an iterator over all (key, rank) pairs in ascending key
// order. The sequence is lazy, finite and restartable.
func (t *Tree[K]) All() iter.Seq2[K, uint64] {
	return func(yield func(K, uint64) bool) {
		if t == nil {
			return
		}
		forEachNode(t.root, yield)
	}
}

// ForEachPair walks (key, rank) pairs in ascending key order. Iteration
// stops early if the callback returns false.
func (t *Tree[K]) ForEachPair(fn func(key K, rank uint64) bool) {
	if t == nil || fn == nil {
		return
	}
	forEachNode(t.root, fn)
}

func forEachNode[K cmp.Ordered](n *node[K], fn func(K, uint64) bool) bool {
	if n == nil {
		return true
	}
	if !forEachNode(n.left, fn) {
		return false
	}
	if !fn(n.key, n.rank) {
		return false
	}
	return forEachNode(n.right, fn)
}
