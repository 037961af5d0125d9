package gtree

import (
	"cmp"
	"fmt"
)

// Join combines left, pivot and right into a single tree.
//
// Precondition: every key in left is less than pivot, and every key in
// right is greater than pivot. A violation is a contract error reported as
// ErrJoinPrecondition; no tree is produced. Both operands must have been
// built under rankers with the same MagicID, otherwise Join reports
// ErrIncompatibleRanker.
//
// The algorithm is the classic join-based tree algebra: the element with
// the highest (rank, key) priority in the combined range becomes the root,
// so the result is the canonical tree of the combined key set — the same
// tree direct insertion of all keys would have produced. Cost is
// O(log n₁ + log n₂), independent of which operand is taller.
func Join[K cmp.Ordered](left *Tree[K], pivot K, right *Tree[K]) (*Tree[K], error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	if rankerMagicID(left.cfg) != rankerMagicID(right.cfg) {
		T().Errorf("join: incompatible rankers %q and %q",
			rankerMagicID(left.cfg), rankerMagicID(right.cfg))
		return nil, fmt.Errorf("%w: left=%q right=%q", ErrIncompatibleRanker,
			rankerMagicID(left.cfg), rankerMagicID(right.cfg))
	}
	T().Debugf("join at pivot %v", pivot)
	if maxKey, ok := left.Max(); ok && maxKey >= pivot {
		T().Errorf("join: left max %v not below pivot %v", maxKey, pivot)
		return nil, fmt.Errorf("%w: left max %v, pivot %v", ErrJoinPrecondition, maxKey, pivot)
	}
	if minKey, ok := right.Min(); ok && minKey <= pivot {
		T().Errorf("join: right min %v not above pivot %v", minKey, pivot)
		return nil, fmt.Errorf("%w: right min %v, pivot %v", ErrJoinPrecondition, minKey, pivot)
	}
	joined := left.clone()
	joined.root = joinNodes(left.root, pivot, left.cfg.Ranker.Rank(pivot), right.root)
	joined.size = left.size + right.size + 1
	joined.rotations = left.rotations + right.rotations
	return joined, nil
}

// joinNodes assembles the canonical tree over l's keys, pivot, and r's
// keys. The highest-priority root wins; the join recurses into the winning
// side along its seam, path-copying only the seam nodes.
func joinNodes[K cmp.Ordered](l *node[K], pivot K, rank uint64, r *node[K]) *node[K] {
	pivotOverLeft := l == nil || priorityLess(l.rank, l.key, rank, pivot)
	pivotOverRight := r == nil || priorityLess(r.rank, r.key, rank, pivot)
	if pivotOverLeft && pivotOverRight {
		return &node[K]{key: pivot, rank: rank, left: l, right: r}
	}
	if !pivotOverLeft && (pivotOverRight || priorityLess(r.rank, r.key, l.rank, l.key)) {
		cloned := cloneNode(l)
		cloned.right = joinNodes(l.right, pivot, rank, r)
		return cloned
	}
	cloned := cloneNode(r)
	cloned.left = joinNodes(l, pivot, rank, r.left)
	return cloned
}

// Split partitions the tree around key into all-keys-less and
// all-keys-greater trees, reporting whether key itself was present. Both
// results are canonical for their key sets; Split is the inverse of Join.
// Splitting performs no rotations, so both halves start with a zeroed
// rotation counter.
func (t *Tree[K]) Split(key K) (left, right *Tree[K], found bool) {
	if t == nil {
		return nil, nil, false
	}
	T().Debugf("split at key %v", key)
	l, r, found := splitNodes(t.root, key)
	left = t.clone()
	left.root = l
	left.size = countNodes(l)
	left.rotations = 0
	right = t.clone()
	right.root = r
	right.size = countNodes(r)
	right.rotations = 0
	return left, right, found
}

// splitNodes partitions the subtree n around key, path-copying the seam.
// Subtrees entirely on one side of the split are shared unchanged.
func splitNodes[K cmp.Ordered](n *node[K], key K) (left, right *node[K], found bool) {
	if n == nil {
		return nil, nil, false
	}
	switch {
	case key < n.key:
		l, r, found := splitNodes(n.left, key)
		cloned := cloneNode(n)
		cloned.left = r
		return l, cloned, found
	case key > n.key:
		l, r, found := splitNodes(n.right, key)
		cloned := cloneNode(n)
		cloned.right = l
		return cloned, r, found
	default:
		return n.left, n.right, true
	}
}

// joinPair merges two trees whose key ranges are strictly separated,
// without a pivot element. It is the zip step used by deletion-flavored
// algebra: descend along the facing seams, always keeping the
// higher-priority node on top.
func joinPair[K cmp.Ordered](l, r *node[K]) *node[K] {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	if priorityLess(l.rank, l.key, r.rank, r.key) {
		cloned := cloneNode(r)
		cloned.left = joinPair(l, r.left)
		return cloned
	}
	cloned := cloneNode(l)
	cloned.right = joinPair(l.right, r)
	return cloned
}

func checkAlgebraOperands[K cmp.Ordered](a, b *Tree[K]) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	if rankerMagicID(a.cfg) != rankerMagicID(b.cfg) {
		return fmt.Errorf("%w: left=%q right=%q", ErrIncompatibleRanker,
			rankerMagicID(a.cfg), rankerMagicID(b.cfg))
	}
	return nil
}

// Union returns the canonical tree over the union of both key sets.
// Cost is O(m log(n/m + 1)) for trees of size m ≤ n.
func Union[K cmp.Ordered](a, b *Tree[K]) (*Tree[K], error) {
	if err := checkAlgebraOperands(a, b); err != nil {
		return nil, err
	}
	merged := a.clone()
	merged.root = unionNodes(a.root, b.root)
	merged.size = countNodes(merged.root)
	merged.rotations = a.rotations + b.rotations
	return merged, nil
}

func unionNodes[K cmp.Ordered](a, b *node[K]) *node[K] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	// The higher-priority root must become the root of the union.
	if priorityLess(a.rank, a.key, b.rank, b.key) {
		a, b = b, a
	}
	l, r, _ := splitNodes(b, a.key)
	cloned := cloneNode(a)
	cloned.left = unionNodes(a.left, l)
	cloned.right = unionNodes(a.right, r)
	return cloned
}

// Intersect returns the canonical tree over the keys present in both
// operands.
func Intersect[K cmp.Ordered](a, b *Tree[K]) (*Tree[K], error) {
	if err := checkAlgebraOperands(a, b); err != nil {
		return nil, err
	}
	common := a.clone()
	common.root = intersectNodes(a.root, b.root)
	common.size = countNodes(common.root)
	common.rotations = a.rotations + b.rotations
	return common, nil
}

func intersectNodes[K cmp.Ordered](a, b *node[K]) *node[K] {
	if a == nil || b == nil {
		return nil
	}
	if priorityLess(a.rank, a.key, b.rank, b.key) {
		a, b = b, a
	}
	l, r, found := splitNodes(b, a.key)
	il := intersectNodes(a.left, l)
	ir := intersectNodes(a.right, r)
	if found {
		cloned := cloneNode(a)
		cloned.left = il
		cloned.right = ir
		return cloned
	}
	return joinPair(il, ir)
}

// Difference returns the canonical tree over the keys of a that are not in
// b.
func Difference[K cmp.Ordered](a, b *Tree[K]) (*Tree[K], error) {
	if err := checkAlgebraOperands(a, b); err != nil {
		return nil, err
	}
	remaining := a.clone()
	remaining.root = differenceNodes(a.root, b.root)
	remaining.size = countNodes(remaining.root)
	remaining.rotations = a.rotations + b.rotations
	return remaining, nil
}

func differenceNodes[K cmp.Ordered](a, b *node[K]) *node[K] {
	if a == nil {
		return nil
	}
	if b == nil {
		return a
	}
	l, r, _ := splitNodes(a, b.key)
	dl := differenceNodes(l, b.left)
	dr := differenceNodes(r, b.right)
	return joinPair(dl, dr)
}
