package gtree

import (
	"cmp"
	"fmt"
)

// Check validates structural tree invariants: search order on keys, heap
// order on (rank, key) priorities, rank/ranker agreement, and size
// bookkeeping.
//
// A Check failure always indicates an implementation defect, not caller
// misuse; the fuzz targets exist to drive the implementation into
// triggering it. The checker is intentionally strict and meant for tests.
func (t *Tree[K]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	if err := t.cfg.validate(); err != nil {
		return err
	}
	if t.root == nil {
		if t.size != 0 {
			return fmt.Errorf("%w: empty tree must have size=0, has %d", ErrInvariantViolation, t.size)
		}
		return nil
	}
	count, err := t.checkNode(t.root)
	if err != nil {
		return err
	}
	if count != t.size {
		return fmt.Errorf("%w: size mismatch (%d != %d)", ErrInvariantViolation, count, t.size)
	}
	return nil
}

func (t *Tree[K]) checkNode(n *node[K]) (count int, err error) {
	if got := t.cfg.Ranker.Rank(n.key); got != n.rank {
		return 0, fmt.Errorf("%w: stored rank %d for key %v, ranker says %d",
			ErrInvariantViolation, n.rank, n.key, got)
	}
	count = 1
	if n.left != nil {
		if n.left.key >= n.key {
			return 0, fmt.Errorf("%w: left key %v not below %v",
				ErrInvariantViolation, n.left.key, n.key)
		}
		if priorityLess(n.rank, n.key, n.left.rank, n.left.key) {
			return 0, fmt.Errorf("%w: left child %v outranks %v",
				ErrInvariantViolation, n.left.key, n.key)
		}
		leftCount, err := t.checkNode(n.left)
		if err != nil {
			return 0, err
		}
		if maxNode(n.left).key >= n.key {
			return 0, fmt.Errorf("%w: left subtree of %v reaches %v",
				ErrInvariantViolation, n.key, maxNode(n.left).key)
		}
		count += leftCount
	}
	if n.right != nil {
		if n.right.key <= n.key {
			return 0, fmt.Errorf("%w: right key %v not above %v",
				ErrInvariantViolation, n.right.key, n.key)
		}
		if priorityLess(n.rank, n.key, n.right.rank, n.right.key) {
			return 0, fmt.Errorf("%w: right child %v outranks %v",
				ErrInvariantViolation, n.right.key, n.key)
		}
		rightCount, err := t.checkNode(n.right)
		if err != nil {
			return 0, err
		}
		if minNode(n.right).key <= n.key {
			return 0, fmt.Errorf("%w: right subtree of %v reaches %v",
				ErrInvariantViolation, n.key, minNode(n.right).key)
		}
		count += rightCount
	}
	return count, nil
}

func minNode[K cmp.Ordered](n *node[K]) *node[K] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func maxNode[K cmp.Ordered](n *node[K]) *node[K] {
	for n.right != nil {
		n = n.right
	}
	return n
}
