/*
Package klist provides a bounded/sorted reference list with the same
logical contract as the gtree package: an ordered, duplicate-free sequence
of (key, rank) entries supporting search, insert, delete, join and split.

There is no tree shape to get wrong here — everything is a linear scan over
a sorted slice — which is exactly the point: the list is the
slow-but-obviously-correct model against which the tree is cross-checked by
the randomized and fuzz tests, and a baseline for the statistics driver.
Its performance is irrelevant.
*/
package klist

import (
	"cmp"
	"fmt"
	"iter"

	gtree "github.com/g-trees/gtree-experiments"
)

// Entry is one (key, rank) pair of the list.
type Entry[K cmp.Ordered] struct {
	Key  K
	Rank uint64
}

// List is an ordered, duplicate-free sequence of entries, strictly
// ascending by key. Like the tree, operations return new list values and
// never mutate their receiver.
type List[K cmp.Ordered] struct {
	ranker  gtree.Ranker[K]
	entries []Entry[K]
}

// New creates an empty list deriving ranks from ranker.
func New[K cmp.Ordered](ranker gtree.Ranker[K]) (*List[K], error) {
	if ranker == nil {
		return nil, fmt.Errorf("%w: ranker is required", gtree.ErrInvalidConfig)
	}
	return &List[K]{ranker: ranker}, nil
}

// Len returns the number of entries.
func (l *List[K]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// IsEmpty reports whether the list has no entries.
func (l *List[K]) IsEmpty() bool {
	return l.Len() == 0
}

// Min returns the least key, with ok reporting whether the list is
// non-empty.
func (l *List[K]) Min() (key K, ok bool) {
	if l.IsEmpty() {
		return key, false
	}
	return l.entries[0].Key, true
}

// Max returns the greatest key, with ok reporting whether the list is
// non-empty.
func (l *List[K]) Max() (key K, ok bool) {
	if l.IsEmpty() {
		return key, false
	}
	return l.entries[len(l.entries)-1].Key, true
}

// Contains reports whether key is stored in the list.
func (l *List[K]) Contains(key K) bool {
	if l == nil {
		return false
	}
	for _, e := range l.entries {
		if e.Key == key {
			return true
		}
		if e.Key > key {
			return false
		}
	}
	return false
}

func (l *List[K]) withEntries(entries []Entry[K]) *List[K] {
	return &List[K]{ranker: l.ranker, entries: entries}
}

// Insert adds key and returns a new list. A duplicate key reports
// gtree.ErrKeyAlreadyPresent.
func (l *List[K]) Insert(key K) (*List[K], error) {
	if l == nil {
		return nil, fmt.Errorf("%w: nil list", gtree.ErrInvalidConfig)
	}
	at := len(l.entries)
	for i, e := range l.entries {
		if e.Key == key {
			return nil, gtree.ErrKeyAlreadyPresent
		}
		if e.Key > key {
			at = i
			break
		}
	}
	entries := make([]Entry[K], 0, len(l.entries)+1)
	entries = append(entries, l.entries[:at]...)
	entries = append(entries, Entry[K]{Key: key, Rank: l.ranker.Rank(key)})
	entries = append(entries, l.entries[at:]...)
	return l.withEntries(entries), nil
}

// Delete removes key and returns a new list. An absent key reports
// gtree.ErrKeyNotFound.
func (l *List[K]) Delete(key K) (*List[K], error) {
	if l == nil {
		return nil, fmt.Errorf("%w: nil list", gtree.ErrInvalidConfig)
	}
	for i, e := range l.entries {
		if e.Key == key {
			entries := make([]Entry[K], 0, len(l.entries)-1)
			entries = append(entries, l.entries[:i]...)
			entries = append(entries, l.entries[i+1:]...)
			return l.withEntries(entries), nil
		}
		if e.Key > key {
			break
		}
	}
	return nil, gtree.ErrKeyNotFound
}

// Join combines left, pivot and right. Precondition and error behavior
// match gtree.Join: max(left) < pivot < min(right), otherwise
// gtree.ErrJoinPrecondition; rankers must agree on MagicID.
func Join[K cmp.Ordered](left *List[K], pivot K, right *List[K]) (*List[K], error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("%w: nil list", gtree.ErrInvalidConfig)
	}
	if left.ranker.MagicID() != right.ranker.MagicID() {
		return nil, fmt.Errorf("%w: left=%q right=%q", gtree.ErrIncompatibleRanker,
			left.ranker.MagicID(), right.ranker.MagicID())
	}
	if maxKey, ok := left.Max(); ok && maxKey >= pivot {
		return nil, fmt.Errorf("%w: left max %v, pivot %v", gtree.ErrJoinPrecondition, maxKey, pivot)
	}
	if minKey, ok := right.Min(); ok && minKey <= pivot {
		return nil, fmt.Errorf("%w: right min %v, pivot %v", gtree.ErrJoinPrecondition, minKey, pivot)
	}
	entries := make([]Entry[K], 0, left.Len()+right.Len()+1)
	entries = append(entries, left.entries...)
	entries = append(entries, Entry[K]{Key: pivot, Rank: left.ranker.Rank(pivot)})
	entries = append(entries, right.entries...)
	return left.withEntries(entries), nil
}

// Split partitions the list around key, reporting whether key was present.
func (l *List[K]) Split(key K) (left, right *List[K], found bool) {
	if l == nil {
		return nil, nil, false
	}
	at := len(l.entries)
	for i, e := range l.entries {
		if e.Key >= key {
			at = i
			found = e.Key == key
			break
		}
	}
	leftEntries := append([]Entry[K](nil), l.entries[:at]...)
	rightStart := at
	if found {
		rightStart++
	}
	rightEntries := append([]Entry[K](nil), l.entries[rightStart:]...)
	return l.withEntries(leftEntries), l.withEntries(rightEntries), found
}

// Union returns the list over the union of both key sets.
func Union[K cmp.Ordered](a, b *List[K]) (*List[K], error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	entries := make([]Entry[K], 0, a.Len()+b.Len())
	i, j := 0, 0
	for i < len(a.entries) && j < len(b.entries) {
		switch {
		case a.entries[i].Key < b.entries[j].Key:
			entries = append(entries, a.entries[i])
			i++
		case a.entries[i].Key > b.entries[j].Key:
			entries = append(entries, b.entries[j])
			j++
		default:
			entries = append(entries, a.entries[i])
			i, j = i+1, j+1
		}
	}
	entries = append(entries, a.entries[i:]...)
	entries = append(entries, b.entries[j:]...)
	return a.withEntries(entries), nil
}

// Intersect returns the list over the keys present in both operands.
func Intersect[K cmp.Ordered](a, b *List[K]) (*List[K], error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	var entries []Entry[K]
	for _, e := range a.entries {
		if b.Contains(e.Key) {
			entries = append(entries, e)
		}
	}
	return a.withEntries(entries), nil
}

// Difference returns the list over the keys of a that are not in b.
func Difference[K cmp.Ordered](a, b *List[K]) (*List[K], error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}
	var entries []Entry[K]
	for _, e := range a.entries {
		if !b.Contains(e.Key) {
			entries = append(entries, e)
		}
	}
	return a.withEntries(entries), nil
}

func checkOperands[K cmp.Ordered](a, b *List[K]) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil list", gtree.ErrInvalidConfig)
	}
	if a.ranker.MagicID() != b.ranker.MagicID() {
		return fmt.Errorf("%w: left=%q right=%q", gtree.ErrIncompatibleRanker,
			a.ranker.MagicID(), b.ranker.MagicID())
	}
	return nil
}

// Keys returns all keys in ascending order.
func (l *List[K]) Keys() []K {
	if l.IsEmpty() {
		return nil
	}
	keys := make([]K, len(l.entries))
	for i, e := range l.entries {
		keys[i] = e.Key
	}
	return keys
}

// All returns an iterator over all (key, rank) pairs in ascending key
// order.
func (l *List[K]) All() iter.Seq2[K, uint64] {
	return func(yield func(K, uint64) bool) {
		if l == nil {
			return
		}
		for _, e := range l.entries {
			if !yield(e.Key, e.Rank) {
				return
			}
		}
	}
}

// Check validates the list invariants: strictly ascending keys, no
// duplicates, ranks agreeing with the ranker.
func (l *List[K]) Check() error {
	if l == nil {
		return fmt.Errorf("%w: nil list", gtree.ErrInvalidConfig)
	}
	for i, e := range l.entries {
		if got := l.ranker.Rank(e.Key); got != e.Rank {
			return fmt.Errorf("%w: stored rank %d for key %v, ranker says %d",
				gtree.ErrInvariantViolation, e.Rank, e.Key, got)
		}
		if i > 0 && l.entries[i-1].Key >= e.Key {
			return fmt.Errorf("%w: keys %v and %v out of order",
				gtree.ErrInvariantViolation, l.entries[i-1].Key, e.Key)
		}
	}
	return nil
}
