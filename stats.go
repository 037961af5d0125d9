package gtree

import "cmp"

// Stats aggregates read-only structural measures of a tree. It is consumed
// by the statistics driver and by tests; collecting it never modifies the
// tree.
type Stats[K cmp.Ordered] struct {
	// Height of the tree; 0 for the empty tree.
	Height int
	// Nodes is the number of stored keys.
	Nodes int
	// Rotations performed while this tree value was produced.
	Rotations uint64
	// Least and Greatest are only meaningful when Nodes > 0.
	Least    K
	Greatest K
	// RankDistribution counts keys per rank.
	RankDistribution map[uint64]int
	// Valid reports whether Check passed during collection.
	Valid bool
}

// Collect gathers structural statistics for t in one in-order walk plus an
// invariant check.
func Collect[K cmp.Ordered](t *Tree[K]) Stats[K] {
	stats := Stats[K]{
		Height:           t.Height(),
		Nodes:            t.Len(),
		Rotations:        t.Rotations(),
		RankDistribution: make(map[uint64]int),
		Valid:            t.Check() == nil,
	}
	t.ForEachPair(func(_ K, rank uint64) bool {
		stats.RankDistribution[rank]++
		return true
	})
	if least, ok := t.Min(); ok {
		stats.Least = least
	}
	if greatest, ok := t.Max(); ok {
		stats.Greatest = greatest
	}
	return stats
}
