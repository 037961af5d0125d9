package gtree

import (
	"cmp"
	"fmt"
	"hash/fnv"
	"math/bits"
)

// Ranker maps keys to priorities ("ranks"). Implementations must be pure:
// the same key yields the same rank within one process and across processes.
// Random per-process ranks would break canonical shape, reproducible
// statistics and the join algebra, so they are not admissible here.
//
// MagicID identifies the rank function. Trees are only combined when their
// rankers expose the same MagicID; this keeps trees built under different
// rank functions from being silently mixed.
type Ranker[K any] interface {
	Rank(key K) uint64
	MagicID() string
}

// priorityLess reports whether priority (ra, ka) orders strictly below
// (rb, kb). The key acts as tie-break, so distinct keys never compare equal
// and every key set has exactly one tree shape satisfying both the search
// and the heap invariant.
func priorityLess[K cmp.Ordered](ra uint64, ka K, rb uint64, kb K) bool {
	if ra != rb {
		return ra < rb
	}
	return ka < kb
}

// GeometricRanker derives geometrically distributed ranks from an FNV-1a
// hash of the key: the rank is the number of trailing zero bits of the hash
// (the zip tree construction). Expected rank is 1, and rank r occurs with
// probability 2^-(r+1), which yields expected logarithmic tree height for
// non-adversarial key sets.
//
// Keys are hashed through their fmt representation. That is not a fast
// encoding, but it is deterministic for all ordered key types, and this
// module favors obvious correctness over tuning.
type GeometricRanker[K cmp.Ordered] struct{}

// Rank returns the deterministic rank of key.
func (GeometricRanker[K]) Rank(key K) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%v", key)
	// The forced top bit caps ranks at 63 and keeps the all-zero hash from
	// producing an out-of-band rank of 64.
	return uint64(bits.TrailingZeros64(h.Sum64() | 1<<63))
}

// MagicID identifies the rank function.
func (GeometricRanker[K]) MagicID() string {
	return "gtree:fnv1a-geometric"
}
