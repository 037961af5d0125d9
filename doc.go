/*
Package gtree implements a canonical, rank-ordered binary search tree
together with its join/split set algebra.

Every key is assigned a deterministic priority ("rank") by an injected
Ranker. A tree is simultaneously a binary search tree on keys and a max-heap
on (rank, key) priorities. Because ranks are a pure function of the keys,
the shape of a tree is a pure function of its key set: two trees holding the
same keys under the same ranker are structurally identical, regardless of
the order of insertions and deletions that produced them. This history
independence is what makes structural equality checks, reproducible
statistics and join-based set operations (union, intersection, difference)
work without any auxiliary balancing state.

All operations have value semantics: they return a new tree and leave their
operands untouched. Nodes are immutable after construction, so result trees
may share untouched subtrees with their inputs.

The companion package klist provides a deliberately naive sorted-list
implementation of the same logical contract, used as a cross-checking
oracle by the randomized and fuzz tests in this package.

# BSD License

Copyright (c) 2024–26, the gtree-experiments authors.

Please refer to the License file in the repository root.
*/
package gtree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
