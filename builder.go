package gtree

import (
	"cmp"
	"fmt"
)

// FromSortedKeys bulk-builds a tree from keys in strictly ascending order.
//
// The build walks the right spine once and runs in O(n), but it produces
// exactly the canonical shape that repeated Insert of the same keys would
// produce — bulk building is an optimization, never a different tree.
// Unsorted or duplicated input reports ErrUnorderedKeys.
func FromSortedKeys[K cmp.Ordered](cfg Config[K], keys []K) (*Tree[K], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	tree := &Tree[K]{cfg: cfg}
	if len(keys) == 0 {
		return tree, nil
	}
	// spine holds the right spine of the tree under construction, from the
	// root down to the rightmost node, in strictly decreasing priority.
	spine := make([]*node[K], 0, 16)
	for i, key := range keys {
		if i > 0 && keys[i-1] >= key {
			return nil, fmt.Errorf("%w: %v before %v", ErrUnorderedKeys, keys[i-1], key)
		}
		fresh := &node[K]{key: key, rank: cfg.Ranker.Rank(key)}
		// Every key so far is smaller than the new key, so the new node
		// belongs on the right spine. Nodes with lower priority move below
		// it as its left subtree.
		var demoted *node[K]
		for len(spine) > 0 {
			top := spine[len(spine)-1]
			if !priorityLess(top.rank, top.key, fresh.rank, fresh.key) {
				break
			}
			demoted = top
			spine = spine[:len(spine)-1]
		}
		fresh.left = demoted
		if len(spine) > 0 {
			spine[len(spine)-1].right = fresh
		}
		spine = append(spine, fresh)
	}
	tree.root = spine[0]
	tree.size = len(keys)
	return tree, nil
}

// FromKeys builds a tree by repeated insertion, in whatever order the keys
// arrive. Duplicate keys report ErrKeyAlreadyPresent.
func FromKeys[K cmp.Ordered](cfg Config[K], keys []K) (*Tree[K], error) {
	tree, err := New(cfg)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		tree, err = tree.Insert(key)
		if err != nil {
			return nil, err
		}
	}
	return tree, nil
}
