package csrt

import "github.com/flier/csrt/pkg/opt"

// Container is an immutable mapping from Key to V, backed by a Contiguous
// Splayed Radix Tree. The zero Container is not valid; build one with
// Construct, ConstructResult, or ConstructSeq.
type Container[V any] struct {
	tree   []uint16
	values []V
}

// Len returns the number of keys stored in c.
func (c *Container[V]) Len() int { return len(c.values) }

// Contains reports whether key was present at construction time. It never
// fails.
func (c *Container[V]) Contains(key Key) bool {
	_, ok := c.find(key)
	return ok
}

// Get returns the value bound to key, or ErrKeyNotFound if key was not
// present at construction time.
func (c *Container[V]) Get(key Key) (V, error) {
	idx, ok := c.find(key)
	if !ok {
		var zero V
		return zero, ErrKeyNotFound
	}
	return c.values[idx], nil
}

// Lookup is like Get, but reports absence via opt.Option instead of an
// error.
func (c *Container[V]) Lookup(key Key) opt.Option[V] {
	idx, ok := c.find(key)
	if !ok {
		return opt.None[V]()
	}
	return opt.Some(c.values[idx])
}

// find walks the packed tree array per the lookup state machine:
// DescendingBinary (comparing the first code unit of a candidate sibling),
// MatchingPrefix (verifying the tail of a matched node's prefix), and
// AtNodeBody (deciding terminal vs. descent into children). It returns the
// value index on Found, or (0, false) on NotFound.
func (c *Container[V]) find(key Key) (int, bool) {
	if len(c.tree) == 0 {
		return 0, false
	}

	rootCount := int(c.tree[0])
	if rootCount == 0 {
		return 0, false
	}

	treeIndex := 1
	keyIndex := 0
	left := rootCount >> 1
	right := rootCount - left - 1

	for {
		ln := int(c.tree[treeIndex])

		var q int
		if ln > 0 {
			first := c.tree[treeIndex+1]

			switch {
			case keyIndex == len(key) || key[keyIndex] < first:
				if left == 0 {
					return 0, false
				}
				treeIndex, left, right = c.descend(treeIndex, ln, left, right, false)
				continue

			case key[keyIndex] > first:
				if right == 0 {
					return 0, false
				}
				treeIndex, left, right = c.descend(treeIndex, ln, left, right, true)
				continue
			}

			// MatchingPrefix: the first code unit matched; verify the rest.
			for i := 1; i < ln; i++ {
				if keyIndex+i >= len(key) || key[keyIndex+i] != c.tree[treeIndex+1+i] {
					return 0, false
				}
			}
			keyIndex += ln
			q = treeIndex + 1 + ln
		} else {
			q = treeIndex + 1
		}

		// AtNodeBody.
		children := int(c.tree[q])
		if children == 0 {
			if ln == 0 {
				// Degenerate terminal: never carries sibling offsets.
				if keyIndex == len(key) {
					return int(c.tree[q+1]), true
				}
				return 0, false
			}

			pos := q + 1
			if left > 0 {
				pos++
			}
			if right > 0 {
				pos++
			}
			if keyIndex == len(key) {
				return int(c.tree[pos]), true
			}
			return 0, false
		}

		pos := q + 1
		if left > 0 {
			pos++
		}
		if right > 0 {
			pos++
		}
		treeIndex = pos
		left = children >> 1
		right = children - left - 1
	}
}

// descend jumps from the node at treeIndex (with prefix length ln and
// sibling counts left/right) to its right sibling when toRight is true, or
// its left sibling otherwise, returning the new walk state per the splay
// recursion of §4.2: newLeft, newRight are computed from whichever side was
// descended into.
func (c *Container[V]) descend(treeIndex, ln, left, right int, toRight bool) (newTreeIndex, newLeft, newRight int) {
	q := treeIndex + 1 + ln

	offPos := q + 1
	if toRight && left > 0 {
		offPos++ // skip the left offset slot to reach the right one.
	}

	off := int(c.tree[offPos])
	newTreeIndex = q + off

	if toRight {
		newLeft = right >> 1
		newRight = right - newLeft - 1
	} else {
		newLeft = left >> 1
		newRight = left - newLeft - 1
	}

	return
}
