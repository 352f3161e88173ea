//go:build debug

package csrt

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/flier/csrt/internal/debug"
)

// DebugTree renders the packed tree array as a nested, indented dump of its
// splay structure, in the spirit of the teacher's debug.Dict pretty-printer.
// It exists only in debug builds; it is a diagnostic aid, not part of the
// public contract relied on by normal callers.
func (c *Container[V]) DebugTree() string {
	if len(c.tree) == 0 {
		return "{}"
	}

	rootCount := int(c.tree[0])

	var b strings.Builder
	fmt.Fprintf(&b, "%v\n", debug.Dict("root", "children", rootCount))

	if rootCount > 0 {
		left := rootCount >> 1
		right := rootCount - left - 1
		c.dumpGroup(&b, 1, left, right, 1)
	}

	return b.String()
}

// dumpGroup prints the node at treeIndex and recurses into its radix
// children (if any) and its left/right splay siblings, mirroring the same
// offset arithmetic find/descend use to walk the array.
func (c *Container[V]) dumpGroup(b *strings.Builder, treeIndex, left, right, depth int) {
	ln := int(c.tree[treeIndex])

	var q int
	if ln > 0 {
		q = treeIndex + 1 + ln
	} else {
		q = treeIndex + 1
	}

	var prefix []uint16
	if ln > 0 {
		prefix = c.tree[treeIndex+1 : treeIndex+1+ln]
	}

	children := int(c.tree[q])

	pos := q + 1
	var leftOff, rightOff int
	hasLeft, hasRight := false, false
	if ln > 0 {
		hasLeft = left > 0
		hasRight = right > 0
		if hasLeft {
			leftOff = int(c.tree[pos])
			pos++
		}
		if hasRight {
			rightOff = int(c.tree[pos])
			pos++
		}
	}

	indent := strings.Repeat("  ", depth)

	if children == 0 {
		fmt.Fprintf(b, "%s%v\n", indent, debug.Dict("leaf", "prefix", string(utf16.Decode(prefix)), "value", c.tree[pos]))
	} else {
		fmt.Fprintf(b, "%s%v\n", indent, debug.Dict("node", "prefix", string(utf16.Decode(prefix)), "children", children))

		newLeft := children >> 1
		newRight := children - newLeft - 1
		c.dumpGroup(b, pos, newLeft, newRight, depth+1)
	}

	if hasLeft {
		newLeft := left >> 1
		newRight := left - newLeft - 1
		c.dumpGroup(b, q+leftOff, newLeft, newRight, depth)
	}

	if hasRight {
		newLeft := right >> 1
		newRight := right - newLeft - 1
		c.dumpGroup(b, q+rightOff, newLeft, newRight, depth)
	}
}
