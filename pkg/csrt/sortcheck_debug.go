//go:build go1.23 && debug

package csrt

import (
	"slices"

	"github.com/flier/csrt/internal/debug"
	"github.com/flier/csrt/pkg/xiter"
)

// assertSorted panics if pairs is not sorted ascending by key. It only runs
// in debug builds; Construct's duplicate and prefix-matching logic assumes
// sorted input and produces silently wrong trees otherwise, so this exists
// to catch that misuse in tests rather than at every call site in release
// builds.
func assertSorted[V any](pairs []Pair[V]) {
	sorted := xiter.IsSortedBy(slices.Values(pairs), func(a, b Pair[V]) bool {
		return slices.Compare(a.V0, b.V0) <= 0
	})
	debug.Assert(sorted, "pairs must be sorted ascending by key")
}
