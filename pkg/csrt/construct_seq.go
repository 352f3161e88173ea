//go:build go1.23

package csrt

import (
	"iter"
	"slices"

	"github.com/flier/csrt/pkg/xiter"
)

// ConstructSeq builds a Container from a key-value iterator, for call sites
// that already produce pairs lazily (e.g. reading rows from a cursor)
// instead of materialising a []Pair[V] up front. seq need not be sorted;
// ConstructSeq sorts a copy before building.
func ConstructSeq[V any](seq iter.Seq2[Key, V]) (*Container[V], error) {
	pairs := slices.Collect(xiter.Pairs(seq))

	slices.SortFunc(pairs, func(a, b Pair[V]) int {
		return slices.Compare(a.V0, b.V0)
	})

	return Construct(pairs)
}
