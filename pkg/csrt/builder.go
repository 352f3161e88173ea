package csrt

import (
	"github.com/flier/csrt/internal/debug"
	"github.com/flier/csrt/internal/xsync"
	"github.com/flier/csrt/pkg/arena"
	"github.com/flier/csrt/pkg/arena/slice"
	"github.com/flier/csrt/pkg/arena/swiss"
	"github.com/flier/csrt/pkg/either"
	"github.com/flier/csrt/pkg/res"
	"github.com/flier/csrt/pkg/zc"
)

const maxCapacity = 0xFFFF

// arenaPool recycles the transient *arena.Arena used as Construct's builder
// scratchpad across calls, the way a service constructing many small
// containers (e.g. one per request schema) would.
var arenaPool = &xsync.Pool[arena.Arena]{
	New: func() *arena.Arena { return &arena.Arena{} },
}

// nodeSpec is one entry in a radix node's child list: either a leaf
// (payload.Left is the value index) or an internal node whose own radix
// children are payload.Right, awaiting serialisation.
type nodeSpec struct {
	prefix  []uint16
	payload either.Either[int, []*nodeSpec]
}

// Construct builds a Container from pairs, which must be sorted ascending
// by key, contain no duplicate keys, and contain no empty keys. It fails
// with ErrEmptyKey, a *DuplicateKeyError, or ErrCapacityExceeded.
func Construct[V any](pairs []Pair[V]) (*Container[V], error) {
	if len(pairs) > maxCapacity {
		return nil, ErrCapacityExceeded
	}

	for _, p := range pairs {
		if len(p.V0) == 0 {
			return nil, ErrEmptyKey
		}
	}

	assertSorted(pairs)

	a := arenaPool.Get()
	defer func() {
		a.Reset()
		arenaPool.Put(a)
	}()

	if err := checkDuplicates(a, pairs); err != nil {
		return nil, err
	}

	b := &builder[V]{arena: a}

	children, err := b.collectChildren(pairs, zc.Raw(0, len(pairs)), 0)
	if err != nil {
		return nil, err
	}

	body, err := b.serializeGroup(children)
	if err != nil {
		return nil, err
	}

	tree := make([]uint16, 1+body.Len())
	tree[0] = uint16(len(children))
	copy(tree[1:], body.Raw())

	return &Container[V]{tree: tree, values: b.values}, nil
}

// ConstructResult is Construct wrapped in res.Result, for call sites that
// already thread errors through Result rather than a plain (value, error)
// return.
func ConstructResult[V any](pairs []Pair[V]) res.Result[*Container[V]] {
	return res.Wrap(Construct(pairs))
}

// checkDuplicates is an O(1)-per-key guard, run before the recursive build,
// that fails fast on exact duplicate keys using a transient arena-backed
// Swiss table. The recursive builder in collectChildren detects duplicates
// on its own as a side effect of probing (per the layout's definition), so
// this guard exists purely to short-circuit before the more expensive
// recursive pass runs.
func checkDuplicates[V any](a *arena.Arena, pairs []Pair[V]) error {
	seen := swiss.NewMap[string, struct{}](a, uint32(len(pairs)))

	for _, p := range pairs {
		k := p.V0.asMapKey()
		if seen.Has(k) {
			return &DuplicateKeyError{Key: p.V0}
		}
		seen.Put(k, struct{}{})
	}

	return nil
}

// builder holds the arena scratchpad and the growing value array for one
// Construct call.
type builder[V any] struct {
	arena  *arena.Arena
	values []V
}

// collectChildren groups pairs within span, all of which share a prefix of
// length depth, into the radix children of their common parent. Pairs are
// grouped into contiguous runs by the code unit at position depth (sorted
// input guarantees the runs are contiguous); each run becomes one
// nodeSpec via buildNode. span packs the [lo, hi) pair-index range the way
// zc.View normally packs a zero-copy byte range.
//
// If the first pair in span is already exhausted at depth, it is itself a
// stored key that is a prefix of its siblings: it becomes a degenerate
// (zero-length prefix) terminal child, prepended ahead of the rest. A
// second pair also exhausted at depth would mean two identical keys, which
// is the duplicate condition described in §4.3: "a recursive descent that
// tries to probe past the end of a key indicates a duplicate."
func (b *builder[V]) collectChildren(pairs []Pair[V], span zc.View, depth int) ([]*nodeSpec, error) {
	lo, hi := span.Start(), span.End()

	debug.Log(nil, "probe range", "[%d:%d) at depth %d", lo, hi, depth)

	var children []*nodeSpec

	i := lo
	if i < hi && len(pairs[i].V0) == depth {
		if i+1 < hi && len(pairs[i+1].V0) == depth {
			return nil, &DuplicateKeyError{Key: pairs[i].V0}
		}

		children = append(children, &nodeSpec{
			prefix:  nil,
			payload: either.Left[int, []*nodeSpec](b.appendValue(pairs[i].V1)),
		})
		i++
	}

	for i < hi {
		c := pairs[i].V0[depth]

		j := i + 1
		for j < hi && pairs[j].V0[depth] == c {
			j++
		}

		node, err := b.buildNode(pairs, zc.Raw(i, j-i), depth)
		if err != nil {
			return nil, err
		}

		children = append(children, node)
		i = j
	}

	return children, nil
}

// buildNode builds the single radix child covering pairs within span, all
// of which share the code unit at position depth.
func (b *builder[V]) buildNode(pairs []Pair[V], span zc.View, depth int) (*nodeSpec, error) {
	lo, hi := span.Start(), span.End()

	if hi-lo == 1 {
		key := pairs[lo].V0
		prefix := key[depth:]

		debug.Assert(len(prefix) <= maxCapacity, "prefix too long: %d", len(prefix))

		return &nodeSpec{
			prefix:  prefix,
			payload: either.Left[int, []*nodeSpec](b.appendValue(pairs[lo].V1)),
		}, nil
	}

	end := depth + 1
	for {
		shortest := pairs[lo].V0
		if len(shortest) == end {
			break
		}

		c := pairs[lo].V0[end]
		agree := true
		for k := lo + 1; k < hi; k++ {
			if len(pairs[k].V0) <= end || pairs[k].V0[end] != c {
				agree = false
				break
			}
		}
		if !agree {
			break
		}
		end++
	}

	prefix := pairs[lo].V0[depth:end]
	debug.Assert(len(prefix) <= maxCapacity, "prefix too long: %d", len(prefix))

	kids, err := b.collectChildren(pairs, zc.Raw(lo, hi-lo), end)
	if err != nil {
		return nil, err
	}

	return &nodeSpec{
		prefix:  prefix,
		payload: either.Right[int, []*nodeSpec](kids),
	}, nil
}

func (b *builder[V]) appendValue(v V) int {
	idx := len(b.values)
	b.values = append(b.values, v)
	return idx
}

// serializeGroup lays out specs, a list of sibling radix children ordered
// by first code unit, as a balanced binary tree per §4.2: the element at
// the left-favouring midpoint becomes this group's root, and its left/right
// subtrees are serialised first (bottom-up) so that the root's sibling
// offsets - relative distances from its own children-count slot - can be
// computed from their already-known lengths.
func (b *builder[V]) serializeGroup(specs []*nodeSpec) (slice.Slice[uint16], error) {
	if len(specs) == 0 {
		return slice.Slice[uint16]{}, nil
	}

	m := len(specs) / 2
	root := specs[m]
	leftSpecs := specs[:m]
	rightSpecs := specs[m+1:]

	debug.Log(nil, "splay split", "count=%d mid=%d left=%d right=%d", len(specs), m, len(leftSpecs), len(rightSpecs))

	leftBytes, err := b.serializeGroup(leftSpecs)
	if err != nil {
		return slice.Slice[uint16]{}, err
	}

	rightBytes, err := b.serializeGroup(rightSpecs)
	if err != nil {
		return slice.Slice[uint16]{}, err
	}

	rootBytes, err := b.serializeNode(root, leftBytes, rightBytes)
	if err != nil {
		return slice.Slice[uint16]{}, err
	}

	buf := rootBytes
	buf = buf.Append(b.arena, leftBytes.Raw()...)
	buf = buf.Append(b.arena, rightBytes.Raw()...)

	return buf, nil
}

// serializeNode encodes spec's own header, sibling offsets (derived from
// leftBytes/rightBytes, the already-serialised binary-tree siblings), and
// payload (a value index, or this node's own nested radix-children group).
func (b *builder[V]) serializeNode(spec *nodeSpec, leftBytes, rightBytes slice.Slice[uint16]) (slice.Slice[uint16], error) {
	hasLeft := leftBytes.Len() > 0
	hasRight := rightBytes.Len() > 0

	var nested slice.Slice[uint16]
	var payloadLen int
	var childCount int

	if spec.payload.HasRight() {
		kids := spec.payload.UnwrapRight()

		var err error
		nested, err = b.serializeGroup(kids)
		if err != nil {
			return slice.Slice[uint16]{}, err
		}

		childCount = len(kids)
		payloadLen = nested.Len()

		if childCount > maxCapacity {
			return slice.Slice[uint16]{}, ErrCapacityExceeded
		}
	} else {
		payloadLen = 1
	}

	offsetSlots := 0
	if hasLeft {
		offsetSlots++
	}
	if hasRight {
		offsetSlots++
	}

	baseDist := 1 + offsetSlots + payloadLen

	var leftOff, rightOff int
	if hasLeft {
		leftOff = baseDist
		if leftOff > maxCapacity {
			return slice.Slice[uint16]{}, ErrCapacityExceeded
		}
	}
	if hasRight {
		rightOff = baseDist + leftBytes.Len()
		if rightOff > maxCapacity {
			return slice.Slice[uint16]{}, ErrCapacityExceeded
		}
	}

	buf := slice.Slice[uint16]{}
	buf = buf.Append(b.arena, uint16(len(spec.prefix)))
	if len(spec.prefix) > 0 {
		buf = buf.Append(b.arena, spec.prefix...)
	}

	buf = buf.Append(b.arena, uint16(childCount))
	if hasLeft {
		buf = buf.Append(b.arena, uint16(leftOff))
	}
	if hasRight {
		buf = buf.Append(b.arena, uint16(rightOff))
	}

	if spec.payload.HasRight() {
		buf = buf.Append(b.arena, nested.Raw()...)
	} else {
		buf = buf.Append(b.arena, uint16(spec.payload.UnwrapLeft()))
	}

	return buf, nil
}
