// Package csrt implements a Contiguous Splayed Radix Tree: an immutable,
// read-only associative container mapping non-empty string keys (sequences
// of 16-bit code units) to values of an arbitrary type V.
//
// The entire trie topology — node prefixes, radix child counts, and the
// binary-search offsets used to splay a node's radix children — is
// serialised into a single flat []uint16 array with no pointers. Values are
// held in a parallel slice indexed by a small integer embedded in the flat
// array. Construction takes a sorted, duplicate-free list of pairs and
// produces both arrays in one recursive pass; lookup walks the array in
// O(|key|) time independent of the number of stored keys, performing an
// implicit binary search over each node's radix children while descending.
//
// The container is immutable once built: there is no insertion, deletion,
// or update, and no iteration in sorted order. An arbitrary number of
// goroutines may call Get/Contains/Lookup concurrently on the same
// *Container without locking, provided the container itself was safely
// published (e.g. behind a channel send or sync/atomic store) after
// Construct returned.
package csrt
