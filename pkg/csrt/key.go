package csrt

import (
	"unicode/utf16"

	"github.com/flier/csrt/pkg/tuple"
)

// Key is a non-empty sequence of 16-bit code units. The code unit 0x0000
// carries no special meaning within a Key; callers must not supply it.
type Key []uint16

// KeyFromString encodes s as a Key by UTF-16 encoding its runes.
func KeyFromString(s string) Key {
	return utf16.Encode([]rune(s))
}

// KeyFromUint16 wraps an existing slice of code units as a Key without
// copying.
func KeyFromUint16(units []uint16) Key { return Key(units) }

// String decodes k back into a Go string, for diagnostics and test failure
// messages. Lossy if k contains unpaired surrogates.
func (k Key) String() string { return string(utf16.Decode(k)) }

// asMapKey produces a byte-exact, comparable representation of k suitable
// for use as a map key. It is only ever used for the builder's duplicate
// guard, never for lookup.
func (k Key) asMapKey() string {
	buf := make([]byte, len(k)*2)
	for i, c := range k {
		buf[i*2] = byte(c)
		buf[i*2+1] = byte(c >> 8)
	}
	return string(buf)
}

// Pair is an input (key, value) association supplied to Construct.
type Pair[V any] = tuple.Tuple2[Key, V]

// NewPair constructs a Pair.
func NewPair[V any](key Key, value V) Pair[V] { return tuple.New2(key, value) }
