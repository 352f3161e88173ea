package csrt

import (
	"errors"
	"fmt"
)

// ErrEmptyKey is returned by Construct when one of the input pairs carries
// a zero-length key.
var ErrEmptyKey = errors.New("csrt: key must not be empty")

// ErrCapacityExceeded is returned by Construct when the input exceeds what
// the packed layout can address: more than 65,535 pairs, or a subtree whose
// serialised size would overflow a 16-bit offset.
var ErrCapacityExceeded = errors.New("csrt: capacity exceeded")

// ErrKeyNotFound is returned by Get when called with a key that was not
// present at construction time.
var ErrKeyNotFound = errors.New("csrt: key not found")

// DuplicateKeyError is returned by Construct when two input pairs share the
// same key.
type DuplicateKeyError struct {
	Key Key
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("csrt: duplicate key %q", e.Key.String())
}
