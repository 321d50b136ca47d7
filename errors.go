// Package chain provides a node-based sequence (a rope of element runs) where
// each node holds either one element or a non-copying view over a contiguous
// block. Edits split the owning node and relink its neighbours instead of
// shifting the whole sequence.
//
// Chains are not safe for concurrent use. Callers that share a chain between
// goroutines must provide their own synchronization.
package chain

import (
	"errors"
	"fmt"
)

// Position errors
var (
	// ErrIndexOutOfRange indicates that an index is outside the valid range
	// for the operation ([0, Count] for inserts, [0, Count) for access).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrKeyNotFound indicates that a keyed chain has no entry for a key.
	ErrKeyNotFound = errors.New("key not found")
)

// State errors
var (
	// ErrInvalidOperation indicates an operation that cannot be performed in
	// the chain's current state, such as popping from an empty chain.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConcurrentModification indicates that a chain was mutated while an
	// enumerator was walking it.
	ErrConcurrentModification = errors.New("chain modified during enumeration")
)

// Structure errors
var (
	// ErrCorrupt indicates that the node graph violates a structural invariant
	// (should not happen).
	ErrCorrupt = errors.New("chain structure corrupt")
)

// IndexError describes an index or key that was out of bounds.
// It matches ErrIndexOutOfRange with errors.Is; key misses also match
// ErrKeyNotFound.
type IndexError struct {
	Index     any  // the offending index or key
	Count     int  // element count at the time of the call
	Inclusive bool // true when Count itself was a valid position (inserts)
	Key       bool // true when Index is a key of a keyed chain
}

func (e *IndexError) Error() string {
	if e.Key {
		return fmt.Sprintf("key %v not found among %d entries", e.Index, e.Count)
	}
	if e.Inclusive {
		return fmt.Sprintf("index %v out of range [0, %d]", e.Index, e.Count)
	}
	return fmt.Sprintf("index %v out of range [0, %d)", e.Index, e.Count)
}

// Is reports whether target is one of the sentinels this error stands for.
func (e *IndexError) Is(target error) bool {
	if target == ErrIndexOutOfRange {
		return true
	}
	return e.Key && target == ErrKeyNotFound
}

// ConcurrentModificationError is reported by an enumerator whose chain changed
// after the enumerator was created.
type ConcurrentModificationError struct {
	Expected uint64 // version stamped into the enumerator
	Actual   uint64 // version of the chain when the change was noticed
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%v: version %d, now %d", ErrConcurrentModification, e.Expected, e.Actual)
}

func (e *ConcurrentModificationError) Unwrap() error { return ErrConcurrentModification }

// errEmpty builds the error returned when reading from an empty chain.
func errEmpty(op string) error {
	return fmt.Errorf("%w: %s on empty chain", ErrInvalidOperation, op)
}
