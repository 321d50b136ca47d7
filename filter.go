package chain

import (
	"fmt"
	"iter"
	"strings"
)

// FilterKind selects the admission policy a chain applies before mutating.
type FilterKind int

const (
	// FilterNone admits every element.
	FilterNone FilterKind = iota

	// FilterUnique silently drops elements that are already present.
	FilterUnique
)

// String returns the name of the filter kind.
func (k FilterKind) String() string {
	switch k {
	case FilterNone:
		return "none"
	case FilterUnique:
		return "unique"
	default:
		return fmt.Sprintf("FilterKind(%d)", int(k))
	}
}

// ParseFilterKind parses "none" or "unique" (case-insensitive).
func ParseFilterKind(s string) (FilterKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FilterNone, nil
	case "unique":
		return FilterUnique, nil
	}
	return FilterNone, fmt.Errorf("unknown filter kind %q", s)
}

// OutOfBoundsFunc decides what a missing index or key produces.
// Returning a nil error turns the lookup into a sentinel value and turns an
// out-of-range insert into a no-op.
type OutOfBoundsFunc[T any] func(err *IndexError) (T, error)

// Strict returns the default out-of-bounds policy: report the error.
func Strict[T any]() OutOfBoundsFunc[T] {
	return func(err *IndexError) (T, error) {
		var zero T
		return zero, err
	}
}

// Sentinel returns an out-of-bounds policy that yields v instead of an error.
func Sentinel[T any](v T) OutOfBoundsFunc[T] {
	return func(*IndexError) (T, error) {
		return v, nil
	}
}

// Filter is the admission policy shared by every chain type.
// It is consulted before each mutation; a vetoed mutation is a silent no-op,
// never an error.
type Filter[T comparable] struct {
	kind        FilterKind
	outOfBounds OutOfBoundsFunc[T]
}

// NewFilter creates a filter of the given kind with the Strict out-of-bounds policy.
func NewFilter[T comparable](kind FilterKind) *Filter[T] {
	return &Filter[T]{
		kind:        kind,
		outOfBounds: Strict[T](),
	}
}

// Kind returns the filter's kind.
func (f *Filter[T]) Kind() FilterKind {
	return f.kind
}

// FiltersAdds reports whether the filter may veto additions.
func (f *Filter[T]) FiltersAdds() bool {
	return f.kind == FilterUnique
}

// Contains reports whether candidate appears in existing.
func (f *Filter[T]) Contains(existing iter.Seq[T], candidate T) bool {
	for v := range existing {
		if v == candidate {
			return true
		}
	}
	return false
}

// Permits reports whether candidate may be added to a collection holding existing.
func (f *Filter[T]) Permits(existing iter.Seq[T], candidate T) bool {
	if !f.FiltersAdds() {
		return true
	}
	return !f.Contains(existing, candidate)
}

// IndexOutOfBounds applies the out-of-bounds policy to an index that falls
// outside [0, count).
func (f *Filter[T]) IndexOutOfBounds(count int, index any) (T, error) {
	return f.handle(&IndexError{Index: index, Count: count})
}

// handle routes a bounds violation through the configured policy.
func (f *Filter[T]) handle(err *IndexError) (T, error) {
	if f.outOfBounds == nil {
		return Strict[T]()(err)
	}
	return f.outOfBounds(err)
}
