package chain

import "iter"

// Enumerator walks a chain one element at a time, forward or backward.
//
// The enumerator records the chain's version when it is created. If the chain
// is mutated afterwards, Next returns false and Err reports a
// *ConcurrentModificationError. Independent enumerators over the same chain
// do not affect each other.
type Enumerator[T comparable] struct {
	list    *links[T]
	version uint64
	reverse bool

	node    *Node[T]
	local   int // index within node
	index   int // absolute index of current
	current T
	started bool
	done    bool
	err     error
}

// newEnumerator creates an enumerator positioned before the first element.
func newEnumerator[T comparable](l *links[T], reverse bool) *Enumerator[T] {
	return &Enumerator[T]{
		list:    l,
		version: l.version,
		reverse: reverse,
		index:   -1,
	}
}

// Next advances to the next element and reports whether there is one.
func (e *Enumerator[T]) Next() bool {
	if e.done || e.err != nil {
		return false
	}
	if e.version != e.list.version {
		e.err = &ConcurrentModificationError{Expected: e.version, Actual: e.list.version}
		return false
	}

	if !e.started {
		e.started = true
		if e.reverse {
			e.node = e.list.tail
			e.index = e.list.count
			if e.node != nil {
				e.local = e.node.Count() - 1
			}
		} else {
			e.node = e.list.head
			e.local = 0
		}
	} else if e.reverse {
		e.local--
		if e.local < 0 {
			e.node = e.node.prev
			if e.node != nil {
				e.local = e.node.Count() - 1
			}
		}
	} else {
		e.local++
		if e.local >= e.node.Count() {
			e.node = e.node.next
			e.local = 0
		}
	}

	if e.node == nil {
		e.done = true
		return false
	}
	if e.reverse {
		e.index--
	} else {
		e.index++
	}
	e.current = e.node.at(e.local)
	return true
}

// Value returns the current element.
func (e *Enumerator[T]) Value() T {
	return e.current
}

// Index returns the absolute index of the current element.
func (e *Enumerator[T]) Index() int {
	return e.index
}

// Err returns the error that stopped the enumeration, if any.
func (e *Enumerator[T]) Err() error {
	return e.err
}

// Reset rewinds the enumerator and re-stamps it with the chain's current version.
func (e *Enumerator[T]) Reset() {
	*e = *newEnumerator(e.list, e.reverse)
}

// values adapts an enumerator to a range-over-func sequence. A mutation during
// the loop panics with the *ConcurrentModificationError, as the runtime does
// for concurrent map writes.
func (l *links[T]) values(reverse bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		e := newEnumerator(l, reverse)
		for e.Next() {
			if !yield(e.Value()) {
				return
			}
		}
		if err := e.Err(); err != nil {
			panic(err)
		}
	}
}

// nodeValues yields elements without version checks; for use by the chain
// itself while it is not mutating.
func (l *links[T]) nodeValues() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := l.head; n != nil; n = n.next {
			for i := 0; i < n.Count(); i++ {
				if !yield(n.at(i)) {
					return
				}
			}
		}
	}
}
