package chain

import (
	"fmt"
	"hash/maphash"
	"iter"
)

// Keyed is an insertion-ordered key/value chain. Lookups and upserts scan the
// entries linearly, comparing cached key hashes before keys; there is no hash
// table. Keys are unique; values may repeat unless the filter is FilterUnique.
//
// A Keyed chain is not safe for concurrent use.
type Keyed[K comparable, V comparable] struct {
	links[Association[K, V]]

	filter *Filter[V]
	seed   maphash.Seed
	log    *Logger
}

// NewKeyed creates an empty keyed chain. FilterUnique makes it refuse a value
// already held under a different key.
func NewKeyed[K comparable, V comparable](opts ...Option[V]) *Keyed[K, V] {
	cfg := buildConfig(opts)
	return &Keyed[K, V]{
		filter: cfg.newFilter(),
		seed:   maphash.MakeSeed(),
		log:    cfg.logger,
	}
}

// Count returns the number of entries.
func (k *Keyed[K, V]) Count() int {
	return k.count
}

// Head returns the first entry node, or nil when empty.
func (k *Keyed[K, V]) Head() *Node[Association[K, V]] {
	return k.head
}

// Tail returns the last entry node, or nil when empty.
func (k *Keyed[K, V]) Tail() *Node[Association[K, V]] {
	return k.tail
}

// Filter returns the chain's admission policy.
func (k *Keyed[K, V]) Filter() *Filter[V] {
	return k.filter
}

// Insert sets key to value. An existing entry is replaced in place (last
// write wins, position kept); otherwise the entry is appended. It returns the
// previous value and whether one existed. A filter veto is a silent no-op.
func (k *Keyed[K, V]) Insert(key K, value V) (V, bool) {
	var previous V
	if k.filter.FiltersAdds() && k.heldElsewhere(key, value) {
		k.log.trace("veto", "filter", k.filter.Kind().String())
		return previous, false
	}

	hash := maphash.Comparable(k.seed, key)
	for n := k.head; n != nil; n = n.next {
		old := n.element.Element
		inserted, f := upsertEntry(n, hash, key, value)
		if !inserted {
			continue
		}
		k.splice(n, f)
		return old, true
	}

	e := newElementNode(Association[K, V]{Index: key, Element: value})
	e.hash = hash
	k.pushBack(e)
	return previous, false
}

// Get returns the value for key. A missing key goes through the filter's
// out-of-bounds policy, which by default returns an *IndexError matching
// ErrKeyNotFound.
func (k *Keyed[K, V]) Get(key K) (V, error) {
	if n := k.find(key); n != nil {
		return n.element.Element, nil
	}
	return k.filter.handle(&IndexError{Index: key, Count: k.count, Key: true})
}

// Lookup returns the value for key and whether it exists.
func (k *Keyed[K, V]) Lookup(key K) (V, bool) {
	if n := k.find(key); n != nil {
		return n.element.Element, true
	}
	var zero V
	return zero, false
}

// Has reports whether key exists.
func (k *Keyed[K, V]) Has(key K) bool {
	return k.find(key) != nil
}

// Delete removes key and reports whether it existed.
func (k *Keyed[K, V]) Delete(key K) bool {
	n := k.find(key)
	if n == nil {
		return false
	}
	k.unlink(n)
	return true
}

// Replace substitutes replace for every value equal to search, whatever its
// key, and returns how many entries changed. Keys and order are untouched.
// Under FilterUnique the call is vetoed when replace is already held.
func (k *Keyed[K, V]) Replace(search, replace V) int {
	if search == replace || k.count == 0 {
		return 0
	}
	if k.filter.FiltersAdds() && k.filter.Contains(k.valueSeq(), replace) {
		k.log.trace("veto", "filter", k.filter.Kind().String())
		return 0
	}

	replaced := 0
	for n := k.head; n != nil; {
		next := n.next
		if f, ok := replaceEntryValue(n, search, replace); ok {
			k.splice(n, f)
			replaced++
		}
		n = next
	}
	return replaced
}

// Clear removes every entry.
func (k *Keyed[K, V]) Clear() {
	k.reset()
}

// Keys returns the keys in insertion order.
func (k *Keyed[K, V]) Keys() []K {
	out := make([]K, 0, k.count)
	for n := k.head; n != nil; n = n.next {
		out = append(out, n.element.Index)
	}
	return out
}

// Values returns the values in insertion order.
func (k *Keyed[K, V]) Values() []V {
	out := make([]V, 0, k.count)
	for v := range k.valueSeq() {
		out = append(out, v)
	}
	return out
}

// Pairs returns the entries in insertion order.
func (k *Keyed[K, V]) Pairs() []Association[K, V] {
	out := make([]Association[K, V], 0, k.count)
	for a := range k.nodeValues() {
		out = append(out, a)
	}
	return out
}

// All returns key/value pairs in insertion order.
// Mutating the chain inside the loop panics with a *ConcurrentModificationError.
func (k *Keyed[K, V]) All() iter.Seq2[K, V] {
	return pairs(k.values(false))
}

// Backward returns key/value pairs newest first.
func (k *Keyed[K, V]) Backward() iter.Seq2[K, V] {
	return pairs(k.values(true))
}

// Enumerator returns a forward enumerator over the entries.
func (k *Keyed[K, V]) Enumerator() *Enumerator[Association[K, V]] {
	return newEnumerator(&k.links, false)
}

// Validate checks structural invariants and that keys are distinct.
func (k *Keyed[K, V]) Validate() error {
	if err := k.validate(); err != nil {
		return err
	}
	seen := make(map[K]struct{}, k.count)
	for n := k.head; n != nil; n = n.next {
		if _, dup := seen[n.element.Index]; dup {
			return fmt.Errorf("%w: duplicate key %v", ErrCorrupt, n.element.Index)
		}
		if n.hash != maphash.Comparable(k.seed, n.element.Index) {
			return fmt.Errorf("%w: stale hash for key %v", ErrCorrupt, n.element.Index)
		}
		seen[n.element.Index] = struct{}{}
	}
	return nil
}

// Format renders at most maxElements entries for debugging.
func (k *Keyed[K, V]) Format(maxElements int) string {
	return formatBounded("Keyed", k.count, maxElements, func(yield func(string) bool) {
		for a := range k.nodeValues() {
			if !yield(a.String()) {
				return
			}
		}
	})
}

// String renders the first DefaultFormatLimit entries.
func (k *Keyed[K, V]) String() string {
	return k.Format(DefaultFormatLimit)
}

// find returns the node holding key.
func (k *Keyed[K, V]) find(key K) *Node[Association[K, V]] {
	hash := maphash.Comparable(k.seed, key)
	for n := k.head; n != nil; n = n.next {
		if n.hash == hash && n.element.Index == key {
			return n
		}
	}
	return nil
}

// heldElsewhere reports whether value is stored under a key other than key.
func (k *Keyed[K, V]) heldElsewhere(key K, value V) bool {
	for n := k.head; n != nil; n = n.next {
		if n.element.Element == value && n.element.Index != key {
			return true
		}
	}
	return false
}

func (k *Keyed[K, V]) valueSeq() iter.Seq[V] {
	return func(yield func(V) bool) {
		for n := k.head; n != nil; n = n.next {
			if !yield(n.element.Element) {
				return
			}
		}
	}
}

// upsertEntry builds the replacement for n when n owns key. It reports false,
// touching nothing, when the key belongs elsewhere.
func upsertEntry[K comparable, V comparable](n *Node[Association[K, V]], hash uint64, key K, value V) (bool, fragment[Association[K, V]]) {
	var f fragment[Association[K, V]]
	if n.kind != ElementNode || n.hash != hash || n.element.Index != key {
		return false, f
	}
	e := newElementNode(Association[K, V]{Index: key, Element: value})
	e.hash = hash
	f.push(e)
	return true, f
}

// replaceEntryValue builds the replacement for n when its value equals search.
func replaceEntryValue[K comparable, V comparable](n *Node[Association[K, V]], search, replace V) (fragment[Association[K, V]], bool) {
	var f fragment[Association[K, V]]
	if n.element.Element != search {
		return f, false
	}
	e := newElementNode(Association[K, V]{Index: n.element.Index, Element: replace})
	e.hash = n.hash
	f.push(e)
	return f, true
}

func pairs[K comparable, V comparable](seq iter.Seq[Association[K, V]]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for a := range seq {
			if !yield(a.Index, a.Element) {
				return
			}
		}
	}
}
