package chain

import "iter"

// NodeKind distinguishes the two shapes a node can take.
type NodeKind uint8

const (
	// ElementNode holds exactly one element.
	ElementNode NodeKind = iota

	// MemoryNode holds a non-owning view over a contiguous block.
	MemoryNode
)

// String returns the name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case MemoryNode:
		return "memory"
	default:
		return "unknown"
	}
}

// Node is one run of elements in a chain.
// A live node always represents at least one element.
type Node[T comparable] struct {
	kind NodeKind
	prev *Node[T]
	next *Node[T]

	// For element nodes
	element T
	hash    uint64 // cached key hash, keyed chains only

	// For memory nodes: never appended to, so sibling views of the same
	// array never overwrite each other.
	view []T
}

// newElementNode creates a detached node holding v.
func newElementNode[T comparable](v T) *Node[T] {
	return &Node[T]{kind: ElementNode, element: v}
}

// newMemoryNode creates a detached node viewing block. block must not be empty.
func newMemoryNode[T comparable](block []T) *Node[T] {
	return &Node[T]{kind: MemoryNode, view: block}
}

// Kind returns the node's kind.
func (n *Node[T]) Kind() NodeKind {
	return n.kind
}

// Count returns the number of elements this node represents.
func (n *Node[T]) Count() int {
	if n.kind == MemoryNode {
		return len(n.view)
	}
	return 1
}

// Next returns the following node, or nil at the tail.
func (n *Node[T]) Next() *Node[T] {
	return n.next
}

// Previous returns the preceding node, or nil at the head.
func (n *Node[T]) Previous() *Node[T] {
	return n.prev
}

// At returns the element at local index i.
func (n *Node[T]) At(i int) (T, bool) {
	if i < 0 || i >= n.Count() {
		var zero T
		return zero, false
	}
	return n.at(i), true
}

// at returns the element at local index i without bounds checks.
func (n *Node[T]) at(i int) T {
	if n.kind == MemoryNode {
		return n.view[i]
	}
	return n.element
}

// View returns the block a memory node views, clipped to its length so
// appending to it cannot reach neighbouring storage. Element nodes return nil.
func (n *Node[T]) View() []T {
	if n.kind != MemoryNode {
		return nil
	}
	return n.view[:len(n.view):len(n.view)]
}

// Values returns the node's elements in order.
func (n *Node[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < n.Count(); i++ {
			if !yield(n.at(i)) {
				return
			}
		}
	}
}

// Equal reports whether n and o represent the same elements in the same
// order, regardless of node kind: a single-element view equals an element
// node holding the same value.
func (n *Node[T]) Equal(o *Node[T]) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil || n.Count() != o.Count() {
		return false
	}
	for i := 0; i < n.Count(); i++ {
		if n.at(i) != o.at(i) {
			return false
		}
	}
	return true
}

// SameShape reports whether n and o are the same kind and, for memory nodes,
// view exactly the same storage; element nodes compare their values.
func (n *Node[T]) SameShape(o *Node[T]) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.kind != o.kind {
		return false
	}
	if n.kind == ElementNode {
		return n.element == o.element
	}
	return len(n.view) == len(o.view) && &n.view[0] == &o.view[0]
}
