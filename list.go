package chain

import "fmt"

// links is the doubly linked node backbone shared by Chain and Keyed.
// Every mutation bumps version so enumerators can detect it.
type links[T comparable] struct {
	head    *Node[T]
	tail    *Node[T]
	count   int // elements across all nodes
	nodes   int
	version uint64
}

// link makes b follow a. A nil a makes b the head; a nil b makes a the tail.
func (l *links[T]) link(a, b *Node[T]) {
	if a == nil {
		l.head = b
	} else {
		a.next = b
	}
	if b == nil {
		l.tail = a
	} else {
		b.prev = a
	}
}

// pushFront links the detached node n before the head.
func (l *links[T]) pushFront(n *Node[T]) {
	n.prev = nil
	l.link(n, l.head)
	l.link(nil, n)
	l.added(n)
}

// pushBack links the detached node n after the tail.
func (l *links[T]) pushBack(n *Node[T]) {
	n.next = nil
	l.link(l.tail, n)
	l.link(n, nil)
	l.added(n)
}

// linkBefore links the detached node n immediately before at.
func (l *links[T]) linkBefore(at, n *Node[T]) {
	prev := at.prev
	l.link(prev, n)
	l.link(n, at)
	l.added(n)
}

func (l *links[T]) added(n *Node[T]) {
	l.count += n.Count()
	l.nodes++
	l.version++
}

// splice replaces n with f and relinks n's former neighbours to the
// fragment's ends. An empty fragment unlinks n.
func (l *links[T]) splice(n *Node[T], f fragment[T]) {
	prev, next := n.prev, n.next
	if f.head == nil {
		l.link(prev, next)
	} else {
		l.link(prev, f.head)
		l.link(f.tail, next)
	}
	l.count += f.count - n.Count()
	l.nodes += f.nodes - 1
	l.version++
	n.prev, n.next = nil, nil
}

// unlink removes n from the list.
func (l *links[T]) unlink(n *Node[T]) {
	l.splice(n, fragment[T]{})
}

// locate returns the node owning element index and the absolute index of
// that node's first element. index must be in [0, count). The walk starts
// from whichever end is closer.
func (l *links[T]) locate(index int) (*Node[T], int) {
	if index < l.count/2 {
		offset := 0
		for n := l.head; n != nil; n = n.next {
			if index < offset+n.Count() {
				return n, offset
			}
			offset += n.Count()
		}
		return nil, 0
	}

	end := l.count
	for n := l.tail; n != nil; n = n.prev {
		start := end - n.Count()
		if index >= start {
			return n, start
		}
		end = start
	}
	return nil, 0
}

// reset drops every node.
func (l *links[T]) reset() {
	l.head = nil
	l.tail = nil
	l.count = 0
	l.nodes = 0
	l.version++
}

// validate checks the structural invariants: head, tail and count agree on
// emptiness, no node is empty, links are symmetric, and both walks cover
// exactly count elements.
func (l *links[T]) validate() error {
	if (l.head == nil) != (l.tail == nil) || (l.head == nil) != (l.count == 0) {
		return fmt.Errorf("%w: head=%v tail=%v count=%d", ErrCorrupt, l.head != nil, l.tail != nil, l.count)
	}

	elements, nodes := 0, 0
	var last *Node[T]
	for n := l.head; n != nil; n = n.next {
		if n.Count() == 0 {
			return fmt.Errorf("%w: empty node at element %d", ErrCorrupt, elements)
		}
		if n.prev != last {
			return fmt.Errorf("%w: broken back link at element %d", ErrCorrupt, elements)
		}
		elements += n.Count()
		nodes++
		last = n
		if nodes > l.nodes {
			return fmt.Errorf("%w: more than %d nodes reachable", ErrCorrupt, l.nodes)
		}
	}
	if last != l.tail {
		return fmt.Errorf("%w: forward walk does not end at tail", ErrCorrupt)
	}
	if elements != l.count || nodes != l.nodes {
		return fmt.Errorf("%w: walked %d elements in %d nodes, recorded %d in %d",
			ErrCorrupt, elements, nodes, l.count, l.nodes)
	}

	backward := 0
	for n := l.tail; n != nil; n = n.prev {
		backward += n.Count()
		if n.prev == nil && n != l.head {
			return fmt.Errorf("%w: backward walk does not end at head", ErrCorrupt)
		}
	}
	if backward != l.count {
		return fmt.Errorf("%w: backward walk found %d elements, want %d", ErrCorrupt, backward, l.count)
	}
	return nil
}
