package chain

import "fmt"

// fragment is a detached, internally linked run of nodes that replaces one
// node of a chain. An empty fragment (head == nil) removes the node.
type fragment[T comparable] struct {
	head  *Node[T]
	tail  *Node[T]
	count int // elements across all nodes
	nodes int
}

// push appends n to the fragment.
func (f *fragment[T]) push(n *Node[T]) {
	n.prev = f.tail
	n.next = nil
	if f.tail == nil {
		f.head = n
	} else {
		f.tail.next = n
	}
	f.tail = n
	f.count += n.Count()
	f.nodes++
}

// pushView appends a memory node over block, skipping empty blocks.
func (f *fragment[T]) pushView(block []T) {
	if len(block) == 0 {
		return
	}
	f.push(newMemoryNode(block))
}

// copyNode returns a detached node with n's contents. Memory nodes share n's storage.
func copyNode[T comparable](n *Node[T]) *Node[T] {
	if n.kind == MemoryNode {
		return newMemoryNode(n.view)
	}
	c := newElementNode(n.element)
	c.hash = n.hash
	return c
}

// insertElementAt builds the fragment that replaces n once v is inserted at
// local index. Inserting inside a memory node splits it into a left view,
// the new element, and a right view without copying any element.
func insertElementAt[T comparable](n *Node[T], index int, v T) (fragment[T], error) {
	return insertAt(n, index, newElementNode(v))
}

// insertBlockAt is insertElementAt for a block; the middle piece is a memory
// node over block.
func insertBlockAt[T comparable](n *Node[T], index int, block []T) (fragment[T], error) {
	if len(block) == 0 {
		return fragment[T]{}, fmt.Errorf("%w: empty block", ErrInvalidOperation)
	}
	return insertAt(n, index, newMemoryNode(block))
}

// insertAt places the detached node middle at local index of n.
func insertAt[T comparable](n *Node[T], index int, middle *Node[T]) (fragment[T], error) {
	count := n.Count()
	if index < 0 || index > count {
		return fragment[T]{}, &IndexError{Index: index, Count: count, Inclusive: true}
	}

	var f fragment[T]
	switch {
	case index == 0:
		f.push(middle)
		f.push(copyNode(n))
	case index == count:
		f.push(copyNode(n))
		f.push(middle)
	default:
		// Only memory nodes have interior positions.
		f.pushView(n.view[:index])
		f.push(middle)
		f.pushView(n.view[index:])
	}
	return f, nil
}

// replaceInNode builds the fragment that replaces n once every element equal
// to search has been substituted by replace. Runs of non-matching elements
// become views over n's storage; each match becomes its own element node.
// It returns the number of matches; with no matches the fragment is empty
// and n should stay in place.
func replaceInNode[T comparable](n *Node[T], search, replace T) (fragment[T], int) {
	var f fragment[T]

	if n.kind == ElementNode {
		if n.element != search {
			return f, 0
		}
		e := newElementNode(replace)
		e.hash = n.hash
		f.push(e)
		return f, 1
	}

	matches := 0
	runStart := 0
	for i, v := range n.view {
		if v != search {
			continue
		}
		f.pushView(n.view[runStart:i])
		f.push(newElementNode(replace))
		runStart = i + 1
		matches++
	}
	if matches == 0 {
		return fragment[T]{}, 0
	}
	f.pushView(n.view[runStart:])
	return f, matches
}

// removeFromNode builds the fragment that replaces n once the element at
// local index is removed, and returns the removed element. Removing the only
// element yields an empty fragment.
func removeFromNode[T comparable](n *Node[T], index int) (fragment[T], T) {
	var f fragment[T]
	removed := n.at(index)
	if n.kind == MemoryNode {
		f.pushView(n.view[:index])
		f.pushView(n.view[index+1:])
	}
	return f, removed
}

// sliceNode returns a detached node over local range [from, to) of n.
// from < to must hold.
func sliceNode[T comparable](n *Node[T], from, to int) *Node[T] {
	if n.kind == MemoryNode {
		return newMemoryNode(n.view[from:to])
	}
	return copyNode(n)
}
