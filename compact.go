package chain

// Stats describes the shape of a chain.
type Stats struct {
	Elements     int    // total element count
	Nodes        int    // live nodes
	ElementNodes int    // nodes holding a single element
	MemoryNodes  int    // nodes viewing a block
	Version      uint64 // mutation counter
}

// Stats returns the chain's current shape.
func (c *Chain[T]) Stats() Stats {
	return c.stats()
}

func (l *links[T]) stats() Stats {
	s := Stats{
		Elements: l.count,
		Nodes:    l.nodes,
		Version:  l.version,
	}
	for n := l.head; n != nil; n = n.next {
		switch n.kind {
		case ElementNode:
			s.ElementNodes++
		case MemoryNode:
			s.MemoryNodes++
		}
	}
	return s
}

// Compact merges neighbouring memory nodes whose views are adjacent in the
// same backing array, undoing splits left behind by edits. It returns the
// number of nodes removed. No element is copied.
func (c *Chain[T]) Compact() int {
	merged := 0
	for n := c.head; n != nil && n.next != nil; {
		m := n.next
		if n.kind != MemoryNode || m.kind != MemoryNode || !adjacent(n.view, m.view) {
			n = m
			continue
		}
		n.view = n.view[:len(n.view)+len(m.view)]
		c.unlink(m)
		c.count += len(m.view) // absorbed by n, not removed
		merged++
	}
	if merged > 0 {
		c.log.trace("compact", "merged", merged, "nodes", c.nodes)
	}
	return merged
}

// adjacent reports whether b starts right where a ends within a's capacity,
// so a can be extended over b.
func adjacent[T any](a, b []T) bool {
	if len(a) == 0 || len(b) == 0 || len(a)+len(b) > cap(a) {
		return false
	}
	return &a[:len(a)+1][len(a)] == &b[0]
}
