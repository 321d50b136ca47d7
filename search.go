package chain

// Replace substitutes replace for every element equal to search and returns
// how many elements changed. The element count never changes. Unmatched runs
// keep viewing their original storage; each match becomes an element node.
//
// Under FilterUnique the whole call is vetoed (returns 0) when replace is
// already present, since it would otherwise become a duplicate.
func (c *Chain[T]) Replace(search, replace T) int {
	if search == replace || c.count == 0 {
		return 0
	}
	if !c.admit(replace) {
		return 0
	}

	replaced := 0
	for n := c.head; n != nil; {
		next := n.next
		f, matches := replaceInNode(n, search, replace)
		if matches > 0 {
			c.splice(n, f)
			replaced += matches
		}
		n = next
	}
	if replaced > 0 {
		c.log.trace("replace", "matches", replaced, "nodes", c.nodes)
	}
	return replaced
}

// IndexOf returns the index of the first element equal to v, or -1.
func (c *Chain[T]) IndexOf(v T) int {
	i := 0
	for w := range c.nodeValues() {
		if w == v {
			return i
		}
		i++
	}
	return -1
}

// LastIndexOf returns the index of the last element equal to v, or -1.
func (c *Chain[T]) LastIndexOf(v T) int {
	end := c.count
	for n := c.tail; n != nil; n = n.prev {
		start := end - n.Count()
		for i := n.Count() - 1; i >= 0; i-- {
			if n.at(i) == v {
				return start + i
			}
		}
		end = start
	}
	return -1
}

// Contains reports whether any element equals v.
func (c *Chain[T]) Contains(v T) bool {
	return c.IndexOf(v) >= 0
}

// CountOf returns how many elements equal v.
func (c *Chain[T]) CountOf(v T) int {
	n := 0
	for w := range c.nodeValues() {
		if w == v {
			n++
		}
	}
	return n
}
