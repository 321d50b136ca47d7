package chain

import (
	"fmt"
	"iter"
	"strings"
)

// DefaultFormatLimit is the number of elements String prints.
const DefaultFormatLimit = 16

// Format renders at most maxElements elements for debugging, followed by
// "..." when more remain. A negative maxElements prints everything.
func (c *Chain[T]) Format(maxElements int) string {
	return formatBounded("Chain", c.count, maxElements, func(yield func(string) bool) {
		for v := range c.nodeValues() {
			if !yield(fmt.Sprint(v)) {
				return
			}
		}
	})
}

// String renders the first DefaultFormatLimit elements.
func (c *Chain[T]) String() string {
	return c.Format(DefaultFormatLimit)
}

// FormatNodes renders the node layout, one node per bracket group, e.g.
// "[1 2 3](4)[5 6]" where parentheses mark element nodes.
func (c *Chain[T]) FormatNodes() string {
	var b strings.Builder
	for n := c.head; n != nil; n = n.next {
		if n.kind == ElementNode {
			fmt.Fprintf(&b, "(%v)", n.element)
			continue
		}
		b.WriteByte('[')
		for i, v := range n.view {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, v)
		}
		b.WriteByte(']')
	}
	return b.String()
}

// formatBounded writes "name[count]{a, b, ...}".
func formatBounded(name string, count, maxElements int, items iter.Seq[string]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{", name, count)
	printed := 0
	for s := range items {
		if maxElements >= 0 && printed >= maxElements {
			break
		}
		if printed > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s)
		printed++
	}
	if printed < count {
		if printed > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteByte('}')
	return b.String()
}
