package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceAll(t *testing.T) {
	c := FromSlice([]int{1, 2, 1, 2, 1})
	before := c.Count()

	assert.Equal(t, 3, c.Replace(1, 0))
	assert.Equal(t, before, c.Count())
	requireContents(t, c, []int{0, 2, 0, 2, 0})
	assert.Equal(t, "(0)[2](0)[2](0)", c.FormatNodes())
}

func TestReplaceVisitsEveryNode(t *testing.T) {
	c := New[int]()
	c.AddBlock([]int{5, 1, 5})
	c.Add(5)
	c.Add(2)
	c.AddBlock([]int{3, 5})

	assert.Equal(t, 4, c.Replace(5, 6))
	requireContents(t, c, []int{6, 1, 6, 6, 2, 3, 6})
}

func TestReplaceKeepsBackingStorage(t *testing.T) {
	host := []string{"x", "a", "x", "b"}
	c := FromSlice(host)

	assert.Equal(t, 2, c.Replace("x", "y"))
	requireContents(t, c, []string{"y", "a", "y", "b"})
	assert.Equal(t, []string{"x", "a", "x", "b"}, host, "replace never writes through a view")

	n := c.Head().Next()
	require.Equal(t, MemoryNode, n.Kind())
	assert.Same(t, &host[1], &n.view[0])
}

func TestReplaceNoMatch(t *testing.T) {
	c := FromSlice([]int{1, 2, 3})
	head := c.Head()
	version := c.Stats().Version

	assert.Zero(t, c.Replace(9, 0))
	assert.Zero(t, c.Replace(1, 1))
	assert.Same(t, head, c.Head())
	assert.Equal(t, version, c.Stats().Version)

	assert.Zero(t, New[int]().Replace(1, 2))
}

func TestIndexOf(t *testing.T) {
	c := New[string]()
	c.AddBlock([]string{"a", "b"})
	c.Add("c")
	c.AddBlock([]string{"b", "d"})

	assert.Equal(t, 1, c.IndexOf("b"))
	assert.Equal(t, 3, c.LastIndexOf("b"))
	assert.Equal(t, 2, c.IndexOf("c"))
	assert.Equal(t, 2, c.LastIndexOf("c"))
	assert.Equal(t, -1, c.IndexOf("z"))
	assert.Equal(t, -1, c.LastIndexOf("z"))
	assert.True(t, c.Contains("d"))
	assert.False(t, c.Contains("z"))
	assert.Equal(t, 2, c.CountOf("b"))
}
