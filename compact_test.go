package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	c := mixedChain()
	s := c.Stats()

	assert.Equal(t, 7, s.Elements)
	assert.Equal(t, 4, s.Nodes)
	assert.Equal(t, 2, s.ElementNodes)
	assert.Equal(t, 2, s.MemoryNodes)
	assert.Equal(t, uint64(4), s.Version)
}

func TestCompactRejoinsSplitViews(t *testing.T) {
	host := []int{1, 2, 3, 4, 5, 6}
	c := FromSlice(host)

	require.NoError(t, c.Insert(3, 99))
	require.Equal(t, "[1 2 3](99)[4 5 6]", c.FormatNodes())

	_, err := c.RemoveAt(3)
	require.NoError(t, err)
	require.Equal(t, 2, c.Stats().Nodes)

	assert.Equal(t, 1, c.Compact())
	requireContents(t, c, host)
	assert.Equal(t, 1, c.Stats().Nodes)
	assert.Same(t, &host[0], &c.Head().view[0])
}

func TestCompactMergesRuns(t *testing.T) {
	host := []int{1, 2, 3, 4, 5, 6, 7, 8}
	c := New[int]()
	c.AddBlock(host[0:2])
	c.AddBlock(host[2:5])
	c.AddBlock(host[5:8])

	assert.Equal(t, 2, c.Compact())
	requireContents(t, c, host)
	assert.Equal(t, 1, c.Stats().Nodes)
	assert.Zero(t, c.Compact())
}

func TestCompactLeavesUnrelatedViews(t *testing.T) {
	a := []int{1, 2}
	b := []int{3, 4}
	c := New[int]()
	c.AddBlock(a)
	c.AddBlock(b)
	c.Add(5)
	c.AddBlock([]int{6})

	assert.Zero(t, c.Compact())
	requireContents(t, c, []int{1, 2, 3, 4, 5, 6})
	assert.Equal(t, 4, c.Stats().Nodes)
}

func TestCompactRespectsCapacity(t *testing.T) {
	host := []int{1, 2, 3, 4}
	c := New[int]()
	c.AddBlock(host[0:2:2])
	c.AddBlock(host[2:4])

	assert.Zero(t, c.Compact(), "a clipped view cannot be extended")
	requireContents(t, c, host)
}

func TestAdjacent(t *testing.T) {
	host := []int{1, 2, 3, 4}
	assert.True(t, adjacent(host[:1], host[1:]))
	assert.False(t, adjacent(host[:1], host[2:]))
	assert.False(t, adjacent(host[1:2], host[:1]))
	assert.False(t, adjacent(host[:0], host[:1]))
	assert.False(t, adjacent(host[:2:3], host[2:4]))
}
