package chain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedUpsertLastWriteWins(t *testing.T) {
	k := NewKeyed[string, int]()
	k.Insert("a", 1)
	k.Insert("b", 2)
	prev, existed := k.Insert("a", 3)

	assert.True(t, existed)
	assert.Equal(t, 1, prev)
	assert.Equal(t, 2, k.Count())
	assert.Equal(t, []string{"a", "b"}, k.Keys(), "the upsert keeps the entry's position")
	assert.Equal(t, []int{3, 2}, k.Values())

	v, err := k.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	require.NoError(t, k.Validate())
}

func TestKeyedInsertNew(t *testing.T) {
	k := NewKeyed[int, string]()
	prev, existed := k.Insert(1, "one")
	assert.False(t, existed)
	assert.Empty(t, prev)
	assert.Same(t, k.Head(), k.Tail())
	assert.Equal(t, ElementNode, k.Head().Kind())
}

func TestKeyedBasicFeatures(t *testing.T) {
	n := 50
	k := NewKeyed[int, int]()

	for i := 0; i < n; i++ {
		require.Equal(t, i, k.Count())
		_, existed := k.Insert(i, 2*i)
		require.False(t, existed)
	}

	for i := 0; i < n; i++ {
		v, ok := k.Lookup(i)
		require.True(t, ok)
		assert.Equal(t, 2*i, v)
		assert.True(t, k.Has(i))
	}

	// forward iteration
	i := 0
	for key, value := range k.All() {
		assert.Equal(t, i, key)
		assert.Equal(t, 2*i, value)
		i++
	}
	assert.Equal(t, n, i)

	// backward iteration
	i = n - 1
	for key, value := range k.Backward() {
		assert.Equal(t, i, key)
		assert.Equal(t, 2*i, value)
		i--
	}
	assert.Equal(t, -1, i)

	// delete odd keys
	for j := 1; j < n; j += 2 {
		require.True(t, k.Delete(j))
		require.False(t, k.Delete(j))
	}
	assert.Equal(t, n/2, k.Count())
	for j, key := range k.Keys() {
		assert.Equal(t, 2*j, key)
	}
	require.NoError(t, k.Validate())
}

func TestKeyedGetMissing(t *testing.T) {
	k := NewKeyed[string, int]()
	k.Insert("a", 1)

	_, err := k.Get("zz")
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Contains(t, err.Error(), "key zz not found among 1 entries")

	_, ok := k.Lookup("zz")
	assert.False(t, ok)

	lenient := NewKeyed[string, int](WithOutOfBounds(Sentinel(-1)))
	v, err := lenient.Get("missing")
	require.NoError(t, err)
	assert.Equal(t, -1, v)
}

func TestKeyedReplaceByValue(t *testing.T) {
	k := NewKeyed[string, int]()
	k.Insert("a", 1)
	k.Insert("b", 2)
	k.Insert("c", 1)
	head, tail := k.Head(), k.Tail()

	assert.Equal(t, 2, k.Replace(1, 9))
	assert.Equal(t, []string{"a", "b", "c"}, k.Keys(), "keys are untouched")
	assert.Equal(t, []int{9, 2, 9}, k.Values())
	assert.NotSame(t, head, k.Head(), "replaced entries are spliced into the chain")
	assert.NotSame(t, tail, k.Tail())
	require.NoError(t, k.Validate())

	v, err := k.Get("c")
	require.NoError(t, err)
	assert.Equal(t, 9, v)

	assert.Zero(t, k.Replace(7, 8))
	assert.Zero(t, k.Replace(2, 2))
}

func TestKeyedUniqueFilter(t *testing.T) {
	k := NewKeyed[string, int](WithFilter[int](FilterUnique))
	k.Insert("a", 1)
	k.Insert("b", 1)
	assert.Equal(t, 1, k.Count(), "the same value under another key is vetoed")
	assert.False(t, k.Has("b"))

	k.Insert("a", 1)
	k.Insert("b", 2)
	assert.Equal(t, 2, k.Count())

	assert.Zero(t, k.Replace(2, 1), "replace into a held value is vetoed")
	assert.Equal(t, []int{1, 2}, k.Values())
	require.NoError(t, k.Validate())
}

func TestKeyedPairsAndFormat(t *testing.T) {
	k := NewKeyed[string, int]()
	for i := 0; i < 20; i++ {
		k.Insert(fmt.Sprintf("k%d", i), i)
	}

	pairs := k.Pairs()
	require.Len(t, pairs, 20)
	assert.Equal(t, Association[string, int]{Index: "k3", Element: 3}, pairs[3])

	assert.Equal(t, "Keyed[20]{k0: 0, k1: 1, ...}", k.Format(2))
	assert.Contains(t, k.String(), "k15: 15, ...")

	k.Clear()
	assert.Zero(t, k.Count())
	assert.Equal(t, "Keyed[0]{}", k.String())
}

func TestKeyedEnumeratorDetectsMutation(t *testing.T) {
	k := NewKeyed[int, int]()
	k.Insert(1, 1)
	k.Insert(2, 2)

	e := k.Enumerator()
	require.True(t, e.Next())
	assert.Equal(t, Association[int, int]{Index: 1, Element: 1}, e.Value())

	k.Insert(1, 5)
	assert.False(t, e.Next())
	require.ErrorIs(t, e.Err(), ErrConcurrentModification)
}
