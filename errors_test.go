package chain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *IndexError
		want string
	}{
		{name: "access", err: &IndexError{Index: 3, Count: 3}, want: "index 3 out of range [0, 3)"},
		{name: "insert", err: &IndexError{Index: 4, Count: 3, Inclusive: true}, want: "index 4 out of range [0, 3]"},
		{name: "key", err: &IndexError{Index: "k", Count: 2, Key: true}, want: "key k not found among 2 entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrIndexOutOfRange)
			assert.Equal(t, tt.err.Key, errors.Is(tt.err, ErrKeyNotFound))
			assert.False(t, errors.Is(tt.err, ErrInvalidOperation))
		})
	}
}

func TestConcurrentModificationError(t *testing.T) {
	err := &ConcurrentModificationError{Expected: 2, Actual: 5}
	assert.ErrorIs(t, err, ErrConcurrentModification)
	assert.Equal(t, "chain modified during enumeration: version 2, now 5", err.Error())
}

func TestErrEmpty(t *testing.T) {
	err := errEmpty("pop front")
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, "invalid operation: pop front on empty chain", err.Error())
}

func TestValidateReportsCorruption(t *testing.T) {
	c := FromSlice([]int{1, 2, 3})
	c.Add(4)
	c.tail.prev = nil
	assert.ErrorIs(t, c.Validate(), ErrCorrupt)

	d := FromSlice([]int{1, 2})
	d.count = 5
	assert.ErrorIs(t, d.Validate(), ErrCorrupt)
}
