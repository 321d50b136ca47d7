package chain

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainTracesAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).WithChain("test")

	c := FromSlice([]int{1, 2, 3}, WithLogger[int](log), WithFilter[int](FilterUnique))
	require.NoError(t, c.Insert(1, 9))
	c.Add(9)

	out := buf.String()
	assert.Contains(t, out, "chain=test")
	assert.Contains(t, out, "msg=split")
	assert.Contains(t, out, "msg=veto")
}

func TestChainQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	c := New(WithLogger[int](log))
	c.Add(1)
	c.Replace(1, 2)
	assert.Empty(t, buf.String())
}

func TestNilLoggerFallsBackToNoop(t *testing.T) {
	c := New(WithLogger[int](nil))
	c.Add(1)
	assert.NotNil(t, c.log)

	var l *Logger
	l.trace("ignored")
}
