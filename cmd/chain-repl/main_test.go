package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phroun/chain"
)

func session(t *testing.T, kind chain.FilterKind, lines ...string) (*REPL, string) {
	t.Helper()
	var out bytes.Buffer
	r := newREPL(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, chain.NoopLogger(), kind)
	t.Cleanup(r.engine.Close)
	r.run()
	return r, out.String()
}

func TestSequenceCommands(t *testing.T) {
	r, out := session(t, chain.FilterNone,
		"add 1 2 3",
		"insert 1 x",
		"block 4 7 8",
		"replace 2 20",
		"remove 0",
		"get 0",
		"dump",
		"nodes",
		"quit",
	)

	assert.Equal(t, []string{"x", "20", "3", "7", "8"}, values(r))
	assert.Contains(t, out, "Added 3, count 3")
	assert.Contains(t, out, "Replaced 1 element(s)")
	assert.Contains(t, out, "Removed 1, 5 element(s) remain")
	assert.Contains(t, out, "[0] = x")
	assert.Contains(t, out, "Chain[5]{x, 20, 3, 7, 8}")
	assert.Contains(t, out, "(x)(20)(3)[7 8]")
	assert.Contains(t, out, "Goodbye!")
}

func TestUniqueFilterReportsRejections(t *testing.T) {
	r, out := session(t, chain.FilterNone,
		"new unique",
		"add a a b",
		"kv set k a",
		"kv set j a",
	)

	assert.Equal(t, []string{"a", "b"}, values(r))
	assert.Contains(t, out, "Created new chains with filter unique")
	assert.Contains(t, out, "Added 2 of 3 (filter unique), count 2")
	assert.Contains(t, out, "Set k, 1 entries")
	assert.Contains(t, out, "Rejected by unique filter")
}

func TestKeyedCommands(t *testing.T) {
	r, out := session(t, chain.FilterNone,
		"kv set a 1",
		"kv set b 2",
		"kv set a 3",
		"kv replace 2 9",
		"kv del zzz",
		"kv get b",
		"kv dump",
	)

	assert.Equal(t, 2, r.keyed.Count())
	assert.Contains(t, out, "Updated a (was 1)")
	assert.Contains(t, out, "Replaced 1 value(s)")
	assert.Contains(t, out, "zzz not found")
	assert.Contains(t, out, "b = 9")
	assert.Contains(t, out, "Keyed[2]{a: 3, b: 9}")
}

func TestLuaSharesChains(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fill.lua")
	require.NoError(t, os.WriteFile(path, []byte(`for i = 1, 3 do current:add(i * 10) end`), 0o644))

	r, out := session(t, chain.FilterNone,
		"script "+path,
		"lua print(current:count(), current:get(2))",
		"lua dict:set('n', #current)",
		"lua error('boom')",
	)

	assert.Equal(t, []string{"10", "20", "30"}, values(r))
	assert.Contains(t, out, "3\t30")
	n, ok := r.keyed.Lookup(r.keyed.Keys()[0])
	require.True(t, ok)
	assert.Equal(t, "3", n.String())
	assert.Contains(t, out, "Lua error:")
}

func TestErrorsAreReported(t *testing.T) {
	_, out := session(t, chain.FilterNone,
		"insert 5 x",
		"get 0",
		"remove x",
		"new sorted",
		"frobnicate",
	)

	assert.Contains(t, out, "Insert error: index 5 out of range [0, 0]")
	assert.Contains(t, out, "Get error:")
	assert.Contains(t, out, "Invalid index:")
	assert.Contains(t, out, `unknown filter kind "sorted"`)
	assert.Contains(t, out, "Unknown command: frobnicate")
}

func TestStatsAndSlice(t *testing.T) {
	_, out := session(t, chain.FilterNone,
		"block 0 1 2 3 4 5",
		"insert 3 x",
		"slice 2 3",
		"reverse",
		"stats",
	)

	assert.Contains(t, out, "Chain[3]{3, x, 4}")
	assert.Contains(t, out, "nodes: [3](x)[4]")
	assert.Contains(t, out, "[5 4 x 3 2 1]")
	assert.Contains(t, out, "Nodes:    3 (1 element, 2 memory)")
	assert.Contains(t, out, "Valid:    yes")
}

func values(r *REPL) []string {
	var out []string
	for v := range r.chain.All() {
		out = append(out, v.String())
	}
	return out
}
