// Package script exposes chains to Lua through gopher-lua.
//
// Scripts see a "chain" module with constructors for sequence and keyed
// chains. Indices are 0-based on both sides.
//
//	local c = chain.new("unique")
//	c:add(1)
//	c:insert(0, "front")
//	print(c:tostring())
//
// An Engine wraps a single LState and is not safe for concurrent use.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/phroun/chain"
)

// ErrClosed is returned by an Engine after Close.
var ErrClosed = errors.New("script engine closed")

// Engine runs Lua code against chains.
type Engine struct {
	L      *lua.LState
	out    io.Writer
	log    *chain.Logger
	closed bool
}

// New creates an engine with the base, table, string and math libraries.
// print writes to out (stdout when nil). Chains created from Lua log through
// log.
func New(out io.Writer, log *chain.Logger) *Engine {
	if out == nil {
		out = os.Stdout
	}
	if log == nil {
		log = chain.NoopLogger()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	e := &Engine{L: L, out: out, log: log}
	L.SetGlobal("print", L.NewFunction(e.print))
	e.registerTypes()
	e.registerModule()
	return e
}

// Bind exposes c to scripts as the global name.
func (e *Engine) Bind(name string, c *chain.Chain[lua.LValue]) {
	e.L.SetGlobal(name, e.wrapChain(c))
}

// BindKeyed exposes k to scripts as the global name.
func (e *Engine) BindKeyed(name string, k *chain.Keyed[lua.LValue, lua.LValue]) {
	e.L.SetGlobal(name, e.wrapKeyed(k))
}

// DoString runs a chunk of Lua code.
func (e *Engine) DoString(code string) error {
	if e.closed {
		return ErrClosed
	}
	return e.L.DoString(code)
}

// DoFile runs a Lua file.
func (e *Engine) DoFile(path string) error {
	if e.closed {
		return ErrClosed
	}
	return e.L.DoFile(path)
}

// Close releases the Lua state.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}

func (e *Engine) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(e.out, strings.Join(parts, "\t"))
	return 0
}

// ParseValue turns a command-line token into a Lua value: nil, true and
// false are literals, numbers become numbers, quoted text is unquoted, and
// anything else is a string.
func ParseValue(s string) lua.LValue {
	switch s {
	case "nil":
		return lua.LNil
	case "true":
		return lua.LTrue
	case "false":
		return lua.LFalse
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return lua.LNumber(f)
	}
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		if s[0] == '"' {
			if u, err := strconv.Unquote(s); err == nil {
				return lua.LString(u)
			}
		}
		return lua.LString(s[1 : len(s)-1])
	}
	return lua.LString(s)
}
