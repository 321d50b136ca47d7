package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/phroun/chain"
)

const (
	chainTypeName = "chain.Chain"
	keyedTypeName = "chain.Keyed"
)

type (
	seqChain   = chain.Chain[lua.LValue]
	keyedChain = chain.Keyed[lua.LValue, lua.LValue]
)

func (e *Engine) registerModule() {
	mod := e.L.NewTable()
	e.L.SetFuncs(mod, map[string]lua.LGFunction{
		"new":   e.newChain,
		"from":  e.fromTable,
		"keyed": e.newKeyed,
	})
	e.L.SetGlobal("chain", mod)
}

func (e *Engine) registerTypes() {
	mt := e.L.NewTypeMetatable(chainTypeName)
	e.L.SetField(mt, "__index", e.L.SetFuncs(e.L.NewTable(), map[string]lua.LGFunction{
		"add":      chainAdd,
		"insert":   chainInsert,
		"block":    chainBlock,
		"replace":  chainReplace,
		"get":      chainGet,
		"remove":   chainRemove,
		"contains": chainContains,
		"indexof":  chainIndexOf,
		"count":    chainCount,
		"slice":    e.chainSlice,
		"compact":  chainCompact,
		"nodes":    chainNodes,
		"totable":  chainToTable,
		"tostring": chainToString,
	}))
	e.L.SetField(mt, "__len", e.L.NewFunction(chainCount))
	e.L.SetField(mt, "__tostring", e.L.NewFunction(chainToString))

	kmt := e.L.NewTypeMetatable(keyedTypeName)
	e.L.SetField(kmt, "__index", e.L.SetFuncs(e.L.NewTable(), map[string]lua.LGFunction{
		"set":      keyedSet,
		"get":      keyedGet,
		"has":      keyedHas,
		"delete":   keyedDelete,
		"replace":  keyedReplace,
		"count":    keyedCount,
		"keys":     keyedKeys,
		"totable":  keyedToTable,
		"tostring": keyedToString,
	}))
	e.L.SetField(kmt, "__len", e.L.NewFunction(keyedCount))
	e.L.SetField(kmt, "__tostring", e.L.NewFunction(keyedToString))
}

func (e *Engine) wrapChain(c *seqChain) *lua.LUserData {
	ud := e.L.NewUserData()
	ud.Value = c
	e.L.SetMetatable(ud, e.L.GetTypeMetatable(chainTypeName))
	return ud
}

func (e *Engine) wrapKeyed(k *keyedChain) *lua.LUserData {
	ud := e.L.NewUserData()
	ud.Value = k
	e.L.SetMetatable(ud, e.L.GetTypeMetatable(keyedTypeName))
	return ud
}

// filterArg reads an optional filter name at position n.
func filterArg(L *lua.LState, n int) chain.FilterKind {
	kind, err := chain.ParseFilterKind(L.OptString(n, ""))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return kind
}

// chain.new([filter]) -> chain
func (e *Engine) newChain(L *lua.LState) int {
	c := chain.New(chain.WithFilter[lua.LValue](filterArg(L, 1)), chain.WithLogger[lua.LValue](e.log))
	L.Push(e.wrapChain(c))
	return 1
}

// chain.from(table, [filter]) -> chain
// The array part of table becomes one memory node.
func (e *Engine) fromTable(L *lua.LState) int {
	block := tableBlock(L.CheckTable(1))
	c := chain.FromSlice(block, chain.WithFilter[lua.LValue](filterArg(L, 2)), chain.WithLogger[lua.LValue](e.log))
	L.Push(e.wrapChain(c))
	return 1
}

// chain.keyed([filter]) -> keyed chain
func (e *Engine) newKeyed(L *lua.LState) int {
	k := chain.NewKeyed[lua.LValue, lua.LValue](chain.WithFilter[lua.LValue](filterArg(L, 1)), chain.WithLogger[lua.LValue](e.log))
	L.Push(e.wrapKeyed(k))
	return 1
}

func tableBlock(t *lua.LTable) []lua.LValue {
	n := t.Len()
	block := make([]lua.LValue, 0, n)
	for i := 1; i <= n; i++ {
		block = append(block, t.RawGetInt(i))
	}
	return block
}

func checkChain(L *lua.LState) *seqChain {
	ud := L.CheckUserData(1)
	c, ok := ud.Value.(*seqChain)
	if !ok {
		L.ArgError(1, "chain expected")
		return nil
	}
	return c
}

func checkKeyed(L *lua.LState) *keyedChain {
	ud := L.CheckUserData(1)
	k, ok := ud.Value.(*keyedChain)
	if !ok {
		L.ArgError(1, "keyed chain expected")
		return nil
	}
	return k
}

// c:add(v)
func chainAdd(L *lua.LState) int {
	checkChain(L).Add(L.CheckAny(2))
	return 0
}

// c:insert(index, v)
func chainInsert(L *lua.LState) int {
	c := checkChain(L)
	if err := c.Insert(L.CheckInt(2), L.CheckAny(3)); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

// c:block(index, table)
func chainBlock(L *lua.LState) int {
	c := checkChain(L)
	if err := c.InsertBlock(L.CheckInt(2), tableBlock(L.CheckTable(3))); err != nil {
		L.RaiseError("block: %v", err)
	}
	return 0
}

// c:replace(search, replace) -> count
func chainReplace(L *lua.LState) int {
	n := checkChain(L).Replace(L.CheckAny(2), L.CheckAny(3))
	L.Push(lua.LNumber(n))
	return 1
}

// c:get(index) -> value
func chainGet(L *lua.LState) int {
	v, err := checkChain(L).At(L.CheckInt(2))
	if err != nil {
		L.RaiseError("get: %v", err)
		return 0
	}
	L.Push(orNil(v))
	return 1
}

// c:remove(index) -> value
func chainRemove(L *lua.LState) int {
	v, err := checkChain(L).RemoveAt(L.CheckInt(2))
	if err != nil {
		L.RaiseError("remove: %v", err)
		return 0
	}
	L.Push(orNil(v))
	return 1
}

// c:contains(v) -> bool
func chainContains(L *lua.LState) int {
	L.Push(lua.LBool(checkChain(L).Contains(L.CheckAny(2))))
	return 1
}

// c:indexof(v) -> index or -1
func chainIndexOf(L *lua.LState) int {
	L.Push(lua.LNumber(checkChain(L).IndexOf(L.CheckAny(2))))
	return 1
}

// c:count() -> number
func chainCount(L *lua.LState) int {
	L.Push(lua.LNumber(checkChain(L).Count()))
	return 1
}

// c:slice(start, length) -> chain
func (e *Engine) chainSlice(L *lua.LState) int {
	s, err := checkChain(L).Slice(L.CheckInt(2), L.CheckInt(3))
	if err != nil {
		L.RaiseError("slice: %v", err)
		return 0
	}
	L.Push(e.wrapChain(s))
	return 1
}

// c:compact() -> merged node count
func chainCompact(L *lua.LState) int {
	L.Push(lua.LNumber(checkChain(L).Compact()))
	return 1
}

// c:nodes() -> string
func chainNodes(L *lua.LState) int {
	L.Push(lua.LString(checkChain(L).FormatNodes()))
	return 1
}

// c:totable() -> array
func chainToTable(L *lua.LState) int {
	c := checkChain(L)
	t := L.CreateTable(c.Count(), 0)
	for v := range c.All() {
		t.Append(v)
	}
	L.Push(t)
	return 1
}

// c:tostring([max]) -> string
func chainToString(L *lua.LState) int {
	c := checkChain(L)
	L.Push(lua.LString(c.Format(L.OptInt(2, chain.DefaultFormatLimit))))
	return 1
}

// k:set(key, value) -> previous, existed
func keyedSet(L *lua.LState) int {
	prev, existed := checkKeyed(L).Insert(L.CheckAny(2), L.CheckAny(3))
	L.Push(orNil(prev))
	L.Push(lua.LBool(existed))
	return 2
}

// k:get(key) -> value
func keyedGet(L *lua.LState) int {
	v, err := checkKeyed(L).Get(L.CheckAny(2))
	if err != nil {
		L.RaiseError("get: %v", err)
		return 0
	}
	L.Push(orNil(v))
	return 1
}

// k:has(key) -> bool
func keyedHas(L *lua.LState) int {
	L.Push(lua.LBool(checkKeyed(L).Has(L.CheckAny(2))))
	return 1
}

// k:delete(key) -> bool
func keyedDelete(L *lua.LState) int {
	L.Push(lua.LBool(checkKeyed(L).Delete(L.CheckAny(2))))
	return 1
}

// k:replace(search, replace) -> count
func keyedReplace(L *lua.LState) int {
	L.Push(lua.LNumber(checkKeyed(L).Replace(L.CheckAny(2), L.CheckAny(3))))
	return 1
}

// k:count() -> number
func keyedCount(L *lua.LState) int {
	L.Push(lua.LNumber(checkKeyed(L).Count()))
	return 1
}

// k:keys() -> array in insertion order
func keyedKeys(L *lua.LState) int {
	k := checkKeyed(L)
	t := L.CreateTable(k.Count(), 0)
	for _, key := range k.Keys() {
		t.Append(key)
	}
	L.Push(t)
	return 1
}

// k:totable() -> table of key = value
func keyedToTable(L *lua.LState) int {
	k := checkKeyed(L)
	t := L.CreateTable(0, k.Count())
	for key, v := range k.All() {
		t.RawSet(key, v)
	}
	L.Push(t)
	return 1
}

// k:tostring([max]) -> string
func keyedToString(L *lua.LState) int {
	k := checkKeyed(L)
	L.Push(lua.LString(k.Format(L.OptInt(2, chain.DefaultFormatLimit))))
	return 1
}

// orNil maps the zero interface value, returned under sentinel policies, to
// Lua nil.
func orNil(v lua.LValue) lua.LValue {
	if v == nil {
		return lua.LNil
	}
	return v
}
