// chain-repl is an interactive shell for editing a chain and a keyed chain,
// either with line commands or with Lua.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/phroun/chain"
	"github.com/phroun/chain/internal/script"
)

// REPL holds the state of the interactive session
type REPL struct {
	in     *bufio.Reader
	out    io.Writer
	log    *chain.Logger
	kind   chain.FilterKind
	chain  *chain.Chain[lua.LValue]
	keyed  *chain.Keyed[lua.LValue, lua.LValue]
	engine *script.Engine
	prompt string
}

func main() {
	filter := flag.String("filter", "none", "admission filter for new chains: none or unique")
	scriptPath := flag.String("script", "", "Lua file to run before the prompt")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(2)
	}
	kind, err := chain.ParseFilterKind(*filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid filter: %v\n", err)
		os.Exit(2)
	}

	fmt.Println("Chain REPL - Interactive Sequence Editor")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	repl := newREPL(os.Stdin, os.Stdout, chain.NewTextLogger(level), kind)
	defer repl.engine.Close()

	if *scriptPath != "" {
		repl.cmdScript([]string{*scriptPath})
	}
	repl.run()
}

func newREPL(in io.Reader, out io.Writer, log *chain.Logger, kind chain.FilterKind) *REPL {
	r := &REPL{
		in:     bufio.NewReader(in),
		out:    out,
		log:    log,
		prompt: "chain> ",
	}
	r.engine = script.New(out, log)
	r.reset(kind)
	return r
}

// reset replaces both chains and rebinds them as the Lua globals current
// and dict.
func (r *REPL) reset(kind chain.FilterKind) {
	r.kind = kind
	r.chain = chain.New(
		chain.WithFilter[lua.LValue](kind),
		chain.WithLogger[lua.LValue](r.log.WithChain("current")),
	)
	r.keyed = chain.NewKeyed[lua.LValue, lua.LValue](
		chain.WithFilter[lua.LValue](kind),
		chain.WithLogger[lua.LValue](r.log.WithChain("dict")),
	)
	r.engine.Bind("current", r.chain)
	r.engine.BindKeyed("dict", r.keyed)
}

func (r *REPL) run() {
	for {
		fmt.Fprint(r.out, r.prompt)
		input, err := r.in.ReadString('\n')
		if err != nil && input == "" {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.handleCommand(input) {
			return
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return false

	case "new":
		r.cmdNew(args)

	case "add":
		r.cmdAdd(args)

	case "insert":
		r.cmdInsert(args)

	case "block":
		r.cmdBlock(args)

	case "replace":
		r.cmdReplace(args)

	case "remove":
		r.cmdRemove(args)

	case "get":
		r.cmdGet(args)

	case "find":
		r.cmdFind(args)

	case "slice":
		r.cmdSlice(args)

	case "compact":
		fmt.Fprintf(r.out, "Merged %d node(s)\n", r.chain.Compact())

	case "dump":
		r.cmdDump(args)

	case "reverse":
		r.cmdReverse()

	case "nodes":
		fmt.Fprintln(r.out, r.chain.FormatNodes())

	case "stats":
		r.cmdStats()

	case "kv":
		r.cmdKeyed(args)

	case "lua":
		r.cmdLua(strings.TrimSpace(input[len(parts[0]):]))

	case "script":
		r.cmdScript(args)

	default:
		fmt.Fprintf(r.out, "Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}

	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

SEQUENCE:
  new [none|unique]       Start over with empty chains and the given filter
  add <v...>              Append each value
  insert <i> <v>          Insert a value so it lands at index i
  block <i> <v...>        Insert the values as one block at index i
  replace <s> <r>         Replace every s with r
  remove <i>              Remove the value at index i
  get <i>                 Show the value at index i
  find <v>                Show the first index of v
  slice <start> <len>     Show a zero-copy slice

INSPECTION:
  dump [max]              Show the contents (all by default)
  reverse                 Show the contents back to front
  nodes                   Show the node layout: [block] (element)
  stats                   Show counts and validate the structure
  compact                 Merge adjacent views of the same storage

KEYED:
  kv set <k> <v>          Set a key (last write wins, position kept)
  kv get <k>              Show the value for a key
  kv del <k>              Delete a key
  kv replace <s> <r>      Replace a value under every key
  kv dump                 Show all entries in insertion order

LUA:
  lua <code>              Run Lua; the chains are bound as current and dict
  script <file>           Run a Lua file

Values: numbers, true, false, nil, "quoted strings", or bare words.

OTHER:
  help                    Show this help message
  quit, exit              Exit the REPL
`
	fmt.Fprintln(r.out, help)
}

func (r *REPL) cmdNew(args []string) {
	kind := r.kind
	if len(args) > 0 {
		var err error
		kind, err = chain.ParseFilterKind(args[0])
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return
		}
	}
	r.reset(kind)
	fmt.Fprintf(r.out, "Created new chains with filter %s\n", kind)
}

func (r *REPL) cmdAdd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "Usage: add <v...>")
		return
	}
	before := r.chain.Count()
	for _, a := range args {
		r.chain.Add(script.ParseValue(a))
	}
	r.reportGrowth(before, len(args))
}

func (r *REPL) cmdInsert(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "Usage: insert <i> <v>")
		return
	}
	index, ok := r.parseIndex(args[0])
	if !ok {
		return
	}
	before := r.chain.Count()
	if err := r.chain.Insert(index, script.ParseValue(args[1])); err != nil {
		fmt.Fprintf(r.out, "Insert error: %v\n", err)
		return
	}
	r.reportGrowth(before, 1)
}

func (r *REPL) cmdBlock(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.out, "Usage: block <i> <v...>")
		return
	}
	index, ok := r.parseIndex(args[0])
	if !ok {
		return
	}
	block := make([]lua.LValue, 0, len(args)-1)
	for _, a := range args[1:] {
		block = append(block, script.ParseValue(a))
	}
	before := r.chain.Count()
	if err := r.chain.InsertBlock(index, block); err != nil {
		fmt.Fprintf(r.out, "Insert error: %v\n", err)
		return
	}
	r.reportGrowth(before, len(block))
}

func (r *REPL) cmdReplace(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "Usage: replace <s> <r>")
		return
	}
	n := r.chain.Replace(script.ParseValue(args[0]), script.ParseValue(args[1]))
	fmt.Fprintf(r.out, "Replaced %d element(s)\n", n)
}

func (r *REPL) cmdRemove(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: remove <i>")
		return
	}
	index, ok := r.parseIndex(args[0])
	if !ok {
		return
	}
	v, err := r.chain.RemoveAt(index)
	if err != nil {
		fmt.Fprintf(r.out, "Remove error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "Removed %v, %d element(s) remain\n", v, r.chain.Count())
}

func (r *REPL) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: get <i>")
		return
	}
	index, ok := r.parseIndex(args[0])
	if !ok {
		return
	}
	v, err := r.chain.At(index)
	if err != nil {
		fmt.Fprintf(r.out, "Get error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "[%d] = %v\n", index, v)
}

func (r *REPL) cmdFind(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: find <v>")
		return
	}
	v := script.ParseValue(args[0])
	index := r.chain.IndexOf(v)
	if index < 0 {
		fmt.Fprintf(r.out, "%v not found\n", v)
		return
	}
	fmt.Fprintf(r.out, "%v first at %d, last at %d, %d occurrence(s)\n",
		v, index, r.chain.LastIndexOf(v), r.chain.CountOf(v))
}

func (r *REPL) cmdSlice(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "Usage: slice <start> <len>")
		return
	}
	start, ok := r.parseIndex(args[0])
	if !ok {
		return
	}
	length, ok := r.parseIndex(args[1])
	if !ok {
		return
	}
	s, err := r.chain.Slice(start, length)
	if err != nil {
		fmt.Fprintf(r.out, "Slice error: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, s.Format(-1))
	fmt.Fprintf(r.out, "  nodes: %s\n", s.FormatNodes())
}

func (r *REPL) cmdDump(args []string) {
	limit := -1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(r.out, "Invalid limit: %v\n", err)
			return
		}
		limit = n
	}
	fmt.Fprintln(r.out, r.chain.Format(limit))
}

func (r *REPL) cmdReverse() {
	parts := make([]string, 0, r.chain.Count())
	for v := range r.chain.Backward() {
		parts = append(parts, fmt.Sprint(v))
	}
	fmt.Fprintf(r.out, "[%s]\n", strings.Join(parts, " "))
}

func (r *REPL) cmdStats() {
	st := r.chain.Stats()
	fmt.Fprintln(r.out, "Chain Status:")
	fmt.Fprintf(r.out, "  Filter:   %s\n", r.chain.Filter().Kind())
	fmt.Fprintf(r.out, "  Elements: %d\n", st.Elements)
	fmt.Fprintf(r.out, "  Nodes:    %d (%d element, %d memory)\n", st.Nodes, st.ElementNodes, st.MemoryNodes)
	fmt.Fprintf(r.out, "  Version:  %d\n", st.Version)
	fmt.Fprintf(r.out, "  Keyed:    %d entries\n", r.keyed.Count())
	if err := r.chain.Validate(); err != nil {
		fmt.Fprintf(r.out, "  Valid:    no (%v)\n", err)
		return
	}
	if err := r.keyed.Validate(); err != nil {
		fmt.Fprintf(r.out, "  Valid:    no (%v)\n", err)
		return
	}
	fmt.Fprintln(r.out, "  Valid:    yes")
}

func (r *REPL) cmdKeyed(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "Usage: kv set|get|del|replace|dump ...")
		return
	}

	sub, rest := strings.ToLower(args[0]), args[1:]
	switch {
	case sub == "set" && len(rest) == 2:
		key, value := script.ParseValue(rest[0]), script.ParseValue(rest[1])
		prev, existed := r.keyed.Insert(key, value)
		if existed {
			fmt.Fprintf(r.out, "Updated %v (was %v)\n", key, prev)
			return
		}
		if v, ok := r.keyed.Lookup(key); !ok || v != value {
			fmt.Fprintf(r.out, "Rejected by %s filter\n", r.keyed.Filter().Kind())
			return
		}
		fmt.Fprintf(r.out, "Set %v, %d entries\n", key, r.keyed.Count())

	case sub == "get" && len(rest) == 1:
		v, err := r.keyed.Get(script.ParseValue(rest[0]))
		if err != nil {
			fmt.Fprintf(r.out, "Get error: %v\n", err)
			return
		}
		fmt.Fprintf(r.out, "%s = %v\n", rest[0], v)

	case sub == "del" && len(rest) == 1:
		if r.keyed.Delete(script.ParseValue(rest[0])) {
			fmt.Fprintf(r.out, "Deleted %s\n", rest[0])
			return
		}
		fmt.Fprintf(r.out, "%s not found\n", rest[0])

	case sub == "replace" && len(rest) == 2:
		n := r.keyed.Replace(script.ParseValue(rest[0]), script.ParseValue(rest[1]))
		fmt.Fprintf(r.out, "Replaced %d value(s)\n", n)

	case sub == "dump":
		fmt.Fprintln(r.out, r.keyed.Format(-1))

	default:
		fmt.Fprintln(r.out, "Usage: kv set <k> <v> | get <k> | del <k> | replace <s> <r> | dump")
	}
}

func (r *REPL) cmdLua(code string) {
	if code == "" {
		fmt.Fprintln(r.out, "Usage: lua <code>")
		return
	}
	if err := r.engine.DoString(code); err != nil {
		fmt.Fprintf(r.out, "Lua error: %v\n", err)
	}
}

func (r *REPL) cmdScript(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: script <file>")
		return
	}
	if err := r.engine.DoFile(args[0]); err != nil {
		fmt.Fprintf(r.out, "Script error: %v\n", err)
		return
	}
	r.log.Info("script finished", "path", args[0], "count", r.chain.Count())
}

func (r *REPL) reportGrowth(before, offered int) {
	added := r.chain.Count() - before
	if added < offered {
		fmt.Fprintf(r.out, "Added %d of %d (filter %s), count %d\n", added, offered, r.chain.Filter().Kind(), r.chain.Count())
		return
	}
	fmt.Fprintf(r.out, "Added %d, count %d\n", added, r.chain.Count())
}

func (r *REPL) parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(r.out, "Invalid index: %v\n", err)
		return 0, false
	}
	return n, true
}
