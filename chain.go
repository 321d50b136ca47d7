package chain

import (
	"iter"
	"log/slog"
	"slices"
)

// config holds the settings shared by Chain and Keyed.
type config[T comparable] struct {
	filter      FilterKind
	outOfBounds OutOfBoundsFunc[T]
	policy      BlockPolicy
	logger      *Logger
}

// Option configures a Chain or a Keyed chain.
type Option[T comparable] func(*config[T])

// WithFilter sets the admission policy.
func WithFilter[T comparable](kind FilterKind) Option[T] {
	return func(c *config[T]) {
		c.filter = kind
	}
}

// WithOutOfBounds replaces the Strict out-of-bounds policy.
func WithOutOfBounds[T comparable](fn OutOfBoundsFunc[T]) Option[T] {
	return func(c *config[T]) {
		c.outOfBounds = fn
	}
}

// WithBlockPolicy sets who owns inserted blocks. Keyed chains ignore it.
func WithBlockPolicy[T comparable](p BlockPolicy) Option[T] {
	return func(c *config[T]) {
		c.policy = p
	}
}

// WithLogger sets the logger used for Debug-level tracing of edits.
func WithLogger[T comparable](l *Logger) Option[T] {
	return func(c *config[T]) {
		c.logger = l
	}
}

func buildConfig[T comparable](opts []Option[T]) config[T] {
	cfg := config[T]{
		filter:      FilterNone,
		outOfBounds: Strict[T](),
		policy:      BorrowBlocks,
		logger:      NoopLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = NoopLogger()
	}
	return cfg
}

func (cfg config[T]) newFilter() *Filter[T] {
	f := NewFilter[T](cfg.filter)
	if cfg.outOfBounds != nil {
		f.outOfBounds = cfg.outOfBounds
	}
	return f
}

// Chain is a sequence stored as linked runs: element nodes holding one value
// and memory nodes viewing a block without copying it.
//
// Inserts at either end are O(1); positional operations walk nodes from the
// nearer end. A Chain is not safe for concurrent use.
type Chain[T comparable] struct {
	links[T]

	cfg    config[T]
	filter *Filter[T]
	log    *Logger
}

// New creates an empty chain.
func New[T comparable](opts ...Option[T]) *Chain[T] {
	cfg := buildConfig(opts)
	return &Chain[T]{
		cfg:    cfg,
		filter: cfg.newFilter(),
		log:    cfg.logger,
	}
}

// FromSlice creates a chain viewing block as a single memory node, subject to
// the block policy and filter.
func FromSlice[T comparable](block []T, opts ...Option[T]) *Chain[T] {
	c := New(opts...)
	c.AddBlock(block)
	return c
}

// Count returns the number of elements.
func (c *Chain[T]) Count() int {
	return c.count
}

// Head returns the first node, or nil when the chain is empty.
func (c *Chain[T]) Head() *Node[T] {
	return c.head
}

// Tail returns the last node, or nil when the chain is empty.
func (c *Chain[T]) Tail() *Node[T] {
	return c.tail
}

// Filter returns the chain's admission policy.
func (c *Chain[T]) Filter() *Filter[T] {
	return c.filter
}

// Add appends v. A filter veto makes it a silent no-op.
func (c *Chain[T]) Add(v T) {
	if !c.admit(v) {
		return
	}
	c.pushBack(newElementNode(v))
	c.log.trace("add", "count", c.count)
}

// AddBlock appends block as one memory node. Empty blocks are ignored.
func (c *Chain[T]) AddBlock(block []T) {
	block = c.admitBlock(block)
	if len(block) == 0 {
		return
	}
	c.pushBack(newMemoryNode(block))
	c.log.trace("add block", "len", len(block), "count", c.count)
}

// Insert places v so that it ends up at index. index must be in [0, Count].
func (c *Chain[T]) Insert(index int, v T) error {
	if index < 0 || index > c.count {
		return c.outOfRange(index, true)
	}
	if !c.admit(v) {
		return nil
	}
	return c.insertNode(index, newElementNode(v), func(n *Node[T], local int) (fragment[T], error) {
		return insertElementAt(n, local, v)
	})
}

// InsertBlock places block so that its first element ends up at index.
// The block is viewed, not copied, unless the chain uses CopyBlocks.
func (c *Chain[T]) InsertBlock(index int, block []T) error {
	if index < 0 || index > c.count {
		return c.outOfRange(index, true)
	}
	block = c.admitBlock(block)
	if len(block) == 0 {
		return nil
	}
	return c.insertNode(index, newMemoryNode(block), func(n *Node[T], local int) (fragment[T], error) {
		return insertBlockAt(n, local, block)
	})
}

// insertNode links node at index, taking the O(1) paths at the ends and at
// node boundaries and otherwise splitting the owning node with split.
func (c *Chain[T]) insertNode(index int, node *Node[T], split func(*Node[T], int) (fragment[T], error)) error {
	switch {
	case c.head == nil, index == c.count:
		c.pushBack(node)
	case index == 0:
		c.pushFront(node)
	default:
		owner, offset := c.locate(index)
		if owner == nil {
			return c.corrupt("insert", index)
		}
		if index == offset {
			c.linkBefore(owner, node)
			break
		}
		f, err := split(owner, index-offset)
		if err != nil {
			return err
		}
		c.splice(owner, f)
		c.log.trace("split", "index", index, "kind", owner.kind.String(), "nodes", f.nodes)
	}
	return nil
}

// At returns the element at index.
func (c *Chain[T]) At(index int) (T, error) {
	if index < 0 || index >= c.count {
		return c.filter.handle(&IndexError{Index: index, Count: c.count})
	}
	n, offset := c.locate(index)
	if n == nil {
		var zero T
		return zero, c.corrupt("at", index)
	}
	return n.at(index - offset), nil
}

// RemoveAt removes and returns the element at index.
func (c *Chain[T]) RemoveAt(index int) (T, error) {
	if index < 0 || index >= c.count {
		return c.filter.handle(&IndexError{Index: index, Count: c.count})
	}
	n, offset := c.locate(index)
	if n == nil {
		var zero T
		return zero, c.corrupt("remove", index)
	}
	f, removed := removeFromNode(n, index-offset)
	c.splice(n, f)
	c.log.trace("remove", "index", index, "count", c.count)
	return removed, nil
}

// PopFront removes and returns the first element.
func (c *Chain[T]) PopFront() (T, error) {
	if c.count == 0 {
		var zero T
		return zero, errEmpty("pop front")
	}
	return c.RemoveAt(0)
}

// PopBack removes and returns the last element.
func (c *Chain[T]) PopBack() (T, error) {
	if c.count == 0 {
		var zero T
		return zero, errEmpty("pop back")
	}
	return c.RemoveAt(c.count - 1)
}

// Slice returns a new chain over [start, start+length). Memory nodes of the
// result view the same storage as c; nothing is copied. The result has c's
// options.
func (c *Chain[T]) Slice(start, length int) (*Chain[T], error) {
	out := &Chain[T]{cfg: c.cfg, filter: c.cfg.newFilter(), log: c.log}
	if start < 0 || start > c.count {
		_, err := c.filter.handle(&IndexError{Index: start, Count: c.count, Inclusive: true})
		return out, err
	}
	if length < 0 || start+length > c.count {
		_, err := c.filter.handle(&IndexError{Index: start + length, Count: c.count, Inclusive: true})
		return out, err
	}
	if length == 0 {
		return out, nil
	}

	end := start + length
	n, offset := c.locate(start)
	for ; n != nil && offset < end; n = n.next {
		from := max(start-offset, 0)
		to := min(end-offset, n.Count())
		out.pushBack(sliceNode(n, from, to))
		offset += n.Count()
	}
	return out, nil
}

// Clear removes every element.
func (c *Chain[T]) Clear() {
	c.reset()
}

// ToSlice copies the elements into a new slice.
func (c *Chain[T]) ToSlice() []T {
	out := make([]T, 0, c.count)
	return slices.AppendSeq(out, c.nodeValues())
}

// Equal reports whether c and o hold equal elements in the same order,
// however they are split into nodes.
func (c *Chain[T]) Equal(o *Chain[T]) bool {
	if c.count != o.count {
		return false
	}
	next, stop := iter.Pull(o.nodeValues())
	defer stop()
	for v := range c.nodeValues() {
		w, ok := next()
		if !ok || v != w {
			return false
		}
	}
	return true
}

// All returns the elements from head to tail.
// Mutating the chain inside the loop panics with a *ConcurrentModificationError.
func (c *Chain[T]) All() iter.Seq[T] {
	return c.values(false)
}

// Backward returns the elements from tail to head.
// Mutating the chain inside the loop panics with a *ConcurrentModificationError.
func (c *Chain[T]) Backward() iter.Seq[T] {
	return c.values(true)
}

// Enumerate returns index/element pairs from head to tail.
func (c *Chain[T]) Enumerate() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		e := newEnumerator(&c.links, false)
		for e.Next() {
			if !yield(e.Index(), e.Value()) {
				return
			}
		}
		if err := e.Err(); err != nil {
			panic(err)
		}
	}
}

// Enumerator returns a forward enumerator that reports mutation through Err.
func (c *Chain[T]) Enumerator() *Enumerator[T] {
	return newEnumerator(&c.links, false)
}

// ReverseEnumerator returns a tail-to-head enumerator.
func (c *Chain[T]) ReverseEnumerator() *Enumerator[T] {
	return newEnumerator(&c.links, true)
}

// Validate checks the chain's structural invariants.
func (c *Chain[T]) Validate() error {
	return c.validate()
}

// admit asks the filter whether v may be added.
func (c *Chain[T]) admit(v T) bool {
	if c.filter.Permits(c.nodeValues(), v) {
		return true
	}
	c.log.trace("veto", "filter", c.filter.Kind().String())
	return false
}

// admitBlock returns the part of block the filter admits, adopted per the
// block policy. When every element is admitted the block itself is used.
func (c *Chain[T]) admitBlock(block []T) []T {
	if len(block) == 0 {
		return nil
	}
	if !c.filter.FiltersAdds() {
		return adoptBlock(c.cfg.policy, block)
	}

	seen := make(map[T]struct{}, c.count+len(block))
	for v := range c.nodeValues() {
		seen[v] = struct{}{}
	}
	var kept []T
	for i, v := range block {
		if _, dup := seen[v]; dup {
			if kept == nil {
				kept = append(make([]T, 0, len(block)), block[:i]...)
			}
			continue
		}
		seen[v] = struct{}{}
		if kept != nil {
			kept = append(kept, v)
		}
	}
	if kept == nil {
		return adoptBlock(c.cfg.policy, block)
	}
	c.log.trace("veto", "filter", c.filter.Kind().String(), "dropped", len(block)-len(kept))
	return kept
}

// outOfRange routes an invalid insert position through the filter.
func (c *Chain[T]) outOfRange(index int, inclusive bool) error {
	_, err := c.filter.handle(&IndexError{Index: index, Count: c.count, Inclusive: inclusive})
	return err
}

func (c *Chain[T]) corrupt(op string, index int) error {
	err := c.validate()
	c.log.Error("chain corrupt", "op", op, "index", index, slog.Any("err", err))
	if err == nil {
		err = ErrCorrupt
	}
	return err
}
