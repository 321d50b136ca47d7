package chain

import "slices"

// BlockPolicy determines who owns the storage behind an inserted block.
type BlockPolicy int

const (
	// BorrowBlocks makes memory nodes view the caller's array directly.
	// The caller must not modify the array while any node views it; changes
	// show through the chain.
	BorrowBlocks BlockPolicy = iota

	// CopyBlocks copies each block on insert, so the chain owns its storage.
	CopyBlocks
)

// String returns the name of the policy.
func (p BlockPolicy) String() string {
	switch p {
	case BorrowBlocks:
		return "borrow"
	case CopyBlocks:
		return "copy"
	default:
		return "unknown"
	}
}

// adoptBlock returns the storage a memory node should view for block.
// Borrowed blocks keep their capacity so Compact can recognise neighbouring
// views of the same array.
func adoptBlock[T any](p BlockPolicy, block []T) []T {
	if p == CopyBlocks {
		return slices.Clone(block)
	}
	return block
}
