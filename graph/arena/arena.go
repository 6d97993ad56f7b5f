package arena

import (
	"fmt"
	"unsafe"
)

const (
	// NameHeap selects the Go heap arena.
	NameHeap = "heap"

	// NameMmap selects the anonymous mapping arena.
	NameMmap = "mmap"
)

// Allocator hands out and reclaims owned memory blocks.
//
// Implementations:
//   - Heap: Go heap slices
//   - Mmap: anonymous page mappings
//   - Locked: memguard buffers
type Allocator interface {
	// Alloc returns a zeroed block of exactly n bytes. The block always has a
	// non-zero capacity so that its base address identifies it, even when n is 0.
	// Alloc panics with ErrOutOfMemory when memory cannot be obtained.
	Alloc(n int) []byte

	// Free returns a block previously produced by Alloc. Any reslice of the
	// block that keeps its base address is accepted.
	Free(b []byte) error

	// Outstanding reports the number of live blocks and their total length.
	Outstanding() (blocks int, bytes int)

	// Name identifies the implementation ("heap", "mmap", "locked").
	Name() string
}

// ByName returns a fresh allocator for the given name.
func ByName(name string) (Allocator, error) {
	switch name {
	case "", NameHeap:
		return NewHeap(), nil
	case NameMmap:
		return NewMmap(), nil
	case NameLocked:
		return NewLocked(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownArena, name)
	}
}

// Addr returns the base address of b's backing array, or 0 for a slice with
// no capacity.
func Addr(b []byte) uintptr {
	if cap(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// ledger records live blocks by base address.
type ledger struct {
	blocks map[uintptr][]byte // base address → full block as allocated
	bytes  int                // sum of requested lengths
	sizes  map[uintptr]int    // base address → requested length
}

func newLedger() ledger {
	return ledger{
		blocks: make(map[uintptr][]byte),
		sizes:  make(map[uintptr]int),
	}
}

func (l *ledger) add(full []byte, n int) {
	addr := Addr(full)
	l.blocks[addr] = full
	l.sizes[addr] = n
	l.bytes += n
}

// take removes and returns the full block whose base address matches b.
func (l *ledger) take(b []byte) ([]byte, error) {
	addr := Addr(b)
	full, ok := l.blocks[addr]
	if !ok {
		return nil, ErrForeignBlock
	}
	l.bytes -= l.sizes[addr]
	delete(l.blocks, addr)
	delete(l.sizes, addr)
	return full, nil
}

func (l *ledger) outstanding() (int, int) {
	return len(l.blocks), l.bytes
}

// fatal panics with an error wrapping ErrOutOfMemory.
func fatal(op string, n int, err error) {
	panic(fmt.Errorf("%w: %s %d bytes: %v", ErrOutOfMemory, op, n, err))
}
