// Package arena provides the backing memory for allocations owned by a
// reference graph.
//
// # Overview
//
// Every live graph entry exclusively owns one block obtained from an
// Allocator. The block is returned to the allocator exactly once, when the
// entry's count reaches zero or the graph is cleaned up.
//
// # Implementations
//
// Heap: blocks are ordinary Go byte slices. Free drops the arena's record of
// the block and leaves reclamation to the garbage collector.
//
// Mmap: blocks are anonymous private mappings, rounded up to whole pages.
// On unix this uses mmap(2)/munmap(2), on Windows VirtualAlloc/VirtualFree.
// Platforms without either fall back to heap blocks. Memory from a freed
// mapping must not be touched again.
//
// Locked: blocks are github.com/awnumar/memguard buffers. Each one is locked
// into RAM, surrounded by guard pages and wiped when freed. Use it for
// entries that hold key material.
//
// # Resource Exhaustion
//
// There is no recoverable out-of-memory path. When the platform refuses to
// hand out memory, Alloc panics with an error wrapping ErrOutOfMemory.
//
// # Double Free Detection
//
// All implementations keep a ledger of live blocks keyed by base address.
// Freeing a block that is not in the ledger returns ErrForeignBlock, which
// catches double frees in tests.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
package arena
