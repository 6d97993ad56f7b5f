package store

import (
	"fmt"
	"slices"
)

// EntryID identifies an entry for the lifetime of its store.
type EntryID uint64

// Entry is the strong reference state of one live allocation.
type Entry struct {
	id       EntryID
	data     []byte
	addr     uintptr
	count    int
	deps     []EntryID
	released bool
}

// ID returns the entry's permanent id.
func (e *Entry) ID() EntryID { return e.id }

// Bytes returns the owned block, or nil once the entry has been released.
func (e *Entry) Bytes() []byte {
	if e.released {
		return nil
	}
	return e.data
}

// Len returns the size of the owned block in bytes.
func (e *Entry) Len() int { return len(e.data) }

// Count returns the current strong count. It is 0 after release.
func (e *Entry) Count() int { return e.count }

// Dependencies returns a copy of the ids this entry depends on.
func (e *Entry) Dependencies() []EntryID { return slices.Clone(e.deps) }

// DependsOn reports whether id appears in the entry's dependency list.
func (e *Entry) DependsOn(id EntryID) bool { return slices.Contains(e.deps, id) }

// Released reports whether the entry has left its store.
func (e *Entry) Released() bool { return e.released }

// Addr returns the base address of the owned block.
func (e *Entry) Addr() uintptr { return e.addr }

func (e *Entry) String() string {
	if e == nil {
		return "entry(nil)"
	}
	return fmt.Sprintf("entry(id=%d count=%d len=%d deps=%v)", e.id, e.count, len(e.data), e.deps)
}

// release drops the entry's block and dependency list and returns the block.
func (e *Entry) release() []byte {
	data := e.data
	e.data = nil
	e.deps = nil
	e.count = 0
	e.released = true
	return data
}
