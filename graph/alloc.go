package graph

import (
	"fmt"

	"github.com/joshuapare/refkit/graph/arena"
)

// Alloc creates or re-acquires a strong reference.
//
//   - ptr nil, dep nil: allocate size bytes; the new entry has count 1 and no
//     dependencies.
//   - ptr nil, dep live: allocate size bytes; the new entry depends on dep and
//     starts with dep's current count rather than 1.
//   - ptr owned by a live entry: add one to that entry's count and return its
//     handle. size is ignored. A non-nil dep fails with
//     ErrReacquireWithDependency and changes nothing.
//   - ptr owned by no live entry: ErrUnregisteredPointer.
//
// A dep that is not a live entry of this graph is ignored on the allocation
// path. Alloc initializes a cleaned-up graph. Failure to obtain memory panics
// (see arena.ErrOutOfMemory).
func (g *Graph) Alloc(ptr []byte, size int, dep *StrongRef) (*StrongRef, error) {
	if ptr != nil {
		return g.reacquire(ptr, dep)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	g.Init()

	count := 1
	var deps []EntryID
	if dep != nil {
		if d, ok := g.live(dep); ok {
			count = d.Count()
			deps = []EntryID{d.ID()}
		} else {
			g.log.Debug("graph: ignoring dependency that is not live", "dep", dep.ID())
		}
	}

	data := g.arena.Alloc(size)
	before := g.st.Cap()
	e, err := g.st.Insert(data, arena.Addr(data), count, deps)
	if err != nil {
		_ = g.arena.Free(data)
		return nil, fmt.Errorf("graph: insert: %w", err)
	}
	g.noteCapacity(before)

	g.liveBytes += size
	g.allocations++
	g.obs.Allocated(e.ID(), size, count)
	g.log.Debug("graph: allocated", "id", e.ID(), "size", size, "count", count, "deps", deps)
	return e, nil
}

// Allocate returns a fresh entry of size bytes with count 1.
func (g *Graph) Allocate(size int) (*StrongRef, error) {
	return g.Alloc(nil, size, nil)
}

// AllocateDependent returns a fresh entry of size bytes whose lifetime is
// tied to dep.
func (g *Graph) AllocateDependent(size int, dep *StrongRef) (*StrongRef, error) {
	return g.Alloc(nil, size, dep)
}

// Acquire adds one strong count to the entry owning ptr.
func (g *Graph) Acquire(ptr []byte) (*StrongRef, error) {
	if ptr == nil {
		return nil, fmt.Errorf("%w: nil pointer", ErrUnregisteredPointer)
	}
	return g.reacquire(ptr, nil)
}

func (g *Graph) reacquire(ptr []byte, dep *StrongRef) (*StrongRef, error) {
	if !g.initialized {
		return nil, ErrUninitialized
	}
	addr := arena.Addr(ptr)
	e, ok := g.st.ByAddr(addr)
	if !ok {
		return nil, fmt.Errorf("%w: %#x", ErrUnregisteredPointer, addr)
	}
	if dep != nil {
		return nil, fmt.Errorf("%w: entry %d", ErrReacquireWithDependency, e.ID())
	}
	count := g.st.Increment(e)
	g.obs.Acquired(e.ID(), count)
	return e, nil
}

// noteCapacity reports a capacity change since before to the observer.
func (g *Graph) noteCapacity(before int) {
	if after := g.st.Cap(); after != before {
		g.obs.Resized(after)
	}
}
