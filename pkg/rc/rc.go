package rc

import "github.com/joshuapare/refkit/graph"

type (
	// StrongRef is an owning handle (re-exported for convenience).
	StrongRef = graph.StrongRef
	// WeakRef is a non-owning lookup key (re-exported for convenience).
	WeakRef = graph.WeakRef
	// EntryID identifies an allocation (re-exported for convenience).
	EntryID = graph.EntryID
	// Stats summarizes the default graph (re-exported for convenience).
	Stats = graph.Stats
)

// InvalidWeakRef is the weak reference that names no allocation.
var InvalidWeakRef = graph.InvalidWeakRef

// std is the default graph, created on first Init or Alloc.
var std *graph.Graph

func defaultGraph() *graph.Graph {
	if std == nil {
		g, err := graph.New(nil)
		if err != nil {
			// Default options are always valid.
			panic(err)
		}
		std = g
	}
	return std
}

// Init establishes the default graph. It preserves any existing allocations.
func Init() {
	defaultGraph().Init()
}

// Alloc creates or re-acquires a strong reference in the default graph.
// See graph.Graph.Alloc.
func Alloc(ptr []byte, size int, dep *StrongRef) (*StrongRef, error) {
	return defaultGraph().Alloc(ptr, size, dep)
}

// Downgrade converts s into a weak reference, running the cascading
// decrement rooted at s. Before the default graph exists it returns
// InvalidWeakRef.
func Downgrade(s *StrongRef) WeakRef {
	if std == nil {
		return InvalidWeakRef
	}
	return std.Downgrade(s)
}

// Upgrade re-acquires the allocation named by w.
func Upgrade(w WeakRef) (*StrongRef, error) {
	if std == nil {
		return nil, graph.ErrUninitialized
	}
	return std.Upgrade(w)
}

// Cleanup releases every allocation in the default graph.
func Cleanup() {
	if std != nil {
		std.Cleanup()
	}
}

// Current returns the default graph's statistics.
func Current() Stats {
	if std == nil {
		return Stats{}
	}
	return std.Stats()
}
