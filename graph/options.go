package graph

import (
	"io"
	"log/slog"

	"github.com/joshuapare/refkit/graph/arena"
)

// Options configures a Graph. A nil *Options selects every default.
type Options struct {
	// InitialCapacity is the entry table's starting (and minimum) capacity.
	// Default: store.DefaultInitialCapacity.
	InitialCapacity int

	// GrowthRatio multiplies capacity when the table is full and divides it
	// when utilization drops below capacity/GrowthRatio. Must be >= 2.
	// Default: store.DefaultGrowthRatio.
	GrowthRatio int

	// Arena provides the owned blocks. Default: a fresh arena.Heap.
	Arena arena.Allocator

	// Logger receives Debug records for allocation, deletion and cleanup.
	// Default: discard.
	Logger *slog.Logger

	// Observer is notified of every count change. Default: none.
	Observer Observer
}

// Observer is notified of graph events. graph/metrics provides a
// Prometheus implementation.
type Observer interface {
	// Allocated fires when a new entry is created.
	Allocated(id EntryID, size, count int)
	// Acquired fires when an existing entry gains a count through Alloc or Upgrade.
	Acquired(id EntryID, count int)
	// Decremented fires for every count decrement during a cascade.
	Decremented(id EntryID, remaining int)
	// Deleted fires once per entry when its block is released.
	Deleted(id EntryID, size int)
	// Downgraded fires after a downgrade; survived reports whether the root
	// entry is still live.
	Downgraded(id EntryID, survived bool)
	// Resized fires whenever the entry table's capacity changes.
	Resized(capacity int)
}

type nopObserver struct{}

func (nopObserver) Allocated(EntryID, int, int) {}
func (nopObserver) Acquired(EntryID, int)       {}
func (nopObserver) Decremented(EntryID, int)    {}
func (nopObserver) Deleted(EntryID, int)        {}
func (nopObserver) Downgraded(EntryID, bool)    {}
func (nopObserver) Resized(int)                 {}

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Arena == nil {
		out.Arena = arena.NewHeap()
	}
	if out.Logger == nil {
		out.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if out.Observer == nil {
		out.Observer = nopObserver{}
	}
	return out
}
