package graph

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/refkit/graph/arena"
	"github.com/joshuapare/refkit/graph/store"
)

// Graph is a reference graph.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Graph struct {
	st    *store.Store
	arena arena.Allocator
	log   *slog.Logger
	obs   Observer

	initialized bool

	liveBytes   int
	allocations uint64
	deletions   uint64
	downgrades  uint64
	upgrades    uint64
}

// New creates an initialized, empty graph.
func New(opts *Options) (*Graph, error) {
	o := opts.withDefaults()
	st, err := store.New(o.InitialCapacity, o.GrowthRatio)
	if err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}
	g := &Graph{
		st:          st,
		arena:       o.Arena,
		log:         o.Logger,
		obs:         o.Observer,
		initialized: true,
	}
	g.obs.Resized(st.Cap())
	return g, nil
}

// Init marks the graph initialized. On a graph that is already initialized
// it does nothing, so existing entries are preserved.
func (g *Graph) Init() {
	if g.initialized {
		return
	}
	g.initialized = true
	g.log.Debug("graph: initialized", "capacity", g.st.Cap(), "next_id", g.st.NextID())
	g.obs.Resized(g.st.Cap())
}

// Initialized reports whether the graph accepts reference operations.
func (g *Graph) Initialized() bool { return g.initialized }

// Cleanup releases every live entry regardless of its count, returns all
// blocks to the arena and leaves the graph uninitialized. Every outstanding
// StrongRef and WeakRef dangles afterwards.
func (g *Graph) Cleanup() {
	if !g.initialized {
		return
	}
	released := 0
	g.st.Drain(func(id EntryID, data []byte) {
		g.free(id, data)
		released++
	})
	g.initialized = false
	g.obs.Resized(g.st.Cap())
	g.log.Debug("graph: cleaned up", "released", released, "next_id", g.st.NextID())
}

// free returns a deleted entry's block to the arena.
func (g *Graph) free(id EntryID, data []byte) {
	size := len(data)
	if err := g.arena.Free(data); err != nil {
		// The store hands each block out once, so this is an arena mismatch.
		g.log.Error("graph: free failed", "id", id, "size", size, "error", err)
	}
	g.liveBytes -= size
	g.deletions++
	g.obs.Deleted(id, size)
}

// live returns s's entry if s is a live entry of this graph.
func (g *Graph) live(s *StrongRef) (*StrongRef, bool) {
	if s == nil || s.Released() {
		return nil, false
	}
	e, ok := g.st.ByID(s.ID())
	if !ok || e != s {
		return nil, false
	}
	return e, true
}

// Owns reports whether s is a live entry of this graph.
func (g *Graph) Owns(s *StrongRef) bool {
	_, ok := g.live(s)
	return ok
}

// Lookup returns the live entry holding id without changing its count.
func (g *Graph) Lookup(id EntryID) (*StrongRef, bool) {
	if !g.initialized {
		return nil, false
	}
	return g.st.ByID(id)
}

// Dependents returns the live ids that declared id as a dependency.
func (g *Graph) Dependents(id EntryID) []EntryID {
	if !g.initialized {
		return nil
	}
	return g.st.Dependents(id)
}

// Walk calls fn for every live entry in table order, stopping at the first
// error. fn must not allocate, downgrade or upgrade.
func (g *Graph) Walk(fn func(s *StrongRef) error) error {
	if !g.initialized {
		return nil
	}
	return g.st.Each(fn)
}

// Len returns the number of live entries.
func (g *Graph) Len() int { return g.st.Len() }

// Arena returns the allocator backing this graph.
func (g *Graph) Arena() arena.Allocator { return g.arena }

// Stats is a point-in-time summary of a graph.
type Stats struct {
	Initialized bool    `json:"initialized"`
	Live        int     `json:"live"`
	Capacity    int     `json:"capacity"`
	NextID      EntryID `json:"next_id"`
	LiveBytes   int     `json:"live_bytes"`
	Allocations uint64  `json:"allocations"`
	Deletions   uint64  `json:"deletions"`
	Downgrades  uint64  `json:"downgrades"`
	Upgrades    uint64  `json:"upgrades"`
	Grows       int     `json:"grows"`
	Shrinks     int     `json:"shrinks"`
}

// Stats returns the graph's current counters.
func (g *Graph) Stats() Stats {
	grows, shrinks := g.st.Resizes()
	return Stats{
		Initialized: g.initialized,
		Live:        g.st.Len(),
		Capacity:    g.st.Cap(),
		NextID:      g.st.NextID(),
		LiveBytes:   g.liveBytes,
		Allocations: g.allocations,
		Deletions:   g.deletions,
		Downgrades:  g.downgrades,
		Upgrades:    g.upgrades,
		Grows:       grows,
		Shrinks:     shrinks,
	}
}
