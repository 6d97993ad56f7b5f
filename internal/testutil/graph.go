// Package testutil holds helpers shared by refkit tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/refkit/graph"
	"github.com/joshuapare/refkit/graph/arena"
)

// NewGraph creates a graph over a fresh heap arena. When the test ends the
// graph is cleaned up and the arena must hold no blocks, which catches leaks
// and double frees.
//
// Example:
//
//	g, heap := testutil.NewGraph(t, nil)
//	s := testutil.MustAlloc(t, g, 64, nil)
func NewGraph(t testing.TB, opts *graph.Options) (*graph.Graph, *arena.Heap) {
	t.Helper()

	var o graph.Options
	if opts != nil {
		o = *opts
	}
	heap := arena.NewHeap()
	o.Arena = heap

	g, err := graph.New(&o)
	require.NoError(t, err)

	t.Cleanup(func() {
		g.Cleanup()
		blocks, bytes := heap.Outstanding()
		if blocks != 0 || bytes != 0 {
			t.Errorf("arena leak after cleanup: %d blocks, %d bytes", blocks, bytes)
		}
	})
	return g, heap
}

// MustAlloc allocates size bytes, optionally depending on dep, and fails the
// test on error.
func MustAlloc(t testing.TB, g *graph.Graph, size int, dep *graph.StrongRef) *graph.StrongRef {
	t.Helper()
	s, err := g.Alloc(nil, size, dep)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

// RequireLive asserts that id names a live entry with the given count.
func RequireLive(t testing.TB, g *graph.Graph, id graph.EntryID, count int) *graph.StrongRef {
	t.Helper()
	s, ok := g.Lookup(id)
	require.True(t, ok, "entry %d should be live", id)
	require.Equal(t, count, s.Count(), "entry %d count", id)
	return s
}

// RequireGone asserts that id names no live entry.
func RequireGone(t testing.TB, g *graph.Graph, id graph.EntryID) {
	t.Helper()
	_, ok := g.Lookup(id)
	require.False(t, ok, "entry %d should be deleted", id)
}
