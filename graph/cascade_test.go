package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/refkit/graph"
	"github.com/joshuapare/refkit/internal/testutil"
)

func Test_CascadeDecrementsDependentsFirst(t *testing.T) {
	g, _ := testutil.NewGraph(t, nil)
	e := testutil.MustAlloc(t, g, 8, nil)
	_, err := g.Acquire(e.Bytes())
	require.NoError(t, err)
	d := testutil.MustAlloc(t, g, 8, e)
	require.Equal(t, 2, d.Count())

	w := g.Downgrade(e)
	require.True(t, w.Valid())
	testutil.RequireLive(t, g, e.ID(), 1)
	testutil.RequireLive(t, g, d.ID(), 1)

	require.False(t, g.Downgrade(e).Valid())
	testutil.RequireGone(t, g, e.ID())
	testutil.RequireGone(t, g, d.ID())
	require.Zero(t, g.Len())
}

// Downgrading E until it is deleted decrements its dependent once per step.
func Test_CascadePropagationProperty(t *testing.T) {
	g, _ := testutil.NewGraph(t, nil)
	e := testutil.MustAlloc(t, g, 8, nil)
	for range 3 {
		_, err := g.Acquire(e.Bytes())
		require.NoError(t, err)
	}
	d := testutil.MustAlloc(t, g, 8, e)
	// Extra holds on D keep it alive past E.
	for range 2 {
		_, err := g.Acquire(d.Bytes())
		require.NoError(t, err)
	}
	start := d.Count()
	require.Equal(t, 6, start)

	steps := 0
	for g.Downgrade(e).Valid() {
		steps++
	}
	steps++
	require.Equal(t, 4, steps)
	testutil.RequireGone(t, g, e.ID())
	testutil.RequireLive(t, g, d.ID(), start-steps)
	require.Equal(t, []graph.EntryID{e.ID()}, d.Dependencies(), "dangling dependency id is kept")
}

func Test_CascadeDoesNotTouchOwnDependencies(t *testing.T) {
	g, _ := testutil.NewGraph(t, nil)
	e := testutil.MustAlloc(t, g, 8, nil)
	_, err := g.Acquire(e.Bytes())
	require.NoError(t, err)
	d := testutil.MustAlloc(t, g, 8, e)
	_, err = g.Acquire(d.Bytes())
	require.NoError(t, err)

	// D has count 3, E has count 2. Downgrading D only affects D.
	require.True(t, g.Downgrade(d).Valid())
	testutil.RequireLive(t, g, d.ID(), 2)
	testutil.RequireLive(t, g, e.ID(), 2)
}

func Test_CascadeMultiLevel(t *testing.T) {
	g, _ := testutil.NewGraph(t, nil)
	root := testutil.MustAlloc(t, g, 8, nil)
	_, err := g.Acquire(root.Bytes())
	require.NoError(t, err)

	a := testutil.MustAlloc(t, g, 8, root) // count 2
	b := testutil.MustAlloc(t, g, 8, root) // count 2
	aa := testutil.MustAlloc(t, g, 8, a)   // count 2
	unrelated := testutil.MustAlloc(t, g, 8, nil)

	require.True(t, g.Downgrade(root).Valid())
	for _, s := range []*graph.StrongRef{root, a, b, aa} {
		testutil.RequireLive(t, g, s.ID(), 1)
	}

	require.False(t, g.Downgrade(root).Valid())
	for _, s := range []*graph.StrongRef{root, a, b, aa} {
		testutil.RequireGone(t, g, s.ID())
	}
	testutil.RequireLive(t, g, unrelated.ID(), 1)
}

func Test_CascadeDeletesWhileScanningShiftedTable(t *testing.T) {
	// Dependents sit between unrelated entries so every deletion shifts
	// positions under the walk.
	g, _ := testutil.NewGraph(t, &graph.Options{InitialCapacity: 1})
	root := testutil.MustAlloc(t, g, 1, nil)
	var keep, gone []*graph.StrongRef
	for range 10 {
		keep = append(keep, testutil.MustAlloc(t, g, 1, nil))
		gone = append(gone, testutil.MustAlloc(t, g, 1, root))
	}

	require.False(t, g.Downgrade(root).Valid())
	for _, s := range gone {
		testutil.RequireGone(t, g, s.ID())
	}
	for _, s := range keep {
		testutil.RequireLive(t, g, s.ID(), 1)
	}
	require.Equal(t, len(keep), g.Len())
}

func Test_CascadeDeepChain(t *testing.T) {
	g, heap := testutil.NewGraph(t, nil)
	const depth = 20000
	root := testutil.MustAlloc(t, g, 1, nil)
	prev := root
	for range depth {
		prev = testutil.MustAlloc(t, g, 1, prev)
	}
	require.Equal(t, depth+1, g.Len())

	require.False(t, g.Downgrade(root).Valid())
	require.Zero(t, g.Len())
	blocks, _ := heap.Outstanding()
	require.Zero(t, blocks)
}

func Test_CascadeShrinksStore(t *testing.T) {
	g, _ := testutil.NewGraph(t, &graph.Options{InitialCapacity: 2, GrowthRatio: 2})
	root := testutil.MustAlloc(t, g, 1, nil)
	for range 7 {
		testutil.MustAlloc(t, g, 1, root)
	}
	require.Equal(t, 8, g.Stats().Capacity)

	g.Downgrade(root)
	st := g.Stats()
	require.Zero(t, st.Live)
	require.Equal(t, 2, st.Capacity)
	require.Positive(t, st.Shrinks)
}
