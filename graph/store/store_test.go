package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, initial, ratio int) *Store {
	t.Helper()
	s, err := New(initial, ratio)
	require.NoError(t, err)
	return s
}

// insert adds an entry with a fake address derived from its position.
func insert(t *testing.T, s *Store, count int, deps ...EntryID) *Entry {
	t.Helper()
	data := make([]byte, 4)
	e, err := s.Insert(data, uintptr(0x1000+int(s.NextID())*0x10), count, deps)
	require.NoError(t, err)
	return e
}

func Test_NewDefaults(t *testing.T) {
	s := newTestStore(t, 0, 0)
	assert.Equal(t, DefaultInitialCapacity, s.Cap())
	assert.Equal(t, DefaultGrowthRatio, s.GrowthRatio())
	assert.Zero(t, s.Len())
	assert.Zero(t, s.NextID())
}

func Test_NewRejectsBadConfig(t *testing.T) {
	_, err := New(-1, 2)
	require.ErrorIs(t, err, ErrBadConfig)
	_, err = New(4, 1)
	require.ErrorIs(t, err, ErrBadConfig)
}

func Test_InsertAssignsMonotonicIDs(t *testing.T) {
	s := newTestStore(t, 2, 2)
	a := insert(t, s, 1)
	b := insert(t, s, 1)
	require.Equal(t, EntryID(0), a.ID())
	require.Equal(t, EntryID(1), b.ID())

	_, err := s.Remove(a.ID())
	require.NoError(t, err)

	c := insert(t, s, 1)
	require.Equal(t, EntryID(2), c.ID(), "ids must never be reused")
	require.False(t, s.Issued(3))
	require.True(t, s.Issued(0), "deleted ids stay issued")
}

func Test_InsertRejectsZeroCount(t *testing.T) {
	s := newTestStore(t, 2, 2)
	_, err := s.Insert(nil, 0, 0, nil)
	require.ErrorIs(t, err, ErrBadCount)
	require.Zero(t, s.NextID(), "failed insert must not consume an id")
}

func Test_InsertRejectsDuplicateAddr(t *testing.T) {
	s := newTestStore(t, 2, 2)
	_, err := s.Insert(nil, 0xbeef, 1, nil)
	require.NoError(t, err)
	_, err = s.Insert(nil, 0xbeef, 1, nil)
	require.ErrorIs(t, err, ErrDuplicateAddr)
}

func Test_GrowMultipliesCapacity(t *testing.T) {
	s := newTestStore(t, 2, 3)
	insert(t, s, 1)
	insert(t, s, 1)
	require.Equal(t, 2, s.Cap())

	insert(t, s, 1)
	require.Equal(t, 6, s.Cap())
	grows, _ := s.Resizes()
	require.Equal(t, 1, grows)
}

func Test_ShrinkAfterRemoval(t *testing.T) {
	s := newTestStore(t, 2, 2)
	var ids []EntryID
	for range 5 {
		ids = append(ids, insert(t, s, 1).ID())
	}
	require.Equal(t, 8, s.Cap())

	// 4 left: 4 < 8/2 is false, no shrink.
	_, err := s.Remove(ids[0])
	require.NoError(t, err)
	require.Equal(t, 8, s.Cap())

	// 3 left: 3 < 4, shrink to 4.
	_, err = s.Remove(ids[1])
	require.NoError(t, err)
	require.Equal(t, 4, s.Cap())

	// 2 left: 2 < 2 is false.
	_, err = s.Remove(ids[2])
	require.NoError(t, err)
	require.Equal(t, 4, s.Cap())

	// 1 left: 1 < 2, shrink to 2.
	_, err = s.Remove(ids[3])
	require.NoError(t, err)
	require.Equal(t, 2, s.Cap())

	// 0 left: 0 < 1 but 1 is below the initial capacity.
	_, err = s.Remove(ids[4])
	require.NoError(t, err)
	require.Equal(t, 2, s.Cap())
}

func Test_RemovePreservesOrderAndPositions(t *testing.T) {
	s := newTestStore(t, 4, 2)
	a := insert(t, s, 1)
	b := insert(t, s, 1)
	c := insert(t, s, 1)
	d := insert(t, s, 1)

	_, err := s.Remove(b.ID())
	require.NoError(t, err)
	require.Equal(t, []EntryID{a.ID(), c.ID(), d.ID()}, s.IDs())

	for i, id := range s.IDs() {
		pos, ok := s.Position(id)
		require.True(t, ok)
		require.Equal(t, i, pos)
		got, ok := s.ByID(id)
		require.True(t, ok)
		require.Equal(t, id, got.ID())
	}

	_, ok := s.ByID(b.ID())
	require.False(t, ok)
	_, ok = s.ByAddr(b.Addr())
	require.False(t, ok)
}

func Test_RemoveReleasesEntry(t *testing.T) {
	s := newTestStore(t, 4, 2)
	e := insert(t, s, 2)
	data := e.Bytes()

	got, err := s.Remove(e.ID())
	require.NoError(t, err)
	require.Len(t, got, len(data))
	require.True(t, e.Released())
	require.Nil(t, e.Bytes())
	require.Zero(t, e.Count())
	require.Empty(t, e.Dependencies())

	_, err = s.Remove(e.ID())
	require.ErrorIs(t, err, ErrNotFound)
}

func Test_RemoveAtBounds(t *testing.T) {
	s := newTestStore(t, 4, 2)
	_, err := s.RemoveAt(0)
	require.ErrorIs(t, err, ErrBadPosition)
	insert(t, s, 1)
	_, err = s.RemoveAt(-1)
	require.ErrorIs(t, err, ErrBadPosition)
	_, err = s.RemoveAt(0)
	require.NoError(t, err)
}

func Test_DependentsIndex(t *testing.T) {
	s := newTestStore(t, 4, 2)
	root := insert(t, s, 1)
	d1 := insert(t, s, 1, root.ID())
	d2 := insert(t, s, 1, root.ID())
	other := insert(t, s, 1)

	require.Equal(t, []EntryID{d1.ID(), d2.ID()}, s.Dependents(root.ID()))
	require.Empty(t, s.Dependents(other.ID()))
	require.True(t, d1.DependsOn(root.ID()))

	snap := s.Dependents(root.ID())
	_, err := s.Remove(d1.ID())
	require.NoError(t, err)
	require.Equal(t, []EntryID{d1.ID(), d2.ID()}, snap, "snapshot must not change")
	require.Equal(t, []EntryID{d2.ID()}, s.Dependents(root.ID()))

	// Removing the root leaves d2 with a dangling dependency id.
	_, err = s.Remove(root.ID())
	require.NoError(t, err)
	require.Equal(t, []EntryID{root.ID()}, d2.Dependencies())
	require.Empty(t, s.Dependents(root.ID()))
}

func Test_IncrementDecrement(t *testing.T) {
	s := newTestStore(t, 4, 2)
	e := insert(t, s, 1)
	require.Equal(t, 2, s.Increment(e))
	require.Equal(t, 1, s.Decrement(e))
	require.Equal(t, 0, s.Decrement(e))
	require.Equal(t, 0, s.Decrement(e), "count never goes negative")
	_, ok := s.ByID(e.ID())
	require.True(t, ok, "Decrement alone never removes")
}

func Test_DrainKeepsIDSequence(t *testing.T) {
	s := newTestStore(t, 2, 2)
	for range 5 {
		insert(t, s, 1)
	}
	var drained []EntryID
	s.Drain(func(id EntryID, data []byte) {
		drained = append(drained, id)
		require.Len(t, data, 4)
	})
	require.Equal(t, []EntryID{0, 1, 2, 3, 4}, drained)
	require.Zero(t, s.Len())
	require.Equal(t, 2, s.Cap())
	require.Equal(t, EntryID(5), s.NextID())
	require.Equal(t, EntryID(5), insert(t, s, 1).ID())
}

func Test_EachStopsOnError(t *testing.T) {
	s := newTestStore(t, 4, 2)
	insert(t, s, 1)
	insert(t, s, 1)
	seen := 0
	err := s.Each(func(e *Entry) error {
		seen++
		return ErrNotFound
	})
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 1, seen)
}
