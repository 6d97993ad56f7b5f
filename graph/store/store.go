package store

import (
	"fmt"
	"slices"

	"github.com/joshuapare/refkit/internal/buf"
)

const (
	// DefaultInitialCapacity is the capacity of a fresh store.
	DefaultInitialCapacity = 8

	// DefaultGrowthRatio multiplies capacity on growth and divides it on shrink.
	DefaultGrowthRatio = 2
)

// Store is an ordered entry table with id, address and dependents indexes.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Store struct {
	entries  []*Entry
	capacity int
	initial  int
	ratio    int

	// nextID is the id the next Insert hands out. It only ever increases.
	nextID EntryID

	pos        map[EntryID]int       // id → index into entries
	byAddr     map[uintptr]EntryID   // block base address → id
	dependents map[EntryID][]EntryID // id → ids whose deps contain it

	grows   int
	shrinks int
}

// New creates an empty store. Zero values select the defaults.
func New(initialCapacity, growthRatio int) (*Store, error) {
	if initialCapacity == 0 {
		initialCapacity = DefaultInitialCapacity
	}
	if growthRatio == 0 {
		growthRatio = DefaultGrowthRatio
	}
	if initialCapacity < 1 {
		return nil, fmt.Errorf("%w: initial capacity %d", ErrBadConfig, initialCapacity)
	}
	if growthRatio < 2 {
		return nil, fmt.Errorf("%w: growth ratio %d", ErrBadConfig, growthRatio)
	}
	s := &Store{
		initial: initialCapacity,
		ratio:   growthRatio,
	}
	s.reset()
	return s, nil
}

func (s *Store) reset() {
	s.capacity = s.initial
	s.entries = make([]*Entry, 0, s.initial)
	s.pos = make(map[EntryID]int, s.initial)
	s.byAddr = make(map[uintptr]EntryID, s.initial)
	s.dependents = make(map[EntryID][]EntryID)
}

// Insert appends a new entry owning data, growing the table when full.
// The new entry's id is the current NextID.
//
// Growth that would overflow int panics: the table cannot be extended and
// there is no degraded mode.
func (s *Store) Insert(data []byte, addr uintptr, count int, deps []EntryID) (*Entry, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadCount, count)
	}
	if addr != 0 {
		if owner, ok := s.byAddr[addr]; ok {
			return nil, fmt.Errorf("%w: owned by entry %d", ErrDuplicateAddr, owner)
		}
	}
	if len(s.entries) == s.capacity {
		s.grow()
	}

	e := &Entry{
		id:    s.nextID,
		data:  data,
		addr:  addr,
		count: count,
		deps:  slices.Clone(deps),
	}
	s.nextID++

	s.pos[e.id] = len(s.entries)
	s.entries = append(s.entries, e)
	if addr != 0 {
		s.byAddr[addr] = e.id
	}
	for _, d := range e.deps {
		s.dependents[d] = append(s.dependents[d], e.id)
	}
	return e, nil
}

func (s *Store) grow() {
	next, err := buf.GrowCapacity(s.capacity, s.ratio)
	if err != nil {
		panic(fmt.Errorf("store: cannot grow entry table: %w", err))
	}
	s.resize(next)
	s.grows++
}

// resize reallocates the table with room for capacity entries.
func (s *Store) resize(capacity int) {
	entries := make([]*Entry, len(s.entries), capacity)
	copy(entries, s.entries)
	s.entries = entries
	s.capacity = capacity
}

// shrink divides capacity by the ratio when utilization has dropped below
// capacity/ratio. Capacity never drops below the initial capacity.
func (s *Store) shrink() bool {
	next := s.capacity / s.ratio
	if len(s.entries) >= next || next < s.initial {
		return false
	}
	s.resize(next)
	s.shrinks++
	return true
}

// ByID returns the live entry holding id.
func (s *Store) ByID(id EntryID) (*Entry, bool) {
	i, ok := s.pos[id]
	if !ok {
		return nil, false
	}
	return s.entries[i], true
}

// ByAddr returns the live entry whose block starts at addr.
func (s *Store) ByAddr(addr uintptr) (*Entry, bool) {
	id, ok := s.byAddr[addr]
	if !ok {
		return nil, false
	}
	return s.ByID(id)
}

// Position returns the current index of id in the table.
func (s *Store) Position(id EntryID) (int, bool) {
	i, ok := s.pos[id]
	return i, ok
}

// At returns the entry at position i.
func (s *Store) At(i int) (*Entry, error) {
	if i < 0 || i >= len(s.entries) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrBadPosition, i, len(s.entries))
	}
	return s.entries[i], nil
}

// Dependents returns a snapshot of the live ids that depend on id, in
// insertion order. Later mutations of the store do not affect the result.
func (s *Store) Dependents(id EntryID) []EntryID {
	deps := s.dependents[id]
	if len(deps) == 0 {
		return nil
	}
	out := make([]EntryID, 0, len(deps))
	for _, d := range deps {
		if _, ok := s.pos[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Increment adds one to e's count and returns the new count.
func (s *Store) Increment(e *Entry) int {
	e.count++
	return e.count
}

// Decrement subtracts one from e's count and returns what remains. It never
// removes the entry; call Remove once the count reaches zero.
func (s *Store) Decrement(e *Entry) int {
	if e.count > 0 {
		e.count--
	}
	return e.count
}

// Remove deletes the entry holding id, marks it released and returns its
// block so the caller can free it. The shrink policy runs afterwards.
func (s *Store) Remove(id EntryID) ([]byte, error) {
	i, ok := s.pos[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.RemoveAt(i)
}

// RemoveAt deletes the entry at position i, preserving the order of the
// remaining entries. See Remove.
func (s *Store) RemoveAt(i int) ([]byte, error) {
	e, err := s.At(i)
	if err != nil {
		return nil, err
	}

	// Shift the tail down and fix up the positions of everything that moved.
	copy(s.entries[i:], s.entries[i+1:])
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]
	for j := i; j < len(s.entries); j++ {
		s.pos[s.entries[j].id] = j
	}
	delete(s.pos, e.id)

	if e.addr != 0 {
		delete(s.byAddr, e.addr)
	}
	for _, d := range e.deps {
		s.dependents[d] = slices.DeleteFunc(s.dependents[d], func(x EntryID) bool { return x == e.id })
		if len(s.dependents[d]) == 0 {
			delete(s.dependents, d)
		}
	}
	// Entries that depended on e keep e's id in their lists; it is never
	// issued again so it can only ever be matched, not resolved.
	delete(s.dependents, e.id)

	data := e.release()
	s.shrink()
	return data, nil
}

// Drain removes every entry without touching counts, calling fn with each
// id and block in table order, then resets capacity. NextID is kept.
func (s *Store) Drain(fn func(id EntryID, data []byte)) {
	entries := s.entries
	s.reset()
	for _, e := range entries {
		id := e.id
		data := e.release()
		if fn != nil {
			fn(id, data)
		}
	}
}

// Each calls fn for every live entry in table order, stopping at the first error.
func (s *Store) Each(fn func(e *Entry) error) error {
	for _, e := range s.entries {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// IDs returns a snapshot of the live ids in table order.
func (s *Store) IDs() []EntryID {
	ids := make([]EntryID, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.id
	}
	return ids
}

// Issued reports whether id has ever been handed out by this store.
func (s *Store) Issued(id EntryID) bool { return id < s.nextID }

// NextID returns the id the next Insert will use.
func (s *Store) NextID() EntryID { return s.nextID }

// Len returns the number of live entries.
func (s *Store) Len() int { return len(s.entries) }

// Cap returns the logical capacity of the table.
func (s *Store) Cap() int { return s.capacity }

// GrowthRatio returns the configured growth ratio.
func (s *Store) GrowthRatio() int { return s.ratio }

// InitialCapacity returns the configured initial capacity.
func (s *Store) InitialCapacity() int { return s.initial }

// Resizes returns how many times the table has grown and shrunk.
func (s *Store) Resizes() (grows, shrinks int) { return s.grows, s.shrinks }
