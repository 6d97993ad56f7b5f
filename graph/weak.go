package graph

import "fmt"

// Downgrade converts a strong reference into a weak one. It runs the
// cascading decrement rooted at s, which removes one count from s itself and
// may delete it. The result carries s's id if s survived, InvalidWeakRef if
// it was deleted.
//
// A nil s, a handle that is not a live entry of this graph, or an
// uninitialized graph yields InvalidWeakRef with no side effects.
func (g *Graph) Downgrade(s *StrongRef) WeakRef {
	if s == nil || !g.initialized {
		return InvalidWeakRef
	}
	if _, ok := g.live(s); !ok {
		return InvalidWeakRef
	}
	id := s.ID()
	g.cascade(id)
	g.downgrades++

	_, survived := g.live(s)
	g.obs.Downgraded(id, survived)
	if !survived {
		return InvalidWeakRef
	}
	return Weak(id)
}

// Upgrade re-acquires the entry named by w, adding one to its count. It
// never creates an entry.
//
// Errors: ErrUninitialized, ErrInvalidWeakRef, ErrIDOutOfRange (the id was
// never issued by this graph) and ErrDangling (the entry was deleted).
func (g *Graph) Upgrade(w WeakRef) (*StrongRef, error) {
	if !g.initialized {
		return nil, ErrUninitialized
	}
	id, ok := w.ID()
	if !ok {
		return nil, ErrInvalidWeakRef
	}
	if !g.st.Issued(id) {
		return nil, fmt.Errorf("%w: %d (next %d)", ErrIDOutOfRange, id, g.st.NextID())
	}
	e, ok := g.st.ByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrDangling, id)
	}
	count := g.st.Increment(e)
	g.upgrades++
	g.obs.Acquired(id, count)
	return e, nil
}
