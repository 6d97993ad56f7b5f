// Package graph provides a reference graph: a registry of owned memory blocks
// behind strong and weak handles, with ownership dependencies between them.
//
// # Overview
//
// A Graph tracks allocations. Each live allocation is an entry with a
// permanent id, a strong count, an exclusively owned block and a list of ids
// it depends on. An entry exists exactly while its count is above zero; its
// block goes back to the arena exactly once, when the count reaches zero.
//
// # Handles
//
//   - StrongRef: owning handle to an entry. Each unit of count is one strong hold.
//   - WeakRef: non-owning lookup key (an entry id, or invalid). It must be
//     upgraded, which re-validates it against the live graph, before use.
//
// # Operations
//
//	g, err := graph.New(nil)
//	if err != nil {
//	    return err
//	}
//	defer g.Cleanup()
//
//	parent, _ := g.Alloc(nil, 64, nil)    // count 1
//	child, _ := g.Alloc(nil, 16, parent)  // count == parent.Count(), depends on parent
//	again, _ := g.Alloc(parent.Bytes(), 0, nil) // re-acquire: parent count 2
//
//	w := g.Downgrade(parent)       // cascading decrement rooted at parent
//	s, err := g.Upgrade(w)         // re-acquire by id, fails once deleted
//
// # Cascading Decrement
//
// Downgrading an entry first decrements, depth first, every live entry that
// declared it as a dependency, then decrements the entry itself. Any entry
// whose count reaches zero on the way is deleted. Propagation runs toward
// dependents, not toward the entry's own dependencies.
//
// # Lifecycle
//
// New returns an initialized graph. Cleanup releases every entry
// unconditionally and leaves the graph uninitialized: all outstanding handles
// dangle, Downgrade returns InvalidWeakRef and Upgrade fails with
// ErrUninitialized until Init runs again (Alloc also initializes implicitly).
// Ids keep counting across Cleanup, so a weak reference from before a Cleanup
// can never name an entry created after it.
//
// # Thread Safety
//
// Graph instances are not thread-safe. Callers must synchronize access
// externally.
package graph
