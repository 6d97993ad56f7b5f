package graph

// frame is one entry on the cascade stack. dependents is the snapshot of ids
// that depended on id when the frame was pushed.
type frame struct {
	id         EntryID
	dependents []EntryID
	next       int
}

// cascade runs the cascading decrement rooted at root: every live dependent
// of an entry is decremented (recursively, depth first) before the entry
// itself. Entries reaching zero are deleted as they are finished.
//
// The walk uses an explicit stack so deep dependency chains cannot exhaust
// the goroutine stack, and it resolves everything by id because deletions
// shift table positions.
func (g *Graph) cascade(root EntryID) {
	stack := []frame{{id: root, dependents: g.st.Dependents(root)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.dependents) {
			d := top.dependents[top.next]
			top.next++
			if _, ok := g.st.ByID(d); !ok {
				continue
			}
			stack = append(stack, frame{id: d, dependents: g.st.Dependents(d)})
			continue
		}
		id := top.id
		stack = stack[:len(stack)-1]
		g.decrement(id)
	}
}

// decrement removes one count from id, deleting the entry at zero.
func (g *Graph) decrement(id EntryID) {
	e, ok := g.st.ByID(id)
	if !ok {
		return
	}
	remaining := g.st.Decrement(e)
	g.obs.Decremented(id, remaining)
	if remaining > 0 {
		return
	}

	before := g.st.Cap()
	data, err := g.st.Remove(id)
	if err != nil {
		g.log.Error("graph: remove failed", "id", id, "error", err)
		return
	}
	g.noteCapacity(before)
	g.free(id, data)
	g.log.Debug("graph: deleted", "id", id)
}
