package graph

import (
	"fmt"

	"github.com/joshuapare/refkit/graph/store"
)

// EntryID identifies an entry for the lifetime of its graph.
type EntryID = store.EntryID

// StrongRef is an owning handle to a graph entry. The same *StrongRef is
// returned every time an entry is acquired.
type StrongRef = store.Entry

// WeakRef is a non-owning lookup key. The zero value is the invalid reference.
type WeakRef struct {
	id    EntryID
	valid bool
}

// InvalidWeakRef is the weak reference that names no entry.
var InvalidWeakRef = WeakRef{}

// Weak builds a weak reference for id without consulting any graph.
func Weak(id EntryID) WeakRef {
	return WeakRef{id: id, valid: true}
}

// ID returns the carried id and whether the reference is valid at all.
// A valid reference may still name a deleted entry.
func (w WeakRef) ID() (EntryID, bool) {
	return w.id, w.valid
}

// Valid reports whether w carries an id.
func (w WeakRef) Valid() bool { return w.valid }

func (w WeakRef) String() string {
	if !w.valid {
		return "weak(invalid)"
	}
	return fmt.Sprintf("weak(%d)", w.id)
}
