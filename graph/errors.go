package graph

import (
	"errors"

	"github.com/joshuapare/refkit/graph/arena"
	"github.com/joshuapare/refkit/graph/store"
)

var (
	// ErrUninitialized indicates an operation on a graph that has been cleaned
	// up and not initialized again.
	ErrUninitialized = errors.New("graph: not initialized")

	// ErrInvalidWeakRef indicates the invalid weak reference.
	ErrInvalidWeakRef = errors.New("graph: invalid weak reference")

	// ErrIDOutOfRange indicates a weak reference naming an id never issued by this graph.
	ErrIDOutOfRange = errors.New("graph: entry id out of range")

	// ErrDangling indicates a weak reference whose entry has been deleted.
	ErrDangling = errors.New("graph: entry no longer live")

	// ErrUnregisteredPointer indicates re-acquisition of a block that no live
	// entry owns.
	ErrUnregisteredPointer = errors.New("graph: pointer not registered")

	// ErrReacquireWithDependency indicates re-acquisition of an existing block
	// with a dependency. Recording a dependency on that path is not supported.
	ErrReacquireWithDependency = errors.New("graph: dependency not supported when re-acquiring")

	// ErrInvalidSize indicates a negative allocation size.
	ErrInvalidSize = arena.ErrInvalidSize

	// ErrBadConfig indicates unusable Options.
	ErrBadConfig = store.ErrBadConfig
)
