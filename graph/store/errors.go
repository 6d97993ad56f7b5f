package store

import "errors"

var (
	// ErrNotFound indicates no live entry holds the requested id.
	ErrNotFound = errors.New("store: entry not found")

	// ErrBadPosition indicates a position outside the table.
	ErrBadPosition = errors.New("store: position out of range")

	// ErrBadCount indicates an entry inserted with a count below one.
	ErrBadCount = errors.New("store: count must be at least 1")

	// ErrBadConfig indicates an unusable initial capacity or growth ratio.
	ErrBadConfig = errors.New("store: bad configuration")

	// ErrDuplicateAddr indicates a block already owned by another entry.
	ErrDuplicateAddr = errors.New("store: block already registered")
)
