package arena

import "errors"

var (
	// ErrOutOfMemory indicates the platform refused to provide memory. Alloc
	// panics with an error wrapping it.
	ErrOutOfMemory = errors.New("arena: out of memory")

	// ErrForeignBlock indicates a block that this arena does not currently own,
	// either never allocated here or already freed.
	ErrForeignBlock = errors.New("arena: block not owned by this arena")

	// ErrInvalidSize indicates a negative allocation size.
	ErrInvalidSize = errors.New("arena: invalid size")

	// ErrUnknownArena indicates an unrecognized arena name.
	ErrUnknownArena = errors.New("arena: unknown arena")

	errSizeOverflow = errors.New("page rounding overflows int")
)
