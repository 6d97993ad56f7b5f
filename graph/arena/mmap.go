package arena

import (
	"os"

	"github.com/joshuapare/refkit/internal/buf"
)

// Mmap allocates each block as its own anonymous mapping.
type Mmap struct {
	live     ledger
	pageSize int
	mapped   int // bytes currently mapped, page rounded
}

// NewMmap creates an empty mapping arena.
func NewMmap() *Mmap {
	return &Mmap{
		live:     newLedger(),
		pageSize: os.Getpagesize(),
	}
}

// Alloc maps enough whole pages for n bytes and returns the first n of them.
func (m *Mmap) Alloc(n int) []byte {
	if n < 0 {
		panic(ErrInvalidSize)
	}
	length, ok := buf.AlignUp(max(n, 1), m.pageSize)
	if !ok {
		fatal("map", n, errSizeOverflow)
	}
	full, err := mapPages(length)
	if err != nil {
		fatal("map", length, err)
	}
	m.live.add(full, n)
	m.mapped += len(full)
	return full[:n]
}

// Free unmaps the block. b must not be used afterwards.
func (m *Mmap) Free(b []byte) error {
	if cap(b) == 0 {
		return ErrForeignBlock
	}
	full, err := m.live.take(b)
	if err != nil {
		return err
	}
	m.mapped -= len(full)
	return unmapPages(full)
}

func (m *Mmap) Outstanding() (int, int) { return m.live.outstanding() }

// Mapped reports the page-rounded number of bytes currently mapped.
func (m *Mmap) Mapped() int { return m.mapped }

func (m *Mmap) Name() string { return NameMmap }
