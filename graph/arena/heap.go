package arena

// Heap allocates blocks on the Go heap.
type Heap struct {
	live ledger
}

// NewHeap creates an empty heap arena.
func NewHeap() *Heap {
	return &Heap{live: newLedger()}
}

// Alloc returns a zeroed n-byte slice. A zero-length request still reserves
// one byte of capacity so the block has an address of its own.
func (h *Heap) Alloc(n int) []byte {
	if n < 0 {
		panic(ErrInvalidSize)
	}
	c := n
	if c == 0 {
		c = 1
	}
	full := make([]byte, c)
	h.live.add(full, n)
	return full[:n]
}

// Free forgets b. The memory is reclaimed by the garbage collector once the
// caller drops its last reference.
func (h *Heap) Free(b []byte) error {
	full, err := h.live.take(b)
	if err != nil {
		return err
	}
	clear(full)
	return nil
}

func (h *Heap) Outstanding() (int, int) { return h.live.outstanding() }

func (h *Heap) Name() string { return NameHeap }
