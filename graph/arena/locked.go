package arena

import (
	"errors"

	"github.com/awnumar/memguard"
)

// NameLocked selects the locked, guarded memory arena.
const NameLocked = "locked"

var errBufferDead = errors.New("memguard returned a destroyed buffer")

// Locked allocates each block as a memguard buffer: locked into RAM, flanked
// by guard pages and wiped on Free.
type Locked struct {
	live    ledger
	buffers map[uintptr]*memguard.LockedBuffer
}

// NewLocked creates an empty locked arena.
func NewLocked() *Locked {
	return &Locked{
		live:    newLedger(),
		buffers: make(map[uintptr]*memguard.LockedBuffer),
	}
}

// Alloc returns a zeroed n-byte block from a fresh locked buffer. A
// zero-length request still locks one byte so the block has an address.
func (l *Locked) Alloc(n int) []byte {
	if n < 0 {
		panic(ErrInvalidSize)
	}
	lb := memguard.NewBuffer(max(n, 1))
	if !lb.IsAlive() {
		fatal("lock", n, errBufferDead)
	}
	full := lb.Bytes()
	l.live.add(full, n)
	l.buffers[Addr(full)] = lb
	return full[:n]
}

// Free wipes and releases the buffer behind b. b must not be used afterwards.
func (l *Locked) Free(b []byte) error {
	full, err := l.live.take(b)
	if err != nil {
		return err
	}
	addr := Addr(full)
	l.buffers[addr].Destroy()
	delete(l.buffers, addr)
	return nil
}

func (l *Locked) Outstanding() (int, int) { return l.live.outstanding() }

func (l *Locked) Name() string { return NameLocked }
