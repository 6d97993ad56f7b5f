//go:build unix

package arena

import (
	"errors"

	"golang.org/x/sys/unix"
)

// mapPages creates a private anonymous read/write mapping of length bytes.
func mapPages(length int) ([]byte, error) {
	return unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

// unmapPages releases a mapping made by mapPages.
func unmapPages(b []byte) error {
	err := unix.Munmap(b)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
