//go:build windows

package arena

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// mapPages commits length bytes of fresh read/write pages with VirtualAlloc.
func mapPages(length int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(length), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length), nil
}

// unmapPages releases a region committed by mapPages.
func unmapPages(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	// MEM_RELEASE requires a zero size and the base address of the region.
	addr := uintptr(unsafe.Pointer(&b[0]))
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
