//go:build !unix && !windows

package arena

// mapPages returns heap memory when the platform has no anonymous mappings.
func mapPages(length int) ([]byte, error) {
	return make([]byte, length), nil
}

func unmapPages(b []byte) error { return nil }
