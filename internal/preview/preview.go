// Package preview renders allocation contents for human-readable dumps.
package preview

import (
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/refkit/internal/buf"
)

// DefaultLimit is the number of leading bytes shown when no limit is given.
const DefaultLimit = 32

// window returns at most limit leading bytes of b and whether b was cut.
func window(b []byte, limit int) ([]byte, bool) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if w, ok := buf.Slice(b, 0, limit); ok {
		return w, len(b) > limit
	}
	return b, false
}

// Text decodes up to limit leading bytes as Windows-1252 and replaces
// anything unprintable with '.'. Truncated output ends in "...".
func Text(b []byte, limit int) string {
	w, cut := window(b, limit)
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(w)
	if err != nil {
		// Windows-1252 decodes every byte; fall back to raw bytes anyway.
		decoded = w
	}

	var sb strings.Builder
	for _, r := range string(decoded) {
		if unicode.IsPrint(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('.')
		}
	}
	if cut {
		sb.WriteString("...")
	}
	return sb.String()
}

// Hex renders up to limit leading bytes as lowercase hex.
func Hex(b []byte, limit int) string {
	w, cut := window(b, limit)
	s := hex.EncodeToString(w)
	if cut {
		s += "..."
	}
	return s
}
