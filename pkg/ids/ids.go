package ids

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// suffixLen matches the historical wire format: entity ids are the prefix
// plus the first 12 hex characters of a random UUID.
const suffixLen = 12

// New returns a prefixed opaque id such as "order_3fa85f64ab12".
func New(prefix string) string {
	raw := uuid.New()
	return prefix + "_" + hex.EncodeToString(raw[:])[:suffixLen]
}

// Short returns the trailing 6 characters used in human-readable messages.
func Short(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}

// HasPrefix reports whether id carries the expected entity prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}
