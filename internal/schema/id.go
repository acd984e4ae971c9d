package schema

import (
	"strings"

	"github.com/google/uuid"
)

const (
	copySuffix = " (copy)"

	// idSuffixLen is the number of hex characters appended to duplicated ids.
	idSuffixLen = 8
)

// newFieldID derives a new id from base that taken reports as unused.
func newFieldID(base string, taken func(string) bool) string {
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLen]
		candidate := base + "-" + suffix
		if !taken(candidate) {
			return candidate
		}
	}
}
