package id

import (
	"strings"

	"github.com/google/uuid"
)

// NewID32 returns a random (v4) id as 32 lowercase hex characters, without
// the UUID dashes, so it fits the char(32) trace_id column.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether s is a 32-char lowercase hex id.
func Valid(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
