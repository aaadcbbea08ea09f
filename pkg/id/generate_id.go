package id

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var reID32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random public id: a v4 UUID as 32 lowercase hex characters.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether s has the shape of a public id.
func Valid(s string) bool { return reID32.MatchString(s) }
