// Package id generates opaque entity identifiers, unique within the
// process lifetime (and beyond — they are random UUIDs under the hood).
package id

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a prefixed id such as "PRD-9f86d081". The prefix keys the
// entity kind and makes ids readable in terminal listings.
func New(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
