// Package slugify derives URL-safe identifiers from display names.
package slugify

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

// Make turns a display name into a lowercase, hyphenated, transliterated
// slug. It is idempotent on already-valid slugs. A name that transliterates
// to nothing falls back to a unique time-based placeholder.
func Make(name string) string {
	s := slug.Make(name)
	if s == "" {
		return fmt.Sprintf("item-%d", time.Now().UnixNano())
	}
	return s
}
