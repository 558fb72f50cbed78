package asset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyIdentifier is returned when a path slugs down to nothing usable as a C identifier.
var ErrEmptyIdentifier = errors.New("path has no identifier characters")

// Slug maps text onto the identifier alphabet [a-z0-9_].
// The input is lower-cased, every other rune becomes '_' and runs of '_'
// collapse to a single '_'.
func Slug(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	prev := rune(0)
	for _, r := range strings.ToLower(text) {
		if !permitted(r) {
			r = '_'
		}
		if r == '_' && prev == '_' {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func permitted(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}

// Identifier returns the identifier fragment for a path.
// Leading and trailing '_' are dropped so the fragment can be joined with
// other parts using a single '_'.
func Identifier(path string) (string, error) {
	id := strings.Trim(strings.TrimSpace(Slug(path)), "_")
	if id == "" {
		return "", fmt.Errorf("%q: %w", path, ErrEmptyIdentifier)
	}
	return id, nil
}

// GuardName returns the include guard for a header file name.
func GuardName(base string) string {
	return "__" + strings.ToUpper(strings.TrimSpace(Slug(base))) + "__"
}
