// Package cardid normalizes and validates card identifiers.
//
// A canonical card id is exactly 16 upper-case hexadecimal characters with no
// whitespace, e.g. "1234567890ABCDEF".
package cardid

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// Length of a canonical card id.
const Length = 16

var (
	ErrInvalid = errors.New("invalid card id")

	canonical = regexp.MustCompile(`^[0-9A-F]{16}$`)
)

// Normalize upper-cases raw and strips every whitespace rune.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToUpper(raw))
}

// Validate reports whether normalized is a canonical card id.
func Validate(normalized string) bool {
	return canonical.MatchString(normalized)
}

// Parse normalizes raw and returns it if it is a canonical card id.
func Parse(raw string) (string, error) {
	id := Normalize(raw)
	if !Validate(id) {
		return "", ErrInvalid
	}
	return id, nil
}
