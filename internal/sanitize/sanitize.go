// Package sanitize cleans inbound message bodies before they reach the state machines.
package sanitize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxBytes is 4KB, well above any menu reply or chat question.
const DefaultMaxBytes = 4096

var (
	ErrTooLarge    = errors.New("message exceeds maximum allowed size")
	ErrInvalidUTF8 = errors.New("message contains invalid UTF-8 sequences")
)

// Body enforces the size limit, validates UTF-8 and strips control characters
// other than newline, tab and carriage return. maxBytes <= 0 means DefaultMaxBytes.
func Body(input string, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	// Reject rather than truncate: a truncated menu reply could resolve to the wrong row.
	if len(input) > maxBytes {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrTooLarge, len(input), maxBytes)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	dirty := strings.IndexFunc(input, isUnsafeControl) >= 0
	if !dirty {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	if r == '\n' || r == '\t' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}
