package navigation

import (
	"strings"
	"unicode"
)

// maxMenuWords is the longest reply still treated as a menu pick.
const maxMenuWords = 6

// questionWords mark free text as a question for the responder.
// Single words match whole words; phrases match as substrings.
var questionWords = []string{
	"price", "prices", "cost", "costs", "much",
	"delivery", "deliver", "shipping", "freight",
	"payment", "pay", "pix", "accept",
	"hours", "open", "available",
	"how", "when", "where", "what", "which", "why",
	"would like", "could you", "i want to know",
}

// QuestionLike reports whether free text reads as a question rather than a
// menu reply. Short numeric replies are never question-like.
func QuestionLike(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if len(text) <= 2 && isDigits(text) {
		return false
	}
	if strings.Contains(text, "?") {
		return true
	}

	lower := strings.ToLower(text)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(strings.Fields(lower)) > maxMenuWords {
		return true
	}

	for _, kw := range questionWords {
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == kw {
				return true
			}
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
