package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isUpper reports whether text has at least one cased letter and no
// lower-case letters. Digits, punctuation and spaces are ignored, so
// "2. METHODS" is upper-case.
func isUpper(text string) bool {
	cased := false
	for _, r := range text {
		switch {
		case unicode.IsLower(r) || unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// runeLen returns the length of text in characters
func runeLen(text string) int {
	return utf8.RuneCountInString(text)
}

// wordCount returns the number of whitespace-separated words
func wordCount(text string) int {
	return len(strings.Fields(text))
}

// containsAny reports whether lowered contains any of the phrases.
// Phrases are compared in lower case.
func containsAny(lowered string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(lowered, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// isDigits reports whether text is non-empty and consists only of digits
func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// hasLetter reports whether text contains at least one letter
func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
