package conversation

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// ValidName accepts a trimmed name of at least two characters containing at
// least one letter. Pure digits, punctuation or emoji are rejected.
func ValidName(text string) bool {
	if len([]rune(text)) < 2 {
		return false
	}
	return strings.ContainsFunc(text, unicode.IsLetter)
}

// ValidLocation applies the same rule as ValidName. Kept as its own
// predicate so the two can evolve independently.
func ValidLocation(text string) bool {
	return ValidName(text)
}

// ValidDateTimeText is a loose acceptance filter for free-text dates: at
// least five characters with at least one digit. The value stays opaque
// display text; nothing downstream parses it as a calendar date.
func ValidDateTimeText(text string) bool {
	if len([]rune(text)) < 5 {
		return false
	}
	return strings.ContainsFunc(text, unicode.IsDigit)
}

// TitleCase normalizes a custom event label, e.g. "baby shower" becomes
// "Baby Shower".
func TitleCase(text string) string {
	return titleCaser.String(strings.ToLower(text))
}
