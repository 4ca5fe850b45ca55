package domain

import (
	"strings"
	"unicode"
)

// TextKind selects the character set allowed by CleanInput.
type TextKind int

const (
	// TextTitle allows letters, digits, spaces, hyphens and underscores.
	TextTitle TextKind = iota
	// TextNote additionally allows commas and periods.
	TextNote
)

// CleanInput trims the text, collapses runs of whitespace into a single
// space and rejects any character outside the allowed set for the kind.
func CleanInput(text string, kind TextKind) (string, error) {
	cleaned := strings.Join(strings.Fields(text), " ")

	for _, r := range cleaned {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			continue
		}
		if kind == TextNote && (r == ',' || r == '.') {
			continue
		}
		return "", ErrInvalidInput
	}

	return cleaned, nil
}

// CanonicalName produces the stored form of a title: cleaned, lowercased
// and with the first rune upper-cased. Two inputs differing only in case
// map to the same canonical form, which is what makes per-user name
// uniqueness case-insensitive.
func CanonicalName(name string) (string, error) {
	cleaned, err := CleanInput(name, TextTitle)
	if err != nil {
		return "", err
	}
	if cleaned == "" {
		return "", ErrInvalidInput
	}
	return Capitalize(strings.ToLower(cleaned)), nil
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
