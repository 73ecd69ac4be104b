package match

import "strings"

// Key returns the comparison form of a term.
func Key(term string) string {
	return strings.ToLower(term)
}

// Equal reports whether two terms name the same thing, ignoring case.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Contains reports whether text mentions term, ignoring case.
func Contains(text, term string) bool {
	return strings.Contains(Key(text), Key(term))
}

// Blank reports whether a term is empty once surrounding whitespace is removed.
func Blank(term string) bool {
	return strings.TrimSpace(term) == ""
}
