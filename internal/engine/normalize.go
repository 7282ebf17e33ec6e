package engine

import "strings"

// Normalize turns a raw job title into the key used for queue matching:
// surrounding whitespace is trimmed, every '#' is removed, the result is
// uppercased, and only the first whitespace-delimited token is kept.
// Sheet titles and Fiery job titles must both go through this exact
// function or matching breaks.
func Normalize(raw string) string {
	cleaned := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "#", ""))
	if i := strings.IndexFunc(cleaned, isSpace); i >= 0 {
		return cleaned[:i]
	}
	return cleaned
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
