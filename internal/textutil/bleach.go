package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Bleach lowercases s and removes every whitespace rune. Two chart display
// strings are considered the same chart when their bleached forms are equal.
func Bleach(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lower.String(s))
}

// eventEntities mirrors how the statistics service renders '&' and '"' in
// event text. Single quotes are left as-is.
var eventEntities = strings.NewReplacer("&", "&amp;", `"`, "&quot;")

// EscapeEventHTML replaces '&' and '"' with their HTML entities.
func EscapeEventHTML(s string) string {
	return eventEntities.Replace(s)
}
