package attendee

import (
	"strings"

	"golang.org/x/text/cases"
)

// placeholderNames are tokens agenda authors write in place of a person.
// Matching is exact on the folded name; "None Smith" is a real name.
var placeholderNames = map[string]struct{}{
	"all":  {},
	"tbd":  {},
	"n/a":  {},
	"na":   {},
	"none": {},
	"-":    {},
}

// Fold trims and case-folds a display name for comparison
func Fold(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// IsValidName reports whether name denotes a real person
func IsValidName(name string) bool {
	folded := Fold(name)
	if folded == "" {
		return false
	}
	_, placeholder := placeholderNames[folded]
	return !placeholder
}

// ValidName unwraps an optional name, reporting false when it is absent or a placeholder
func ValidName(name *string) (string, bool) {
	if name == nil || !IsValidName(*name) {
		return "", false
	}
	return strings.TrimSpace(*name), true
}

// NamesMatch reports whether two names plausibly denote the same person:
// either one contains the other, ignoring case.
func NamesMatch(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}
