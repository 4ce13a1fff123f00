package common

import "strings"

// HasAny returns true if s contains any of the non-empty substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Squash lowercases s and drops all whitespace, so "Bute  Terrace" and
// "buteterrace" compare equal.
func Squash(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
