// Package postcode classifies and reshapes user-entered locations: full and
// partial UK postcodes, Northern Ireland postcodes and plain place names.
package postcode

import (
	"regexp"
	"strings"
)

// Kind is the classification of a typed location.
type Kind int

const (
	KindInvalid Kind = iota
	KindFullUK
	KindPartialUK
	KindFullNI
	KindPartialNI
	KindWords
)

var (
	fullUKPostcode    = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}$`)
	partialUKPostcode = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?$`)
	fullNIPostcode    = regexp.MustCompile(`^BT\d{1,2}\s?\d[A-Z]{2}$`)
	partialNIPostcode = regexp.MustCompile(`^BT\d{1,2}$`)

	// Anything outside letters, digits, whitespace and ' , . & - is rejected.
	unsupportedChars = regexp.MustCompile(`[^\p{L}\d\s',.&\-]`)
	hasLetter        = regexp.MustCompile(`\p{L}`)
)

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsFullUKPostcode reports whether s is a complete UK postcode, with or
// without the internal space.
func IsFullUKPostcode(s string) bool {
	return fullUKPostcode.MatchString(normalize(s))
}

// IsPartialUKPostcode reports whether s is an outward code such as "SW1A".
func IsPartialUKPostcode(s string) bool {
	return partialUKPostcode.MatchString(normalize(s))
}

func IsFullNIPostcode(s string) bool {
	return fullNIPostcode.MatchString(normalize(s))
}

func IsPartialNIPostcode(s string) bool {
	return partialNIPostcode.MatchString(normalize(s))
}

// HasSpecialCharacters reports whether s contains a symbol that can not
// appear in a place name.
func HasSpecialCharacters(s string) bool {
	return unsupportedChars.MatchString(s)
}

// IsOnlyWords reports whether s can be treated as a plain location name.
func IsOnlyWords(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && hasLetter.MatchString(s) && !HasSpecialCharacters(s)
}

// Classify returns the most specific Kind for s. NI postcodes are checked
// first because every NI postcode is also a syntactically valid UK one.
func Classify(s string) Kind {
	switch {
	case IsFullNIPostcode(s):
		return KindFullNI
	case IsPartialNIPostcode(s):
		return KindPartialNI
	case IsFullUKPostcode(s):
		return KindFullUK
	case IsPartialUKPostcode(s):
		return KindPartialUK
	case IsOnlyWords(s):
		return KindWords
	default:
		return KindInvalid
	}
}

// FormatUKPostcode uppercases a full postcode and places the single space
// three characters from the end. It returns "" for anything that is not a
// full postcode.
func FormatUKPostcode(s string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	if !fullUKPostcode.MatchString(compact) {
		return ""
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}
