package location

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aqie/air-quality-forecast/internal/common"
	"github.com/aqie/air-quality-forecast/internal/postcode"
)

var shortPartialPostcode = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?$`)

// Dedupe drops candidates that are structurally identical to an earlier one.
func Dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		key, err := json.Marshal(c)
		if err != nil {
			log.Printf("WARN: location: could not compare candidate %v: %v", c, err)
			unique = append(unique, c)
			continue
		}
		k := string(c.Kind()) + string(key)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

// ProcessMatches filters gazetteer candidates down to the ones matching the
// typed location or the search terms, and annotates each survivor with its
// display title and route id. Candidates are mutated in place.
//
// A short outward code such as "E1" or "SW1" collapses to the first
// candidate, whose NAME1 takes the value of NAME2 when one is present.
func ProcessMatches(candidates []Candidate, userLocation, searchTerms, secondSearchTerm string) []Candidate {
	unique := Dedupe(candidates)
	if len(unique) == 0 {
		return []Candidate{}
	}

	typed := strings.ToUpper(strings.TrimSpace(userLocation))

	var selected []Candidate
	if shortPartialPostcode.MatchString(typed) && len(typed) <= 3 {
		first := unique[0]
		if uk, ok := first.(*UKCandidate); ok && uk.Entry.Name2 != "" {
			uk.Entry.Name1 = uk.Entry.Name2
		}
		selected = []Candidate{first}
	} else {
		selected = make([]Candidate, 0, len(unique))
		for _, c := range unique {
			if matches(c, userLocation, searchTerms, secondSearchTerm) {
				selected = append(selected, c)
			}
		}
	}

	for _, c := range selected {
		c.annotate()
	}
	return uniqueRoutes(selected)
}

// matches requires a name match on the typed location or the search terms.
// A second search term must then also match one of the candidate's areas.
func matches(c Candidate, userLocation, searchTerms, secondSearchTerm string) bool {
	named := overlaps(c.names(), common.Squash(userLocation)) ||
		(searchTerms != "" && overlaps(c.names(), common.Squash(searchTerms)))
	if !named {
		return false
	}
	if secondSearchTerm == "" {
		return true
	}
	return overlaps(c.areas(), common.Squash(secondSearchTerm))
}

// uniqueRoutes keeps the first of any annotated candidates sharing a route
// id, so every offered link resolves to the place it was shown for.
func uniqueRoutes(annotated []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(annotated))
	unique := annotated[:0]
	for _, c := range annotated {
		if _, dup := seen[c.RouteID()]; dup {
			log.Printf("WARN: location: dropping %q, route id %q already taken", c.Title(), c.RouteID())
			continue
		}
		seen[c.RouteID()] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

// overlaps reports whether needle contains, or is contained in, any of the
// names once case and whitespace are ignored.
func overlaps(names []string, needle string) bool {
	if needle == "" {
		return false
	}
	for _, name := range names {
		n := common.Squash(name)
		if n == "" {
			continue
		}
		if common.HasAny(n, needle) || common.HasAny(needle, n) {
			return true
		}
	}
	return false
}

// Outcome is the routing decision for a search.
type Outcome int

const (
	NotFound Outcome = iota
	Single
	Multiple
)

func (o Outcome) String() string {
	switch o {
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	default:
		return "not-found"
	}
}

// Decide picks the page to show for the matches. Several matches are only
// offered when the typed text is long enough to be a meaningful search: two
// characters for a partial postcode, three for a place name.
func Decide(matches []Candidate, userLocation string) Outcome {
	switch len(matches) {
	case 0:
		return NotFound
	case 1:
		return Single
	}
	typed := strings.TrimSpace(userLocation)
	minLength := 3
	if postcode.IsPartialUKPostcode(typed) {
		minLength = 2
	}
	if utf8.RuneCountInString(typed) >= minLength {
		return Multiple
	}
	return NotFound
}
