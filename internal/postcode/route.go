package postcode

import "strings"

// ToRouteID turns a display title such as "Cardiff, Bute Terrace" into the
// bookmark id used in location URLs ("cardiff-bute-terrace").
func ToRouteID(title string) string {
	title = strings.ReplaceAll(strings.ToLower(title), ",", "")
	return strings.Join(strings.Fields(title), "-")
}
