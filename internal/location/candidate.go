// Package location resolves a typed location against gazetteer results.
package location

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aqie/air-quality-forecast/internal/common"
	"github.com/aqie/air-quality-forecast/internal/postcode"
)

// Type is the kind of search the user asked for.
type Type string

const (
	UKLocation Type = "uk-location"
	NILocation Type = "ni-location"
)

// Valid reports whether t is a known location type.
func (t Type) Valid() bool {
	return t == UKLocation || t == NILocation
}

// Kind tags the concrete Candidate variant.
type Kind string

const (
	KindUK Kind = "uk"
	KindNI Kind = "ni"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Candidate is a location returned by one of the gazetteers. The variants
// are *UKCandidate and *NICandidate.
type Candidate interface {
	Kind() Kind
	// Title is the display title, set once the candidate is annotated.
	Title() string
	// RouteID is the bookmark id derived from Title.
	RouteID() string
	Coordinates() (Point, bool)

	names() []string
	areas() []string
	annotate()
}

// GazetteerEntry is an OS Names record.
type GazetteerEntry struct {
	ID               string  `json:"ID"`
	Name1            string  `json:"NAME1"`
	Name2            string  `json:"NAME2,omitempty"`
	Type             string  `json:"TYPE,omitempty"`
	LocalType        string  `json:"LOCAL_TYPE,omitempty"`
	DistrictBorough  string  `json:"DISTRICT_BOROUGH,omitempty"`
	CountyUnitary    string  `json:"COUNTY_UNITARY,omitempty"`
	PostcodeDistrict string  `json:"POSTCODE_DISTRICT,omitempty"`
	Country          string  `json:"COUNTRY,omitempty"`
	GeometryX        float64 `json:"GEOMETRY_X"`
	GeometryY        float64 `json:"GEOMETRY_Y"`
}

// UKCandidate wraps a gazetteer entry for England, Scotland and Wales.
type UKCandidate struct {
	Entry        GazetteerEntry `json:"GAZETTEER_ENTRY"`
	DisplayTitle string         `json:"title,omitempty"`
	Route        string         `json:"routeId,omitempty"`
}

func (c *UKCandidate) Kind() Kind      { return KindUK }
func (c *UKCandidate) Title() string   { return c.DisplayTitle }
func (c *UKCandidate) RouteID() string { return c.Route }

// Coordinates converts the British National Grid position to latitude and
// longitude.
func (c *UKCandidate) Coordinates() (Point, bool) {
	if c.Entry.GeometryX == 0 && c.Entry.GeometryY == 0 {
		return Point{}, false
	}
	return GridToLatLon(c.Entry.GeometryX, c.Entry.GeometryY), true
}

func (c *UKCandidate) names() []string { return []string{c.Entry.Name1, c.Entry.Name2} }

func (c *UKCandidate) areas() []string {
	return []string{c.Entry.DistrictBorough, c.Entry.CountyUnitary}
}

// annotate sets the title "NAME2|NAME1, DISTRICT_BOROUGH|COUNTY_UNITARY".
func (c *UKCandidate) annotate() {
	c.DisplayTitle = joinTitle(
		common.FirstNonEmpty(c.Entry.Name2, c.Entry.Name1),
		common.FirstNonEmpty(c.Entry.DistrictBorough, c.Entry.CountyUnitary),
	)
	c.Route = postcode.ToRouteID(c.DisplayTitle)
}

// NIPlace is a Northern Ireland address lookup result.
type NIPlace struct {
	Postcode           string  `json:"postcode"`
	Town               string  `json:"town,omitempty"`
	AdministrativeArea string  `json:"administrativeArea,omitempty"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
}

// NICandidate wraps a Northern Ireland postcode lookup result.
type NICandidate struct {
	Place        NIPlace `json:"place"`
	DisplayTitle string  `json:"title,omitempty"`
	Route        string  `json:"routeId,omitempty"`
}

func (c *NICandidate) Kind() Kind      { return KindNI }
func (c *NICandidate) Title() string   { return c.DisplayTitle }
func (c *NICandidate) RouteID() string { return c.Route }

func (c *NICandidate) Coordinates() (Point, bool) {
	if c.Place.Latitude == 0 && c.Place.Longitude == 0 {
		return Point{}, false
	}
	return Point{Lat: c.Place.Latitude, Lon: c.Place.Longitude}, true
}

func (c *NICandidate) names() []string { return []string{c.Place.Postcode, c.Place.Town} }
func (c *NICandidate) areas() []string { return []string{c.Place.Town, c.Place.AdministrativeArea} }

// annotate sets the title "POSTCODE, Town|AdministrativeArea".
func (c *NICandidate) annotate() {
	c.DisplayTitle = joinTitle(
		strings.ToUpper(c.Place.Postcode),
		common.FirstNonEmpty(c.Place.Town, c.Place.AdministrativeArea),
	)
	c.Route = postcode.ToRouteID(c.DisplayTitle)
}

func joinTitle(name, area string) string {
	if area == "" || strings.EqualFold(name, area) {
		return name
	}
	return name + ", " + area
}

// Candidates is an ordered candidate list that survives a JSON round trip
// through the session. A nil list encodes as null.
type Candidates []Candidate

type envelope struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (cs Candidates) MarshalJSON() ([]byte, error) {
	if cs == nil {
		return []byte("null"), nil
	}
	out := make([]envelope, 0, len(cs))
	for _, c := range cs {
		data, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		out = append(out, envelope{Type: c.Kind(), Data: data})
	}
	return json.Marshal(out)
}

func (cs *Candidates) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*cs = nil
		return nil
	}
	var raw []envelope
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Candidates, 0, len(raw))
	for _, e := range raw {
		var c Candidate
		switch e.Type {
		case KindUK:
			c = &UKCandidate{}
		case KindNI:
			c = &NICandidate{}
		default:
			return fmt.Errorf("unknown candidate type %q", e.Type)
		}
		if err := json.Unmarshal(e.Data, c); err != nil {
			return err
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

// Find returns the candidate with the given route id.
func (cs Candidates) Find(routeID string) (Candidate, bool) {
	for _, c := range cs {
		if c.RouteID() == routeID {
			return c, true
		}
	}
	return nil, false
}
