// Package view builds the per-page models handed to the template layer.
// Models are rebuilt on every request and never stored.
package view

import (
	"sort"
	"strconv"
	"time"

	"github.com/aqie/air-quality-forecast/internal/airquality"
	"github.com/aqie/air-quality-forecast/internal/content"
	"github.com/aqie/air-quality-forecast/internal/location"
	"github.com/aqie/air-quality-forecast/internal/session"
)

// Template names.
const (
	Home             = "index"
	Search           = "search-location/index"
	NotFound         = "location-not-found/index"
	MultipleMatches  = "locations/multiple-locations"
	Location         = "locations/location"
	Cookies          = "cookies/index"
	PollutantsPrefix = "pollutants/"
)

// Common carries the fields every page needs.
type Common struct {
	Lang            string
	PageTitle       string
	Heading         string
	ServiceName     string
	CurrentPath     string
	QueryString     string
	DisplayBacklink bool
	Content         *content.Bundle
}

// NewCommon fills the shared fields for page. pairs substitute the
// placeholders of the page title and heading.
func NewCommon(bundle *content.Bundle, page, path, query string, backlink bool, pairs ...string) Common {
	return Common{
		Lang:            string(bundle.Lang),
		PageTitle:       bundle.PageTitle(page, pairs...),
		Heading:         bundle.PageHeading(page, pairs...),
		ServiceName:     bundle.ServiceName,
		CurrentPath:     path,
		QueryString:     query,
		DisplayBacklink: backlink,
		Content:         bundle,
	}
}

// Page is a model with no page-specific fields.
type Page struct {
	Common
}

// PollutantPage describes one pollutant information page.
type PollutantPage struct {
	Common
	Slug string
	Name string
}

// FormError is one validation message on the search form.
type FormError struct {
	Field   string
	Message string
}

// SearchPage is the location search form.
type SearchPage struct {
	Common
	FormAction   string
	LocationType string
	UKLocation   string
	NILocation   string
	Errors       []FormError
}

// HasErrors reports whether the form failed validation.
func (p SearchPage) HasErrors() bool { return len(p.Errors) > 0 }

// NotFoundPage is shown when nothing matched the typed location.
type NotFoundPage struct {
	Common
	UserLocation string
	SearchPath   string
}

// Match links to one of several matching locations.
type Match struct {
	Title string
	Href  string
}

// MultipleMatchesPage lets the user pick between matching locations.
type MultipleMatchesPage struct {
	Common
	UserLocation string
	SearchPath   string
	Matches      []Match
}

// NewMultipleMatchesPage links every match under locationPath.
func NewMultipleMatchesPage(common Common, userLocation, searchPath, locationPath string, matches []location.Candidate) MultipleMatchesPage {
	page := MultipleMatchesPage{Common: common, UserLocation: userLocation, SearchPath: searchPath}
	for _, m := range matches {
		page.Matches = append(page.Matches, Match{Title: m.Title(), Href: locationPath + "/" + m.RouteID()})
	}
	return page
}

// PollutantView is one reading shown for a monitoring site.
type PollutantView struct {
	Code         string
	Slug         string
	Name         string
	Value        string
	Time         string
	Band         airquality.Band
	ReadableBand string
}

// SiteView is a nearby monitoring site.
type SiteView struct {
	Name       string
	AreaType   string
	DistanceKm float64
	Pollutants []PollutantView
}

// LocationPage is the air-quality page for a resolved location.
type LocationPage struct {
	Common
	Title           string
	RouteID         string
	LocationType    location.Type
	Forecast        airquality.Forecast
	Warning         *airquality.Warning
	Summary         *airquality.DailySummary
	ShowSummaryDate bool
	IssueTime       string
	SummaryDate     string
	Sites           []SiteView
	SearchPath      string
}

// pollutantSlugs maps measurement codes to the pollutant page slugs.
var pollutantSlugs = map[string]string{
	"NO2":  "nitrogen-dioxide",
	"O3":   "ozone",
	"SO2":  "sulphur-dioxide",
	"PM10": "particulate-matter-10",
	"PM25": "particulate-matter-25",
}

// PollutantSlug returns the information page slug for a pollutant code.
func PollutantSlug(code string) string {
	return pollutantSlugs[code]
}

// NewLocationPage assembles the location page from session data that has
// already been reduced to the nearest forecast and sites.
func NewLocationPage(common Common, bundle *content.Bundle, data *session.LocationData, c location.Candidate, searchPath string) LocationPage {
	page := LocationPage{
		Common:          common,
		Title:           c.Title(),
		RouteID:         c.RouteID(),
		LocationType:    data.LocationType,
		Summary:         data.DailySummary,
		ShowSummaryDate: data.ShowSummaryDate,
		IssueTime:       data.IssueTime,
		SummaryDate:     data.EnglishDate,
		SearchPath:      searchPath,
	}
	if bundle.Lang == content.Welsh {
		page.SummaryDate = data.WelshDate
	}

	var days []airquality.ForecastDay
	if data.NearestForecast != nil {
		days = data.NearestForecast.Forecast
	}
	page.Forecast = airquality.BuildForecast(days, bundle)
	page.Warning = airquality.GetForecastWarning(page.Forecast, bundle)

	for _, site := range data.GetMeasurements {
		page.Sites = append(page.Sites, newSiteView(site, bundle))
	}
	return page
}

func newSiteView(site airquality.MonitoringSite, bundle *content.Bundle) SiteView {
	v := SiteView{Name: site.Name, AreaType: site.AreaType, DistanceKm: site.DistanceKm}

	codes := make([]string, 0, len(site.Pollutants))
	for code := range site.Pollutants {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		r := site.Pollutants[code]
		slug := PollutantSlug(code)
		p := PollutantView{
			Code:         code,
			Slug:         slug,
			Name:         bundle.Pollutants[slug],
			Time:         r.Time,
			Band:         r.Band,
			ReadableBand: bundle.Band(string(r.Band)).Readable,
		}
		if p.Name == "" {
			p.Name = code
		}
		if r.Value != nil {
			p.Value = strconv.FormatFloat(*r.Value, 'f', -1, 64)
		}
		v.Pollutants = append(v.Pollutants, p)
	}
	return v
}

// Dates returns the English and Welsh renderings of now's date.
func Dates(bundles content.Bundles, now time.Time) (english, welsh string) {
	return bundles.For(content.English).FormatDate(now), bundles.For(content.Welsh).FormatDate(now)
}
