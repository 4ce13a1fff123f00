package session

import (
	"log"
	"net/url"

	"github.com/aqie/air-quality-forecast/internal/airquality"
	"github.com/aqie/air-quality-forecast/internal/content"
)

// searchKeys are cleared when a new search starts.
var searchKeys = []string{
	KeyLocationData,
	KeyLocationType,
	KeyLocationNameOrPostcode,
	KeySearchTermsSaved,
	KeySearchStatus,
}

// MockKeys are the test affordance keys carried across redirects.
var MockKeys = []string{KeyMockLevel, KeyMockDay, KeyMockPollutantBand, KeyTestMode}

// Manager applies the session transitions of the search flow.
type Manager struct {
	bundles content.Bundles
}

// NewManager creates a Manager serving the given content bundles.
func NewManager(bundles content.Bundles) *Manager {
	return &Manager{bundles: bundles}
}

// Initialize forgets the previous search and returns the static content
// for lang.
func (m *Manager) Initialize(store Store, lang content.Lang) *content.Bundle {
	for _, key := range searchKeys {
		store.Delete(key)
	}
	return m.bundles.For(lang)
}

// Optimize swaps the full forecast and measurement lists for the subset
// nearest the chosen location and saves the result, keeping the session
// small.
func (m *Manager) Optimize(store Store, data *LocationData, nearest *airquality.ForecastLocation, nearestRange []airquality.MonitoringSite) error {
	data.NearestForecast = nearest
	data.GetForecasts = []airquality.ForecastLocation{}
	if nearest != nil {
		data.GetForecasts = []airquality.ForecastLocation{*nearest}
	}
	data.GetMeasurements = nearestRange
	if data.GetMeasurements == nil {
		data.GetMeasurements = []airquality.MonitoringSite{}
	}
	data.Optimized = true
	return SaveLocationData(store, data)
}

// ValidateAndRedirect checks that data can render a location page. When it
// can not, the stored location data is removed and the search page URL is
// returned, carrying the saved search terms and any mock parameters from
// query.
func ValidateAndRedirect(store Store, data *LocationData, searchPath string, query url.Values) (string, bool) {
	if data.Valid() {
		return "", true
	}
	log.Printf("INFO: session: location data missing or incomplete, redirecting to %s", searchPath)
	store.Delete(KeyLocationData)

	carry := url.Values{}
	if lang := query.Get("lang"); lang != "" {
		carry.Set("lang", lang)
	}
	if search, err := LoadSavedSearch(store); err == nil && search != nil {
		carry.Set("searchTerms", search.SearchTerms)
		if search.SecondSearchTerm != "" {
			carry.Set("secondSearchTerm", search.SecondSearchTerm)
		}
		if search.LocationType != "" {
			carry.Set("searchTermsLocationType", string(search.LocationType))
		}
	}
	for _, key := range MockKeys {
		if v := query.Get(key); v != "" {
			carry.Set(key, v)
		}
	}

	if len(carry) == 0 {
		return searchPath, false
	}
	return searchPath + "?" + carry.Encode(), false
}
