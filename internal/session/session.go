// Package session keeps the per-user state carried from a location search
// to the location page.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aqie/air-quality-forecast/internal/airquality"
	"github.com/aqie/air-quality-forecast/internal/location"
)

// Session keys. They are not versioned.
const (
	KeyLocationData           = "locationData"
	KeyLocationType           = "locationType"
	KeyLocationNameOrPostcode = "locationNameOrPostcode"
	KeySearchTermsSaved       = "searchTermsSaved"
	KeyMockLevel              = "mockLevel"
	KeyMockDay                = "mockDay"
	KeyMockPollutantBand      = "mockPollutantBand"
	KeyTestMode               = "testMode"
	KeySavedAccessToken       = "savedAccessToken"
	KeySearchStatus           = "searchStatus"
)

// ErrInvalidSession is returned when stored location data can not be used
// to render a location page.
var ErrInvalidSession = errors.New("session has no usable location data")

// Store is the per-user key-value session. Setting a nil value removes the
// key.
type Store interface {
	Get(key string) any
	Set(key string, value any)
	Delete(key string)
}

// LocationData is everything a location page needs, stored as JSON under
// KeyLocationData.
type LocationData struct {
	Results         location.Candidates           `json:"results"`
	GetForecasts    []airquality.ForecastLocation `json:"getForecasts"`
	GetMeasurements []airquality.MonitoringSite   `json:"getMeasurements"`
	DailySummary    *airquality.DailySummary      `json:"dailySummary"`
	EnglishDate     string                        `json:"englishDate"`
	WelshDate       string                        `json:"welshDate"`
	LocationType    location.Type                 `json:"locationType"`
	ShowSummaryDate bool                          `json:"showSummaryDate"`
	IssueTime       string                        `json:"issueTime"`
	UserLocation    string                        `json:"userLocation"`
	SearchTerms     string                        `json:"searchTerms,omitempty"`

	NearestForecast *airquality.ForecastLocation `json:"nearestForecast,omitempty"`
	Optimized       bool                         `json:"optimized,omitempty"`
}

// Valid reports whether the data can render a location page: results must
// be a list and forecasts must be present.
func (d *LocationData) Valid() bool {
	return d != nil && d.Results != nil && d.GetForecasts != nil
}

// SavedSearch is the search that produced the current location data.
type SavedSearch struct {
	SearchTerms      string        `json:"searchTerms"`
	SecondSearchTerm string        `json:"secondSearchTerm,omitempty"`
	LocationType     location.Type `json:"searchTermsLocationType,omitempty"`
}

// GetString returns the string stored under key, or "".
func GetString(store Store, key string) string {
	switch v := store.Get(key).(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

func getJSON(store Store, key string, dst any) (bool, error) {
	raw := GetString(store, key)
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode session key %s: %w", key, err)
	}
	return true, nil
}

func setJSON(store Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session key %s: %w", key, err)
	}
	store.Set(key, string(raw))
	return nil
}

// LoadLocationData returns the stored location data, or nil when none is
// stored.
func LoadLocationData(store Store) (*LocationData, error) {
	var data LocationData
	ok, err := getJSON(store, KeyLocationData, &data)
	if err != nil || !ok {
		return nil, err
	}
	return &data, nil
}

// SaveLocationData stores data under KeyLocationData.
func SaveLocationData(store Store, data *LocationData) error {
	return setJSON(store, KeyLocationData, data)
}

// LoadSavedSearch returns the saved search terms, if any.
func LoadSavedSearch(store Store) (*SavedSearch, error) {
	var s SavedSearch
	ok, err := getJSON(store, KeySearchTermsSaved, &s)
	if err != nil || !ok || s.SearchTerms == "" {
		return nil, err
	}
	return &s, nil
}

// SaveSearch remembers the search terms a location was reached with.
func SaveSearch(store Store, s SavedSearch) error {
	return setJSON(store, KeySearchTermsSaved, s)
}

// Status is the preloader's view of the current search.
type Status struct {
	Status     string `json:"status"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

const (
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusFailed     = "failed"
)

// LoadStatus returns the stored search status; a missing status is
// reported as processing.
func LoadStatus(store Store) Status {
	var s Status
	if ok, err := getJSON(store, KeySearchStatus, &s); err != nil || !ok || s.Status == "" {
		return Status{Status: StatusProcessing}
	}
	return s
}

// SaveStatus records the search status for the preloader.
func SaveStatus(store Store, s Status) {
	if err := setJSON(store, KeySearchStatus, s); err != nil {
		store.Delete(KeySearchStatus)
	}
}
