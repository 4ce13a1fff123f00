// Package mock implements the demo and test overrides driven by the
// mockLevel, mockDay, mockPollutantBand and testMode query parameters. It is
// only wired in when mocks are enabled in configuration.
package mock

import (
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aqie/air-quality-forecast/internal/airquality"
	"github.com/aqie/air-quality-forecast/internal/session"
)

// Clear removes a stored override.
const Clear = "clear"

// Test modes.
const (
	NoDailySummary = "noDailySummary"
	OldDate        = "oldDate"
	TodayDate      = "todayDate"
	NoDataOldDate  = "noDataOldDate"
)

var validate = validator.New()

// levelRule bounds a mock DAQI value, checked once the value parses as an
// integer.
const levelRule = "min=0,max=10"

var rules = map[string]string{
	session.KeyMockDay:           "oneof=today day2 day3 day4 day5",
	session.KeyMockPollutantBand: "oneof=low moderate high very-high",
	session.KeyTestMode:          "oneof=noDailySummary oldDate todayDate noDataOldDate",
}

func valid(key, value string) bool {
	if key == session.KeyMockLevel {
		n, err := strconv.Atoi(value)
		return err == nil && validate.Var(n, levelRule) == nil
	}
	return validate.Var(value, rules[key]) == nil
}

// PersistParams copies mock parameters from query into the session. "clear"
// stores nil. When enabled is false the parameters are logged and ignored.
func PersistParams(store session.Store, query url.Values, enabled bool) {
	for _, key := range session.MockKeys {
		value := query.Get(key)
		if value == "" {
			continue
		}
		if !enabled {
			log.Printf("WARN: mock: ignoring %s=%q, mocks are disabled", key, value)
			continue
		}
		if value == Clear {
			store.Set(key, nil)
			continue
		}
		if !valid(key, value) {
			log.Printf("WARN: mock: ignoring invalid %s=%q", key, value)
			continue
		}
		store.Set(key, value)
	}
}

// Overlay rewrites location data with the stored overrides before it is
// rendered.
type Overlay struct{}

// New returns an Overlay.
func New() *Overlay {
	return &Overlay{}
}

// Apply applies every stored override to data and recomputes the summary
// timing fields.
func (o *Overlay) Apply(store session.Store, data *session.LocationData, now time.Time) {
	if level := session.GetString(store, session.KeyMockLevel); level != "" {
		if n, err := strconv.Atoi(level); err == nil {
			data.NearestForecast = ApplyMockLevel(data.NearestForecast, n, session.GetString(store, session.KeyMockDay), now)
		}
	}
	if raw := session.GetString(store, session.KeyMockPollutantBand); raw != "" {
		if band, ok := airquality.ParseBand(raw); ok {
			data.GetMeasurements = ApplyPollutantBand(data.GetMeasurements, band)
		}
	}
	if mode := session.GetString(store, session.KeyTestMode); mode != "" {
		ApplyTestMode(data, mode, now)
	}
	data.ShowSummaryDate, data.IssueTime = airquality.SummaryTiming(data.DailySummary, now)
}

// ApplyMockLevel overwrites the value of one forecast day, or all five when
// day is empty. A nil or short forecast is padded with days starting at now.
func ApplyMockLevel(f *airquality.ForecastLocation, level int, day string, now time.Time) *airquality.ForecastLocation {
	out := airquality.ForecastLocation{Name: "mock"}
	if f != nil {
		out = *f
	}
	days := make([]airquality.ForecastDay, len(airquality.DayKeys))
	for i := range days {
		if i < len(out.Forecast) {
			days[i] = out.Forecast[i]
		} else {
			days[i] = airquality.ForecastDay{Day: now.AddDate(0, 0, i).Weekday().String()[:3]}
		}
	}

	target := airquality.DayIndex(day)
	for i := range days {
		if target >= 0 && i != target {
			continue
		}
		v := level
		days[i].Value = &v
	}
	out.Forecast = days
	return &out
}

// ApplyPollutantBand forces every reading at every site into band.
func ApplyPollutantBand(sites []airquality.MonitoringSite, band airquality.Band) []airquality.MonitoringSite {
	out := make([]airquality.MonitoringSite, len(sites))
	for i, site := range sites {
		readings := make(map[string]airquality.PollutantReading, len(site.Pollutants))
		for code, r := range site.Pollutants {
			r.Band = band
			readings[code] = r
		}
		site.Pollutants = readings
		out[i] = site
	}
	return out
}

// ApplyTestMode simulates the daily summary being missing or stale.
func ApplyTestMode(data *session.LocationData, mode string, now time.Time) {
	yesterday := now.AddDate(0, 0, -1).Format(airquality.SummaryDateLayout)
	switch mode {
	case NoDailySummary:
		data.DailySummary = nil
	case OldDate:
		if data.DailySummary != nil {
			s := *data.DailySummary
			s.IssueDate = yesterday
			data.DailySummary = &s
		}
	case TodayDate:
		if data.DailySummary != nil {
			s := *data.DailySummary
			s.IssueDate = now.Format(airquality.SummaryDateLayout)
			data.DailySummary = &s
		}
	case NoDataOldDate:
		data.DailySummary = &airquality.DailySummary{IssueDate: yesterday}
	default:
		log.Printf("WARN: mock: unknown test mode %q", mode)
	}
}
