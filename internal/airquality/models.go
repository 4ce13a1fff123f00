// Package airquality models the upstream forecast, summary and measurement
// payloads and maps DAQI values onto bands.
package airquality

// GeoPoint is a GeoJSON-like point. Upstream APIs order coordinates as
// [latitude, longitude].
type GeoPoint struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}

// LatLon returns the point's latitude and longitude, false when the point
// does not carry two coordinates.
func (p GeoPoint) LatLon() (lat, lon float64, ok bool) {
	if len(p.Coordinates) < 2 {
		return 0, 0, false
	}
	return p.Coordinates[0], p.Coordinates[1], true
}

// ForecastDay is one day of a forecast. Value is nil when the upstream
// feed did not provide an index.
type ForecastDay struct {
	Day   string `json:"day"`
	Value *int   `json:"value"`
}

// ForecastLocation is a forecast point with its five day outlook.
type ForecastLocation struct {
	Name     string        `json:"name"`
	Location GeoPoint      `json:"location"`
	Forecast []ForecastDay `json:"forecast"`
}

// DailySummary is the national forecast text issued each morning.
type DailySummary struct {
	IssueDate string `json:"issue_date"`
	Today     string `json:"today"`
	Tomorrow  string `json:"tomorrow"`
	Outlook   string `json:"outlook"`
}

// PollutantReading is the latest measurement of one pollutant at a site.
type PollutantReading struct {
	Value     *float64 `json:"value"`
	Time      string   `json:"time,omitempty"`
	Exception string   `json:"exception,omitempty"`
	Band      Band     `json:"band,omitempty"`
}

// MonitoringSite is a measurement station and its readings keyed by
// pollutant code (NO2, O3, SO2, PM25, PM10).
type MonitoringSite struct {
	Name       string                      `json:"name"`
	Area       string                      `json:"area,omitempty"`
	AreaType   string                      `json:"areaType,omitempty"`
	Location   GeoPoint                    `json:"location"`
	Pollutants map[string]PollutantReading `json:"pollutants"`
	DistanceKm float64                     `json:"distanceKm,omitempty"`
}

// WithBands returns a copy of the site with each reading's band derived
// from its value.
func (s MonitoringSite) WithBands() MonitoringSite {
	readings := make(map[string]PollutantReading, len(s.Pollutants))
	for code, r := range s.Pollutants {
		if r.Band == "" {
			if r.Value != nil {
				r.Band = PollutantBand(code, *r.Value)
			} else {
				r.Band = BandUnknown
			}
		}
		readings[code] = r
	}
	s.Pollutants = readings
	return s
}
