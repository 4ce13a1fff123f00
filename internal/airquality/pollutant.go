package airquality

import "strings"

// Upper bounds of the low, moderate and high bands per pollutant, in µg/m³.
// Anything above the high bound is very high.
type thresholds struct {
	low, moderate, high float64
}

var pollutantThresholds = map[string]thresholds{
	"NO2":  {low: 200, moderate: 400, high: 600},
	"O3":   {low: 100, moderate: 160, high: 240},
	"SO2":  {low: 266, moderate: 532, high: 1064},
	"PM25": {low: 35, moderate: 53, high: 70},
	"PM10": {low: 50, moderate: 75, high: 100},
}

// PollutantBand returns the DAQI band of a pollutant concentration.
func PollutantBand(pollutant string, value float64) Band {
	code := strings.ToUpper(strings.ReplaceAll(pollutant, ".", ""))
	t, ok := pollutantThresholds[code]
	if !ok || value < 0 {
		return BandUnknown
	}
	switch {
	case value <= t.low:
		return BandLow
	case value <= t.moderate:
		return BandModerate
	case value <= t.high:
		return BandHigh
	default:
		return BandVeryHigh
	}
}
