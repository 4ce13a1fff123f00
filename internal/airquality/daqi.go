package airquality

import "github.com/aqie/air-quality-forecast/internal/content"

// Band is a DAQI band.
type Band string

const (
	BandLow      Band = "low"
	BandModerate Band = "moderate"
	BandHigh     Band = "high"
	BandVeryHigh Band = "veryHigh"
	BandUnknown  Band = "unknown"
)

// DefaultLevel is used when a forecast day carries no value.
const DefaultLevel = 4

var daqiBands = map[int]Band{
	1:  BandLow,
	2:  BandLow,
	3:  BandLow,
	4:  BandModerate,
	5:  BandModerate,
	6:  BandModerate,
	7:  BandHigh,
	8:  BandHigh,
	9:  BandHigh,
	10: BandVeryHigh,
}

// BandFor maps a DAQI value to its band; unmapped values are BandUnknown.
func BandFor(value int) Band {
	if band, ok := daqiBands[value]; ok {
		return band
	}
	return BandUnknown
}

// ParseBand accepts both the internal band names and the hyphenated form
// used in query strings ("very-high").
func ParseBand(s string) (Band, bool) {
	switch s {
	case "low":
		return BandLow, true
	case "moderate":
		return BandModerate, true
	case "high":
		return BandHigh, true
	case "very-high", "veryHigh":
		return BandVeryHigh, true
	}
	return "", false
}

// IsWarning reports whether the band should trigger a forecast warning.
func (b Band) IsWarning() bool {
	return b == BandHigh || b == BandVeryHigh
}

// DetailedInfo is a forecast day ready for display.
type DetailedInfo struct {
	Value        int    `json:"value"`
	Band         Band   `json:"band"`
	ReadableBand string `json:"readableBand"`
	Advice       string `json:"advice"`
	Outlook      string `json:"outlook"`
	Weekday      string `json:"weekday,omitempty"`
}

// GetDetailedInfo looks value up in the DAQI table and attaches the
// language specific text. A nil value means DefaultLevel.
func GetDetailedInfo(value *int, bundle *content.Bundle) DetailedInfo {
	level := DefaultLevel
	if value != nil {
		level = *value
	}
	band := BandFor(level)
	text := bundle.Band(string(band))
	return DetailedInfo{
		Value:        level,
		Band:         band,
		ReadableBand: text.Readable,
		Advice:       text.Advice,
		Outlook:      text.Outlook,
	}
}
