package airquality

import "github.com/aqie/air-quality-forecast/internal/content"

// DayKeys names the five forecast days in chronological order.
var DayKeys = []string{"today", "day2", "day3", "day4", "day5"}

// DayIndex returns the position of a day key, or -1.
func DayIndex(key string) int {
	for i, k := range DayKeys {
		if k == key {
			return i
		}
	}
	return -1
}

// Forecast is the five day air-quality outlook for one location.
type Forecast struct {
	Today DetailedInfo `json:"today"`
	Day2  DetailedInfo `json:"day2"`
	Day3  DetailedInfo `json:"day3"`
	Day4  DetailedInfo `json:"day4"`
	Day5  DetailedInfo `json:"day5"`
}

// Days returns the days in DayKeys order.
func (f *Forecast) Days() []*DetailedInfo {
	return []*DetailedInfo{&f.Today, &f.Day2, &f.Day3, &f.Day4, &f.Day5}
}

// List returns a copy of the days in DayKeys order.
func (f Forecast) List() []DetailedInfo {
	return []DetailedInfo{f.Today, f.Day2, f.Day3, f.Day4, f.Day5}
}

// BuildForecast turns the upstream days of a forecast point into a
// localized Forecast. Missing days fall back to DefaultLevel.
func BuildForecast(days []ForecastDay, bundle *content.Bundle) Forecast {
	var f Forecast
	for i, slot := range f.Days() {
		var day ForecastDay
		if i < len(days) {
			day = days[i]
		}
		*slot = GetDetailedInfo(day.Value, bundle)
		slot.Weekday = bundle.Weekday(day.Day)
	}
	return f
}

// Warning is the banner shown when a high band is forecast.
type Warning struct {
	Day  string `json:"day"`
	Text string `json:"text"`
}

// GetForecastWarning returns a warning for the first day, today through
// day5, whose band is high or very high. It returns nil when none is.
func GetForecastWarning(f Forecast, bundle *content.Bundle) *Warning {
	for i, day := range f.Days() {
		if !day.Band.IsWarning() {
			continue
		}
		return &Warning{
			Day:  DayKeys[i],
			Text: bundle.Warning(day.ReadableBand, day.Weekday),
		}
	}
	return nil
}
