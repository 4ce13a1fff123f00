package airquality

import (
	"testing"
	"time"

	"github.com/aqie/air-quality-forecast/internal/content"
)

var bundles = content.MustLoad()

func intPtr(v int) *int { return &v }

func TestGetDetailedInfo(t *testing.T) {
	en := bundles.For(content.English)
	cy := bundles.For(content.Welsh)

	tests := []struct {
		name         string
		value        *int
		bundle       *content.Bundle
		wantBand     Band
		wantReadable string
		wantValue    int
	}{
		{name: "low", value: intPtr(1), bundle: en, wantBand: BandLow, wantReadable: "low", wantValue: 1},
		{name: "top of low", value: intPtr(3), bundle: en, wantBand: BandLow, wantReadable: "low", wantValue: 3},
		{name: "moderate", value: intPtr(5), bundle: en, wantBand: BandModerate, wantReadable: "moderate", wantValue: 5},
		{name: "high", value: intPtr(7), bundle: en, wantBand: BandHigh, wantReadable: "high", wantValue: 7},
		{name: "very high", value: intPtr(10), bundle: en, wantBand: BandVeryHigh, wantReadable: "very high", wantValue: 10},
		{name: "welsh very high", value: intPtr(10), bundle: cy, wantBand: BandVeryHigh, wantReadable: "uchel iawn", wantValue: 10},
		{name: "missing value defaults to 4", value: nil, bundle: en, wantBand: BandModerate, wantReadable: "moderate", wantValue: 4},
		{name: "zero", value: intPtr(0), bundle: en, wantBand: BandUnknown, wantReadable: "no data available", wantValue: 0},
		{name: "out of range", value: intPtr(11), bundle: en, wantBand: BandUnknown, wantReadable: "no data available", wantValue: 11},
		{name: "negative", value: intPtr(-1), bundle: cy, wantBand: BandUnknown, wantReadable: "dim data ar gael", wantValue: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetDetailedInfo(tt.value, tt.bundle)
			if got.Band != tt.wantBand {
				t.Errorf("Band = %v, want %v", got.Band, tt.wantBand)
			}
			if got.ReadableBand != tt.wantReadable {
				t.Errorf("ReadableBand = %q, want %q", got.ReadableBand, tt.wantReadable)
			}
			if got.Value != tt.wantValue {
				t.Errorf("Value = %d, want %d", got.Value, tt.wantValue)
			}
		})
	}
}

func TestGetDetailedInfoIsDeterministic(t *testing.T) {
	en := bundles.For(content.English)
	known := map[Band]bool{BandLow: true, BandModerate: true, BandHigh: true, BandVeryHigh: true, BandUnknown: true}

	for v := 0; v <= 10; v++ {
		first := GetDetailedInfo(intPtr(v), en)
		if !known[first.Band] {
			t.Fatalf("value %d mapped to unexpected band %q", v, first.Band)
		}
		for i := 0; i < 3; i++ {
			if again := GetDetailedInfo(intPtr(v), en); again != first {
				t.Fatalf("value %d not deterministic: %+v vs %+v", v, again, first)
			}
		}
	}
}

func TestGetForecastWarning(t *testing.T) {
	en := bundles.For(content.English)
	days := []ForecastDay{
		{Day: "Mon", Value: intPtr(2)},
		{Day: "Tue", Value: intPtr(8)},
		{Day: "Wed", Value: intPtr(10)},
		{Day: "Thu", Value: intPtr(1)},
		{Day: "Fri", Value: intPtr(1)},
	}

	warning := GetForecastWarning(BuildForecast(days, en), en)
	if warning == nil {
		t.Fatal("expected a warning")
	}
	if warning.Day != "day2" {
		t.Errorf("warning day = %q, want day2", warning.Day)
	}
	if warning.Text != "Air pollution is forecast to be high on Tuesday" {
		t.Errorf("warning text = %q", warning.Text)
	}

	cy := bundles.For(content.Welsh)
	warning = GetForecastWarning(BuildForecast(days, cy), cy)
	if warning == nil || warning.Text != "Rhagwelir y bydd llygredd aer yn uchel ar Dydd Mawrth" {
		t.Errorf("welsh warning = %+v", warning)
	}
}

func TestGetForecastWarningNone(t *testing.T) {
	en := bundles.For(content.English)
	days := []ForecastDay{{Day: "Mon", Value: intPtr(1)}, {Day: "Tue", Value: intPtr(6)}}

	if w := GetForecastWarning(BuildForecast(days, en), en); w != nil {
		t.Errorf("expected no warning, got %+v", w)
	}
}

func TestBuildForecastPadsMissingDays(t *testing.T) {
	en := bundles.For(content.English)
	f := BuildForecast([]ForecastDay{{Day: "Mon", Value: intPtr(2)}}, en)

	if f.Today.Band != BandLow || f.Today.Weekday != "Monday" {
		t.Errorf("today = %+v", f.Today)
	}
	if f.Day5.Band != BandModerate {
		t.Errorf("missing day should default to level %d, got %+v", DefaultLevel, f.Day5)
	}
}

func TestPollutantBand(t *testing.T) {
	tests := []struct {
		pollutant string
		value     float64
		want      Band
	}{
		{"NO2", 12, BandLow},
		{"NO2", 401, BandHigh},
		{"PM2.5", 36, BandModerate},
		{"pm10", 101, BandVeryHigh},
		{"O3", 100, BandLow},
		{"CO", 1, BandUnknown},
		{"SO2", -1, BandUnknown},
	}
	for _, tt := range tests {
		if got := PollutantBand(tt.pollutant, tt.value); got != tt.want {
			t.Errorf("PollutantBand(%s, %v) = %v, want %v", tt.pollutant, tt.value, got, tt.want)
		}
	}
}

func TestSummaryTiming(t *testing.T) {
	now := time.Date(2026, time.October, 18, 14, 0, 0, 0, time.UTC)

	show, issue := SummaryTiming(&DailySummary{IssueDate: "2026-10-18 04:38:00"}, now)
	if !show || issue != "5am" {
		t.Errorf("same day summary: show=%v issue=%q", show, issue)
	}

	show, issue = SummaryTiming(&DailySummary{IssueDate: "2026-10-17 16:00:00"}, now)
	if show || issue != "5pm" {
		t.Errorf("old summary: show=%v issue=%q", show, issue)
	}

	if show, issue = SummaryTiming(nil, now); show || issue != "" {
		t.Errorf("nil summary: show=%v issue=%q", show, issue)
	}
}
