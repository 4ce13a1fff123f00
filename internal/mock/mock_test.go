package mock

import (
	"net/url"
	"testing"
	"time"

	"github.com/aqie/air-quality-forecast/internal/airquality"
	"github.com/aqie/air-quality-forecast/internal/session"
)

type setCall struct {
	key   string
	value any
}

type recordingStore struct {
	values map[string]any
	sets   []setCall
}

func newRecordingStore() *recordingStore { return &recordingStore{values: map[string]any{}} }

func (s *recordingStore) Get(key string) any { return s.values[key] }
func (s *recordingStore) Set(key string, value any) {
	s.sets = append(s.sets, setCall{key, value})
	if value == nil {
		delete(s.values, key)
		return
	}
	s.values[key] = value
}
func (s *recordingStore) Delete(key string) { delete(s.values, key) }

var now = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

func TestPersistParams(t *testing.T) {
	t.Run("clear stores nil", func(t *testing.T) {
		store := newRecordingStore()
		store.values[session.KeyMockLevel] = "7"

		PersistParams(store, url.Values{"mockLevel": {"clear"}}, true)

		if len(store.sets) != 1 || store.sets[0].key != session.KeyMockLevel || store.sets[0].value != nil {
			t.Fatalf("sets = %+v, want one Set(mockLevel, nil)", store.sets)
		}
		if _, ok := store.values[session.KeyMockLevel]; ok {
			t.Error("mockLevel should be removed")
		}
	})

	t.Run("valid values stored", func(t *testing.T) {
		store := newRecordingStore()
		PersistParams(store, url.Values{
			"mockLevel":         {"10"},
			"mockDay":           {"day3"},
			"mockPollutantBand": {"very-high"},
			"testMode":          {"oldDate"},
		}, true)

		for key, want := range map[string]string{
			session.KeyMockLevel:         "10",
			session.KeyMockDay:           "day3",
			session.KeyMockPollutantBand: "very-high",
			session.KeyTestMode:          "oldDate",
		} {
			if got := store.values[key]; got != want {
				t.Errorf("%s = %v, want %q", key, got, want)
			}
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		store := newRecordingStore()
		PersistParams(store, url.Values{"mockLevel": {"11"}, "mockDay": {"day9"}, "testMode": {"later"}}, true)
		if len(store.sets) != 0 {
			t.Errorf("sets = %+v, want none", store.sets)
		}
	})

	t.Run("disabled ignores everything", func(t *testing.T) {
		store := newRecordingStore()
		PersistParams(store, url.Values{"mockLevel": {"5"}, "testMode": {"oldDate"}}, false)
		if len(store.sets) != 0 {
			t.Errorf("sets = %+v, want none", store.sets)
		}
	})
}

func TestMockLevelRange(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"0", true},
		{"1", true},
		{"5", true},
		{"10", true},
		{"-1", false},
		{"11", false},
		{"2.5", false},
		{"high", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := valid(session.KeyMockLevel, tt.value); got != tt.want {
				t.Errorf("valid(mockLevel, %q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestApplyMockLevel(t *testing.T) {
	two := 2
	base := &airquality.ForecastLocation{Name: "Cardiff", Forecast: []airquality.ForecastDay{
		{Day: "Sun", Value: &two}, {Day: "Mon", Value: &two}, {Day: "Tue", Value: &two},
		{Day: "Wed", Value: &two}, {Day: "Thu", Value: &two},
	}}

	single := ApplyMockLevel(base, 9, "day2", now)
	if *single.Forecast[1].Value != 9 || *single.Forecast[0].Value != 2 || *single.Forecast[2].Value != 2 {
		t.Errorf("single day override wrong: %+v", single.Forecast)
	}
	if *base.Forecast[1].Value != 2 {
		t.Error("original forecast must not be modified")
	}

	all := ApplyMockLevel(base, 10, "", now)
	for i, d := range all.Forecast {
		if *d.Value != 10 {
			t.Errorf("day %d = %d, want 10", i, *d.Value)
		}
	}

	padded := ApplyMockLevel(nil, 3, "", now)
	if len(padded.Forecast) != 5 || padded.Forecast[0].Day != "Sun" || padded.Forecast[1].Day != "Mon" {
		t.Errorf("padded forecast = %+v", padded.Forecast)
	}
}

func TestApplyPollutantBand(t *testing.T) {
	v := 10.0
	sites := []airquality.MonitoringSite{{Name: "A", Pollutants: map[string]airquality.PollutantReading{"NO2": {Value: &v, Band: airquality.BandLow}}}}

	out := ApplyPollutantBand(sites, airquality.BandVeryHigh)
	if out[0].Pollutants["NO2"].Band != airquality.BandVeryHigh {
		t.Errorf("band = %q", out[0].Pollutants["NO2"].Band)
	}
	if sites[0].Pollutants["NO2"].Band != airquality.BandLow {
		t.Error("input sites must not be modified")
	}
}

func TestOverlayApply(t *testing.T) {
	store := newRecordingStore()
	store.values[session.KeyMockLevel] = "8"
	store.values[session.KeyMockDay] = "today"
	store.values[session.KeyTestMode] = TodayDate

	data := &session.LocationData{
		DailySummary: &airquality.DailySummary{IssueDate: "2026-10-10 16:00:00", Today: "Low"},
	}
	New().Apply(store, data, now)

	if data.NearestForecast == nil || *data.NearestForecast.Forecast[0].Value != 8 {
		t.Errorf("mock level not applied: %+v", data.NearestForecast)
	}
	if !data.ShowSummaryDate || data.IssueTime != "5am" {
		t.Errorf("summary timing not recomputed: show=%v issue=%q", data.ShowSummaryDate, data.IssueTime)
	}
}

func TestApplyTestMode(t *testing.T) {
	summary := func() *airquality.DailySummary {
		return &airquality.DailySummary{IssueDate: "2026-10-18 05:00:00", Today: "Low"}
	}

	data := &session.LocationData{DailySummary: summary()}
	ApplyTestMode(data, NoDailySummary, now)
	if data.DailySummary != nil {
		t.Error("noDailySummary should drop the summary")
	}

	data = &session.LocationData{DailySummary: summary()}
	ApplyTestMode(data, OldDate, now)
	if data.DailySummary.IssueDate != "2026-10-17 09:30:00" {
		t.Errorf("oldDate issue date = %q", data.DailySummary.IssueDate)
	}

	data = &session.LocationData{}
	ApplyTestMode(data, NoDataOldDate, now)
	if data.DailySummary == nil || data.DailySummary.Today != "" {
		t.Errorf("noDataOldDate summary = %+v", data.DailySummary)
	}
}
