package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aqie/air-quality-forecast/internal/location"
)

func serve(t *testing.T, handler http.HandlerFunc) (*Fetcher, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFetcher(srv.Client(), FetcherConfig{Name: t.Name()}), srv.URL
}

func TestForecastsClient(t *testing.T) {
	f, url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"forecasts":[{"name":"Cardiff","location":{"type":"Point","coordinates":[51.48,-3.18]},
			"forecast":[{"day":"Mon","value":3},{"day":"Tue","value":null}]}]}`))
	})

	got, err := NewForecastsClient(f, url).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Cardiff" {
		t.Fatalf("unexpected forecasts: %+v", got)
	}
	if got[0].Forecast[0].Value == nil || *got[0].Forecast[0].Value != 3 {
		t.Errorf("day 1 value not decoded: %+v", got[0].Forecast[0])
	}
	if got[0].Forecast[1].Value != nil {
		t.Errorf("null value should stay nil")
	}
}

func TestSummaryClient(t *testing.T) {
	f, url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"issue_date":"2026-10-18 05:00:00","today":"Low","tomorrow":"Low","outlook":"Settled"}`))
	})

	got, err := NewSummaryClient(f, url).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.IssueDate != "2026-10-18 05:00:00" || got.Outlook != "Settled" {
		t.Errorf("unexpected summary: %+v", got)
	}
}

func TestMeasurementsClientRicardo(t *testing.T) {
	f, url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latitude") == "" || r.URL.Query().Get("longitude") == "" {
			t.Errorf("coordinates missing from query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":[{"site_name":"Cardiff Centre","area_type":"Urban Background",
			"latitude":51.48,"longitude":-3.17,
			"pollutants":[{"pollutant_code":"PM2.5","value":12.5,"end_date_time":"2026-10-18T10:00:00Z"}]}]}`))
	})

	c := NewMeasurementsClient(f, "", url, true)
	got, err := c.Fetch(context.Background(), location.Point{Lat: 51.5, Lon: -3.2})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Cardiff Centre" {
		t.Fatalf("unexpected sites: %+v", got)
	}
	reading, ok := got[0].Pollutants["PM25"]
	if !ok || reading.Value == nil || *reading.Value != 12.5 {
		t.Errorf("PM2.5 reading not normalized: %+v", got[0].Pollutants)
	}
	if lat, lon, ok := got[0].Location.LatLon(); !ok || lat != 51.48 || lon != -3.17 {
		t.Errorf("location not normalized: %+v", got[0].Location)
	}
}

func TestMeasurementsClientOld(t *testing.T) {
	f, url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"measurements":[{"name":"Site","location":{"coordinates":[51,-3]},"pollutants":{"NO2":{"value":40}}}]}`))
	})

	got, err := NewMeasurementsClient(f, url, "", false).Fetch(context.Background(), location.Point{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0].Pollutants["NO2"].Value == nil {
		t.Errorf("unexpected sites: %+v", got)
	}
}

func TestOSNamesClientQuery(t *testing.T) {
	f, url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("query") != "Cardiff" || q.Get("key") != "secret" || q.Get("maxresults") == "" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if !strings.Contains(q.Get("fq"), "LOCAL_TYPE:Postcode") {
			t.Errorf("fq filter missing: %q", q.Get("fq"))
		}
		_, _ = w.Write([]byte(`{"results":[{"GAZETTEER_ENTRY":{"ID":"1","NAME1":"Cardiff","COUNTY_UNITARY":"Cardiff",
			"GEOMETRY_X":318000,"GEOMETRY_Y":176000}}]}`))
	})

	got, err := NewOSNamesClient(f, url, "secret").Search(context.Background(), "Cardiff", true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Kind() != location.KindUK {
		t.Fatalf("unexpected candidates: %+v", got)
	}
	if _, ok := got[0].Coordinates(); !ok {
		t.Error("grid reference should convert to coordinates")
	}
}

func TestOSNamesClientEmptyResponse(t *testing.T) {
	f, url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"header":{}}`))
	})

	got, err := NewOSNamesClient(f, url, "k").Search(context.Background(), "Nowhere", true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}

func TestNIPlacesClient(t *testing.T) {
	f, url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("bearer token missing: %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("postcode") != "BT11AA" {
			t.Errorf("unexpected postcode: %q", r.URL.Query().Get("postcode"))
		}
		_, _ = w.Write([]byte(`{"results":[{"postcode":"BT1 1AA","town":"Belfast","latitude":54.6,"longitude":-5.93}]}`))
	})

	c := NewNIPlacesClient(f, url)
	got, err := c.Search(context.Background(), "bt1 1aa", "tok", true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Kind() != location.KindNI {
		t.Fatalf("unexpected candidates: %+v", got)
	}

	if _, err := c.Search(context.Background(), "BT1", "tok", false); !errors.Is(err, ErrWrongPostcode) {
		t.Errorf("expected ErrWrongPostcode for a guarded call, got %v", err)
	}
}

func TestNIPlacesClientNotFound(t *testing.T) {
	f, url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	got, err := NewNIPlacesClient(f, url).Search(context.Background(), "BT1 1AA", "tok", true)
	if err != nil || len(got) != 0 {
		t.Errorf("Search() = %v, %v; want empty, nil", got, err)
	}
}
