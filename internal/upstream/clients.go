package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aqie/air-quality-forecast/internal/airquality"
	"github.com/aqie/air-quality-forecast/internal/location"
)

func decode(name string, body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", name, err)
	}
	return nil
}

// ForecastsClient fetches the five day forecasts for every forecast point.
type ForecastsClient struct {
	fetcher *Fetcher
	url     string
}

func NewForecastsClient(fetcher *Fetcher, url string) *ForecastsClient {
	return &ForecastsClient{fetcher: fetcher, url: url}
}

func (c *ForecastsClient) Fetch(ctx context.Context) ([]airquality.ForecastLocation, error) {
	_, body, err := c.fetcher.Fetch(ctx, c.url, Options{}, true)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Forecasts []airquality.ForecastLocation `json:"forecasts"`
	}
	if err := decode("forecasts", body, &payload); err != nil {
		return nil, err
	}
	if payload.Forecasts == nil {
		payload.Forecasts = []airquality.ForecastLocation{}
	}
	return payload.Forecasts, nil
}

// SummaryClient fetches the national daily forecast summary.
type SummaryClient struct {
	fetcher *Fetcher
	url     string
}

func NewSummaryClient(fetcher *Fetcher, url string) *SummaryClient {
	return &SummaryClient{fetcher: fetcher, url: url}
}

func (c *SummaryClient) Fetch(ctx context.Context) (*airquality.DailySummary, error) {
	_, body, err := c.fetcher.Fetch(ctx, c.url, Options{}, true)
	if err != nil {
		return nil, err
	}
	var summary airquality.DailySummary
	if err := decode("daily summary", body, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// MeasurementsClient fetches monitoring-site measurements from either the
// original measurements API or the newer Ricardo API.
type MeasurementsClient struct {
	fetcher    *Fetcher
	url        string
	ricardoURL string
	useRicardo bool
}

func NewMeasurementsClient(fetcher *Fetcher, url, ricardoURL string, useRicardo bool) *MeasurementsClient {
	return &MeasurementsClient{fetcher: fetcher, url: url, ricardoURL: ricardoURL, useRicardo: useRicardo}
}

// Fetch returns the sites around p. The original API ignores p and returns
// every site.
func (c *MeasurementsClient) Fetch(ctx context.Context, p location.Point) ([]airquality.MonitoringSite, error) {
	if c.useRicardo {
		return c.fetchRicardo(ctx, p)
	}
	_, body, err := c.fetcher.Fetch(ctx, c.url, Options{}, true)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Measurements []airquality.MonitoringSite `json:"measurements"`
	}
	if err := decode("measurements", body, &payload); err != nil {
		return nil, err
	}
	return payload.Measurements, nil
}

type ricardoSite struct {
	SiteName   string  `json:"site_name"`
	AreaType   string  `json:"area_type"`
	Area       string  `json:"local_authority"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Pollutants []struct {
		Code      string   `json:"pollutant_code"`
		Value     *float64 `json:"value"`
		Time      string   `json:"end_date_time"`
		Exception string   `json:"exception,omitempty"`
	} `json:"pollutants"`
}

func (c *MeasurementsClient) fetchRicardo(ctx context.Context, p location.Point) ([]airquality.MonitoringSite, error) {
	u, err := url.Parse(c.ricardoURL)
	if err != nil {
		return nil, fmt.Errorf("ricardo measurements: parse url: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(p.Lat, 'f', 6, 64))
	q.Set("longitude", strconv.FormatFloat(p.Lon, 'f', 6, 64))
	u.RawQuery = q.Encode()

	_, body, err := c.fetcher.Fetch(ctx, u.String(), Options{}, true)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Data []ricardoSite `json:"data"`
	}
	if err := decode("ricardo measurements", body, &payload); err != nil {
		return nil, err
	}

	sites := make([]airquality.MonitoringSite, 0, len(payload.Data))
	for _, s := range payload.Data {
		site := airquality.MonitoringSite{
			Name:       s.SiteName,
			Area:       s.Area,
			AreaType:   s.AreaType,
			Location:   airquality.GeoPoint{Type: "Point", Coordinates: []float64{s.Latitude, s.Longitude}},
			Pollutants: make(map[string]airquality.PollutantReading, len(s.Pollutants)),
		}
		for _, r := range s.Pollutants {
			code := strings.ToUpper(strings.ReplaceAll(r.Code, ".", ""))
			site.Pollutants[code] = airquality.PollutantReading{Value: r.Value, Time: r.Time, Exception: r.Exception}
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// OSNamesClient searches the OS Names gazetteer for England, Scotland and
// Wales.
type OSNamesClient struct {
	fetcher *Fetcher
	url     string
	apiKey  string
}

// localTypes restricts OS Names results to populated places and postcodes.
const localTypes = "LOCAL_TYPE:City LOCAL_TYPE:Town LOCAL_TYPE:Village LOCAL_TYPE:Suburban_Area " +
	"LOCAL_TYPE:Hamlet LOCAL_TYPE:Other_Settlement LOCAL_TYPE:Postcode"

func NewOSNamesClient(fetcher *Fetcher, url, apiKey string) *OSNamesClient {
	return &OSNamesClient{fetcher: fetcher, url: url, apiKey: apiKey}
}

// Search looks query up. shouldCallAPI false short-circuits with
// ErrWrongPostcode.
func (c *OSNamesClient) Search(ctx context.Context, query string, shouldCallAPI bool) ([]location.Candidate, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("os names: parse url: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("key", c.apiKey)
	q.Set("maxresults", "100")
	q.Set("fq", localTypes)
	u.RawQuery = q.Encode()

	status, body, err := c.fetcher.Fetch(ctx, u.String(), Options{}, shouldCallAPI)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || len(body) == 0 {
		return []location.Candidate{}, nil
	}

	var payload struct {
		Results []location.UKCandidate `json:"results"`
	}
	if err := decode("os names", body, &payload); err != nil {
		return nil, err
	}
	out := make([]location.Candidate, 0, len(payload.Results))
	for i := range payload.Results {
		out = append(out, &payload.Results[i])
	}
	return out, nil
}

// NIPlacesClient looks up Northern Ireland postcodes. It needs an OAuth
// bearer token.
type NIPlacesClient struct {
	fetcher *Fetcher
	url     string
}

func NewNIPlacesClient(fetcher *Fetcher, url string) *NIPlacesClient {
	return &NIPlacesClient{fetcher: fetcher, url: url}
}

func (c *NIPlacesClient) Search(ctx context.Context, postcode, token string, shouldCallAPI bool) ([]location.Candidate, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("ni places: parse url: %w", err)
	}
	q := u.Query()
	q.Set("postcode", strings.ToUpper(strings.Join(strings.Fields(postcode), "")))
	u.RawQuery = q.Encode()

	opts := Options{Header: http.Header{}}
	opts.Header.Set("Authorization", "Bearer "+token)
	opts.Header.Set("Accept", "application/json")

	status, body, err := c.fetcher.Fetch(ctx, u.String(), opts, shouldCallAPI)
	if err != nil {
		if status == http.StatusNotFound {
			return []location.Candidate{}, nil
		}
		return nil, err
	}

	var payload struct {
		Results []location.NIPlace `json:"results"`
	}
	if err := decode("ni places", body, &payload); err != nil {
		return nil, err
	}
	out := make([]location.Candidate, 0, len(payload.Results))
	for _, p := range payload.Results {
		out = append(out, &location.NICandidate{Place: p})
	}
	return out, nil
}
