// Package upstream wraps the forecast, summary, measurement and gazetteer
// APIs the service depends on.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

var (
	// ErrWrongPostcode is returned without calling the API when the typed
	// location can not be looked up.
	ErrWrongPostcode = errors.New("wrong postcode")
	// ErrUnexpectedStatus wraps any non-2xx upstream response.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	errServerError  = errors.New("server error")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// Options describe one upstream request.
type Options struct {
	Method string
	Header http.Header
	Body   func() io.Reader
}

// Fetcher performs upstream calls behind a circuit breaker and a rate
// limiter. Failed calls are not retried.
type Fetcher struct {
	name    string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Name string
	// RatePerSecond limits outbound calls; zero means unlimited.
	RatePerSecond float64
	Burst         int
}

// NewFetcher creates a Fetcher using client for transport.
func NewFetcher(client *http.Client, cfg FetcherConfig) *Fetcher {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Fetcher{
		name:    cfg.Name,
		client:  client,
		circuit: cb,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Fetch calls url and returns the status code and body. When shouldCallAPI
// is false it returns ErrWrongPostcode without any I/O. A non-2xx response
// returns its status and body together with an error wrapping
// ErrUnexpectedStatus; a transport failure returns status 0.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts Options, shouldCallAPI bool) (int, []byte, error) {
	if !shouldCallAPI {
		return 0, nil, ErrWrongPostcode
	}
	if f.client == nil {
		return 0, nil, errNoHTTPClient
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("%s: rate limit wait canceled: %w", f.name, err)
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	type result struct {
		status int
		body   []byte
	}

	out, err := f.circuit.Execute(func() (interface{}, error) {
		var body io.Reader
		if opts.Body != nil {
			body = opts.Body()
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		for k, values := range opts.Header {
			for _, v := range values {
				req.Header.Add(k, v)
			}
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		// Only server errors count against the breaker.
		if resp.StatusCode >= 500 {
			return result{resp.StatusCode, data}, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		return result{resp.StatusCode, data}, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		log.Printf("ERROR: %s: %v", f.name, err)
		return 0, nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
	}

	res, _ := out.(result)
	if err != nil && res.status == 0 {
		log.Printf("ERROR: %s: request failed: %v", f.name, err)
		return 0, nil, err
	}
	if res.status < 200 || res.status >= 300 {
		log.Printf("ERROR: %s: upstream returned %d", f.name, res.status)
		return res.status, res.body, fmt.Errorf("%s: %w: %d", f.name, ErrUnexpectedStatus, res.status)
	}
	return res.status, res.body, nil
}
