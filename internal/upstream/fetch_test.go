package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFetchSkipsCallWhenGuardFails(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), FetcherConfig{Name: "test"})
	status, body, err := f.Fetch(context.Background(), srv.URL, Options{}, false)
	if !errors.Is(err, ErrWrongPostcode) {
		t.Fatalf("expected ErrWrongPostcode, got %v", err)
	}
	if status != 0 || body != nil {
		t.Errorf("expected empty result, got %d %q", status, body)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("upstream was called %d times", calls)
	}
}

func TestFetchReturnsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("header not forwarded")
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), FetcherConfig{Name: "test"})
	opts := Options{Header: http.Header{"X-Test": []string{"yes"}}}
	status, body, err := f.Fetch(context.Background(), srv.URL, opts, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusOK || string(body) != `{"ok":true}` {
		t.Errorf("got %d %q", status, body)
	}
}

func TestFetchNon2xx(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			_, _ = w.Write([]byte("nope"))
		}))

		f := NewFetcher(srv.Client(), FetcherConfig{Name: "test"})
		status, body, err := f.Fetch(context.Background(), srv.URL, Options{}, true)
		srv.Close()

		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("%d: expected ErrUnexpectedStatus, got %v", code, err)
		}
		if status != code || string(body) != "nope" {
			t.Errorf("%d: got %d %q", code, status, body)
		}
	}
}

func TestFetchNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewFetcher(http.DefaultClient, FetcherConfig{Name: "test"})
	status, _, err := f.Fetch(context.Background(), url, Options{}, true)
	if err == nil {
		t.Fatal("expected an error for a closed server")
	}
	if status != 0 {
		t.Errorf("expected status 0, got %d", status)
	}
}

func TestFetchDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), FetcherConfig{Name: "test"})
	_, _, _ = f.Fetch(context.Background(), srv.URL, Options{}, true)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly one call, got %d", got)
	}
}
