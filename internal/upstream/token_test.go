package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

func TestTokenCacheFallsBackToCachedToken(t *testing.T) {
	fail := false
	cache := NewTokenCacheWithFetcher(func(ctx context.Context) (*oauth2.Token, error) {
		if fail {
			return nil, errors.New("token endpoint down")
		}
		return &oauth2.Token{AccessToken: "first"}, nil
	})

	if tok, err := cache.Refresh(context.Background()); err != nil || tok != "first" {
		t.Fatalf("Refresh() = %q, %v", tok, err)
	}

	fail = true
	tok, err := cache.Refresh(context.Background())
	if err != nil || tok != "first" {
		t.Errorf("Refresh() after failure = %q, %v; want cached token", tok, err)
	}
}

func TestTokenCacheUnavailable(t *testing.T) {
	cache := NewTokenCacheWithFetcher(func(ctx context.Context) (*oauth2.Token, error) {
		return nil, errors.New("boom")
	})
	if _, err := cache.Token(context.Background()); !errors.Is(err, ErrTokenUnavailable) {
		t.Errorf("expected ErrTokenUnavailable, got %v", err)
	}
}

func TestTokenCacheClientCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant: %q", r.PostForm.Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	cache := NewTokenCache(clientcredentials.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     srv.URL,
	}, srv.Client())

	tok, err := cache.Token(context.Background())
	if err != nil || tok != "abc" {
		t.Fatalf("Token() = %q, %v", tok, err)
	}
	// Served from the cache on the second call.
	srv.Close()
	if tok, err := cache.Token(context.Background()); err != nil || tok != "abc" {
		t.Errorf("cached Token() = %q, %v", tok, err)
	}
}
