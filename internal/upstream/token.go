package upstream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrTokenUnavailable is returned when no NI access token could be
// obtained and none was cached.
var ErrTokenUnavailable = errors.New("ni access token unavailable")

// TokenCache holds the process-wide NI Places access token. Refresh is
// called on a fixed interval; when a refresh fails the previous token keeps
// being served.
type TokenCache struct {
	mu      sync.RWMutex
	current string
	fetch   func(ctx context.Context) (*oauth2.Token, error)
}

// NewTokenCache creates a cache that obtains tokens with the client
// credentials grant.
func NewTokenCache(cfg clientcredentials.Config, client *http.Client) *TokenCache {
	return NewTokenCacheWithFetcher(func(ctx context.Context) (*oauth2.Token, error) {
		if client != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
		}
		return cfg.Token(ctx)
	})
}

// NewTokenCacheWithFetcher creates a cache with a custom token source.
func NewTokenCacheWithFetcher(fetch func(ctx context.Context) (*oauth2.Token, error)) *TokenCache {
	return &TokenCache{fetch: fetch}
}

// Refresh obtains a new token. On failure it falls back to the cached one.
func (c *TokenCache) Refresh(ctx context.Context) (string, error) {
	tok, err := c.fetch(ctx)
	if err == nil && tok != nil && tok.AccessToken != "" {
		c.mu.Lock()
		c.current = tok.AccessToken
		c.mu.Unlock()
		log.Printf("INFO: ni token refreshed")
		return tok.AccessToken, nil
	}
	if err == nil {
		err = errors.New("empty access token")
	}

	c.mu.RLock()
	cached := c.current
	c.mu.RUnlock()
	if cached != "" {
		log.Printf("WARN: ni token refresh failed, using cached token: %v", err)
		return cached, nil
	}
	log.Printf("ERROR: ni token refresh failed: %v", err)
	return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
}

// Token returns the cached token, fetching one when the cache is empty.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	cached := c.current
	c.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}
	return c.Refresh(ctx)
}
