// Package store holds session data in process memory.
package store

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("session store closed")

type entry struct {
	value   []byte
	expires time.Time // zero means no expiry
}

// MemoryStore is a concurrency-safe in-memory session storage. It satisfies
// fiber.Storage so it can back the session middleware.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session id, value: encoded session
	data map[string]entry

	// maxAge caps the lifetime of entries stored without an expiry.
	maxAge time.Duration
	closed bool
	now    func() time.Time
}

// NewMemoryStore creates a new MemoryStore. If maxAge is <= 0, entries set
// without an expiry live until deleted.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]entry),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Get returns the value for key, or nil when it is missing or expired.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	e, ok := s.data[key]
	if !ok || s.expired(e, s.now()) {
		return nil, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores val under key for exp.
func (s *MemoryStore) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	if exp <= 0 {
		exp = s.maxAge
	}

	e := entry{value: make([]byte, len(val))}
	copy(e.value, val)
	if exp > 0 {
		e.expires = s.now().Add(exp)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.data[key] = e
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Reset removes every session.
func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]entry)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.data = make(map[string]entry)
	return nil
}

// Prune drops expired sessions and returns how many were removed.
func (s *MemoryStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.data {
		if s.expired(e, now) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) expired(e entry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}
