// Package session persists claim contexts between page submissions.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/model"
)

// ErrNotFound means the session expired or never existed
var ErrNotFound = errors.New("session not found")

const namespace = "session"

// Store keeps one claim context per session key
type Store struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewStore creates a store over c. Entries live for ttl after their last save.
func NewStore(c cache.Cache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

// NewMemoryStore creates a store backed by process memory
func NewMemoryStore(ttl time.Duration) *Store {
	return NewStore(cache.NewMemoryCache(ttl, ttl/2+time.Second), ttl)
}

// NewKey returns a fresh session key
func NewKey() string {
	return uuid.New().String()
}

// Load returns the claim context saved under key
func (s *Store) Load(key string) (model.ClaimContext, error) {
	data, ok := s.cache.Get(cache.Key(namespace, key))
	if !ok {
		return model.ClaimContext{}, fmt.Errorf("load %s: %w", key, ErrNotFound)
	}

	var cc model.ClaimContext
	if err := json.Unmarshal(data, &cc); err != nil {
		return model.ClaimContext{}, fmt.Errorf("decode session %s: %w", key, err)
	}
	return cc, nil
}

// Save replaces the claim context under key
func (s *Store) Save(key string, cc model.ClaimContext) error {
	if err := cache.SetJSON(s.cache, cache.Key(namespace, key), cc, s.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", key, err)
	}
	return nil
}

// Clear ends the session
func (s *Store) Clear(key string) error {
	return s.cache.Delete(cache.Key(namespace, key))
}
