// Package store keeps rendered images in memory for a bounded time so they
// can be fetched by id after the render request returns.
package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultTTL             = 10 * time.Minute
	DefaultCleanupInterval = time.Minute
)

// Entry is a stored image.
type Entry struct {
	Data        []byte
	ContentType string
	ExpiresAt   time.Time
}

// Store is a TTL cache of rendered images keyed by opaque ids. Expired
// entries are removed by a background sweep every cleanup interval.
type Store struct {
	ttl   time.Duration
	items *cache.Cache
}

// New creates a Store. Non-positive durations use the defaults.
func New(ttl, cleanupInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &Store{ttl: ttl, items: cache.New(ttl, cleanupInterval)}
}

// Put stores data under a fresh id and returns the entry as stored.
func (s *Store) Put(data []byte, contentType string) (string, Entry) {
	id := uuid.NewString()
	e := Entry{Data: data, ContentType: contentType, ExpiresAt: time.Now().Add(s.ttl)}
	s.items.Set(id, e, s.ttl)
	return id, e
}

// Get returns the entry for id if it exists and has not expired.
func (s *Store) Get(id string) (Entry, bool) {
	v, ok := s.items.Get(id)
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

// Len counts stored entries, including expired ones not yet swept.
func (s *Store) Len() int {
	return s.items.ItemCount()
}

// Flush drops every entry.
func (s *Store) Flush() {
	s.items.Flush()
}

// TTL is the lifetime of a stored entry.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
