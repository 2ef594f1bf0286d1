// Package refstore correlates short opaque tokens with pending resolvable
// targets behind inline-keyboard buttons.
package refstore

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"tunegrab/internal/core"
)

const tokenLength = 8

// Store is a bounded, TTL-evicting pending-reference map. Entries are
// consumed on first resolution so a token never resolves twice.
type Store struct {
	mutex sync.Mutex
	cache *expirable.LRU[string, core.Target]
}

// New creates a store holding at most capacity live references, each
// expiring after ttl.
func New(capacity int, ttl time.Duration) *Store {
	return &Store{
		cache: expirable.NewLRU[string, core.Target](capacity, nil, ttl),
	}
}

// Put mints a fresh token for the target and returns it. Tokens are never
// reused while still live.
func (s *Store) Put(target core.Target) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for {
		token := uuid.NewString()[:tokenLength]
		if _, exists := s.cache.Get(token); exists {
			continue
		}
		s.cache.Add(token, target)
		return token
	}
}

// Resolve returns the target bound to the token and consumes the entry.
// A false result means the token was never issued, already consumed or
// expired; callers treat that as a stale selection, not an error.
func (s *Store) Resolve(token string) (core.Target, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	target, exists := s.cache.Get(token)
	if !exists {
		return core.Target{}, false
	}
	s.cache.Remove(token)
	return target, true
}

// Len returns the number of live references.
func (s *Store) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.cache.Len()
}
