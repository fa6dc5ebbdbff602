package session

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// DefaultTTL is how long an idle session is kept
	DefaultTTL = 1 * time.Hour

	// DefaultCleanupInterval is how often expired sessions are purged
	DefaultCleanupInterval = 10 * time.Minute
)

// Store keeps live sessions in memory. A session ends when it expires or is
// deleted; nothing survives a restart.
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore creates a store whose sessions expire after ttl of inactivity
func NewStore(ttl, cleanupInterval time.Duration) *Store {
	return &Store{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Save adds or replaces a session
func (s *Store) Save(sess *Session) {
	s.cache.Set(sess.ID, sess, cache.DefaultExpiration)
}

// Get returns the session and refreshes its expiry
func (s *Store) Get(id string) (*Session, bool) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	sess := x.(*Session)
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess, true
}

// OnEvicted registers f to run with the session ID whenever a session leaves
// the store, whether deleted or purged after expiry
func (s *Store) OnEvicted(f func(id string)) {
	s.cache.OnEvicted(func(id string, _ interface{}) {
		f(id)
	})
}

// Delete ends a session
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Count returns the number of live sessions, expired ones included until the
// next cleanup
func (s *Store) Count() int {
	return s.cache.ItemCount()
}
