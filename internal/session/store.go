// Package session keeps short-lived per-session conversational memory.
package session

import (
	"sync"
	"time"
)

// DefaultTTL is how long a context survives without an update.
const DefaultTTL = 30 * time.Minute

// Context is one session's conversational carry-over. It is owned by the
// Store; callers receive copies and never share it across sessions.
type Context struct {
	LastCity   string
	LastDays   *int
	LastIntent string

	// LastUpdated is zero until the first update.
	LastUpdated time.Time
}

// Store is a concurrency-safe in-memory session registry. Expiry is checked
// lazily on read; CleanupExpired exists for periodic maintenance off the hot
// path.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Context
	ttl      time.Duration

	now func() time.Time
}

// NewStore creates a Store. A non-positive ttl falls back to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Context),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) expired(c *Context) bool {
	if c.LastUpdated.IsZero() {
		return false
	}
	return s.now().Sub(c.LastUpdated) > s.ttl
}

// Get returns a copy of the session's context, creating it on first use.
// An expired context is cleared in place and returned fresh.
func (s *Store) Get(id string) Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.sessions[id]
	if !ok {
		c = &Context{}
		s.sessions[id] = c
	} else if s.expired(c) {
		*c = Context{}
	}

	copied := *c
	if c.LastDays != nil {
		days := *c.LastDays
		copied.LastDays = &days
	}
	return copied
}

// Update merges the non-empty fields into the session's context and stamps
// the update time. A nil days leaves the previous value in place.
func (s *Store) Update(id string, city string, days *int, intentLabel string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.sessions[id]
	if !ok {
		c = &Context{}
		s.sessions[id] = c
	}

	if city != "" {
		c.LastCity = city
	}
	if days != nil {
		d := *days
		c.LastDays = &d
	}
	if intentLabel != "" {
		c.LastIntent = intentLabel
	}
	c.LastUpdated = s.now()
}

// Clear removes a session entirely.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// CleanupExpired deletes every expired session and returns how many were
// removed.
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, c := range s.sessions {
		if s.expired(c) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
