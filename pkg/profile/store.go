package profile

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dotsetgreg/leadpilot/pkg/logger"
)

// Store holds one ClientProfile per session key. Entries are evicted by
// idle TTL or when the session cap is reached (least recently updated
// first). Update serializes read-modify-write per session key so two
// concurrent turns on the same session cannot drop each other's writes.
type Store struct {
	cache *expirable.LRU[string, *ClientProfile]
	ttl   time.Duration

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

type StoreOptions struct {
	MaxSessions int           // cap on live sessions, <=0 means 10000
	TTL         time.Duration // idle expiry, <=0 means 4h
}

func NewStore(opts StoreOptions) *Store {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 10000
	}
	if opts.TTL <= 0 {
		opts.TTL = 4 * time.Hour
	}

	s := &Store{
		ttl:   opts.TTL,
		locks: make(map[string]*sync.Mutex),
	}
	s.cache = expirable.NewLRU[string, *ClientProfile](opts.MaxSessions, s.onEvict, opts.TTL)
	return s
}

func (s *Store) onEvict(sessionID string, _ *ClientProfile) {
	s.locksMu.Lock()
	delete(s.locks, sessionID)
	s.locksMu.Unlock()
	logger.DebugCF("profile", "Session evicted", map[string]interface{}{"session_id": sessionID})
}

func (s *Store) keyLock(sessionID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// Get returns a snapshot of the profile for sessionID, creating the
// default profile if the session has never been seen.
func (s *Store) Get(sessionID string) *ClientProfile {
	l := s.keyLock(sessionID)
	l.Lock()
	defer l.Unlock()

	if p, ok := s.cache.Get(sessionID); ok {
		return p.Clone()
	}
	p := NewClientProfile(sessionID)
	s.cache.Add(sessionID, p)
	return p.Clone()
}

// Upsert replaces the stored profile for sessionID.
func (s *Store) Upsert(sessionID string, p *ClientProfile) {
	l := s.keyLock(sessionID)
	l.Lock()
	defer l.Unlock()
	s.cache.Add(sessionID, p.Clone())
}

// Update runs fn on the live profile under the session's key lock and
// re-stores the result, refreshing the idle TTL. fn sees a consistent
// snapshot and its write is visible to the next Get for the same key.
func (s *Store) Update(sessionID string, fn func(*ClientProfile) error) (*ClientProfile, error) {
	l := s.keyLock(sessionID)
	l.Lock()
	defer l.Unlock()

	p, ok := s.cache.Get(sessionID)
	if !ok {
		p = NewClientProfile(sessionID)
	} else {
		p = p.Clone()
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	s.cache.Add(sessionID, p)
	return p.Clone(), nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}

// PurgeIdle removes sessions whose last mutation is older than the idle
// TTL. The LRU's background reaper handles most of this; the sweep
// covers entries re-added with stale LastUpdated values and reports a
// count for operational logging.
func (s *Store) PurgeIdle() int {
	cutoff := time.Now().Add(-s.ttl)
	purged := 0
	for _, key := range s.cache.Keys() {
		p, ok := s.cache.Peek(key)
		if !ok {
			continue
		}
		if p.LastUpdated.Before(cutoff) {
			l := s.keyLock(key)
			l.Lock()
			if cur, ok := s.cache.Peek(key); ok && cur.LastUpdated.Before(cutoff) {
				s.cache.Remove(key)
				purged++
			}
			l.Unlock()
		}
	}
	return purged
}
