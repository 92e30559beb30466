// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Sessions live only as long as the process; there is no persistence of
// games or results.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - The map is guarded by an RWMutex (concurrent reads allowed, writes exclusive).
//   - Each session additionally has its own mutex; Update holds it for the whole
//     callback so operations on one session never interleave.
//   - Sessions untouched for longer than the caller's TTL are dropped by Evict.
//   - Update returns ErrNotFound for unknown or evicted IDs.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/apps/go-server/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Update runs fn with exclusive access to the session.
	// fn's error is returned unchanged.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Evict drops sessions last used before cutoff and returns how many.
	Evict(cutoff time.Time) int

	// Len reports the number of stored sessions.
	Len() int
}

type entry struct {
	mu      sync.Mutex // serializes operations on session
	session *game.Session
	used    atomic.Int64 // unix nanos of the last Save/Update
}

func newEntry(s *game.Session, now time.Time) *entry {
	e := &entry{session: s}
	e.used.Store(now.UnixNano())
	return e
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex      // guards sessions map
	sessions map[string]*entry // keyed by Session.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = newEntry(s, m.now())
	return nil
}

func (m *memory) lookup(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	e.used.Store(m.now().UnixNano())
	return fn(e.session)
}

func (m *memory) Evict(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.used.Load() < cutoff.UnixNano() {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Sweep calls Evict every interval, dropping sessions idle for longer than
// ttl, until ctx is done.
func Sweep(ctx context.Context, st Store, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Evict(now.Add(-ttl)); n > 0 {
				log.Info().Int("evicted", n).Int("remaining", st.Len()).Msg("idle sessions dropped")
			}
		}
	}
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
