package daily

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/apps/go-server/internal/puzzle"
	"github.com/robalobadob/connections/apps/go-server/internal/source"
)

// Provider answers "what is the puzzle for this date", fetching from the
// upstream source at most once per date and serving later requests from
// the cache. It satisfies source.Source.
type Provider struct {
	upstream source.Source
	name     string // recorded in the cache's source column
	cache    *Cache
	loc      *time.Location
	now      func() time.Time

	mu    sync.Mutex           // guards locks
	locks map[string]*dateLock // in-use per-date locks
}

// dateLock serializes cache fills for one date key.
type dateLock struct {
	mu   sync.Mutex
	refs int
}

// NewProvider wires an upstream source to a cache. Dates are keyed in loc.
func NewProvider(upstream source.Source, name string, cache *Cache, loc *time.Location) *Provider {
	if loc == nil {
		loc = time.UTC
	}
	return &Provider{upstream: upstream, name: name, cache: cache, loc: loc, now: time.Now, locks: map[string]*dateLock{}}
}

// Today returns the date key of the current day.
func (p *Provider) Today() string { return DateKey(p.now(), p.loc) }

// Location returns the zone dates are keyed in.
func (p *Provider) Location() *time.Location { return p.loc }

// Fetch returns the puzzle for date, from cache when possible.
func (p *Provider) Fetch(ctx context.Context, date time.Time) (*puzzle.Puzzle, error) {
	key := DateKey(date, p.loc)
	if pz, err := p.cache.Get(ctx, key); err == nil {
		return pz, nil
	} else if !errors.Is(err, ErrMiss) {
		log.Warn().Err(err).Str("date", key).Msg("puzzle cache read failed")
	}

	unlock := p.lock(key)
	defer unlock()
	// Another request may have filled the cache while we waited.
	if pz, err := p.cache.Get(ctx, key); err == nil {
		return pz, nil
	}

	pz, err := p.upstream.Fetch(ctx, date.In(p.loc))
	if err != nil {
		return nil, err
	}
	if err := p.cache.Put(ctx, key, p.name, pz); err != nil {
		log.Warn().Err(err).Str("date", key).Msg("puzzle cache write failed")
	}
	log.Info().Str("date", key).Int("puzzleId", pz.ID).Str("source", p.name).Msg("puzzle fetched")
	return pz, nil
}

// Seed stores p for date directly, bypassing the upstream source.
func (p *Provider) Seed(ctx context.Context, date string, pz *puzzle.Puzzle) error {
	unlock := p.lock(date)
	defer unlock()
	return p.cache.Put(ctx, date, "upload", pz)
}

// Cached lists recently cached dates.
func (p *Provider) Cached(ctx context.Context, limit int) ([]Entry, error) {
	return p.cache.List(ctx, limit)
}

// lock takes the lock for one date key. Misses on different dates do not
// wait for each other.
func (p *Provider) lock(key string) (unlock func()) {
	p.mu.Lock()
	l := p.locks[key]
	if l == nil {
		l = &dateLock{}
		p.locks[key] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(p.locks, key)
		}
		p.mu.Unlock()
	}
}
