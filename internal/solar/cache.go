package solar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/litescript/nattklar/internal/astro"
)

// DefaultCacheTTL is how long cached solar properties remain valid.
const DefaultCacheTTL = 6 * time.Hour

type cacheKey struct {
	lat, lon string
	date     string
}

type cacheEntry struct {
	props     astro.SolarProperties
	fetchedAt time.Time
}

// Cached memoizes another source per coordinates and date.
type Cached struct {
	src Source
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
}

// NewCached wraps src. A non-positive ttl selects DefaultCacheTTL.
func NewCached(src Source, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		src:     src,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[cacheKey]cacheEntry),
	}
}

// Name returns the wrapped source name.
func (c *Cached) Name() string { return c.src.Name() }

func keyFor(obs astro.Observer, date string) cacheKey {
	return cacheKey{
		lat:  fmt.Sprintf("%.4f", obs.LatDeg),
		lon:  fmt.Sprintf("%.4f", obs.LonDeg),
		date: date,
	}
}

// SolarProperties implements Source. Failed lookups are not cached.
func (c *Cached) SolarProperties(ctx context.Context, obs astro.Observer, date string) (astro.SolarProperties, error) {
	key := keyFor(obs, date)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.props, nil
	}
	c.mu.Unlock()

	props, err := c.src.SolarProperties(ctx, obs, date)
	if err != nil {
		return astro.SolarProperties{}, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{props: props, fetchedAt: c.now()}
	c.mu.Unlock()
	return props, nil
}

// Len returns the number of cached entries, stale ones included.
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
