// Package querycache keeps every fetched collection consistent across the
// console's views.
//
// Each result set lives under a canonical Key. Reads within a family's
// staleness window are served from memory; stale reads trigger a refetch
// while the previous value stays available; concurrent fetches for one key
// are coalesced into a single outstanding request; and any mutation
// invalidates its whole resource family (plus explicitly linked families,
// e.g. accepting a budget also invalidates services) so no view can observe
// a half-applied mutation.
package querycache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gearboxgarage/gearbox/pkg/httpclient"
	"github.com/gearboxgarage/gearbox/pkg/logger"
)

// Staleness windows per family. Budgets and services change often (status
// transitions), clients/cars/users are near-static, FIPE tables are
// reference data.
var defaultTTLs = map[string]time.Duration{
	FamilyClients:  120 * time.Second,
	FamilyCars:     120 * time.Second,
	FamilyUsers:    120 * time.Second,
	FamilyBudgets:  60 * time.Second,
	FamilyServices: 60 * time.Second,
	FamilyFIPE:     24 * time.Hour,
}

// FetchFunc loads one result set from the network.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// State is the observable condition of one cached query.
type State struct {
	HasData   bool
	FetchedAt time.Time
	Stale     bool
	Fetching  bool
	Err       error
}

// Loading reports a first fetch in flight with nothing to show yet.
func (s State) Loading() bool { return s.Fetching && !s.HasData }

type entry struct {
	value     interface{}
	fetchedAt time.Time
	stale     bool
	fetching  bool
	lastErr   error
}

// Cache is the process-wide query cache. A single instance is shared by all
// view models; the session store clears it on logout so no role-scoped data
// survives into the next session.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	ttls    map[string]time.Duration
	group   singleflight.Group
	now     func() time.Time
}

// New returns a Cache with the default staleness windows.
func New() *Cache {
	ttls := make(map[string]time.Duration, len(defaultTTLs))
	for f, d := range defaultTTLs {
		ttls[f] = d
	}
	return &Cache{
		entries: make(map[Key]*entry),
		ttls:    ttls,
		now:     time.Now,
	}
}

// SetTTL overrides the staleness window for one family.
func (c *Cache) SetTTL(family string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls[family] = ttl
}

// SetClock injects a clock, letting tests advance time past a staleness
// window without sleeping.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Cache) ttl(family string) time.Duration {
	if d, ok := c.ttls[family]; ok {
		return d
	}
	return 60 * time.Second
}

// Fetch returns the value cached under key, going to the network only when
// the entry is missing, invalidated or older than its family's staleness
// window. Concurrent calls for the same key share one outstanding request.
//
// Network-level failures are retried once; HTTP errors are not. When a
// refetch fails but a previous value exists, that value is returned
// alongside the error (keep-previous-data) so views can keep rendering.
// A cancelled or failed fetch never evicts cached data.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn FetchFunc[T]) (T, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	if ok && !e.stale && c.now().Sub(e.fetchedAt) < c.ttl(key.Family()) {
		v := e.value.(T)
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.setFetching(key, true)
	defer c.setFetching(key, false)

	v, err, shared := c.group.Do(key.String(), func() (interface{}, error) {
		val, err := fn(ctx)
		if err != nil && httpclient.IsNetwork(err) {
			logger.Warn("query fetch failed, retrying once", "key", key.String(), "error", err)
			val, err = fn(ctx)
		}
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = &entry{value: val, fetchedAt: c.now()}
		c.mu.Unlock()
		return val, nil
	})
	if shared {
		logger.Debug("query fetch coalesced", "key", key.String())
	}

	if err != nil {
		c.mu.Lock()
		if prev, ok := c.entries[key]; ok {
			prev.lastErr = err
			stale := prev.value.(T)
			c.mu.Unlock()
			return stale, err
		}
		c.mu.Unlock()
		var zero T
		return zero, err
	}

	return v.(T), nil
}

// Cached returns the value stored under key without touching the network,
// stale or not.
func Cached[T any](c *Cache, key Key) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok {
		return e.value.(T), true
	}
	var zero T
	return zero, false
}

// State reports the observable condition of the query under key.
func (c *Cache) State(key Key) State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return State{}
	}
	expired := c.now().Sub(e.fetchedAt) >= c.ttl(key.Family())
	return State{
		HasData:   true,
		FetchedAt: e.fetchedAt,
		Stale:     e.stale || expired,
		Fetching:  e.fetching,
		Err:       e.lastErr,
	}
}

// Invalidate marks every entry of the given families stale. The data stays
// readable via Cached until the next Fetch replaces it, which preserves the
// keep-previous-data behaviour during the refresh.
func (c *Cache) Invalidate(families ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		for _, f := range families {
			if key.Family() == f {
				e.stale = true
				break
			}
		}
	}
	logger.Debug("cache invalidated", "families", families)
}

// Clear evicts everything. Called on logout so no role-scoped result can
// leak into the next session.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
}

// Len reports the number of cached result sets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) setFetching(key Key, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.fetching = v
	}
}
