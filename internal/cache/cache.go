// Package cache is the read cache and mutation coordinator sitting between
// the handlers and the repositories: TTL reads with retry and in-flight
// deduplication, optimistic writes with rollback, and cascading invalidation
// of dependent keys when a mutation settles.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/seller-console/internal/infra/api"
	"github.com/xavierca1/seller-console/internal/infra/metrics"
)

const (
	DefaultFreshFor  = 30 * time.Second
	DefaultRetention = 5 * time.Minute

	// maxReadRetries is how many times a transient read failure is retried
	// after the initial attempt. NOT_FOUND is never retried.
	maxReadRetries = 3

	janitorInterval = 30 * time.Second
)

type Config struct {
	FreshFor  time.Duration
	Retention time.Duration
	Now       func() time.Time
}

// Cache holds keyed read results. An entry is fresh for FreshFor after its
// fetch, stays around (stale) until Retention of idleness passes, and at most
// one fetch per key is in flight at a time.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	freshFor  time.Duration
	retention time.Duration
	nowFn     func() time.Time
	done      chan struct{}
	closeOnce sync.Once
}

type entry struct {
	value      any
	hasValue   bool
	fetchedAt  time.Time
	lastAccess time.Time
	stale      bool
	flight     *flight
	cancel     context.CancelFunc
}

// flight is one in-progress fetch, shared by every concurrent reader of the
// same key.
type flight struct {
	done  chan struct{}
	value any
	err   error
}

func New(cfg Config) *Cache {
	c := &Cache{
		entries:   make(map[string]*entry),
		freshFor:  cfg.FreshFor,
		retention: cfg.Retention,
		nowFn:     cfg.Now,
		done:      make(chan struct{}),
	}
	if c.freshFor <= 0 {
		c.freshFor = DefaultFreshFor
	}
	if c.retention <= 0 {
		c.retention = DefaultRetention
	}
	if c.nowFn == nil {
		c.nowFn = time.Now
	}
	go c.janitor()
	return c
}

func (c *Cache) ensure(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// Fetch returns the cached value for key when fresh, otherwise runs fetch
// (with retry on transient failures) and caches the result. Concurrent calls
// for the same key share a single underlying fetch.
func Fetch[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	value, err := c.getOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	if value == nil {
		return zero, nil
	}
	return value.(T), nil
}

func (c *Cache) getOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	domain := Domain(key)

	c.mu.Lock()
	e := c.ensure(key)
	now := c.nowFn()
	e.lastAccess = now

	if e.hasValue && !e.stale && now.Sub(e.fetchedAt) < c.freshFor {
		value := e.value
		c.mu.Unlock()
		metrics.RecordCacheRead(domain, "hit")
		return value, nil
	}

	if e.flight != nil {
		fl := e.flight
		c.mu.Unlock()
		select {
		case <-fl.done:
			return fl.value, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if e.hasValue {
		metrics.RecordCacheRead(domain, "stale")
	} else {
		metrics.RecordCacheRead(domain, "miss")
	}

	// The flight runs on a context detached from the caller's cancellation:
	// other readers may be waiting on it. Only CancelInflight aborts it.
	fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	fl := &flight{done: make(chan struct{})}
	e.flight = fl
	e.cancel = cancel
	c.mu.Unlock()

	value, err := fetchWithRetry(fctx, fetch)
	cancel()

	c.mu.Lock()
	if e.flight == fl {
		e.flight = nil
		e.cancel = nil
		// A canceled flight was superseded by an optimistic write; its
		// result must not clobber the published value.
		if err == nil && fctx.Err() == nil {
			e.value = value
			e.hasValue = true
			e.fetchedAt = c.nowFn()
			e.stale = false
		}
	}
	c.mu.Unlock()

	fl.value = value
	fl.err = err
	close(fl.done)
	return value, err
}

func fetchWithRetry(ctx context.Context, fetch func(ctx context.Context) (any, error)) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= maxReadRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, api.Internal(err.Error())
		}

		value, err := fetch(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err

		if apiErr, ok := api.AsError(err); ok && apiErr.Status == 404 {
			return nil, err
		}
		if attempt < maxReadRetries {
			metrics.RecordReadRetry()
		}
	}
	return nil, lastErr
}

// Put publishes a value under key, starting a fresh window. Used to seed a
// detail entry after a create and to publish optimistic projections.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.ensure(key)
	e.value = value
	e.hasValue = true
	e.stale = false
	now := c.nowFn()
	e.fetchedAt = now
	e.lastAccess = now
}

// Peek returns the cached value without touching freshness, stale or not.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.hasValue {
		return nil, false
	}
	return e.value, true
}

// Invalidate marks key stale so the next read re-fetches.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.stale = true
	}
}

// InvalidatePrefix marks every key under prefix stale.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if strings.HasPrefix(key, prefix) {
			e.stale = true
		}
	}
}

// Remove drops the entry outright, canceling any fetch in flight.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if e.cancel != nil {
			e.cancel()
		}
		delete(c.entries, key)
	}
}

// CancelInflight aborts the fetch in flight for key, if any. A mutation calls
// this first so a stale response cannot clobber its optimistic value.
func (c *Cache) CancelInflight(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && e.cancel != nil {
		e.cancel()
	}
}

// Clear drops everything. Used when the store is reseeded.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.cancel != nil {
			e.cancel()
		}
	}
	c.entries = make(map[string]*entry)
}

func (c *Cache) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.evictIdle()
		}
	}
}

func (c *Cache) evictIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.nowFn()
	for key, e := range c.entries {
		if e.flight == nil && now.Sub(e.lastAccess) > c.retention {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
