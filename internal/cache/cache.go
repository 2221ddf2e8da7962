// Package cache holds the short-lived reservation listing cache.  Entries
// are keyed by building, expire after a fixed TTL and are invalidated
// synchronously by the mutating handlers before they write their success
// response, so a client that polls immediately after a write never sees
// the pre-write snapshot.
//
// Two stores back the cache: Redis when a client is configured, an
// in-process map otherwise.  Either way the cache is best-effort: a store
// failure is treated as a miss, never as a request failure.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmolina/building-table-reservation/internal/config"
)

// Listing caches the JSON-encoded reservation listing per building.
type Listing struct {
	store  store
	ttl    time.Duration
	prefix string
}

// New builds a Listing cache from config.  With rdb == nil the cache keeps
// entries in process memory; a disabled config yields a cache whose Get
// always misses.
func New(cfg config.CacheConfig, rdb *redis.Client) *Listing {
	l := &Listing{ttl: cfg.TTL, prefix: cfg.Prefix}
	switch {
	case !cfg.Enabled:
		l.store = disabledStore{}
	case rdb != nil:
		l.store = &redisStore{rdb: rdb}
	default:
		l.store = &memoryStore{entries: make(map[string]memoryEntry)}
	}
	return l
}

// Get returns the cached listing for the building, or ok=false on a miss.
func (l *Listing) Get(ctx context.Context, building string) (body []byte, ok bool) {
	return l.store.get(ctx, l.key(building))
}

// Put stores the listing for the building with the configured TTL.
func (l *Listing) Put(ctx context.Context, building string, body []byte) {
	l.store.set(ctx, l.key(building), body, l.ttl)
}

// Invalidate drops the building's entry.  Mutating handlers must call this
// before sending their success response.
func (l *Listing) Invalidate(ctx context.Context, building string) {
	l.store.del(ctx, l.key(building))
}

func (l *Listing) key(building string) string { return l.prefix + ":" + building }

type store interface {
	get(ctx context.Context, key string) ([]byte, bool)
	set(ctx context.Context, key string, body []byte, ttl time.Duration)
	del(ctx context.Context, key string)
}

// memoryEntry is one cached listing with its expiry deadline.
type memoryEntry struct {
	body    []byte
	expires time.Time
}

// memoryStore is the per-process fallback.  The map is shared by every
// request, so structural access is guarded; entries of different buildings
// never contend beyond that lock.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func (m *memoryStore) get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		// Expired entries count as misses; the next set overwrites them.
		m.mu.Lock()
		if cur, still := m.entries[key]; still && cur.expires.Equal(e.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.body, true
}

func (m *memoryStore) set(_ context.Context, key string, body []byte, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{body: body, expires: time.Now().Add(ttl)}
	m.mu.Unlock()
}

func (m *memoryStore) del(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// redisStore shares entries between instances when Redis is available.
// Errors are swallowed: a flaky Redis degrades to uncached reads.
type redisStore struct{ rdb *redis.Client }

func (r *redisStore) get(ctx context.Context, key string) ([]byte, bool) {
	bs, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return bs, true
}

func (r *redisStore) set(ctx context.Context, key string, body []byte, ttl time.Duration) {
	_ = r.rdb.SetEx(ctx, key, body, ttl).Err()
}

func (r *redisStore) del(ctx context.Context, key string) {
	_ = r.rdb.Del(ctx, key).Err()
}

// disabledStore misses on every get.
type disabledStore struct{}

func (disabledStore) get(context.Context, string) ([]byte, bool)         { return nil, false }
func (disabledStore) set(context.Context, string, []byte, time.Duration) {}
func (disabledStore) del(context.Context, string)                        {}
