package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/dmolina/building-table-reservation/internal/config"
)

func newMemoryListing(ttl time.Duration) *Listing {
	return New(config.CacheConfig{Enabled: true, TTL: ttl, Prefix: "reservations"}, nil)
}

func TestPutGetInvalidate(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	l := newMemoryListing(time.Minute)

	_, ok := l.Get(ctx, "vow")
	c.Assert(ok, qt.IsFalse)

	l.Put(ctx, "vow", []byte(`[{"id":1}]`))
	body, ok := l.Get(ctx, "vow")
	c.Assert(ok, qt.IsTrue)
	c.Assert(string(body), qt.Equals, `[{"id":1}]`)

	l.Invalidate(ctx, "vow")
	_, ok = l.Get(ctx, "vow")
	c.Assert(ok, qt.IsFalse)
}

func TestEntriesAreTenantScoped(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	l := newMemoryListing(time.Minute)

	l.Put(ctx, "vow", []byte("vow-listing"))
	l.Put(ctx, "torre-x", []byte("torre-listing"))

	// Invalidating one building must not touch the other.
	l.Invalidate(ctx, "vow")
	_, ok := l.Get(ctx, "vow")
	c.Assert(ok, qt.IsFalse)
	body, ok := l.Get(ctx, "torre-x")
	c.Assert(ok, qt.IsTrue)
	c.Assert(string(body), qt.Equals, "torre-listing")
}

func TestExpiredEntryIsAMiss(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	l := newMemoryListing(10 * time.Millisecond)

	l.Put(ctx, "vow", []byte("stale"))
	time.Sleep(20 * time.Millisecond)

	_, ok := l.Get(ctx, "vow")
	c.Assert(ok, qt.IsFalse)

	// A fresh put after expiry works normally.
	l.Put(ctx, "vow", []byte("fresh"))
	body, ok := l.Get(ctx, "vow")
	c.Assert(ok, qt.IsTrue)
	c.Assert(string(body), qt.Equals, "fresh")
}

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	l := New(config.CacheConfig{Enabled: false, TTL: time.Minute, Prefix: "reservations"}, nil)

	l.Put(ctx, "vow", []byte("ignored"))
	_, ok := l.Get(ctx, "vow")
	c.Assert(ok, qt.IsFalse)
}

func TestConcurrentAccess(t *testing.T) {
	// Exercises the shared map under concurrent put/get/invalidate across
	// many buildings; the race detector is the real assertion here.
	c := qt.New(t)
	ctx := context.Background()
	l := newMemoryListing(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			building := fmt.Sprintf("building-%d", n%4)
			for j := 0; j < 200; j++ {
				l.Put(ctx, building, []byte("listing"))
				l.Get(ctx, building)
				l.Invalidate(ctx, building)
			}
		}(i)
	}
	wg.Wait()

	l.Put(ctx, "vow", []byte("ok"))
	body, ok := l.Get(ctx, "vow")
	c.Assert(ok, qt.IsTrue)
	c.Assert(string(body), qt.Equals, "ok")
}
