package lookup

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"ipinsight/pkg/cache"
)

const namespace = "lookup"

// Counters receives cache and upstream events; satisfied by the service's
// metrics registry. A nil Counters disables counting.
type Counters interface {
	IncLookupCacheHit()
	IncLookupCacheMiss()
	IncUpstreamLookup()
	IncUpstreamError()
}

// CachedClient fronts a Provider with a TTL cache. A failed lookup is
// cached as nil under a shorter TTL so a failing upstream is not hammered,
// and concurrent misses for the same IP are coalesced into one upstream
// call.
type CachedClient struct {
	provider    Provider
	cache       *cache.TTLCache[*Result]
	ttl         time.Duration
	negativeTTL time.Duration
	group       singleflight.Group
	counters    Counters
}

func NewCachedClient(provider Provider, store *cache.TTLCache[*Result], ttl time.Duration, negativeTTL time.Duration, counters Counters) *CachedClient {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	if negativeTTL == 0 {
		negativeTTL = 30 * time.Second
	}
	return &CachedClient{
		provider:    provider,
		cache:       store,
		ttl:         ttl,
		negativeTTL: negativeTTL,
		counters:    counters,
	}
}

// Fetch never fails: any provider error degrades to a nil result, which is
// itself cached. Callers always receive a usable (possibly nil) value.
func (c *CachedClient) Fetch(ctx context.Context, ip string) *Result {
	if c.provider == nil {
		return nil
	}
	key := cache.Key(namespace, ip)
	if result, ok := c.cache.Get(key); ok {
		if c.counters != nil {
			c.counters.IncLookupCacheHit()
		}
		return result
	}
	if c.counters != nil {
		c.counters.IncLookupCacheMiss()
	}

	value, _, _ := c.group.Do(key, func() (any, error) {
		if c.counters != nil {
			c.counters.IncUpstreamLookup()
		}
		result, err := c.provider.Fetch(ctx, ip)
		if err != nil {
			if c.counters != nil {
				c.counters.IncUpstreamError()
			}
			result = nil
		}
		ttl := c.ttl
		if result == nil {
			ttl = c.negativeTTL
		}
		c.cache.Set(key, result, ttl)
		return result, nil
	})
	result, _ := value.(*Result)
	return result
}

func (c *CachedClient) CacheStats() cache.Stats {
	return c.cache.Stats()
}

func (c *CachedClient) ClearCache() {
	c.cache.Clear()
}
