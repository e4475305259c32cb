package lookup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ipinsight/pkg/cache"
)

type countingProvider struct {
	calls  atomic.Int64
	result *Result
	err    error
	delay  time.Duration
}

func (p *countingProvider) Fetch(_ context.Context, _ string) (*Result, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return p.result, p.err
}

func TestCachedFetchSecondCallServedFromCache(t *testing.T) {
	provider := &countingProvider{result: &Result{IP: "8.8.8.8", Country: "US"}}
	client := NewCachedClient(provider, cache.New[*Result](10), time.Minute, time.Minute, nil)

	first := client.Fetch(context.Background(), "8.8.8.8")
	second := client.Fetch(context.Background(), "8.8.8.8")
	if first == nil || second == nil {
		t.Fatalf("expected results, got %v and %v", first, second)
	}
	if calls := provider.calls.Load(); calls != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", calls)
	}
}

func TestCachedFetchCachesNilResult(t *testing.T) {
	provider := &countingProvider{err: errors.New("upstream down")}
	client := NewCachedClient(provider, cache.New[*Result](10), time.Minute, time.Minute, nil)

	if result := client.Fetch(context.Background(), "8.8.8.8"); result != nil {
		t.Fatalf("expected nil result on upstream failure, got %+v", result)
	}
	if result := client.Fetch(context.Background(), "8.8.8.8"); result != nil {
		t.Fatalf("expected cached nil, got %+v", result)
	}
	if calls := provider.calls.Load(); calls != 1 {
		t.Fatalf("expected negative cache to absorb retry, got %d calls", calls)
	}
}

func TestCachedFetchNegativeTTLShorterThanPositive(t *testing.T) {
	provider := &countingProvider{err: errors.New("upstream down")}
	client := NewCachedClient(provider, cache.New[*Result](10), time.Minute, 10*time.Millisecond, nil)

	client.Fetch(context.Background(), "8.8.8.8")
	time.Sleep(20 * time.Millisecond)
	client.Fetch(context.Background(), "8.8.8.8")
	if calls := provider.calls.Load(); calls != 2 {
		t.Fatalf("expected retry after negative ttl expiry, got %d calls", calls)
	}
}

func TestCachedFetchSingleFlight(t *testing.T) {
	provider := &countingProvider{
		result: &Result{IP: "8.8.8.8"},
		delay:  50 * time.Millisecond,
	}
	client := NewCachedClient(provider, cache.New[*Result](10), time.Minute, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if result := client.Fetch(context.Background(), "8.8.8.8"); result == nil {
				t.Errorf("expected result")
			}
		}()
	}
	wg.Wait()
	if calls := provider.calls.Load(); calls != 1 {
		t.Fatalf("expected concurrent misses to coalesce into one call, got %d", calls)
	}
}

func TestCachedFetchDistinctIPsDistinctEntries(t *testing.T) {
	provider := &countingProvider{result: &Result{}}
	client := NewCachedClient(provider, cache.New[*Result](10), time.Minute, time.Minute, nil)

	client.Fetch(context.Background(), "8.8.8.8")
	client.Fetch(context.Background(), "1.1.1.1")
	if calls := provider.calls.Load(); calls != 2 {
		t.Fatalf("expected one upstream call per ip, got %d", calls)
	}
	if stats := client.CacheStats(); stats.Size != 2 {
		t.Fatalf("expected two cached entries, got %d", stats.Size)
	}
}

func TestCachedFetchNilProvider(t *testing.T) {
	client := NewCachedClient(nil, cache.New[*Result](10), time.Minute, time.Minute, nil)
	if result := client.Fetch(context.Background(), "8.8.8.8"); result != nil {
		t.Fatalf("expected nil result with no provider, got %+v", result)
	}
}

func TestClearCache(t *testing.T) {
	provider := &countingProvider{result: &Result{}}
	client := NewCachedClient(provider, cache.New[*Result](10), time.Minute, time.Minute, nil)

	client.Fetch(context.Background(), "8.8.8.8")
	client.ClearCache()
	client.Fetch(context.Background(), "8.8.8.8")
	if calls := provider.calls.Load(); calls != 2 {
		t.Fatalf("expected refetch after clear, got %d calls", calls)
	}
}
