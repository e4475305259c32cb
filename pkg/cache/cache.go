package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[V any] struct {
	key      string
	value    V
	storedAt time.Time
	ttl      time.Duration
}

func (e *entry[V]) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

type Stats struct {
	Size     int `json:"size"`
	Capacity int `json:"capacity"`
}

// TTLCache is a bounded key/value store with per-entry expiry. Expired
// entries are dropped lazily on access; there is no background sweep.
// Eviction is oldest-inserted first, not LRU.
type TTLCache[V any] struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List // front = oldest inserted
	capacity int
}

func New[V any](capacity int) *TTLCache[V] {
	if capacity <= 0 {
		capacity = 100
	}
	return &TTLCache[V]{
		entries:  map[string]*list.Element{},
		order:    list.New(),
		capacity: capacity,
	}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	ent := elem.Value.(*entry[V])
	if ent.expired(time.Now()) {
		c.remove(elem)
		var zero V
		return zero, false
	}
	return ent.value, true
}

// Set replaces any prior entry under key with a fresh one. When the cache
// is full it first purges expired entries, then drops the oldest-inserted
// 20% of what remains if still at capacity.
func (c *TTLCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.remove(elem)
	}
	if c.order.Len() >= c.capacity {
		c.makeRoom()
	}
	ent := &entry[V]{
		key:      key,
		value:    value,
		storedAt: time.Now(),
		ttl:      ttl,
	}
	c.entries[key] = c.order.PushBack(ent)
}

func (c *TTLCache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	c.remove(elem)
	return true
}

func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*list.Element{}
	c.order.Init()
}

func (c *TTLCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:     c.order.Len(),
		Capacity: c.capacity,
	}
}

func (c *TTLCache[V]) makeRoom() {
	now := time.Now()
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if elem.Value.(*entry[V]).expired(now) {
			c.remove(elem)
		}
		elem = next
	}
	if c.order.Len() < c.capacity {
		return
	}
	drop := c.order.Len() / 5
	if drop < 1 {
		drop = 1
	}
	for i := 0; i < drop; i++ {
		front := c.order.Front()
		if front == nil {
			return
		}
		c.remove(front)
	}
}

func (c *TTLCache[V]) remove(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*entry[V]).key)
}
