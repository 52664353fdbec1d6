package resolver

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"stayrent/internal/domain/calendar"
)

// Key identifies one cached month. The search-context flag is part of the
// key because the backend answers differently with and without it.
type Key struct {
	PropertyID         calendar.PropertyID
	Month              string
	ApplySearchContext bool
}

func (k Key) String() string {
	flag := 0
	if k.ApplySearchContext {
		flag = 1
	}
	return fmt.Sprintf("%d:%s:%d", k.PropertyID, k.Month, flag)
}

type Entry struct {
	Calendar  calendar.PropertyCalendar
	FetchedAt time.Time
}

// Cache stores resolved months. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key Key) (Entry, bool, error)
	Put(ctx context.Context, key Key, entry Entry) error
	InvalidateProperty(ctx context.Context, id calendar.PropertyID) (int, error)
	// Sweep drops entries fetched before cutoff.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

const DefaultCacheSize = 512

// MemoryCache is a bounded LRU cache.
type MemoryCache struct {
	mu      sync.Mutex
	size    int
	order   *list.List
	entries map[Key]*list.Element
}

type memoryItem struct {
	key   Key
	entry Entry
}

func NewMemoryCache(size int) *MemoryCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &MemoryCache{size: size, order: list.New(), entries: make(map[Key]*list.Element)}
}

func (c *MemoryCache) Get(_ context.Context, key Key) (Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	c.order.MoveToFront(el)
	item := el.Value.(*memoryItem)
	return Entry{Calendar: item.entry.Calendar.Normalize(), FetchedAt: item.entry.FetchedAt}, true, nil
}

func (c *MemoryCache) Put(_ context.Context, key Key, entry Entry) error {
	entry.Calendar = entry.Calendar.Normalize()
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*memoryItem).entry = entry
		c.order.MoveToFront(el)
		return nil
	}
	c.entries[key] = c.order.PushFront(&memoryItem{key: key, entry: entry})
	for c.order.Len() > c.size {
		c.removeElement(c.order.Back())
	}
	return nil
}

func (c *MemoryCache) InvalidateProperty(_ context.Context, id calendar.PropertyID) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, el := range c.entries {
		if key.PropertyID == id {
			c.removeElement(el)
			removed++
		}
	}
	return removed, nil
}

func (c *MemoryCache) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*memoryItem).entry.FetchedAt.Before(cutoff) {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed, nil
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *MemoryCache) removeElement(el *list.Element) {
	item := c.order.Remove(el).(*memoryItem)
	delete(c.entries, item.key)
}

var _ Cache = (*MemoryCache)(nil)
