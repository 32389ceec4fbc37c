package anomaly

import (
	"container/list"
	"context"
	"sync"

	"github.com/warp/punch-engine/punch"
)

// =============================================================================
// CACHED BASELINES - Explicit bounded LRU in front of a BaselineStore
// =============================================================================

// CachedBaselines wraps a BaselineStore with a bounded LRU keyed by
// (employee, punch type). Entries are invalidated on RecordSample so
// reads after a write see fresh history. Eviction is least recently
// used once MaxEntries is reached.
type CachedBaselines struct {
	inner      BaselineStore
	maxEntries int

	mu    sync.Mutex
	order *list.List // front = most recently used; values are *cacheEntry
	items map[cacheKey]*list.Element
}

type cacheKey struct {
	EmployeeID punch.EmployeeID
	Type       punch.Type
}

type cacheEntry struct {
	key      cacheKey
	baseline *Baseline
}

// NewCachedBaselines creates the cache. maxEntries <= 0 defaults to 1024.
func NewCachedBaselines(inner BaselineStore, maxEntries int) *CachedBaselines {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &CachedBaselines{
		inner:      inner,
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[cacheKey]*list.Element),
	}
}

func (c *CachedBaselines) LoadBaseline(ctx context.Context, employeeID punch.EmployeeID, punchType punch.Type) (*Baseline, error) {
	k := cacheKey{EmployeeID: employeeID, Type: punchType}

	c.mu.Lock()
	if el, ok := c.items[k]; ok {
		c.order.MoveToFront(el)
		b := el.Value.(*cacheEntry).baseline
		c.mu.Unlock()
		return b, nil
	}
	c.mu.Unlock()

	b, err := c.inner.LoadBaseline(ctx, employeeID, punchType)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[k]; ok {
		// Lost a race with another loader; keep the existing entry.
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).baseline, nil
	}
	c.items[k] = c.order.PushFront(&cacheEntry{key: k, baseline: b})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
	return b, nil
}

func (c *CachedBaselines) RecordSample(ctx context.Context, employeeID punch.EmployeeID, punchType punch.Type, s Sample) error {
	if err := c.inner.RecordSample(ctx, employeeID, punchType, s); err != nil {
		return err
	}
	k := cacheKey{EmployeeID: employeeID, Type: punchType}
	c.mu.Lock()
	if el, ok := c.items[k]; ok {
		c.order.Remove(el)
		delete(c.items, k)
	}
	c.mu.Unlock()
	return nil
}
