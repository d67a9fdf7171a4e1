// Package cacheview caches rendered listing views and marks them stale when
// the underlying entities mutate. Invalidation fans out over the application
// event bus so mutations never hold a reference to the cache itself.
package cacheview

import (
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"golang.org/x/sync/singleflight"
)

// TopicInvalidate is the bus topic carrying view keys to invalidate.
const TopicInvalidate = "views.invalidate"

type entry struct {
	value    interface{}
	stale    bool
	cachedAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group
}

func New() *Cache {
	return &Cache{entries: map[string]*entry{}}
}

// BindBus subscribes the cache to invalidation events.
func (c *Cache) BindBus(bus EventBus.Bus) error {
	return bus.Subscribe(TopicInvalidate, c.Invalidate)
}

// Get returns the cached value for key, recomputing it when missing, stale or
// older than maxAge (0 disables the age check). Concurrent recomputes of the
// same key collapse into one.
func (c *Cache) Get(key string, maxAge time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.fresh(key, maxAge); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.fresh(key, maxAge); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = &entry{value: v, cachedAt: time.Now()}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

func (c *Cache) fresh(key string, maxAge time.Duration) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.stale {
		return nil, false
	}
	if maxAge > 0 && time.Since(e.cachedAt) > maxAge {
		return nil, false
	}
	return e.value, true
}

// Invalidate marks every entry under the view key prefix stale. The next Get
// recomputes from the store.
func (c *Cache) Invalidate(viewKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if strings.HasPrefix(key, viewKey) {
			e.stale = true
		}
	}
}

// BusInvalidator publishes view invalidations on the event bus. It is the
// production Invalidator handed to the mutation pipeline.
type BusInvalidator struct {
	Bus EventBus.Bus
}

func (b BusInvalidator) Invalidate(viewKey string) {
	b.Bus.Publish(TopicInvalidate, viewKey)
}
