package ratelimiter

import (
	"sync"
	"time"
)

type inMemoryEntry struct {
	value     int
	expiresAt time.Time
}

// InMemory is a process-local GetterSetter with lazy expiration.
type InMemory struct {
	entries sync.Map // string -> inMemoryEntry
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (c *InMemory) Get(key string) (int, error) {
	val, ok := c.entries.Load(key)
	if !ok {
		return 0, ErrCacheMiss
	}

	entry := val.(inMemoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.entries.Delete(key)
		return 0, ErrCacheMiss
	}

	return entry.value, nil
}

func (c *InMemory) SetWithExpiration(key string, value int, expiration time.Duration) error {
	c.entries.Store(key, inMemoryEntry{
		value:     value,
		expiresAt: time.Now().Add(expiration),
	})
	return nil
}
