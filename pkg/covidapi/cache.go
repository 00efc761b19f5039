package covidapi

import (
	"encoding/json"
	"net/url"
	"sync"
)

// Params are the named query parameters of a backend call.
type Params map[string]string

// Encode returns the canonical query string: keys sorted, values URL-encoded.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	v := make(url.Values, len(p))
	for k, val := range p {
		v.Set(k, val)
	}
	return v.Encode()
}

// CacheKey builds the memoization key for an endpoint call. Equal parameter
// sets always produce the same key regardless of how the map was built.
func CacheKey(endpoint string, params Params) string {
	return endpoint + "?" + params.Encode()
}

// Cache memoizes successful response bodies for the lifetime of the process.
// Entries are never evicted or invalidated.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]json.RawMessage)}
}

// Get returns the stored body for key.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores body under key unless an entry already exists, and returns the
// value that is cached afterwards. The first successful response wins.
func (c *Cache) Put(key string, body json.RawMessage) json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = body
	return body
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
