package token

import (
	"sync"
)

// TokenCache defines a cache interface for storing tokens.
// Implementations must replace the stored token wholesale, never
// mutate it in place, so concurrent readers observe either the
// previous token or the new one.
type TokenCache interface {
	Get() (Token, error)
	Put(t Token) error
	Expire() error
}

// memoryCache implements a process-local cache.
type memoryCache struct {
	t     Token
	mutex sync.Mutex
}

// NewMemoryCache creates an in-memory token cache. It is the default
// backend when no cache spec is configured.
func NewMemoryCache() TokenCache {
	return &memoryCache{}
}

// Get retrieves token from cache.
func (mc *memoryCache) Get() (Token, error) {
	mc.mutex.Lock()
	t := mc.t
	mc.mutex.Unlock()
	return t, nil
}

// Put inserts token into cache.
func (mc *memoryCache) Put(t Token) error {
	mc.mutex.Lock()
	mc.t = t
	mc.mutex.Unlock()
	return nil
}

// Expire invalidates token in cache.
func (mc *memoryCache) Expire() error {
	mc.mutex.Lock()
	mc.t.Expire()
	mc.mutex.Unlock()
	return nil
}
