// Package filecache persists the token as a JSON file, so restarts and
// sibling processes reuse an unexpired token instead of exchanging again.
package filecache

import (
	"errors"
	"os"
	"sync"

	"github.com/Quaestor-Technologies/smx-mcp/token"
)

// Cache holds cache client.
type Cache struct {
	filename string
	mutex    sync.Mutex
}

// New creates a new cache client.
func New(filename string) (*Cache, error) {
	return &Cache{filename: filename}, nil
}

// Get retrieves token from cache.
func (c *Cache) Get() (token.Token, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return tokenFromFile(c.filename)
}

func tokenFromFile(filename string) (token.Token, error) {
	buf, errRead := os.ReadFile(filename)
	if errRead != nil {
		return token.Token{}, errRead
	}
	return token.NewTokenFromJSON(buf)
}

// Put inserts token into cache.
func (c *Cache) Put(t token.Token) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return saveToken(t, c.filename)
}

func saveToken(t token.Token, filename string) error {
	buf, errJSON := t.ExportJSON()
	if errJSON != nil {
		return errJSON
	}
	// the file holds a live credential
	return os.WriteFile(filename, buf, 0600)
}

// Expire invalidates token in cache. A missing cache file counts as
// already expired.
func (c *Cache) Expire() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	t, errGet := tokenFromFile(c.filename)
	if errGet != nil {
		if errors.Is(errGet, os.ErrNotExist) {
			return nil
		}
		return errGet
	}
	t.Expire()
	return saveToken(t, c.filename)
}
