// Package cache selects a token cache backend from a spec string.
package cache

import (
	"fmt"
	"strings"

	"github.com/Quaestor-Technologies/smx-mcp/cache/errorcache"
	"github.com/Quaestor-Technologies/smx-mcp/cache/filecache"
	"github.com/Quaestor-Technologies/smx-mcp/cache/rediscache"
	"github.com/Quaestor-Technologies/smx-mcp/token"
)

// New creates a cache from a spec string.
//
//	""                                    default (nil, caller picks memory cache)
//	"error"                               cache that always fails (test aid)
//	"file:<path>"                         file-backed cache
//	"redis:<host>:<port>:<password>:<key>" redis-backed cache
//
// tokenURL and clientID namespace the stored token so that two processes
// sharing one redis instance but using distinct credentials never exchange
// tokens.
func New(spec, tokenURL, clientID string) (token.TokenCache, error) {
	switch {
	case spec == "":
		return nil, nil
	case spec == "error":
		return errorcache.New()
	case strings.HasPrefix(spec, "file:"):
		return filecache.New(strings.TrimPrefix(spec, "file:"))
	case strings.HasPrefix(spec, "redis:"):
		return rediscache.New(strings.TrimPrefix(spec, "redis:"), tokenURL, clientID)
	}
	return nil, fmt.Errorf("unknown cache spec: %s", spec)
}
