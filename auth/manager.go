// Package auth implements the oauth2 client-credentials token manager.
//
// A Manager owns the single cached bearer token shared by all concurrent
// API calls. GetAccessToken returns the cached token while it remains
// outside the safety margin of its expiration, and otherwise performs one
// token exchange no matter how many callers arrive at once.
package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Quaestor-Technologies/smx-mcp/token"
)

// DefaultSafetyMarginSeconds is how long before its hard expiration a
// cached token is treated as absent, so renewal happens ahead of time.
const DefaultSafetyMarginSeconds = 60

// DefaultExchangeTimeout bounds the token exchange when no HTTP client
// is supplied.
const DefaultExchangeTimeout = 30 * time.Second

// HTTPDoer is interface for http client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options define token manager options.
type Options struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string

	// HTTPClient is the HTTP client used for the token exchange.
	// If nil, a client bounded by DefaultExchangeTimeout is created.
	// The client's timeout bounds the exchange; a caller cancelling
	// its own context does not abort an exchange other callers are
	// waiting on.
	HTTPClient HTTPDoer

	// 0 defaults to DefaultSafetyMarginSeconds. Set to -1 to disable
	// the margin, so a token is reused until its hard expiration.
	SafetyMarginSeconds int

	Cache token.TokenCache

	// Time source used to check token expiration.
	// If unspecified, defaults to time.Now().
	TimeSource func() time.Time

	// Logging function, if undefined defaults to log.Printf
	Logf func(format string, v ...any)

	// Enable debug logging.
	Debug bool
}

// Manager acquires, caches and renews the bearer token.
type Manager struct {
	options Options
	group   singleflight.Group
}

// New creates a token manager.
func New(options Options) *Manager {
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{Timeout: DefaultExchangeTimeout}
	}
	switch options.SafetyMarginSeconds {
	case 0:
		options.SafetyMarginSeconds = DefaultSafetyMarginSeconds
	case -1:
		options.SafetyMarginSeconds = 0
	}
	if options.Cache == nil {
		options.Cache = token.NewMemoryCache()
	}
	if options.TimeSource == nil {
		options.TimeSource = time.Now
	}
	if options.Logf == nil {
		options.Logf = log.Printf
	}
	return &Manager{
		options: options,
	}
}

func (m *Manager) errorf(format string, v ...any) {
	m.options.Logf("ERROR: "+format, v...)
}

func (m *Manager) debugf(format string, v ...any) {
	if m.options.Debug {
		m.options.Logf("DEBUG: "+format, v...)
	}
}

// GetAccessToken returns a bearer token valid for at least the safety
// margin at the moment of return, exchanging credentials for a new token
// when the cached one is absent or too close to expiration.
func (m *Manager) GetAccessToken(ctx context.Context) (string, error) {
	t, errCache := m.options.Cache.Get()
	if errCache != nil {
		m.errorf("cache get error: %v", errCache)
		return m.fetchToken(ctx)
	}
	margin := time.Duration(m.options.SafetyMarginSeconds) * time.Second
	now := m.options.TimeSource()
	if t.Value != "" && t.IsValid(now, margin) {
		m.debugf("found valid cached token")
		return t.Value, nil
	}
	m.debugf("NO valid cached token")
	return m.fetchToken(ctx)
}

// ClearTokenCache unconditionally discards the cached token, forcing the
// next GetAccessToken to perform a fresh exchange. It is never invoked
// automatically by the manager.
func (m *Manager) ClearTokenCache() error {
	return m.options.Cache.Expire()
}

// fetchToken retrieves a new token and saves it into the cache, guarded
// with singleflight: concurrent callers share one exchange. A caller
// whose context is cancelled abandons its wait, while the in-flight
// exchange continues to completion for the remaining waiters.
func (m *Manager) fetchToken(ctx context.Context) (string, error) {

	ch := m.group.DoChan("", func() (interface{}, error) {
		return m.exchange()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return "", result.Err
		}
		str, isStr := result.Val.(string)
		if !isStr {
			return "", fmt.Errorf("non-string result: type:%[1]T value:%[1]v", result.Val)
		}
		return str, nil
	}
}
