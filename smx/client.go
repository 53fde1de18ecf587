// Package smx implements a client for the Standard Metrics REST API.
//
// Every request obtains a bearer token from the injected TokenSource,
// attaches it, and retries exactly once after invalidating the token
// cache when the API answers with an authentication failure. All other
// errors surface to the caller untouched.
package smx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Quaestor-Technologies/smx-mcp/auth"
	"github.com/Quaestor-Technologies/smx-mcp/cache"
	"github.com/Quaestor-Technologies/smx-mcp/config"
)

// DefaultBaseURL is the vendor's production API.
const DefaultBaseURL = "https://api.standardmetrics.com"

// DefaultTimeout bounds each HTTP call.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies bearer tokens for outbound requests.
// *auth.Manager satisfies it.
type TokenSource interface {
	GetAccessToken(ctx context.Context) (string, error)
	ClearTokenCache() error
}

// Options define client options.
type Options struct {
	BaseURL string
	Timeout time.Duration

	TokenSource TokenSource

	// HTTPClient is the HTTP client to use to make requests.
	// If nil, a client bounded by Timeout is created.
	HTTPClient *http.Client

	// IsAuthFailure defines which statuses trigger the single
	// re-authentication retry. If undefined, defaults to
	// DefaultIsAuthFailure (401 and 403).
	IsAuthFailure func(status int) bool

	// Logging function, if undefined defaults to log.Printf
	Logf func(format string, v ...any)

	// Enable debug logging.
	Debug bool
}

// DefaultIsAuthFailure is used as default function when option
// IsAuthFailure is left undefined.
func DefaultIsAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// Client issues authenticated requests to the Standard Metrics API.
type Client struct {
	options Options
}

// New creates a client.
func New(options Options) *Client {
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}
	options.BaseURL = strings.TrimSuffix(options.BaseURL, "/")
	if options.Timeout == 0 {
		options.Timeout = DefaultTimeout
	}
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{Timeout: options.Timeout}
	}
	if options.IsAuthFailure == nil {
		options.IsAuthFailure = DefaultIsAuthFailure
	}
	if options.Logf == nil {
		options.Logf = log.Printf
	}
	return &Client{
		options: options,
	}
}

// NewFromConfig wires a token manager and a client from env-derived
// configuration. The token manager instance is owned by the returned
// client; callers needing direct manager access build both explicitly.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	tokenCache, errCache := cache.New(cfg.TokenCache, cfg.TokenURL, cfg.ClientID)
	if errCache != nil {
		return nil, fmt.Errorf("token cache: %w", errCache)
	}

	manager := auth.New(auth.Options{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		HTTPClient:   &http.Client{Timeout: cfg.Timeout},
		Cache:        tokenCache,
		Debug:        cfg.Debug,
	})

	return New(Options{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		TokenSource: manager,
		Debug:       cfg.Debug,
	}), nil
}

// Close releases the underlying connection pool. The client must not be
// used afterwards.
func (c *Client) Close() {
	c.options.HTTPClient.CloseIdleConnections()
}

func (c *Client) errorf(format string, v ...any) {
	c.options.Logf("ERROR: "+format, v...)
}

func (c *Client) debugf(format string, v ...any) {
	if c.options.Debug {
		c.options.Logf("DEBUG: "+format, v...)
	}
}

// do issues one authenticated request, with a single bounded
// re-authentication retry on auth failure.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, reqBody any) ([]byte, error) {

	accessTok, errTok := c.options.TokenSource.GetAccessToken(ctx)
	if errTok != nil {
		return nil, errTok
	}

	body, status, errSend := c.send(ctx, method, path, query, reqBody, accessTok)
	if errSend != nil {
		return nil, errSend
	}

	if c.options.IsAuthFailure(status) {
		//
		// the server refused our token: invalidate it, re-acquire
		// exactly once, retry once.
		//
		c.debugf("auth failure status:%d on %s %s, re-authenticating", status, method, path)
		if errClear := c.options.TokenSource.ClearTokenCache(); errClear != nil {
			c.errorf("token cache clear error: %v", errClear)
		}
		accessTok, errTok = c.options.TokenSource.GetAccessToken(ctx)
		if errTok != nil {
			return nil, errTok
		}
		body, status, errSend = c.send(ctx, method, path, query, reqBody, accessTok)
		if errSend != nil {
			return nil, errSend
		}
		if c.options.IsAuthFailure(status) {
			return nil, &auth.AuthError{StatusCode: status, Detail: strings.TrimSpace(string(body))}
		}
	}

	if status < 200 || status > 299 {
		return nil, &APIError{StatusCode: status, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, reqBody any, accessTok string) ([]byte, int, error) {

	u := c.options.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	var contentType string
	if reqBody != nil {
		buf, errJSON := json.Marshal(reqBody)
		if errJSON != nil {
			return nil, 0, fmt.Errorf("marshal request body: %w", errJSON)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, errReq := http.NewRequestWithContext(ctx, method, u, reader)
	if errReq != nil {
		return nil, 0, fmt.Errorf("request: %w", errReq)
	}
	req.Header.Set("Authorization", "Bearer "+accessTok)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, errDo := c.options.HTTPClient.Do(req)
	if errDo != nil {
		return nil, 0, wrapTransportError(method, path, errDo)
	}
	defer resp.Body.Close()

	body, errBody := io.ReadAll(resp.Body)
	if errBody != nil {
		return nil, resp.StatusCode, wrapTransportError(method, path, errBody)
	}

	return body, resp.StatusCode, nil
}

// wrapTransportError maps timeouts into TimeoutError so callers can
// distinguish them from other network failures.
func wrapTransportError(method, path string, err error) error {
	op := method + " " + path
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Op: op, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Get issues an authenticated GET against an arbitrary API path and
// returns the raw JSON body. Typed accessors are preferred; this is the
// escape hatch for endpoints without one.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	body, errDo := c.do(ctx, http.MethodGet, path, query, nil)
	if errDo != nil {
		return nil, errDo
	}
	return json.RawMessage(body), nil
}

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	body, errDo := c.do(ctx, http.MethodGet, path, query, nil)
	if errDo != nil {
		return errDo
	}
	if out == nil {
		return nil
	}
	if errJSON := json.Unmarshal(body, out); errJSON != nil {
		return fmt.Errorf("decode %s: %w", path, errJSON)
	}
	return nil
}
