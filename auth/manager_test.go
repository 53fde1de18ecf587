package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Quaestor-Technologies/smx-mcp/cache/errorcache"
	"github.com/Quaestor-Technologies/smx-mcp/token"
)

func TestGetAccessTokenCachesToken(t *testing.T) {

	stat := serverStat{}
	ts := newTokenServer(&stat, "clientID", "clientSecret", "abc123", 3600)
	defer ts.Close()

	m := newManager(ts.URL, "clientID", "clientSecret", 0, nil)

	// first call exchanges

	tok, errTok := m.GetAccessToken(context.Background())
	if errTok != nil {
		t.Errorf("get: %v", errTok)
	}
	if tok != "abc123" {
		t.Errorf("unexpected token: %s", tok)
	}
	if stat.count() != 1 {
		t.Errorf("unexpected token server access count: %d", stat.count())
	}

	// second call hits the cache

	tok2, errTok2 := m.GetAccessToken(context.Background())
	if errTok2 != nil {
		t.Errorf("get: %v", errTok2)
	}
	if tok2 != "abc123" {
		t.Errorf("unexpected token: %s", tok2)
	}
	if stat.count() != 1 {
		t.Errorf("unexpected token server access count: %d", stat.count())
	}
}

func TestEmptyCachedTokenTriggersExchange(t *testing.T) {

	stat := serverStat{}
	ts := newTokenServer(&stat, "clientID", "clientSecret", "abc123", 3600)
	defer ts.Close()

	// a fresh memory cache holds the zero-value token: no value, not
	// expirable. It must never be handed out as a credential.

	c := token.NewMemoryCache()
	m := New(Options{
		TokenURL:     ts.URL,
		ClientID:     "clientID",
		ClientSecret: "clientSecret",
		Cache:        c,
		Logf:         func(string, ...any) {},
	})

	tok, errTok := m.GetAccessToken(context.Background())
	if errTok != nil {
		t.Errorf("get: %v", errTok)
	}
	if tok == "" {
		t.Errorf("empty token handed out without exchange")
	}
	if tok != "abc123" {
		t.Errorf("unexpected token: %s", tok)
	}
	if stat.count() != 1 {
		t.Errorf("unexpected token server access count: %d", stat.count())
	}

	// same guard when an empty token was explicitly stored

	if err := c.Put(token.Token{}); err != nil {
		t.Errorf("put: %v", err)
	}
	if _, err := m.GetAccessToken(context.Background()); err != nil {
		t.Errorf("get: %v", err)
	}
	if stat.count() != 2 {
		t.Errorf("unexpected token server access count: %d", stat.count())
	}
}

func TestExchangeTimeout(t *testing.T) {

	stat := serverStat{}
	stat.delay = 300 * time.Millisecond
	ts := newTokenServer(&stat, "clientID", "clientSecret", "abc123", 3600)
	defer ts.Close()

	m := New(Options{
		TokenURL:     ts.URL,
		ClientID:     "clientID",
		ClientSecret: "clientSecret",
		HTTPClient:   &http.Client{Timeout: 50 * time.Millisecond},
		Logf:         func(string, ...any) {},
	})

	_, errTok := m.GetAccessToken(context.Background())
	if errTok == nil {
		t.Fatalf("unexpected success from slow token server")
	}

	var timeoutErr *TimeoutError
	if !errors.As(errTok, &timeoutErr) {
		t.Fatalf("unexpected error type: %T: %v", errTok, errTok)
	}
	var authErr *AuthError
	if errors.As(errTok, &authErr) {
		t.Errorf("timeout misreported as authentication failure: %v", errTok)
	}

	// the underlying network timeout stays visible through the chain

	var netErr net.Error
	if !errors.As(errTok, &netErr) || !netErr.Timeout() {
		t.Errorf("net timeout not preserved: %v", errTok)
	}
}

func TestDefaultExchangeClientIsBounded(t *testing.T) {
	m := New(Options{
		TokenURL:     "https://auth.example.com/token",
		ClientID:     "clientID",
		ClientSecret: "clientSecret",
		Logf:         func(string, ...any) {},
	})

	hc, isClient := m.options.HTTPClient.(*http.Client)
	if !isClient {
		t.Fatalf("unexpected default client type: %T", m.options.HTTPClient)
	}
	if hc.Timeout != DefaultExchangeTimeout {
		t.Errorf("unexpected default timeout: %v", hc.Timeout)
	}
}

func TestSafetyMargin(t *testing.T) {

	stat := serverStat{}
	ts := newTokenServer(&stat, "clientID", "clientSecret", "abc123", 3600)
	defer ts.Close()

	clock := time.Now()
	var clockMutex sync.Mutex
	timeSource := func() time.Time {
		clockMutex.Lock()
		defer clockMutex.Unlock()
		return clock
	}
	advance := func(d time.Duration) {
		clockMutex.Lock()
		clock = clock.Add(d)
		clockMutex.Unlock()
	}

	m := newManager(ts.URL, "clientID", "clientSecret", 0, timeSource)

	// T: exchange

	if _, err := m.GetAccessToken(context.Background()); err != nil {
		t.Errorf("get: %v", err)
	}
	if stat.count() != 1 {
		t.Errorf("unexpected token server access count: %d", stat.count())
	}

	// T+3500s: 100s remain, outside the 60s margin, no network call

	advance(3500 * time.Second)
	if _, err := m.GetAccessToken(context.Background()); err != nil {
		t.Errorf("get: %v", err)
	}
	if stat.count() != 1 {
		t.Errorf("unexpected token server access count: %d", stat.count())
	}

	// T+3541s: 59s remain, within the margin, exactly one refresh

	advance(41 * time.Second)
	if _, err := m.GetAccessToken(context.Background()); err != nil {
		t.Errorf("get: %v", err)
	}
	if stat.count() != 2 {
		t.Errorf("unexpected token server access count: %d", stat.count())
	}
}

func TestClearTokenCache(t *testing.T) {

	stat := serverStat{}
	ts := newTokenServer(&stat, "clientID", "clientSecret", "first", 3600)
	defer ts.Close()

	m := newManager(ts.URL, "clientID", "clientSecret", 0, nil)

	tok, errTok := m.GetAccessToken(context.Background())
	if errTok != nil {
		t.Errorf("get: %v", errTok)
	}
	if tok != "first" {
		t.Errorf("unexpected token: %s", tok)
	}

	stat.setToken("second")

	// still cached

	tok, errTok = m.GetAccessToken(context.Background())
	if errTok != nil {
		t.Errorf("get: %v", errTok)
	}
	if tok != "first" {
		t.Errorf("unexpected token: %s", tok)
	}

	if errClear := m.ClearTokenCache(); errClear != nil {
		t.Errorf("clear: %v", errClear)
	}

	// clear forces a fresh exchange, never a pre-clear token

	tok, errTok = m.GetAccessToken(context.Background())
	if errTok != nil {
		t.Errorf("get: %v", errTok)
	}
	if tok != "second" {
		t.Errorf("unexpected token after clear: %s", tok)
	}
	if stat.count() != 2 {
		t.Errorf("unexpected token server access count: %d", stat.count())
	}
}

func TestExchangeErrorDetail(t *testing.T) {

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpJSON(w, `{"error":"invalid_client"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	m := newManager(ts.URL, "clientID", "WRONG-SECRET", 0, nil)

	_, errTok := m.GetAccessToken(context.Background())
	if errTok == nil {
		t.Fatalf("unexpected success from locked token server")
	}

	var authErr *AuthError
	if !errors.As(errTok, &authErr) {
		t.Fatalf("unexpected error type: %T: %v", errTok, errTok)
	}
	if authErr.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected status: %d", authErr.StatusCode)
	}
	if authErr.Detail != "invalid_client" {
		t.Errorf("unexpected detail: %s", authErr.Detail)
	}

	// failure leaves the cache absent, so the next call retries

	_, errTok2 := m.GetAccessToken(context.Background())
	if errTok2 == nil {
		t.Errorf("unexpected success from locked token server")
	}
}

func TestBrokenTokenServer(t *testing.T) {

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpJSON(w, "broken-token", http.StatusOK)
	}))
	defer ts.Close()

	m := newManager(ts.URL, "clientID", "clientSecret", 0, nil)

	_, errTok := m.GetAccessToken(context.Background())
	if errTok == nil {
		t.Errorf("unexpected success with broken token server")
	}
	var authErr *AuthError
	if !errors.As(errTok, &authErr) {
		t.Errorf("unexpected error type: %T: %v", errTok, errTok)
	}
}

func TestSingleFlightExactlyOneExchange(t *testing.T) {

	stat := serverStat{}
	stat.delay = 100 * time.Millisecond
	ts := newTokenServer(&stat, "clientID", "clientSecret", "abc123", 3600)
	defer ts.Close()

	m := newManager(ts.URL, "clientID", "clientSecret", 0, nil)

	// N callers discover no cached token simultaneously

	goroutines := 20
	tokens := make([]string, goroutines)
	errs := make([]error, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(j int) {
			tokens[j], errs[j] = m.GetAccessToken(context.Background())
			wg.Done()
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		if errs[i] != nil {
			t.Errorf("get %d: %v", i, errs[i])
		}
		if tokens[i] != "abc123" {
			t.Errorf("get %d: unexpected token: %s", i, tokens[i])
		}
	}

	if stat.count() != 1 {
		t.Errorf("expected exactly one exchange, got: %d", stat.count())
	}
}

func TestSingleFlightSaturation(t *testing.T) {

	stat := serverStat{}
	ts := newTokenServer(&stat, "clientID", "clientSecret", "abc123", 3600)
	defer ts.Close()

	//
	// error cache forces the exchange path on every call
	//
	c, errCache := errorcache.New()
	if errCache != nil {
		t.Fatalf("errorcache: %v", errCache)
	}

	m := New(Options{
		TokenURL:     ts.URL,
		ClientID:     "clientID",
		ClientSecret: "clientSecret",
		Cache:        c,
		Logf:         func(string, ...any) {},
	})

	goroutines := 50
	callsPerGoroutine := 50
	total := goroutines * callsPerGoroutine

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			for j := 0; j < callsPerGoroutine; j++ {
				if _, err := m.GetAccessToken(context.Background()); err != nil {
					t.Errorf("get: %v", err)
				}
			}
			wg.Done()
		}()
	}
	wg.Wait()

	t.Logf("calls: total=%d exchanges=%d", total, stat.count())

	if total <= stat.count() {
		t.Errorf("singleflight didnt save exchanges: total=%d exchanges=%d", total, stat.count())
	}
}

func TestCancelledWaiterAbandonsWait(t *testing.T) {

	stat := serverStat{}
	stat.delay = 300 * time.Millisecond
	ts := newTokenServer(&stat, "clientID", "clientSecret", "abc123", 3600)
	defer ts.Close()

	m := newManager(ts.URL, "clientID", "clientSecret", 0, nil)

	initiator := make(chan error, 1)
	go func() {
		_, err := m.GetAccessToken(context.Background())
		initiator <- err
	}()

	time.Sleep(50 * time.Millisecond) // let the exchange start

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, errWait := m.GetAccessToken(ctx)
	if !errors.Is(errWait, context.DeadlineExceeded) {
		t.Errorf("unexpected waiter error: %v", errWait)
	}

	// the exchange completes for the initiator regardless

	if err := <-initiator; err != nil {
		t.Errorf("initiator: %v", err)
	}
	if stat.count() != 1 {
		t.Errorf("unexpected token server access count: %d", stat.count())
	}
}

type serverStat struct {
	n     int
	token string
	delay time.Duration
	mutex sync.Mutex
}

func (stat *serverStat) inc() {
	stat.mutex.Lock()
	stat.n++
	stat.mutex.Unlock()
}

func (stat *serverStat) count() int {
	stat.mutex.Lock()
	defer stat.mutex.Unlock()
	return stat.n
}

func (stat *serverStat) setToken(t string) {
	stat.mutex.Lock()
	stat.token = t
	stat.mutex.Unlock()
}

func (stat *serverStat) getToken() string {
	stat.mutex.Lock()
	defer stat.mutex.Unlock()
	return stat.token
}

func formParam(r *http.Request, key string) string {
	v := r.Form[key]
	if v == nil {
		return ""
	}
	return v[0]
}

func newTokenServer(stat *serverStat, clientID, clientSecret, tok string, expireIn int) *httptest.Server {
	stat.setToken(tok)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		stat.inc()

		if stat.delay != 0 {
			time.Sleep(stat.delay)
		}

		r.ParseForm()
		formGrantType := formParam(r, "grant_type")
		formClientID := formParam(r, "client_id")
		formClientSecret := formParam(r, "client_secret")

		if formGrantType != "client_credentials" || formClientID != clientID || formClientSecret != clientSecret {
			httpJSON(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
			return
		}

		var body string
		if expireIn > 0 {
			body = fmt.Sprintf(`{"access_token":"%s","token_type":"Bearer","expires_in":%d}`, stat.getToken(), expireIn)
		} else {
			body = fmt.Sprintf(`{"access_token":"%s","token_type":"Bearer"}`, stat.getToken())
		}

		httpJSON(w, body, http.StatusOK)
	}))
}

// httpJSON replies to the request with the specified message and HTTP code.
// The message should be JSON.
func httpJSON(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprintln(w, message)
}

func newManager(tokenURL, clientID, clientSecret string, margin int, timeSource func() time.Time) *Manager {
	return New(Options{
		TokenURL:            tokenURL,
		ClientID:            clientID,
		ClientSecret:        clientSecret,
		SafetyMarginSeconds: margin,
		TimeSource:          timeSource,
		Logf:                func(string, ...any) {},
	})
}
