package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Quaestor-Technologies/smx-mcp/token"
)

// tokenResponse is the RFC 6749 token endpoint success body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// tokenErrorResponse is the RFC 6749 token endpoint error body.
type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// exchange performs the client-credentials grant and stores the new token.
// It runs detached from any caller's context: the HTTP client's timeout is
// the only bound, so late singleflight waiters still get a result after the
// initiating caller cancels. The cache is left untouched on failure.
func (m *Manager) exchange() (string, error) {

	begin := time.Now()

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.options.ClientID)
	form.Set("client_secret", m.options.ClientSecret)
	if m.options.Scope != "" {
		form.Set("scope", m.options.Scope)
	}

	req, errReq := http.NewRequestWithContext(context.Background(),
		http.MethodPost, m.options.TokenURL, strings.NewReader(form.Encode()))
	if errReq != nil {
		return "", &AuthError{Detail: "token request: " + errReq.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, errDo := m.options.HTTPClient.Do(req)
	if errDo != nil {
		var netErr net.Error
		if errors.As(errDo, &netErr) && netErr.Timeout() {
			return "", &TimeoutError{Err: errDo}
		}
		if errors.Is(errDo, context.DeadlineExceeded) {
			return "", &TimeoutError{Err: errDo}
		}
		return "", &AuthError{Detail: "token exchange: " + errDo.Error()}
	}
	defer resp.Body.Close()

	body, errBody := io.ReadAll(resp.Body)
	if errBody != nil {
		return "", &AuthError{StatusCode: resp.StatusCode, Detail: "token response body: " + errBody.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newAuthError(resp.StatusCode, body)
	}

	var tr tokenResponse
	if errJSON := json.Unmarshal(body, &tr); errJSON != nil {
		return "", &AuthError{StatusCode: resp.StatusCode, Detail: "malformed token response: " + errJSON.Error()}
	}
	if tr.AccessToken == "" {
		return "", &AuthError{StatusCode: resp.StatusCode, Detail: "no access token in response"}
	}

	newToken := token.Token{
		Value: tr.AccessToken,
	}
	if tr.ExpiresIn != 0 {
		newToken.SetExpiration(m.options.TimeSource().Add(time.Duration(tr.ExpiresIn) * time.Second))
	}

	m.debugf("exchange: elapsed:%v expires_in:%d token_type:%s",
		time.Since(begin), tr.ExpiresIn, tr.TokenType)

	if errPut := m.options.Cache.Put(newToken); errPut != nil {
		m.errorf("cache put error: %v", errPut)
	}

	return newToken.Value, nil
}

// newAuthError extracts the oauth2 error detail from an endpoint error body.
func newAuthError(status int, body []byte) *AuthError {
	var te tokenErrorResponse
	if err := json.Unmarshal(body, &te); err == nil && te.Error != "" {
		detail := te.Error
		if te.ErrorDescription != "" {
			detail += ": " + te.ErrorDescription
		}
		return &AuthError{StatusCode: status, Detail: detail}
	}
	return &AuthError{StatusCode: status, Detail: strings.TrimSpace(string(body))}
}
