package auth

import "fmt"

// AuthError reports a failed token exchange or an exhausted
// re-authentication attempt. Detail carries the error description
// returned by the token endpoint, when it provided one.
type AuthError struct {
	StatusCode int
	Detail     string
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed: status:%d detail:%s", e.StatusCode, e.Detail)
	}
	return "authentication failed: " + e.Detail
}

// TimeoutError reports a token exchange that exceeded the HTTP client's
// timeout. The caller may retry; this layer never does.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("token exchange timeout: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
