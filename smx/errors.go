package smx

import "fmt"

// APIError reports a non-auth HTTP error returned by the data API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status:%d body:%s", e.StatusCode, e.Body)
}

// TimeoutError reports a network call that exceeded the configured
// timeout. The caller may retry; this layer never does.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout: %s: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
