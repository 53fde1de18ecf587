// Package token implements the bearer token value object shared by the
// token manager and the cache backends.
package token

import (
	"encoding/json"
	"time"
)

// Token holds a bearer token and its expiration deadline.
type Token struct {
	Value    string    `json:"value"`
	Deadline time.Time `json:"deadline"`

	// By default Token is non-expirable.
	// It becomes expirable when either Expire() or SetExpiration() is applied.
	// SetExpiration() is used to take an explicit expires_in field into effect.
	// Expire() is used to invalidate the Token, since the server
	// refused it and a new one must be retrieved.
	//
	Expirable bool `json:"expirable"`
}

// NewTokenFromJSON creates token from json.
func NewTokenFromJSON(buf []byte) (Token, error) {
	var t Token
	err := json.Unmarshal(buf, &t)
	if err != nil {
		return t, err
	}
	return t, nil
}

// ExportJSON exports token as json.
func (t Token) ExportJSON() ([]byte, error) {
	return json.Marshal(t)
}

// IsValid checks whether the token is usable at instant now.
// An expirable token within margin of its deadline is treated as absent,
// so renewal is attempted before hard expiration.
func (t *Token) IsValid(now time.Time, margin time.Duration) bool {
	return !t.Expirable || t.Deadline.After(now.Add(margin))
}

// Expire expires the token.
func (t *Token) Expire() {
	t.Expirable = true
	t.Deadline = expired
}

// SetExpiration schedules token expiration time.
func (t *Token) SetExpiration(deadline time.Time) {
	t.Expirable = true
	t.Deadline = deadline
}

var expired = time.Time{}
