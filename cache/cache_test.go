package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Quaestor-Technologies/smx-mcp/token"
)

func TestNewSpec(t *testing.T) {
	tokenURL := "https://auth.example.com/token"
	clientID := "clientID"

	c, err := New("", tokenURL, clientID)
	if err != nil {
		t.Errorf("empty spec: %v", err)
	}
	if c != nil {
		t.Errorf("empty spec should yield nil cache")
	}

	if _, err = New("error", tokenURL, clientID); err != nil {
		t.Errorf("error spec: %v", err)
	}

	if _, err = New("bogus", tokenURL, clientID); err == nil {
		t.Errorf("unexpected success for unknown spec")
	}

	if _, err = New("redis:localhost", tokenURL, clientID); err == nil {
		t.Errorf("unexpected success for short redis spec")
	}

	if _, err = New("redis:localhost:6379::smx", tokenURL, clientID); err != nil {
		t.Errorf("redis spec: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	c, errNew := New("file:"+path, "https://auth.example.com/token", "clientID")
	if errNew != nil {
		t.Fatalf("new: %v", errNew)
	}

	var tk token.Token
	tk.Value = "abc"
	tk.SetExpiration(time.Now().Add(time.Hour))

	if err := c.Put(tk); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, errGet := c.Get()
	if errGet != nil {
		t.Fatalf("get: %v", errGet)
	}
	if got.Value != "abc" {
		t.Errorf("unexpected value: %s", got.Value)
	}
	if !got.IsValid(time.Now(), time.Minute) {
		t.Errorf("token should be valid")
	}

	if err := c.Expire(); err != nil {
		t.Fatalf("expire: %v", err)
	}
	got, errGet = c.Get()
	if errGet != nil {
		t.Fatalf("get: %v", errGet)
	}
	if got.IsValid(time.Now(), 0) {
		t.Errorf("expired token should be invalid")
	}
}

func TestFileCacheMissingFile(t *testing.T) {
	c, errNew := New("file:"+filepath.Join(t.TempDir(), "absent.json"), "u", "c")
	if errNew != nil {
		t.Fatalf("new: %v", errNew)
	}
	if _, err := c.Get(); err == nil {
		t.Errorf("unexpected success reading absent cache file")
	}

	// a missing file counts as already expired

	if err := c.Expire(); err != nil {
		t.Errorf("expire on absent cache file: %v", err)
	}
}
