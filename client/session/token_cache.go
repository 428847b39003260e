package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// TokenCache is the single piece of client state that survives restarts: the
// session token, kept alongside its expiry so a stale token is discarded on
// load instead of trusted.
type TokenCache struct {
	path string
	ttl  time.Duration
}

type cachedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewTokenCache(path string, ttl time.Duration) *TokenCache {
	if path == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			path = filepath.Join(dir, "gomall", "token.json")
		} else {
			path = filepath.Join(os.TempDir(), "gomall-token.json")
		}
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenCache{path: path, ttl: ttl}
}

func (c *TokenCache) Save(token string) error {
	entry := cachedToken{
		Token:     token,
		ExpiresAt: time.Now().Add(c.ttl),
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.path, encoded, 0o600)
}

// Load returns the cached token, or "" when none is stored or the entry has
// expired. An expired entry is removed on the spot.
func (c *TokenCache) Load() string {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return ""
	}

	var entry cachedToken
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = c.Clear()
		return ""
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = c.Clear()
		return ""
	}
	return entry.Token
}

func (c *TokenCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
