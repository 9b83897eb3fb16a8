package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vitalink/companion/internal/config"
)

// TokenStore persists one opaque bearer token in a single well-known
// file so a session survives client restarts. The token is never
// validated or expired here; expiry is the backend's responsibility and
// surfaces as a verification failure.
type TokenStore struct {
	path string
}

// NewTokenStore creates a TokenStore at the configured path.
func NewTokenStore(cfg *config.Config) *TokenStore {
	return &TokenStore{path: cfg.TokenFile}
}

// Save writes the token, replacing any previous one.
func (s *TokenStore) Save(token string) error {
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Read returns the stored token, or the empty string when none exists.
func (s *TokenStore) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear removes the stored token. Clearing an empty store is not an
// error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
