// Package data mediates the user record between the backend and the
// view: loading, form-driven mutation and export. All mutations round
// trip through the backend and are followed by a full reload; the client
// never patches the cached record locally.
package data

import (
	"context"
	"sync"

	"github.com/vitalink/companion/internal/api"
	"github.com/vitalink/companion/internal/logger"
	"github.com/vitalink/companion/internal/model"
	"go.uber.org/zap"
)

// Loader fetches the user record and owns the in-memory cache of the
// last successfully loaded copy.
type Loader struct {
	client *api.Client

	mu     sync.RWMutex
	record *model.UserRecord
}

// NewLoader creates a new Loader
func NewLoader(client *api.Client) *Loader {
	return &Loader{client: client}
}

// Load fetches the record for userID and replaces the cache wholesale.
// On any failure the previous cache is left untouched.
func (l *Loader) Load(ctx context.Context, userID string) (*model.UserRecord, error) {
	record, err := l.client.LoadUserData(ctx, userID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.record = record
	l.mu.Unlock()

	logger.Debug("user record loaded", zap.String("user_id", record.UserID))
	return record, nil
}

// Current returns the last successfully loaded record, or nil when no
// record has been loaded this session.
func (l *Loader) Current() *model.UserRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.record
}

// Invalidate clears the cache. Called whenever the session is destroyed.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.record = nil
	l.mu.Unlock()
}
