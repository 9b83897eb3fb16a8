// Package session owns the client's authentication state: the persisted
// bearer token, the in-memory verified session and the verification flow.
package session

import (
	"sync"

	"github.com/vitalink/companion/internal/api"
)

// Session is one verified client session. It is an immutable value:
// constructed on successful verification and replaced, never mutated,
// on login, logout and deletion.
type Session struct {
	Token  string
	UserID string
}

// Active reports whether this value represents a live session.
func (s Session) Active() bool {
	return s.Token != "" && s.UserID != ""
}

// Holder publishes the current session to the rest of the client. The
// zero value holds no session. Replace swaps the whole value so callers
// never observe a half-updated session.
type Holder struct {
	mu      sync.RWMutex
	current Session
}

// NewHolder creates an empty session Holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the current session value.
func (h *Holder) Current() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Replace installs a new session value, replacing the previous one.
func (h *Holder) Replace(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = s
}

// Token implements api.TokenSource.
func (h *Holder) Token() string {
	return h.Current().Token
}

var _ api.TokenSource = (*Holder)(nil)
