package api

import (
	"net/http"
)

// TokenSource supplies the bearer token of the current session. An empty
// token means no active session.
type TokenSource interface {
	Token() string
}

// AuthManager handles request authentication
type AuthManager interface {
	ApplyAuth(req *http.Request) error
}

// BearerAuthManager implements the AuthManager interface using the
// session token from a TokenSource.
type BearerAuthManager struct {
	tokens TokenSource
}

// NewBearerAuthManager creates a new BearerAuthManager
func NewBearerAuthManager(tokens TokenSource) *BearerAuthManager {
	return &BearerAuthManager{tokens: tokens}
}

// ApplyAuth adds the Authorization header to the request. Without an
// active session no header is set and the backend answers 401, which the
// client maps to ErrUnauthorized.
func (a *BearerAuthManager) ApplyAuth(req *http.Request) error {
	token := a.tokens.Token()
	if token == "" {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
