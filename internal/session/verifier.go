package session

import (
	"context"
	"errors"

	"github.com/vitalink/companion/internal/api"
	"github.com/vitalink/companion/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Verifier exchanges a candidate token for a verified session.
type Verifier struct {
	client *api.Client
	store  *TokenStore
	holder *Holder
}

type VerifierParams struct {
	fx.In

	Client *api.Client
	Store  *TokenStore
	Holder *Holder
}

// NewVerifier creates a new Verifier
func NewVerifier(params VerifierParams) *Verifier {
	return &Verifier{
		client: params.Client,
		store:  params.Store,
		holder: params.Holder,
	}
}

// Verify checks the token against the backend. On success the token is
// persisted and the new session installed. A rejected token clears the
// store and any current session. A network failure changes nothing: the
// stored token may still be valid, so it is kept for a retry.
func (v *Verifier) Verify(ctx context.Context, token string) (Session, error) {
	id, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			logger.Info("token rejected, clearing session", zap.Error(err))
			if clearErr := v.store.Clear(); clearErr != nil {
				logger.Warn("failed to clear token store", zap.Error(clearErr))
			}
			v.holder.Replace(Session{})
		}
		return Session{}, err
	}

	sess := Session{Token: token, UserID: id.UserID}
	if err := v.store.Save(token); err != nil {
		// The session is still usable for this run; persistence only
		// affects the next start.
		logger.Warn("failed to persist token", zap.Error(err))
	}
	v.holder.Replace(sess)
	logger.Info("session verified", zap.String("user_id", id.UserID))
	return sess, nil
}

// Teardown destroys the current session: the persisted token and the
// in-memory session value. Used by logout and after account deletion.
func (v *Verifier) Teardown() error {
	err := v.store.Clear()
	v.holder.Replace(Session{})
	return err
}

// Module provides the session dependencies
var Module = fx.Module("session",
	fx.Provide(
		NewTokenStore,
		NewHolder,
		NewVerifier,
		func(h *Holder) api.TokenSource { return h },
	),
)
