// Package deletion implements the account deletion flow, the one place
// where a client action is irreversible. A deletion happens only after
// an explicit, separately confirmed user action and is never retried
// automatically.
package deletion

import (
	"context"
	"fmt"
	"sync"

	"github.com/vitalink/companion/internal/api"
	"github.com/vitalink/companion/internal/data"
	"github.com/vitalink/companion/internal/logger"
	"github.com/vitalink/companion/internal/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// State of the deletion flow.
type State int

const (
	// StateIdle: no deletion in progress.
	StateIdle State = iota
	// StateConfirmPending: the user requested deletion; waiting for an
	// explicit confirmation. No network effect yet.
	StateConfirmPending
	// StateDeleting: the delete call is in flight.
	StateDeleting
	// StateDeleted: the backend confirmed; the session is gone.
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirmPending:
		return "confirm-pending"
	case StateDeleting:
		return "deleting"
	case StateDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Flow drives the deletion state machine
// Idle -> ConfirmPending -> Deleting -> Deleted, with failures and
// cancellation returning to Idle without side effects.
type Flow struct {
	client   *api.Client
	verifier *session.Verifier
	loader   *data.Loader

	mu      sync.Mutex
	state   State
	deleted bool
}

type FlowParams struct {
	fx.In

	Client   *api.Client
	Verifier *session.Verifier
	Loader   *data.Loader
}

// NewFlow creates a new deletion Flow in the Idle state.
func NewFlow(params FlowParams) *Flow {
	return &Flow{
		client:   params.Client,
		verifier: params.Verifier,
		loader:   params.Loader,
	}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Request moves Idle to ConfirmPending. It is purely a confirmation
// gate; nothing touches the network.
func (f *Flow) Request() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateIdle {
		return fmt.Errorf("cannot request deletion in state %s", f.state)
	}
	f.state = StateConfirmPending
	return nil
}

// Cancel moves ConfirmPending back to Idle with no side effects.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateConfirmPending {
		f.state = StateIdle
	}
}

// Confirm issues the irreversible delete call. On success the persisted
// token is cleared, the record cache discarded and the state becomes
// Deleted. On any failure the state returns to Idle and the session is
// left fully intact: from this client's perspective a deletion is never
// partially applied.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateConfirmPending {
		state := f.state
		f.mu.Unlock()
		return fmt.Errorf("cannot confirm deletion in state %s", state)
	}
	f.state = StateDeleting
	f.mu.Unlock()

	if err := f.client.DeleteAccount(ctx); err != nil {
		f.mu.Lock()
		f.state = StateIdle
		f.mu.Unlock()
		logger.Error("account deletion failed", zap.Error(err))
		return err
	}

	if err := f.verifier.Teardown(); err != nil {
		logger.Warn("failed to clear token after deletion", zap.Error(err))
	}
	f.loader.Invalidate()

	f.mu.Lock()
	f.state = StateDeleted
	f.deleted = true
	f.mu.Unlock()
	logger.Info("account deleted, session destroyed")
	return nil
}

// Reset returns the flow to Idle so a newly installed session can run
// its own deletion. A delete call in flight is left alone; the deleted
// latch is kept so Deleted still reports an earlier deletion.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateDeleting {
		f.state = StateIdle
	}
}

// Deleted reports whether this flow ever completed a deletion. Unlike
// State it survives a Reset.
func (f *Flow) Deleted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleted
}

// Module provides the deletion dependencies
var Module = fx.Module("deletion",
	fx.Provide(
		NewFlow,
	),
)
