package tui

import (
	"errors"

	"github.com/vitalink/companion/internal/api"
	"github.com/vitalink/companion/internal/config"
	"github.com/vitalink/companion/internal/data"
	"github.com/vitalink/companion/internal/deletion"
	"github.com/vitalink/companion/internal/session"
	"go.uber.org/fx"
)

// Services bundles the wired application services the view layer drives.
type Services struct {
	fx.In

	Config   *config.Config
	Store    *session.TokenStore
	Sessions *session.Holder
	Verifier *session.Verifier
	Loader   *data.Loader
	Updater  *data.Updater
	Exporter *data.Exporter
	Deletion *deletion.Flow
}

// errorStatus maps an operation error onto the user-visible status line.
// Every error kind gets a distinct message; nothing is swallowed.
func errorStatus(err error) string {
	switch {
	case err == nil:
		return ""
	case api.IsValidation(err):
		return errorMessageStyle(err.Error())
	case errors.Is(err, api.ErrUnauthorized):
		return errorMessageStyle("Session is no longer valid. Please sign in again.")
	case errors.Is(err, api.ErrNotFound):
		return errorMessageStyle("No record found for this account.")
	case errors.Is(err, api.ErrNetwork):
		return errorMessageStyle("Could not reach the backend. Please try again.")
	case errors.Is(err, data.ErrNoRecord):
		return errorMessageStyle("No record loaded yet.")
	default:
		return errorMessageStyle("The backend reported an error. Please try again later.")
	}
}
