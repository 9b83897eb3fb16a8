package data

import (
	"context"
	"strconv"
	"time"

	"github.com/vitalink/companion/internal/api"
	"github.com/vitalink/companion/internal/logger"
	"github.com/vitalink/companion/internal/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Input widget bounds for health metrics, in centimeters and kilograms.
const (
	MinHeight = 100.0
	MaxHeight = 250.0
	MinWeight = 30.0
	MaxWeight = 200.0
)

var validGenders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

// Updater validates and submits partial mutations of the user record.
// Validation failures are rejected locally, before any network call,
// and reported as *api.ValidationError.
type Updater struct {
	client   *api.Client
	loader   *Loader
	sessions *session.Holder
}

type UpdaterParams struct {
	fx.In

	Client   *api.Client
	Loader   *Loader
	Sessions *session.Holder
}

// NewUpdater creates a new Updater
func NewUpdater(params UpdaterParams) *Updater {
	return &Updater{
		client:   params.Client,
		loader:   params.Loader,
		sessions: params.Sessions,
	}
}

// UpdateProfile submits new profile fields and refreshes the record on
// success. Both fields are required; birth date must be YYYY-MM-DD and
// gender one of male/female/other, matching the backend's own
// validators so bad input fails here instead of on the wire.
func (u *Updater) UpdateProfile(ctx context.Context, birthDate, gender string) error {
	if birthDate == "" {
		return api.NewValidationError("birth_date", "required")
	}
	if _, err := time.Parse("2006-01-02", birthDate); err != nil {
		return api.NewValidationError("birth_date", "must be YYYY-MM-DD")
	}
	if gender == "" {
		return api.NewValidationError("gender", "required")
	}
	if !validGenders[gender] {
		return api.NewValidationError("gender", "must be male, female or other")
	}

	if err := u.client.UpdateProfile(ctx, birthDate, gender); err != nil {
		return err
	}
	logger.Info("profile updated", zap.String("birth_date", birthDate), zap.String("gender", gender))
	return u.refresh(ctx)
}

// UpdateMetrics submits new height and weight values and refreshes the
// record on success, which recomputes the displayed BMI. Inputs arrive
// as form strings; both must parse as numbers within the widget bounds.
func (u *Updater) UpdateMetrics(ctx context.Context, height, weight string) error {
	h, err := parseMetric("height", height, MinHeight, MaxHeight)
	if err != nil {
		return err
	}
	w, err := parseMetric("weight", weight, MinWeight, MaxWeight)
	if err != nil {
		return err
	}

	sess := u.sessions.Current()
	if !sess.Active() {
		return api.ErrUnauthorized
	}

	if err := u.client.UpdateHealthMetrics(ctx, sess.UserID, h, w); err != nil {
		return err
	}
	logger.Info("health metrics updated", zap.Float64("height", h), zap.Float64("weight", w))
	return u.refresh(ctx)
}

// refresh reloads the record after a successful mutation so the cache
// reflects exactly what the backend stored.
func (u *Updater) refresh(ctx context.Context) error {
	sess := u.sessions.Current()
	if !sess.Active() {
		return api.ErrUnauthorized
	}
	_, err := u.loader.Load(ctx, sess.UserID)
	return err
}

func parseMetric(field, raw string, min, max float64) (float64, error) {
	if raw == "" {
		return 0, api.NewValidationError(field, "required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, api.NewValidationError(field, "must be a number")
	}
	if v < min || v > max {
		return 0, api.NewValidationError(field, "out of range")
	}
	return v, nil
}
