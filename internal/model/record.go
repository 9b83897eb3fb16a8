// Package model defines the user record shapes exchanged with the backend.
package model

// HealthMetrics is the optional height/weight block of a user record.
// Values are centimeters and kilograms.
type HealthMetrics struct {
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// UserRecord is the combined profile and health-metrics document for one
// user, exactly as returned by the backend. It is replaced wholesale on
// every successful load and never partially mutated on the client.
type UserRecord struct {
	UserID        string         `json:"user_id" yaml:"user_id"`
	Provider      string         `json:"provider" yaml:"provider"`
	CreatedAt     string         `json:"created_at" yaml:"created_at"`
	BirthDate     string         `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	Gender        string         `json:"gender,omitempty" yaml:"gender,omitempty"`
	HealthMetrics *HealthMetrics `json:"health_metrics,omitempty" yaml:"health_metrics,omitempty"`
}
