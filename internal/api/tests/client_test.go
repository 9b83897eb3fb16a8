package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalink/companion/internal/api"
	"github.com/vitalink/companion/internal/config"
	"github.com/vitalink/companion/internal/contract"
)

// staticTokenSource supplies a fixed token for tests
type staticTokenSource struct {
	token string
}

func (s *staticTokenSource) Token() string { return s.token }

func newClient(t *testing.T, baseURL, token string) *api.Client {
	t.Helper()
	c, err := contract.Load()
	require.NoError(t, err)

	cfg := &config.Config{
		Backend: config.BackendConfig{BaseURL: baseURL},
	}
	return api.NewClient(api.ClientParams{
		Config:   cfg,
		Contract: c,
		Auth:     api.NewBearerAuthManager(&staticTokenSource{token: token}),
	})
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, success bool, message string, data interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"message": message,
		"data":    data,
	}); err != nil {
		t.Errorf("Failed to encode response: %v", err)
	}
}

func TestVerifyToken(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		checkResult    func(t *testing.T, id api.Identity, err error)
	}{
		{
			name: "Valid token",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "POST", r.Method)
				assert.Equal(t, "/api/v1/web/auth/verify-token", r.URL.Path)
				// Verification carries the token in the body, not a header.
				assert.Empty(t, r.Header.Get("Authorization"))

				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "abc123", body["token"])

				writeEnvelope(t, w, true, "", map[string]string{"user_id": "u1"})
			},
			checkResult: func(t *testing.T, id api.Identity, err error) {
				require.NoError(t, err)
				assert.Equal(t, "u1", id.UserID)
			},
		},
		{
			name: "Rejected token via envelope",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, false, "invalid session", nil)
			},
			checkResult: func(t *testing.T, id api.Identity, err error) {
				assert.ErrorIs(t, err, api.ErrUnauthorized)
			},
		},
		{
			name: "Rejected token via 401",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "expired session"})
			},
			checkResult: func(t *testing.T, id api.Identity, err error) {
				assert.ErrorIs(t, err, api.ErrUnauthorized)
				assert.Contains(t, err.Error(), "expired session")
			},
		},
		{
			name: "Identity payload missing",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, true, "", map[string]string{})
			},
			checkResult: func(t *testing.T, id api.Identity, err error) {
				assert.ErrorIs(t, err, api.ErrServer)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := newClient(t, server.URL, "")
			id, err := client.VerifyToken(context.Background(), "abc123")
			tt.checkResult(t, id, err)
		})
	}
}

func TestVerifyTokenNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Connection refused from here on.

	client := newClient(t, server.URL, "")
	_, err := client.VerifyToken(context.Background(), "abc123")

	// A transport failure must never look like a rejected token.
	assert.ErrorIs(t, err, api.ErrNetwork)
	assert.NotErrorIs(t, err, api.ErrUnauthorized)
}

func TestLoadUserData(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		checkResult    func(t *testing.T, err error)
	}{
		{
			name: "Record not found",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "no record"})
			},
			checkResult: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, api.ErrNotFound)
			},
		},
		{
			name: "Server error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "boom"})
			},
			checkResult: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, api.ErrServer)
			},
		},
		{
			name: "Malformed response body",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			checkResult: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, api.ErrServer)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := newClient(t, server.URL, "abc123")
			_, err := client.LoadUserData(context.Background(), "u1")
			tt.checkResult(t, err)
		})
	}
}

func TestLoadUserDataSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/web/user/data", r.URL.Path)
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["user_id"])

		writeEnvelope(t, w, true, "", map[string]interface{}{
			"user_id":    "u1",
			"provider":   "google",
			"created_at": "2025-03-01T09:00:00",
			"birth_date": "1990-01-01",
			"gender":     "male",
			"health_metrics": map[string]float64{
				"height": 170,
				"weight": 65,
			},
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL, "abc123")
	record, err := client.LoadUserData(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", record.UserID)
	assert.Equal(t, "google", record.Provider)
	assert.Equal(t, "1990-01-01", record.BirthDate)
	assert.Equal(t, "male", record.Gender)
	require.NotNil(t, record.HealthMetrics)
	assert.Equal(t, 170.0, record.HealthMetrics.Height)
	assert.Equal(t, 65.0, record.HealthMetrics.Weight)
}

func TestUpdateProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "/api/v1/auth/profile", r.URL.Path)
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1990-01-01", body["birth_date"])
		assert.Equal(t, "male", body["gender"])

		writeEnvelope(t, w, true, "", nil)
	}))
	defer server.Close()

	client := newClient(t, server.URL, "abc123")
	err := client.UpdateProfile(context.Background(), "1990-01-01", "male")
	assert.NoError(t, err)
}

func TestUpdateHealthMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/health/metrics", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["user_id"])
		assert.Equal(t, 170.0, body["height"])
		assert.Equal(t, 65.0, body["weight"])

		writeEnvelope(t, w, true, "", nil)
	}))
	defer server.Close()

	client := newClient(t, server.URL, "abc123")
	err := client.UpdateHealthMetrics(context.Background(), "u1", 170, 65)
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		wantErr        error
	}{
		{
			name: "Success",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "DELETE", r.Method)
				assert.Equal(t, "/api/v1/auth/account", r.URL.Path)
				assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
				writeEnvelope(t, w, true, "", nil)
			},
			wantErr: nil,
		},
		{
			name: "Server failure",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "deletion failed"})
			},
			wantErr: api.ErrServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := newClient(t, server.URL, "abc123")
			err := client.DeleteAccount(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
