package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalink/companion/internal/api"
	"github.com/vitalink/companion/internal/config"
	"github.com/vitalink/companion/internal/contract"
	"github.com/vitalink/companion/internal/data"
	"github.com/vitalink/companion/internal/deletion"
	"github.com/vitalink/companion/internal/session"
)

func newTestServices(t *testing.T, handler http.HandlerFunc) Services {
	t.Helper()
	c, err := contract.Load()
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Backend:   config.BackendConfig{BaseURL: server.URL},
		TokenFile: filepath.Join(t.TempDir(), "token"),
	}
	holder := session.NewHolder()
	store := session.NewTokenStore(cfg)
	client := api.NewClient(api.ClientParams{
		Config:   cfg,
		Contract: c,
		Auth:     api.NewBearerAuthManager(holder),
	})
	verifier := session.NewVerifier(session.VerifierParams{Client: client, Store: store, Holder: holder})
	loader := data.NewLoader(client)
	updater := data.NewUpdater(data.UpdaterParams{Client: client, Loader: loader, Sessions: holder})

	return Services{
		Config:   cfg,
		Store:    store,
		Sessions: holder,
		Verifier: verifier,
		Loader:   loader,
		Updater:  updater,
		Exporter: data.NewExporter(loader),
		Deletion: deletion.NewFlow(deletion.FlowParams{Client: client, Verifier: verifier, Loader: loader}),
	}
}

func okBackend(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/web/auth/verify-token":
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]string{"user_id": "u1"},
		})
	case "/api/v1/web/user/data":
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"user_id":        "u1",
				"provider":       "google",
				"created_at":     "2025-03-01T09:00:00",
				"health_metrics": map[string]float64{"height": 170, "weight": 65},
			},
		})
	default:
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}
}

func TestStartsOnLoginSurface(t *testing.T) {
	svc := newTestServices(t, okBackend)
	m := NewAppModel(svc)

	view := m.View()
	assert.Contains(t, view, "session token")
	assert.NotContains(t, view, "My Data")
}

func TestVerifiedSessionShowsDataSurface(t *testing.T) {
	svc := newTestServices(t, okBackend)
	m := NewAppModel(svc)

	sess, err := svc.Verifier.Verify(context.Background(), "abc123")
	require.NoError(t, err)

	updated, cmd := m.Update(verifiedMsg{session: sess})
	m = updated.(AppModel)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "My Data")
}

func TestRejectedTokenStaysOnLogin(t *testing.T) {
	svc := newTestServices(t, okBackend)
	m := NewAppModel(svc)

	updated, _ := m.Update(verifiedMsg{err: fmt.Errorf("verify: %w", api.ErrUnauthorized)})
	m = updated.(AppModel)

	view := m.View()
	assert.NotContains(t, view, "My Data")
	assert.Contains(t, view, "no longer valid")
}

func TestLoadedRecordRendersBmi(t *testing.T) {
	svc := newTestServices(t, okBackend)
	m := NewAppModel(svc)

	sess, err := svc.Verifier.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	record, err := svc.Loader.Load(context.Background(), sess.UserID)
	require.NoError(t, err)

	updated, _ := m.Update(verifiedMsg{session: sess})
	m = updated.(AppModel)
	updated, _ = m.Update(recordLoadedMsg{record: record})
	m = updated.(AppModel)

	assert.Contains(t, m.View(), "22.5 (정상/normal)")
}

func TestDeletionSuccessReturnsToLogin(t *testing.T) {
	svc := newTestServices(t, okBackend)
	m := NewAppModel(svc)

	sess, err := svc.Verifier.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	updated, _ := m.Update(verifiedMsg{session: sess})
	m = updated.(AppModel)

	require.NoError(t, svc.Deletion.Request())
	require.NoError(t, svc.Deletion.Confirm(context.Background()))

	updated, _ = m.Update(deletionDoneMsg{})
	m = updated.(AppModel)

	view := m.View()
	assert.NotContains(t, view, "My Data")
	assert.Contains(t, view, "deleted")
	assert.True(t, m.AccountDeleted())

	token, readErr := svc.Store.Read()
	require.NoError(t, readErr)
	assert.Empty(t, token)
}

func TestUnauthorizedLoadTearsDownSession(t *testing.T) {
	svc := newTestServices(t, okBackend)
	m := NewAppModel(svc)

	sess, err := svc.Verifier.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	_, err = svc.Loader.Load(context.Background(), sess.UserID)
	require.NoError(t, err)
	updated, _ := m.Update(verifiedMsg{session: sess})
	m = updated.(AppModel)

	updated, _ = m.Update(recordLoadedMsg{err: fmt.Errorf("load: %w", api.ErrUnauthorized)})
	m = updated.(AppModel)

	// No stale record may be rendered without an active session.
	assert.NotContains(t, m.View(), "My Data")

	// The session is fully destroyed, not just hidden: persisted token,
	// in-memory session and record cache are all gone.
	token, readErr := svc.Store.Read()
	require.NoError(t, readErr)
	assert.Empty(t, token)
	assert.False(t, svc.Sessions.Current().Active())
	assert.Nil(t, svc.Loader.Current())
}

func TestUnauthorizedSaveTearsDownSession(t *testing.T) {
	svc := newTestServices(t, okBackend)
	m := NewAppModel(svc)

	sess, err := svc.Verifier.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	_, err = svc.Loader.Load(context.Background(), sess.UserID)
	require.NoError(t, err)
	updated, _ := m.Update(verifiedMsg{session: sess})
	m = updated.(AppModel)

	updated, _ = m.Update(metricsSavedMsg{err: fmt.Errorf("save: %w", api.ErrUnauthorized)})
	m = updated.(AppModel)

	assert.NotContains(t, m.View(), "My Data")
	token, readErr := svc.Store.Read()
	require.NoError(t, readErr)
	assert.Empty(t, token)
	assert.False(t, svc.Sessions.Current().Active())
	assert.Nil(t, svc.Loader.Current())
}

func TestLogoutClearsSession(t *testing.T) {
	svc := newTestServices(t, okBackend)
	m := NewAppModel(svc)

	sess, err := svc.Verifier.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	_, err = svc.Loader.Load(context.Background(), sess.UserID)
	require.NoError(t, err)
	updated, _ := m.Update(verifiedMsg{session: sess})
	m = updated.(AppModel)

	msg := logoutCmd(svc)()
	require.IsType(t, loggedOutMsg{}, msg)
	updated, _ = m.Update(msg)
	m = updated.(AppModel)

	assert.NotContains(t, m.View(), "My Data")
	token, readErr := svc.Store.Read()
	require.NoError(t, readErr)
	assert.Empty(t, token)
	assert.False(t, svc.Sessions.Current().Active())
	assert.Nil(t, svc.Loader.Current())
}

func TestNewSessionAfterDeletionCanDeleteAgain(t *testing.T) {
	svc := newTestServices(t, okBackend)
	m := NewAppModel(svc)

	sess, err := svc.Verifier.Verify(context.Background(), "abc123")
	require.NoError(t, err)
	updated, _ := m.Update(verifiedMsg{session: sess})
	m = updated.(AppModel)

	require.NoError(t, svc.Deletion.Request())
	require.NoError(t, svc.Deletion.Confirm(context.Background()))
	updated, _ = m.Update(deletionDoneMsg{})
	m = updated.(AppModel)

	// A second user signs in; the deletion flow must be usable again.
	sess2, err := svc.Verifier.Verify(context.Background(), "def456")
	require.NoError(t, err)
	updated, _ = m.Update(verifiedMsg{session: sess2})
	m = updated.(AppModel)

	assert.Equal(t, deletion.StateIdle, svc.Deletion.State())
	assert.NoError(t, svc.Deletion.Request())
	svc.Deletion.Cancel()

	// The post-run summary still reports the earlier deletion.
	assert.True(t, m.AccountDeleted())
}
