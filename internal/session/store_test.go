package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalink/companion/internal/config"
)

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	cfg := &config.Config{
		TokenFile: filepath.Join(t.TempDir(), "vitalink", "token"),
	}
	return NewTokenStore(cfg)
}

func TestTokenStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("abc123"))

	token, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestTokenStoreReadEmpty(t *testing.T) {
	store := newTestStore(t)

	token, err := store.Read()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenStoreSaveReplaces(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))

	token, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestTokenStoreClear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("abc123"))
	require.NoError(t, store.Clear())

	token, err := store.Read()
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing an already empty store is fine.
	assert.NoError(t, store.Clear())
}

func TestHolderReplace(t *testing.T) {
	holder := NewHolder()
	assert.False(t, holder.Current().Active())
	assert.Empty(t, holder.Token())

	holder.Replace(Session{Token: "abc123", UserID: "u1"})
	assert.True(t, holder.Current().Active())
	assert.Equal(t, "abc123", holder.Token())

	holder.Replace(Session{})
	assert.False(t, holder.Current().Active())
	assert.Empty(t, holder.Token())
}
