package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringAdapterStripsTokenFromFile(t *testing.T) {
	keyring.MockInit()

	path := filepath.Join(t.TempDir(), "session.json")
	adapter := &KeyringAdapter{Inner: &FileAdapter{Path: path}}

	sess := Session{
		User:            &User{ID: 1, Email: "a@b.com"},
		Token:           "secret-token",
		IsAuthenticated: true,
	}
	require.NoError(t, adapter.Save(&sess))

	// The on-disk record must not carry the token.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk Session
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Empty(t, onDisk.Token)
	assert.True(t, onDisk.IsAuthenticated)

	// Loading reassembles the full session from file plus keyring.
	loaded, err := adapter.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "secret-token", loaded.Token)
	assert.Equal(t, "a@b.com", loaded.User.Email)
}

func TestKeyringAdapterLogoutRemovesSecret(t *testing.T) {
	keyring.MockInit()

	path := filepath.Join(t.TempDir(), "session.json")
	adapter := &KeyringAdapter{Inner: &FileAdapter{Path: path}}

	require.NoError(t, adapter.Save(&Session{Token: "secret", IsAuthenticated: true}))
	require.NoError(t, adapter.Save(&Session{}))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Empty(t, loaded.Token)
	assert.False(t, loaded.IsAuthenticated)
}
