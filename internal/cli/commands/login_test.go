package commands

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/campushire/campushire/internal/api"
	"github.com/campushire/campushire/internal/session"
)

func TestMain(m *testing.M) {
	// Never touch the real OS keyring from tests.
	keyring.MockInit()
	os.Exit(m.Run())
}

// setupTestEnvironment isolates the session/user config in a temp dir and
// points the CLI at the given portal URL.
func setupTestEnvironment(t *testing.T, portalURL string) {
	t.Helper()

	t.Setenv("CAMPUSHIRE_CONFIG_HOME", t.TempDir())
	t.Setenv("CAMPUSHIRE_API_URL", portalURL)
	t.Setenv("CAMPUSHIRE_EMAIL", "")
	t.Setenv("CAMPUSHIRE_PASSWORD", "")
}

// mockPortal serves the login endpoint, accepting exactly one credential
// pair.
func mockPortal(t *testing.T, email, password, token string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req api.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if req.Email != email || req.Password != password {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid email or password"})
			return
		}

		json.NewEncoder(w).Encode(api.TokenResponse{
			AccessToken:      token,
			TokenType:        "bearer",
			UserID:           1,
			Email:            req.Email,
			ProfileCompleted: true,
		})
	}))
}

func TestLoginCommand_Successful(t *testing.T) {
	srv := mockPortal(t, "test@example.com", "password123", "test-token-abc")
	defer srv.Close()
	setupTestEnvironment(t, srv.URL)

	require.NoError(t, runLogin("test@example.com", "password123", ""))

	store, err := openStore()
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "test-token-abc", snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, "test@example.com", snap.User.Email)
	// No name in the token response: defaults to the email local part.
	assert.Equal(t, "test", snap.User.FullName)
}

func TestLoginCommand_EnvVarCredentials(t *testing.T) {
	srv := mockPortal(t, "env@example.com", "envpass1", "tok-env")
	defer srv.Close()
	setupTestEnvironment(t, srv.URL)

	t.Setenv("CAMPUSHIRE_EMAIL", "env@example.com")
	t.Setenv("CAMPUSHIRE_PASSWORD", "envpass1")

	require.NoError(t, runLogin("", "", ""))

	store, err := openStore()
	require.NoError(t, err)
	assert.True(t, store.Snapshot().IsAuthenticated)
}

func TestLoginCommand_MissingEmail(t *testing.T) {
	setupTestEnvironment(t, "http://127.0.0.1:1")

	err := runLogin("", "password123", "")
	require.Error(t, err)
	assert.Equal(t, "email is required (use --email flag or CAMPUSHIRE_EMAIL env var)", err.Error())
}

func TestLoginCommand_InvalidCredentials(t *testing.T) {
	srv := mockPortal(t, "test@example.com", "password123", "tok")
	defer srv.Close()
	setupTestEnvironment(t, srv.URL)

	err := runLogin("test@example.com", "wrong-password", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")

	store, openErr := openStore()
	require.NoError(t, openErr)
	assert.False(t, store.Snapshot().IsAuthenticated)
}

func TestLoginCommand_ClearsAdminSession(t *testing.T) {
	srv := mockPortal(t, "test@example.com", "password123", "tok")
	defer srv.Close()
	setupTestEnvironment(t, srv.URL)

	store, err := openStore()
	require.NoError(t, err)
	require.NoError(t, store.AdminLogin(5))

	require.NoError(t, runLogin("test@example.com", "password123", ""))

	store, err = openStore()
	require.NoError(t, err)
	snap := store.Snapshot()
	assert.False(t, snap.IsAdmin)
	assert.Nil(t, snap.AdminID)
	assert.True(t, snap.IsAuthenticated)
}

func TestLoginCommand_Flags(t *testing.T) {
	cmd := NewLoginCmd()

	assert.Equal(t, "login", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("email"))
	assert.NotNil(t, cmd.Flags().Lookup("password"))
	assert.NotNil(t, cmd.Flags().Lookup("portal"))
}

func TestUnauthorizedResponseTearsDownSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()
	setupTestEnvironment(t, srv.URL)

	// Seed an authenticated session that also carries admin flags.
	store, err := openStore()
	require.NoError(t, err)
	require.NoError(t, store.SetAuth(session.User{ID: 1, Email: "a@b.com", FullName: "Jane"}, "stale-token"))
	require.NoError(t, store.AdminLogin(3))

	// Any authenticated call answering 401 resets the session globally,
	// regardless of the prior admin flag.
	err = runProfile("", api.ProfileUpdateRequest{})
	require.Error(t, err)

	store, err = openStore()
	require.NoError(t, err)
	assert.Equal(t, session.Session{}, store.Snapshot())
}

func TestWhoamiCommand_NotLoggedIn(t *testing.T) {
	setupTestEnvironment(t, "http://127.0.0.1:1")

	err := runWhoami()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLogoutCommand_Idempotent(t *testing.T) {
	setupTestEnvironment(t, "http://127.0.0.1:1")

	require.NoError(t, runLogout())
	require.NoError(t, runLogout())
}

func TestAdminLoginCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/admin/login", r.URL.Path)
		json.NewEncoder(w).Encode(api.AdminLoginResponse{Message: "ok", AdminID: 7})
	}))
	defer srv.Close()
	setupTestEnvironment(t, srv.URL)

	require.NoError(t, runAdminLogin("admin@example.com", "adminpass", ""))

	store, err := openStore()
	require.NoError(t, err)
	snap := store.Snapshot()
	assert.True(t, snap.IsAdmin)
	require.NotNil(t, snap.AdminID)
	assert.Equal(t, 7, *snap.AdminID)
	// Admin login does not fabricate a user session.
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
}
