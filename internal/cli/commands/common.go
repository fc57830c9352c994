package commands

import (
	"fmt"
	"os"

	"github.com/campushire/campushire/internal/api"
	"github.com/campushire/campushire/internal/cli/config"
	"github.com/campushire/campushire/internal/cli/portalselect"
	"github.com/campushire/campushire/internal/guard"
	"github.com/campushire/campushire/internal/session"
)

// resolvePortal loads the project config and resolves the target portal.
// CAMPUSHIRE_API_URL works without any config file, which keeps CI setups
// to a single env var.
func resolvePortal(portalName string) (*config.Portal, error) {
	if portalName == "" {
		if url := os.Getenv(config.EnvAPIURL); url != "" {
			return &config.Portal{Name: "env", URL: url}, nil
		}
	}

	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'campushire init' to create a configuration file", err)
	}

	portal, err := portalselect.Resolve(cfg, portalName)
	if err != nil {
		return nil, err
	}

	if portal.URL == "" {
		return nil, fmt.Errorf("portal URL is empty. Please edit %s and add a valid URL", config.ConfigFileName)
	}

	return portal, nil
}

// openStore opens the persisted session. The bearer token lives in the OS
// keyring where one is available; the rest of the record is a JSON file
// under the user config dir.
func openStore() (*session.Store, error) {
	fileAdapter, err := session.NewFileAdapter()
	if err != nil {
		return nil, err
	}
	return session.Open(&session.KeyringAdapter{Inner: fileAdapter})
}

// newClient wires an API client to the session store: bearer tokens come
// from the store, and a 401 on any authenticated call tears the session
// down globally, whatever command was running.
func newClient(portalURL string, store *session.Store) *api.Client {
	client := api.New(portalURL)
	client.SetTokenSource(store.Token)
	client.SetUnauthorizedHook(func() {
		_ = store.Logout()
		fmt.Println("Your session has expired and you have been logged out.")
		fmt.Println("Run 'campushire login' to sign in again.")
	})
	return client
}

// requireUser gates a command on an authenticated regular-user session.
func requireUser(store *session.Store) error {
	if guard.Check(store.Snapshot(), guard.RequireUser) != guard.Allow {
		return fmt.Errorf("not logged in. Run 'campushire login' (or 'campushire signup' to create an account)")
	}
	return nil
}

// requireAdmin gates a command on an admin session.
func requireAdmin(store *session.Store) error {
	if guard.Check(store.Snapshot(), guard.RequireAdmin) != guard.Allow {
		return fmt.Errorf("admin access required. Run 'campushire admin login' first")
	}
	return nil
}
