package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campushire/campushire/internal/authflow"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password, portalName string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the CampusHire portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, password, portalName)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CAMPUSHIRE_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set CAMPUSHIRE_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&portalName, "portal", "", "Portal name from campushire.yaml (uses the selected portal if not specified)")

	return cmd
}

func runLogin(email, password, portalName string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("CAMPUSHIRE_EMAIL")
	}
	if password == "" {
		password = os.Getenv("CAMPUSHIRE_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or CAMPUSHIRE_EMAIL env var)")
	}

	portal, err := resolvePortal(portalName)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	if password == "" {
		password, err = readPassword("Password")
		if err != nil {
			return err
		}
	}

	flow := authflow.NewLogin(newClient(portal.URL, store), store)

	fmt.Printf("Logging in to %s (%s)...\n", portal.Name, portal.URL)

	if err := flow.Login(context.Background(), email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	snap := store.Snapshot()
	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", snap.User.FullName, snap.User.Email)
	if !snap.User.ProfileCompleted {
		fmt.Println("  Your profile is incomplete. Fill it in with: campushire profile --full-name \"...\"")
	}

	return nil
}
