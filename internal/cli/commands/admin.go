package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewAdminCmd creates the admin command group
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator commands",
	}

	cmd.AddCommand(newAdminLoginCmd())
	cmd.AddCommand(newAdminStatusCmd())

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var email, password, portalName string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a portal administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminLogin(email, password, portalName)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address (or set CAMPUSHIRE_ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (or set CAMPUSHIRE_ADMIN_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&portalName, "portal", "", "Portal name from campushire.yaml")

	return cmd
}

func runAdminLogin(email, password, portalName string) error {
	if email == "" {
		email = os.Getenv("CAMPUSHIRE_ADMIN_EMAIL")
	}
	if password == "" {
		password = os.Getenv("CAMPUSHIRE_ADMIN_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or CAMPUSHIRE_ADMIN_EMAIL env var)")
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
		password, err = readPassword("Admin password")
		if err != nil {
			return err
		}
	}

	client := newClient(portal.URL, store)

	fmt.Printf("Logging in to %s (%s) as admin...\n", portal.Name, portal.URL)

	resp, err := client.AdminLogin(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("admin login failed: %w", err)
	}

	// Admin login only flips the admin flags; an existing user session
	// (if any) is left untouched.
	if err := store.AdminLogin(resp.AdminID); err != nil {
		return err
	}

	fmt.Printf("✓ Admin login successful! (admin id %d)\n", resp.AdminID)
	return nil
}

func newAdminStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current admin session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminStatus()
		},
	}
}

func runAdminStatus() error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if err := requireAdmin(store); err != nil {
		return err
	}

	snap := store.Snapshot()
	fmt.Printf("Admin session active (admin id %d)\n", *snap.AdminID)
	return nil
}
