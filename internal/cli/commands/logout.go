package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}
}

func runLogout() error {
	store, err := openStore()
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if err := store.Logout(); err != nil {
		return err
	}

	if snap.IsAuthenticated || snap.IsAdmin {
		fmt.Println("✓ Logged out.")
	} else {
		fmt.Println("Already logged out.")
	}

	return nil
}
