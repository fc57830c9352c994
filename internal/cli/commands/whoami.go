package commands

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami()
		},
	}
}

func runWhoami() error {
	store, err := openStore()
	if err != nil {
		return err
	}

	snap := store.Snapshot()

	if snap.IsAdmin && snap.AdminID != nil {
		fmt.Printf("Admin session (admin id %d)\n", *snap.AdminID)
		if !snap.IsAuthenticated {
			return nil
		}
	}

	if err := requireUser(store); err != nil {
		return err
	}

	fmt.Printf("User: %s (%s)\n", snap.User.FullName, snap.User.Email)
	fmt.Printf("  ID: %d\n", snap.User.ID)
	if snap.User.ProfileCompleted {
		fmt.Println("  Profile: complete")
	} else {
		fmt.Println("  Profile: incomplete")
	}

	if exp := tokenExpiry(snap.Token); exp != nil {
		if time.Now().After(*exp) {
			fmt.Printf("  Token expired at %s (the next API call will log you out)\n", exp.Format(time.RFC3339))
		} else {
			fmt.Printf("  Token expires: %s\n", exp.Format(time.RFC3339))
		}
	}

	return nil
}

// tokenExpiry extracts the exp claim when the bearer token happens to be a
// JWT. Purely informational: the token is opaque to the client and only
// the backend decides validity.
func tokenExpiry(token string) *time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	return &exp.Time
}
