package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campushire/campushire/internal/authflow"
)

// NewForgotPasswordCmd creates the forgot-password command
func NewForgotPasswordCmd() *cobra.Command {
	var email, portalName string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Reset your password with an emailed OTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForgotPassword(email, portalName)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CAMPUSHIRE_EMAIL, will prompt if not provided)")
	cmd.Flags().StringVar(&portalName, "portal", "", "Portal name from campushire.yaml")

	return cmd
}

func runForgotPassword(email, portalName string) error {
	if email == "" {
		email = os.Getenv("CAMPUSHIRE_EMAIL")
	}

	portal, err := resolvePortal(portalName)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	flow := authflow.NewLogin(newClient(portal.URL, store), store)
	if err := flow.StartPasswordReset(); err != nil {
		return err
	}

	ctx := context.Background()

	if email == "" {
		email, err = promptInput("Email", authflow.ValidateEmail)
		if err != nil {
			return err
		}
	}

	if err := flow.RequestPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("failed to request password reset: %w", err)
	}

	fmt.Printf("✓ Password reset OTP sent to %s. Check your inbox and spam folder.\n", email)

	for flow.Step() == authflow.StepResetPassword {
		otp, err := promptOTP()
		if err != nil {
			return err
		}

		password, err := readPassword("New password (min 6 characters)")
		if err != nil {
			return err
		}

		confirm, err := readPassword("Confirm new password")
		if err != nil {
			return err
		}

		if err := flow.ResetPassword(ctx, otp, password, confirm); err == nil {
			break
		} else {
			fmt.Printf("✗ %v\n", err)
		}

		choice, err := promptSelect("What next", []string{
			"Try again",
			"Resend OTP",
			"Cancel",
		})
		if err != nil {
			return err
		}

		switch choice {
		case "Resend OTP":
			if err := flow.ResendOTP(ctx); err != nil {
				fmt.Printf("✗ Failed to resend OTP: %v\n", err)
			} else {
				fmt.Println("✓ OTP resent to your email.")
			}
		case "Cancel":
			return fmt.Errorf("password reset cancelled")
		}
	}

	fmt.Println("✓ Password reset successfully! Sign in with: campushire login")
	return nil
}
