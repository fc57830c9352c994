package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campushire/campushire/internal/authflow"
)

// NewSignupCmd creates the signup command
func NewSignupCmd() *cobra.Command {
	var email, portalName string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a CampusHire account (email, OTP verification, profile)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(email, portalName)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CAMPUSHIRE_EMAIL, will prompt if not provided)")
	cmd.Flags().StringVar(&portalName, "portal", "", "Portal name from campushire.yaml")

	return cmd
}

func runSignup(email, portalName string) error {
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

	flow := authflow.NewSignup(newClient(portal.URL, store), store)

	fmt.Printf("Creating an account on %s (%s)\n", portal.Name, portal.URL)

	ctx := context.Background()

	// The wizard loops on the flow's current step until the account is
	// created: signup -> otp-verify -> complete-profile.
	for flow.Step() != authflow.StepAuthenticated {
		switch flow.Step() {
		case authflow.StepSignup:
			if err := signupStep(ctx, flow, &email); err != nil {
				return err
			}
		case authflow.StepOTPVerify:
			if err := otpStep(ctx, flow, &email); err != nil {
				return err
			}
		case authflow.StepCompleteProfile:
			if err := profileStep(ctx, flow); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected wizard step %q", flow.Step())
		}
	}

	snap := store.Snapshot()
	fmt.Printf("✓ Welcome, %s! Account created successfully.\n", snap.User.FullName)
	if !snap.User.ProfileCompleted {
		fmt.Println("  Finish your profile with: campushire profile --college \"...\" --branch \"...\"")
	}

	return nil
}

// signupStep collects the email and requests the OTP.
func signupStep(ctx context.Context, flow *authflow.Flow, email *string) error {
	if *email == "" {
		value, err := promptInput("Email", authflow.ValidateEmail)
		if err != nil {
			return err
		}
		*email = value
	}

	if err := flow.SubmitSignup(ctx, *email); err != nil {
		fmt.Printf("✗ %v\n", err)
		// Let the user fix the address on the next pass.
		*email = ""
		if errors.Is(err, authflow.ErrInvalidTransition) {
			return err
		}
		return nil
	}

	fmt.Printf("✓ OTP sent to %s. Check your inbox and spam folder.\n", *email)
	return nil
}

// otpStep verifies the emailed code, with resend and change-email escapes.
func otpStep(ctx context.Context, flow *authflow.Flow, email *string) error {
	otp, err := promptOTP()
	if err != nil {
		return err
	}

	if err := flow.SubmitOTP(ctx, otp); err == nil {
		fmt.Println("✓ OTP verified! Please complete your profile.")
		return nil
	} else {
		fmt.Printf("✗ %v\n", err)
	}

	choice, err := promptSelect("What next", []string{
		"Try again",
		"Resend OTP",
		"Change email",
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
	case "Change email":
		// Back to the email step; the entered OTP is discarded but the
		// address stays prefilled via the prompt default.
		if err := flow.BackToSignup(); err != nil {
			return err
		}
		*email = ""
	case "Cancel":
		return fmt.Errorf("signup cancelled")
	}

	return nil
}

// profileStep collects name and password and creates the account. If the
// backend's verification window expired, the flow has already moved back
// to the OTP step and the outer loop picks it up.
func profileStep(ctx context.Context, flow *authflow.Flow) error {
	name, err := promptInput("Full name", authflow.ValidateFullName)
	if err != nil {
		return err
	}

	password, err := readPassword("Password (min 6 characters)")
	if err != nil {
		return err
	}

	confirm, err := readPassword("Confirm password")
	if err != nil {
		return err
	}

	if err := flow.CompleteProfile(ctx, name, password, confirm); err != nil {
		fmt.Printf("✗ %v\n", err)
		if errors.Is(err, authflow.ErrVerificationExpired) {
			fmt.Println("Please verify your OTP again.")
		}
	}

	return nil
}
