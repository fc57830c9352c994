package commands

import (
	"fmt"
	"syscall"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/campushire/campushire/internal/authflow"
)

// promptInput asks for one line of input, re-prompting until it validates.
func promptInput(label string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return value, nil
}

// promptOTP asks for the emailed 6-digit code. Non-digit characters are
// filtered out of the entered value before validation.
func promptOTP() (string, error) {
	prompt := promptui.Prompt{
		Label: "OTP (6 digits)",
		Validate: func(input string) error {
			return authflow.ValidateOTP(authflow.SanitizeOTP(input))
		},
	}

	raw, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return authflow.SanitizeOTP(raw), nil
}

// promptSelect shows a menu of actions and returns the chosen label.
func promptSelect(label string, items []string) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
	}

	_, choice, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return choice, nil
}

// readPassword reads a password without echo. Refuses to run when stdin is
// not a terminal so piped invocations fail loudly instead of hanging.
func readPassword(label string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use the --password flag or env var)")
	}

	fmt.Printf("%s: ", label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println() // New line after password input

	return string(bytePassword), nil
}
