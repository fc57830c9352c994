package authflow

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validation happens client-side, before any network call. The messages
// here are the ones shown to the user verbatim.

func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,contains=@"); err != nil {
		return errors.New("please enter a valid email address")
	}
	return nil
}

func ValidatePassword(password string) error {
	if err := validate.Var(password, "required,min=6"); err != nil {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}

func ValidatePasswordMatch(password, confirm string) error {
	if password != confirm {
		return errors.New("passwords do not match")
	}
	return nil
}

func ValidateOTP(otp string) error {
	if err := validate.Var(otp, "required,len=6,number"); err != nil {
		return errors.New("please enter a valid 6-digit OTP")
	}
	return nil
}

func ValidateFullName(name string) error {
	if err := validate.Var(strings.TrimSpace(name), "required,min=2"); err != nil {
		return errors.New("please enter your full name (at least 2 characters)")
	}
	return nil
}

// SanitizeOTP filters the raw input down to digits and caps it at six
// characters, mirroring the keystroke filtering of the signup form.
func SanitizeOTP(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == 6 {
			break
		}
	}
	return b.String()
}
