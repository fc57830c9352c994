// Package authflow drives the portal's multi-step authentication wizards:
// signup (email, OTP verification, profile completion), login, and the
// forgot/reset-password sequence. The flow is an explicit state machine;
// each submission is only legal in its own step, and successful calls move
// the flow forward and write the resulting identity into the session store.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campushire/campushire/internal/api"
	"github.com/campushire/campushire/internal/logger"
	"github.com/campushire/campushire/internal/session"
)

var (
	// ErrInvalidTransition means a submission was attempted from the
	// wrong step.
	ErrInvalidTransition = errors.New("operation is not valid in the current step")
	// ErrSubmitInFlight rejects a second submission while one is pending.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrInvalidCredentials is the canonical login rejection message.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrVerificationExpired means the backend's verification grace
	// window lapsed; the user must re-verify their OTP.
	ErrVerificationExpired = errors.New("OTP verification expired, please verify your OTP again")
	// ErrServerDown is reported when the portal's health endpoint is
	// unreachable too.
	ErrServerDown = errors.New("cannot connect to the portal server; please check that it is running")
	// ErrTransientNetwork is reported when the request failed but the
	// health endpoint answered.
	ErrTransientNetwork = errors.New("the portal is reachable but the request failed; please try again")
)

// Step identifies the wizard state.
type Step int

const (
	StepSignup Step = iota
	StepOTPVerify
	StepCompleteProfile
	StepLogin
	StepForgotPassword
	StepResetPassword
	StepAuthenticated
)

func (s Step) String() string {
	switch s {
	case StepSignup:
		return "signup"
	case StepOTPVerify:
		return "otp-verify"
	case StepCompleteProfile:
		return "complete-profile"
	case StepLogin:
		return "login"
	case StepForgotPassword:
		return "forgot-password"
	case StepResetPassword:
		return "reset-password"
	case StepAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Flow is one wizard run. The pending-signup state (email, verified OTP)
// lives only in memory for the duration of the run; it is wiped on
// completion and never persisted.
type Flow struct {
	client *api.Client
	store  *session.Store
	log    zerolog.Logger

	step        Step
	email       string
	verifiedOTP string
	inFlight    bool
}

// NewSignup starts a signup wizard at the email step.
func NewSignup(client *api.Client, store *session.Store) *Flow {
	return newFlow(client, store, StepSignup)
}

// NewLogin starts a login wizard.
func NewLogin(client *api.Client, store *session.Store) *Flow {
	return newFlow(client, store, StepLogin)
}

func newFlow(client *api.Client, store *session.Store, step Step) *Flow {
	return &Flow{
		client: client,
		store:  store,
		log:    logger.GetLogger(),
		step:   step,
	}
}

// Step returns the current wizard step.
func (f *Flow) Step() Step {
	return f.step
}

// Email returns the email the wizard is operating on.
func (f *Flow) Email() string {
	return f.email
}

// SubmitSignup validates the email and requests a signup OTP. Success
// advances to the OTP verification step.
func (f *Flow) SubmitSignup(ctx context.Context, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := f.begin(StepSignup); err != nil {
		return err
	}
	defer f.end()

	// full_name is accepted by the signup endpoint but unused; the real
	// name is collected at profile completion.
	if _, err := f.client.Signup(ctx, "", email); err != nil {
		return err
	}

	f.email = email
	f.step = StepOTPVerify
	f.log.Debug().Str("step", f.step.String()).Msg("signup OTP requested")
	return nil
}

// SubmitOTP verifies the 6-digit code without creating the account. On
// success the code is kept in memory as fallback proof for profile
// completion and the flow advances.
func (f *Flow) SubmitOTP(ctx context.Context, otp string) error {
	if err := ValidateOTP(otp); err != nil {
		return err
	}
	if err := f.begin(StepOTPVerify); err != nil {
		return err
	}
	defer f.end()

	if _, err := f.client.VerifyOTPOnly(ctx, f.email, otp); err != nil {
		return err
	}

	f.verifiedOTP = otp
	f.step = StepCompleteProfile
	f.log.Debug().Str("step", f.step.String()).Msg("OTP verified")
	return nil
}

// ResendOTP re-requests the emailed code. Legal while waiting on an OTP
// in either the signup or the password-reset path. User-initiated only.
func (f *Flow) ResendOTP(ctx context.Context) error {
	if f.step != StepOTPVerify && f.step != StepResetPassword {
		return fmt.Errorf("%w: resend is only available while an OTP is pending", ErrInvalidTransition)
	}
	if f.inFlight {
		return ErrSubmitInFlight
	}
	f.inFlight = true
	defer f.end()

	_, err := f.client.ResendOTP(ctx, f.email)
	return err
}

// BackToSignup cancels OTP verification and returns to the email step.
// The email field is kept; any entered or verified OTP is discarded.
func (f *Flow) BackToSignup() error {
	if f.step != StepOTPVerify {
		return ErrInvalidTransition
	}
	f.verifiedOTP = ""
	f.step = StepSignup
	return nil
}

// CompleteProfile validates the profile fields and creates the account,
// passing the previously verified OTP as fallback proof of email
// ownership. On success the session store holds the authenticated
// identity and the wizard's transient state is wiped. If the backend's
// verification grace window has expired, the flow falls back to the OTP
// step and the stored OTP is discarded.
func (f *Flow) CompleteProfile(ctx context.Context, fullName, password, confirm string) error {
	if err := ValidateFullName(fullName); err != nil {
		return err
	}
	if err := ValidatePasswordMatch(password, confirm); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if err := f.begin(StepCompleteProfile); err != nil {
		return err
	}
	defer f.end()

	name := strings.TrimSpace(fullName)
	resp, err := f.client.VerifyOTP(ctx, api.OTPVerifyRequest{
		Email:           f.email,
		OTP:             f.verifiedOTP,
		FullName:        name,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		if isVerificationExpired(err) {
			f.step = StepOTPVerify
			f.verifiedOTP = ""
			return ErrVerificationExpired
		}
		return err
	}

	user := session.User{
		ID:               resp.UserID,
		Email:            resp.Email,
		FullName:         name,
		ProfileCompleted: resp.ProfileCompleted,
	}
	if err := f.store.SetAuth(user, resp.AccessToken); err != nil {
		return err
	}

	f.email = ""
	f.verifiedOTP = ""
	f.step = StepAuthenticated
	f.log.Debug().Int("user_id", user.ID).Msg("account created")
	return nil
}

// Login authenticates with email and password. A 401 or an explicit
// invalid-credentials rejection maps to ErrInvalidCredentials; a network
// failure is classified with the health probe. The backend returns no
// display name on login, so it defaults to the email's local part.
func (f *Flow) Login(ctx context.Context, email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if err := f.begin(StepLogin); err != nil {
		return err
	}
	defer f.end()

	resp, err := f.client.Login(ctx, email, password)
	if err != nil {
		return f.classifyLoginError(ctx, err)
	}

	user := session.User{
		ID:               resp.UserID,
		Email:            resp.Email,
		FullName:         emailLocalPart(resp.Email),
		ProfileCompleted: resp.ProfileCompleted,
	}
	if err := f.store.SetAuth(user, resp.AccessToken); err != nil {
		return err
	}

	f.step = StepAuthenticated
	f.log.Debug().Int("user_id", user.ID).Msg("logged in")
	return nil
}

// StartPasswordReset moves from the login step to the forgot-password
// step.
func (f *Flow) StartPasswordReset() error {
	if f.step != StepLogin {
		return ErrInvalidTransition
	}
	f.step = StepForgotPassword
	return nil
}

// RequestPasswordReset asks the backend to email a reset OTP. Success
// advances to the reset step.
func (f *Flow) RequestPasswordReset(ctx context.Context, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := f.begin(StepForgotPassword); err != nil {
		return err
	}
	defer f.end()

	if _, err := f.client.ForgotPassword(ctx, email); err != nil {
		return err
	}

	f.email = email
	f.step = StepResetPassword
	return nil
}

// ResetPassword completes the reset with the emailed OTP and returns the
// flow to the login step on success.
func (f *Flow) ResetPassword(ctx context.Context, otp, newPassword, confirm string) error {
	if err := ValidateOTP(otp); err != nil {
		return err
	}
	if err := ValidatePasswordMatch(newPassword, confirm); err != nil {
		return err
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if err := f.begin(StepResetPassword); err != nil {
		return err
	}
	defer f.end()

	_, err := f.client.ResetPassword(ctx, api.ResetPasswordRequest{
		Email:           f.email,
		OTP:             otp,
		NewPassword:     newPassword,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}

	f.step = StepLogin
	return nil
}

func (f *Flow) begin(expect Step) error {
	if f.step != expect {
		return fmt.Errorf("%w: at %q, expected %q", ErrInvalidTransition, f.step, expect)
	}
	if f.inFlight {
		return ErrSubmitInFlight
	}
	f.inFlight = true
	return nil
}

func (f *Flow) end() {
	f.inFlight = false
}

// classifyLoginError maps the raw client error onto the user-facing
// login failure taxonomy.
func (f *Flow) classifyLoginError(ctx context.Context, err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 401 || strings.Contains(apiErr.Message, "Invalid email or password") {
			return ErrInvalidCredentials
		}
		return err
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		// Best-effort probe to distinguish "server down" from a
		// transient glitch. Advisory only.
		if f.client.Health(ctx) == nil {
			return ErrTransientNetwork
		}
		return ErrServerDown
	}

	return err
}

func isVerificationExpired(err error) bool {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(apiErr.Message, "OTP") && strings.Contains(apiErr.Message, "expired")
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
