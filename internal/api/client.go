// Package api is the HTTP client for the CampusHire portal backend. It
// wraps the REST operations the CLI consumes, attaches the bearer token to
// authenticated calls, and normalizes backend error payloads into a single
// message shape.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/campushire/campushire/internal/logger"
)

const (
	apiPrefix = "/api/v1"

	// healthTimeout bounds the reachability probe; regular calls rely on
	// the client's overall timeout.
	healthTimeout = 3 * time.Second
)

// Client represents an HTTP client for the CampusHire API
type Client struct {
	baseURL        string
	httpClient     *http.Client
	log            zerolog.Logger
	tokenSource    func() string
	onUnauthorized func()
}

// New creates a new API client for the portal at baseURL (scheme + host,
// without the /api/v1 prefix).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.GetLogger(),
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetTokenSource sets the function consulted for the bearer token on
// authenticated calls.
func (c *Client) SetTokenSource(fn func() string) {
	c.tokenSource = fn
}

// SetUnauthorizedHook registers the callback invoked whenever an
// authenticated call comes back 401. The CLI wires this to a global
// session teardown.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// SignupRequest asks the backend to email a signup OTP. FullName is
// accepted but unused by the backend at this stage.
type SignupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// OTPVerifyOnlyRequest checks an OTP without creating the account.
type OTPVerifyOnlyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// OTPVerifyRequest verifies the OTP and creates the account in one call.
// OTP is always populated as fallback proof; the backend may instead honor
// its recent-verification grace window.
type OTPVerifyRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	FullName        string `json:"full_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordRequest completes a password reset with the emailed OTP.
type ResetPasswordRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// TokenResponse is the token payload returned by login and verify-otp.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	UserID           int    `json:"user_id"`
	Email            string `json:"email"`
	IsVerified       bool   `json:"is_verified"`
	ProfileCompleted bool   `json:"profile_completed"`
}

// MessageResponse is the generic acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// AdminLoginResponse is returned by a successful admin login.
type AdminLoginResponse struct {
	Message string `json:"message"`
	AdminID int    `json:"admin_id"`
}

// Profile is the full user profile from /users/me.
type Profile struct {
	ID                          int    `json:"id"`
	FullName                    string `json:"full_name"`
	Email                       string `json:"email"`
	LinkedinID                  string `json:"linkedin_id,omitempty"`
	GithubID                    string `json:"github_id,omitempty"`
	CollegeName                 string `json:"college_name,omitempty"`
	Branch                      string `json:"branch,omitempty"`
	ProfileCompleted            bool   `json:"profile_completed"`
	ProfileCompletionPercentage int    `json:"profile_completion_percentage"`
	CreatedAt                   string `json:"created_at"`
}

// ProfileUpdateRequest is a partial profile update; nil fields are not sent.
type ProfileUpdateRequest struct {
	FullName    *string `json:"full_name,omitempty"`
	LinkedinID  *string `json:"linkedin_id,omitempty"`
	GithubID    *string `json:"github_id,omitempty"`
	CollegeName *string `json:"college_name,omitempty"`
	Branch      *string `json:"branch,omitempty"`
}

// Signup requests a signup OTP for the email address.
func (c *Client) Signup(ctx context.Context, fullName, email string) (*MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", SignupRequest{FullName: fullName, Email: email}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTPOnly checks the OTP without creating the account.
func (c *Client) VerifyOTPOnly(ctx context.Context, email, otp string) (*MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/verify-otp-only", OTPVerifyOnlyRequest{Email: email, OTP: otp}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP verifies the OTP and creates the account, returning the token.
func (c *Client) VerifyOTP(ctx context.Context, req OTPVerifyRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendOTP asks the backend to email a fresh OTP.
func (c *Client) ResendOTP(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/resend-otp", map[string]string{"email": email}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword requests a password reset OTP.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password using the reset OTP.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminLogin authenticates an administrator.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*AdminLoginResponse, error) {
	var out AdminLoginResponse
	if err := c.do(ctx, http.MethodPost, "/admin/login", LoginRequest{Email: email, Password: password}, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMe fetches the current user's profile. Requires authentication.
func (c *Client) GetMe(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update. Requires authentication.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdateRequest) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPut, "/users/me", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes the backend's health endpoint with a short fixed timeout.
// The endpoint lives at the server root, outside the API prefix.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "health check", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "health check failed"}
	}

	return nil
}

// do issues one API call. A 401 on an authenticated call fires the
// unauthorized hook before the error is returned.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = &bytes.Buffer{}
	}

	url := c.baseURL + apiPrefix + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", ulid.Make().String())
	if authed && c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api call")

	if resp.StatusCode == http.StatusUnauthorized && authed && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
