// Package gotrue implements identity.Provider against a GoTrue compatible
// REST API (the auth service behind Supabase).
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"user_management_backend/internal/identity"
	"user_management_backend/platform/config"
	"user_management_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	apiPrefix = "/auth/v1"

	headerAPIKey = "apikey"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Error codes reported by GoTrue in the error_code field.
const (
	codeUserAlreadyExists  = "user_already_exists"
	codeEmailExists        = "email_exists"
	codeInvalidCredentials = "invalid_credentials"
	codeInvalidGrant       = "invalid_grant"
	codeUserNotFound       = "user_not_found"
	codeBadJWT             = "bad_jwt"
	codeSessionNotFound    = "session_not_found"
)

// Recorder receives one observation per provider call.
type Recorder interface {
	RecordIdentityRequest(operation string, err error)
}

// Client talks to the provider over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
	serviceKey string
	verifier   *Verifier
	recorder   Recorder
	log        *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// New creates a client. When a JWT secret is configured, access tokens are
// screened locally before the provider confirms the session.
func New(cfg config.IdentityProviderConfig, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.GetIdentityProviderTimeout()},
		baseURL:    strings.TrimRight(cfg.GetIdentityProviderURL(), "/"),
		anonKey:    cfg.GetIdentityProviderAnonKey(),
		serviceKey: cfg.GetIdentityProviderServiceKey(),
		log:        log,
	}
	if secret := cfg.GetIdentityProviderJWTSecret(); secret != "" {
		c.verifier = NewVerifier(secret)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VerifyToken resolves token to a principal. With a local verifier, tokens
// with a bad signature, audience or expiry are rejected without a network
// call. Every other token is confirmed against /user, so a session ended by
// logout stops verifying and the email is the provider's current one.
func (c *Client) VerifyToken(ctx context.Context, token string) (identity.Principal, error) {
	var claimed identity.Principal
	if c.verifier != nil {
		local, err := c.verifier.Verify(token)
		c.record("verify_local", err)
		if err != nil {
			return identity.Principal{}, err
		}
		claimed = local
	}

	var user apiUser
	err := c.do(ctx, http.MethodGet, "/user", c.anonKey, token, nil, &user)
	c.record("verify", err)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.isAuthFailure() {
			return identity.Principal{}, identity.ErrInvalidToken
		}
		return identity.Principal{}, err
	}

	principal, err := user.principal()
	if err != nil {
		return identity.Principal{}, err
	}
	if c.verifier != nil && principal.ID != claimed.ID {
		return identity.Principal{}, identity.ErrInvalidToken
	}
	return principal, nil
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (identity.SignUpResult, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		body["data"] = metadata
	}

	var resp signUpResponse
	err := c.do(ctx, http.MethodPost, "/signup", c.anonKey, "", body, &resp)
	c.record("sign_up", err)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.hasCode(codeUserAlreadyExists, codeEmailExists) {
			return identity.SignUpResult{}, identity.ErrEmailTaken
		}
		return identity.SignUpResult{}, err
	}

	// With auto-confirm the provider returns a session wrapping the user.
	// Otherwise the body is the bare user.
	user := resp.apiUser
	if resp.User != nil {
		user = *resp.User
	}
	principal, err := user.principal()
	if err != nil {
		return identity.SignUpResult{}, err
	}

	result := identity.SignUpResult{Principal: principal}
	if resp.AccessToken != "" {
		session := resp.session()
		result.Session = &session
	}
	return result, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (identity.SignInResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.anonKey, "", body, &resp)
	c.record("sign_in", err)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && (apiErr.hasCode(codeInvalidCredentials, codeInvalidGrant) || apiErr.Status == http.StatusBadRequest) {
			return identity.SignInResult{}, identity.ErrInvalidCredentials
		}
		return identity.SignInResult{}, err
	}

	if resp.User == nil {
		return identity.SignInResult{}, errors.New("gotrue: sign-in response without user")
	}
	principal, err := resp.User.principal()
	if err != nil {
		return identity.SignInResult{}, err
	}
	return identity.SignInResult{Principal: principal, Session: resp.session()}, nil
}

// SignOut invalidates the session behind token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	err := c.do(ctx, http.MethodPost, "/logout", c.anonKey, token, nil, nil)
	c.record("sign_out", err)
	return err
}

// UpdateUserByID applies a privileged update using the service role key.
func (c *Client) UpdateUserByID(ctx context.Context, id uuid.UUID, update identity.AdminUserUpdate) error {
	payload := map[string]any{}
	if update.Email != nil {
		payload["email"] = *update.Email
		// The caller is already authenticated, so skip the confirmation link.
		payload["email_confirm"] = true
	}
	if update.Password != nil {
		payload["password"] = *update.Password
	}
	if len(payload) == 0 {
		return nil
	}

	err := c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id.String()), c.serviceKey, c.serviceKey, payload, nil)
	c.record("admin_update", err)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			switch {
			case apiErr.hasCode(codeEmailExists, codeUserAlreadyExists):
				return identity.ErrEmailTaken
			case apiErr.Status == http.StatusNotFound || apiErr.hasCode(codeUserNotFound):
				return identity.ErrUserNotFound
			}
		}
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, apiKey, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(headerAPIKey, apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("identity provider request failed", "error", err, "method", method, "path", path)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp)
		if resp.StatusCode >= http.StatusInternalServerError {
			c.log.Error("identity provider upstream error", "status", resp.StatusCode, "path", path)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) record(operation string, err error) {
	if c.recorder != nil {
		c.recorder.RecordIdentityRequest(operation, err)
	}
}

var _ identity.Provider = (*Client)(nil)
