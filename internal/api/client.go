// Package api implements the HTTP client for the platform auth API.
//
// Every authenticated request attaches a bearer token read from the injected
// token store. Any 401 response purges the stored token before the error is
// returned, independent of which call triggered it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/youthlink/youthlink/internal/models"
)

// TokenStore is the slice of the credential store the client needs: reading
// the current bearer token and purging it on an authentication failure.
type TokenStore interface {
	Token() (string, error)
	Clear() error
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      models.Role `json:"role"`
	FirstName string      `json:"firstName,omitempty"`
	LastName  string      `json:"lastName,omitempty"`
	Phone     string      `json:"phone,omitempty"`
}

// LoginResponse is the successful login payload: the bearer token plus a
// user summary. Callers re-hydrate the full user via Me.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Client is the auth API client.
type Client struct {
	baseURL        string
	tokens         TokenStore
	httpClient     *http.Client
	onUnauthorized func()
}

// New creates an API client for the given base URL. tokens supplies the
// bearer token for authenticated calls and absorbs 401 purges.
func New(baseURL string, tokens TokenStore, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetOnUnauthorized registers a callback invoked whenever any API call
// observes a 401, after the stored token has been purged. The session
// manager uses it to drop its in-memory session in the same stroke.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// Login exchanges credentials for a bearer token and user summary.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("api.Login: %w", err)
	}
	return &resp, nil
}

// Register creates a new account. It does not authenticate the caller.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.post(ctx, "/auth/register", req, &user); err != nil {
		return nil, fmt.Errorf("api.Register: %w", err)
	}
	return &user, nil
}

// Me returns the account the stored bearer token belongs to.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, fmt.Errorf("api.Me: %w", err)
	}
	return &user, nil
}

// RequestPasswordReset asks the server to send a reset token for the email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	if err := c.post(ctx, "/auth/request-password-reset", map[string]string{"email": email}, nil); err != nil {
		return fmt.Errorf("api.RequestPasswordReset: %w", err)
	}
	return nil
}

// ResetPassword redeems a reset token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "newPassword": newPassword}
	if err := c.post(ctx, "/auth/reset-password", body, nil); err != nil {
		return fmt.Errorf("api.ResetPassword: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

// errorPayload covers the error body shapes the API produces: a top-level
// error or message string, and optionally structured validation errors.
type errorPayload struct {
	Error      string              `json:"error"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors"`
	FormErrors []string            `json:"formErrors"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, err := c.tokens.Token(); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			// Cross-cutting: any 401 invalidates the stored token and
			// notifies the session owner.
			if c.tokens != nil {
				_ = c.tokens.Clear()
			}
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return c.parseError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) parseError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return apiErr
	}

	// Message is only adopted from a structured payload. Anything else (a
	// proxy's HTML error page, plain text) must not leak to the user, so it
	// stays empty and the caller's generic per-operation message wins.
	var payload errorPayload
	if json.Unmarshal(respBody, &payload) == nil {
		apiErr.FieldErrors = payload.Errors
		apiErr.FormErrors = payload.FormErrors
		switch {
		case payload.Error != "":
			apiErr.Message = payload.Error
		case payload.Message != "":
			apiErr.Message = payload.Message
		}
	}
	return apiErr
}
