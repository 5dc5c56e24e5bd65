// Package session owns the current-user identity, the bearer-token
// lifecycle, and role-based post-login routing.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/youthlink/youthlink/internal/api"
	"github.com/youthlink/youthlink/internal/logging"
	"github.com/youthlink/youthlink/internal/models"
)

// State is the lifecycle stage of the session manager.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

// User-facing failure messages. Every failure path of Login/Register resolves
// to exactly one of these (or a server-provided message), never to a raw error.
const (
	msgCredentialsRequired = "Email and password are required."
	msgInvalidCredentials  = "Invalid username or password."
	msgInvalidInput        = "Invalid input."
	msgNetwork             = "Network error. Please check your connection and try again."
	msgLoginFailed         = "Login failed. Please try again."
	msgPasswordTooShort    = "Password must be at least 8 characters."
	msgPasswordMismatch    = "Passwords do not match."
	msgEmailExists         = "An account with this email already exists."
	msgRegisterFailed      = "Registration failed. Please try again."
	msgRegisterSuccess     = "Registration successful. Please log in."
	msgEmailRequired       = "Email is required."
	msgResetRequested      = "If an account exists for that email, a reset link has been sent."
	msgResetTokenRequired  = "Reset token is required."
	msgResetFailed         = "Password reset failed. Please try again."
	msgResetSuccess        = "Password updated. Please log in."
)

// AuthAPI is the slice of the auth API the manager depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// TokenStore persists the bearer token across application restarts.
type TokenStore interface {
	Token() (string, error)
	Save(token string) error
	Clear() error
}

// Result is the discriminated outcome of an auth operation. Operations never
// propagate errors to the caller; Message is suitable for direct display.
type Result struct {
	Success bool
	Message string
}

// RegisterInput is the account-creation payload collected by the UI.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Role            models.Role
	FirstName       string
	LastName        string
	Phone           string
}

// Config wires the manager's collaborators. API and Tokens are required;
// Online, Navigate and Log are optional.
type Config struct {
	API    AuthAPI
	Tokens TokenStore

	// Online is the proactive connectivity check consulted before any
	// network call. Nil means "assume online".
	Online func() bool

	// Navigate receives the role-keyed redirect target after a successful
	// login and the login surface path after logout.
	Navigate func(path string)

	Log logging.Logger
}

// Manager holds the current session for the lifetime of the application.
//
// State machine: Uninitialized -> Loading -> (Authenticated | Anonymous).
// Authenticated drops to Anonymous only via Logout or a 401 observed on an
// API call; Anonymous rises to Authenticated only via Login or a successful
// token hydration in Bootstrap.
type Manager struct {
	api      AuthAPI
	tokens   TokenStore
	online   func() bool
	navigate func(path string)
	log      logging.Logger

	mu    sync.Mutex
	state State
	user  *models.User
}

func NewManager(cfg Config) *Manager {
	log := cfg.Log
	if log == nil {
		log = logging.NewDefault(io.Discard, slog.LevelInfo)
	}
	return &Manager{
		api:      cfg.API,
		tokens:   cfg.Tokens,
		online:   cfg.Online,
		navigate: cfg.Navigate,
		log:      log,
		state:    StateUninitialized,
	}
}

// Bootstrap hydrates a session from a previously stored token. It runs once
// at application start; the UI suppresses content until the state leaves
// Loading. Failures are swallowed (logged only): the UI simply observes an
// anonymous session.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.setState(StateLoading, nil)

	token, err := m.tokens.Token()
	if err != nil {
		m.log.Warn(ctx, "reading stored token failed", "err", err)
		m.setState(StateAnonymous, nil)
		return
	}
	if token == "" {
		m.setState(StateAnonymous, nil)
		return
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		m.log.Warn(ctx, "session hydration failed, clearing stored token", "err", err)
		if err := m.tokens.Clear(); err != nil {
			m.log.Error(ctx, "clearing stored token failed", "err", err)
		}
		m.setState(StateAnonymous, nil)
		return
	}

	m.log.Info(ctx, "session hydrated", "role", user.Role)
	m.setState(StateAuthenticated, user)
}

// Login authenticates the user. On success the token is persisted, the full
// user is hydrated, and the role-keyed redirect fires exactly once as a side
// effect. All failures resolve to a Result carrying one display message.
//
// Concurrent calls are not deduplicated here; at-most-one-in-flight is the
// caller's responsibility (the UI disables the control while loading).
func (m *Manager) Login(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Result{Message: msgCredentialsRequired}
	}
	if m.online != nil && !m.online() {
		return Result{Message: msgNetwork}
	}

	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return Result{Message: loginMessage(err)}
	}

	if err := m.tokens.Save(resp.Token); err != nil {
		m.log.Error(ctx, "persisting token failed", "err", err)
		return Result{Message: msgLoginFailed}
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		// A 401 here already purged the token via the API interceptor.
		m.log.Warn(ctx, "post-login hydration failed", "err", err)
		return Result{Message: loginMessage(err)}
	}

	m.setState(StateAuthenticated, user)
	m.log.Info(ctx, "login succeeded", "role", user.Role)
	if m.navigate != nil {
		m.navigate(RedirectPath(user.Role))
	}
	return Result{Success: true}
}

// Register creates a new account. It deliberately does not authenticate on
// success: account creation and session creation are separate steps, and the
// success message prompts an explicit login.
func (m *Manager) Register(ctx context.Context, input RegisterInput) Result {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || input.Password == "" {
		return Result{Message: msgCredentialsRequired}
	}
	if len(input.Password) < 8 {
		return Result{Message: msgPasswordTooShort}
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.Password {
		return Result{Message: msgPasswordMismatch}
	}
	if m.online != nil && !m.online() {
		return Result{Message: msgNetwork}
	}

	_, err := m.api.Register(ctx, api.RegisterRequest{
		Email:     input.Email,
		Password:  input.Password,
		Role:      input.Role,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})
	if err != nil {
		return Result{Message: registerMessage(err)}
	}
	return Result{Success: true, Message: msgRegisterSuccess}
}

// RequestPasswordReset asks the API to issue a reset token for the email.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) Result {
	email = strings.TrimSpace(email)
	if email == "" {
		return Result{Message: msgEmailRequired}
	}
	if m.online != nil && !m.online() {
		return Result{Message: msgNetwork}
	}
	if err := m.api.RequestPasswordReset(ctx, email); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			return Result{Message: msgNetwork}
		}
		return Result{Message: msgResetFailed}
	}
	return Result{Success: true, Message: msgResetRequested}
}

// ResetPassword redeems a reset token for a new password.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) Result {
	if strings.TrimSpace(token) == "" {
		return Result{Message: msgResetTokenRequired}
	}
	if len(newPassword) < 8 {
		return Result{Message: msgPasswordTooShort}
	}
	if m.online != nil && !m.online() {
		return Result{Message: msgNetwork}
	}
	if err := m.api.ResetPassword(ctx, token, newPassword); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return Result{Message: apiErr.Message}
		}
		if errors.Is(err, api.ErrUnavailable) {
			return Result{Message: msgNetwork}
		}
		return Result{Message: msgResetFailed}
	}
	return Result{Success: true, Message: msgResetSuccess}
}

// Logout clears the stored token and the in-memory session, then navigates
// to the login surface. It never fails by contract.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.tokens.Clear(); err != nil {
		m.log.Error(ctx, "clearing stored token failed", "err", err)
	}
	m.setState(StateAnonymous, nil)
	m.log.Info(ctx, "logged out")
	if m.navigate != nil {
		m.navigate("/login")
	}
}

// HandleUnauthorized drops an authenticated session after a 401 was
// observed on any API call. The API client has already purged the stored
// token by the time this runs; dropping the in-memory session keeps the two
// in lockstep. Anonymous or in-flight sessions are untouched, so a failed
// login attempt (also a 401) cannot bounce the user around.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	wasAuthenticated := m.state == StateAuthenticated
	if wasAuthenticated {
		m.state = StateAnonymous
		m.user = nil
	}
	m.mu.Unlock()

	if !wasAuthenticated {
		return
	}
	m.log.Info(context.Background(), "session invalidated by server")
	if m.navigate != nil {
		m.navigate("/login")
	}
}

// State returns the current lifecycle stage.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the authenticated user, or nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// CurrentRole returns the session role. ok is false without a session.
func (m *Manager) CurrentRole() (models.Role, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return "", false
	}
	return m.user.Role, true
}

func (m *Manager) IsAuthenticated() bool { return m.CurrentUser() != nil }
func (m *Manager) IsAdmin() bool         { return m.hasRole(models.RoleAdmin) }
func (m *Manager) IsEmployer() bool      { return m.hasRole(models.RoleEmployer) }
func (m *Manager) IsYouth() bool         { return m.hasRole(models.RoleYouth) }

func (m *Manager) hasRole(role models.Role) bool {
	r, ok := m.CurrentRole()
	return ok && r == role
}

func (m *Manager) setState(state State, user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.user = user
}

// loginMessage maps a login failure to one display message. Precedence:
// 401, structured 400 validation, network, server message, generic fallback.
func loginMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return msgInvalidCredentials
		case http.StatusBadRequest:
			if msg := apiErr.FirstFieldError(); msg != "" {
				return msg
			}
			if msg := apiErr.FirstFormError(); msg != "" {
				return msg
			}
			return msgInvalidInput
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return msgLoginFailed
	}
	if errors.Is(err, api.ErrUnavailable) {
		return msgNetwork
	}
	return msgLoginFailed
}

// registerMessage maps a registration failure to one display message.
func registerMessage(err error) string {
	if errors.Is(err, api.ErrUnavailable) {
		return msgNetwork
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusConflict {
			return msgEmailExists
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if msg := apiErr.FirstFieldError(); msg != "" {
			return msg
		}
	}
	return msgRegisterFailed
}
