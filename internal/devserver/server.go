// Package devserver is a self-contained auth API for local development.
// It speaks the same HTTP contract the client expects, backed by an
// in-memory account store, so the full login and registration flow can be
// exercised without the real platform backend.
package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/youthlink/youthlink/internal/logging"
	"github.com/youthlink/youthlink/internal/models"
)

const defaultTokenTTL = 24 * time.Hour

// Server is the development auth server.
type Server struct {
	secret   string
	tokenTTL time.Duration
	store    *Store
	log      logging.Logger

	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

// NewServer builds a Server signing tokens with the given secret.
func NewServer(secret string, log logging.Logger) *Server {
	registry := prometheus.NewRegistry()
	requests := promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "devserver_requests_total",
		Help: "HTTP requests handled, by path and status.",
	}, []string{"path", "status"})

	return &Server{
		secret:   secret,
		tokenTTL: defaultTokenTTL,
		store:    NewStore(),
		log:      log,
		registry: registry,
		requests: requests,
	}
}

// SeedDemoUsers registers one account per role so every dashboard is
// reachable out of the box. All demo accounts share the password.
func (s *Server) SeedDemoUsers(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	demo := []models.User{
		{Email: "youth@demo.local", Role: models.RoleYouth, FirstName: "Alex", LastName: "Young", IsEmailVerified: true},
		{Email: "employer@demo.local", Role: models.RoleEmployer, CompanyName: "Demo Works Ltd", IsEmailVerified: true},
		{Email: "admin@demo.local", Role: models.RoleAdmin, IsEmailVerified: true},
		{Email: "verifier@demo.local", Role: models.RoleVerifier, FirstName: "Vera", IsEmailVerified: true},
	}
	for _, u := range demo {
		s.store.Create(u, hash)
	}
	return nil
}

// Router returns the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)
	r.Get("/auth/me", s.handleMe)
	r.Post("/auth/request-password-reset", s.handleRequestPasswordReset)
	r.Post("/auth/reset-password", s.handleResetPassword)

	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, hash, ok := s.store.FindByEmail(req.Email)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	if err := CheckPassword(hash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := NewAccessToken(s.secret, s.tokenTTL, Claims{UserID: user.ID, Role: user.Role})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token.")
		return
	}

	s.log.Info(r.Context(), "login", "email", user.Email, "role", user.Role)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

type registerRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      models.Role `json:"role"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Phone     string      `json:"phone"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	fieldErrors := map[string][]string{}
	if req.Email == "" {
		fieldErrors["email"] = append(fieldErrors["email"], "Email is required.")
	}
	if len(req.Password) < 8 {
		fieldErrors["password"] = append(fieldErrors["password"], "Password must be at least 8 characters.")
	}
	switch req.Role {
	case models.RoleYouth, models.RoleEmployer, models.RoleVerifier:
	case "":
		fieldErrors["role"] = append(fieldErrors["role"], "Role is required.")
	default:
		fieldErrors["role"] = append(fieldErrors["role"], "Role must be youth, employer or verifier.")
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrors})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not store credentials.")
		return
	}

	user, ok := s.store.Create(models.User{
		Email:     req.Email,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, hash)
	if !ok {
		writeError(w, http.StatusConflict, "An account with this email already exists.")
		return
	}

	s.log.Info(r.Context(), "registered", "email", user.Email, "role", user.Role)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.bearerClaims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid token.")
		return
	}
	user, ok := s.store.FindByID(claims.UserID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Account no longer exists.")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "Email is required.")
		return
	}

	// Whether or not the email is registered the response is 200, so the
	// endpoint cannot be used to enumerate accounts. The token is logged
	// instead of mailed; this server has no outbound mail.
	if token, ok := s.store.IssueResetToken(req.Email); ok {
		s.log.Info(r.Context(), "password reset requested", "email", req.Email, "token", token)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "Reset token is required.")
		return
	}
	if len(req.NewPassword) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string][]string{"newPassword": {"Password must be at least 8 characters."}},
		})
		return
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not store credentials.")
		return
	}
	if !s.store.RedeemResetToken(req.Token, hash) {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) bearerClaims(r *http.Request) (*Claims, bool) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.requests.WithLabelValues(r.URL.Path, http.StatusText(rec.status)).Inc()
	})
}

// Run serves the API until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info(ctx, "devserver listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
