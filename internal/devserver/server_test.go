package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youthlink/youthlink/internal/logging"
	"github.com/youthlink/youthlink/internal/models"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer("test-secret", logging.NewDefault(io.Discard, slog.LevelInfo))
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/auth/register", map[string]any{
		"email":     "New.User@Example.com",
		"password":  "longenough",
		"role":      "youth",
		"firstName": "New",
		"lastName":  "User",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[models.User](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "new.user@example.com", created.Email, "email is normalized to lower case")
	assert.Equal(t, models.RoleYouth, created.Role)

	// Login works with any casing of the registered address.
	resp = postJSON(t, ts.URL+"/auth/login", map[string]string{
		"email":    "NEW.USER@example.com",
		"password": "longenough",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	login := decodeBody[loginResponse](t, resp)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, created.ID, login.User.ID)
}

func TestRegister_ValidationErrors(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/auth/register", map[string]any{
		"email":    "",
		"password": "short",
		"role":     "alien",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	payload := decodeBody[struct {
		Errors map[string][]string `json:"errors"`
	}](t, resp)
	assert.Contains(t, payload.Errors, "email")
	assert.Contains(t, payload.Errors, "password")
	assert.Contains(t, payload.Errors, "role")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, ts := newTestServer(t)

	body := map[string]any{"email": "dup@example.com", "password": "longenough", "role": "employer"}
	resp := postJSON(t, ts.URL+"/auth/register", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/auth/register", body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	payload := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "An account with this email already exists.", payload["error"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s, ts := newTestServer(t)
	require.NoError(t, s.SeedDemoUsers("demo-pass-123"))

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{name: "unknown email", body: map[string]string{"email": "nobody@x.y", "password": "whatever1"}, want: http.StatusUnauthorized},
		{name: "wrong password", body: map[string]string{"email": "youth@demo.local", "password": "wrong"}, want: http.StatusUnauthorized},
		{name: "missing fields", body: map[string]string{"email": "", "password": ""}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/auth/login", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestMe(t *testing.T) {
	s, ts := newTestServer(t)
	require.NoError(t, s.SeedDemoUsers("demo-pass-123"))

	resp := postJSON(t, ts.URL+"/auth/login", map[string]string{
		"email": "admin@demo.local", "password": "demo-pass-123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody[loginResponse](t, resp)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Token)

	meResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	me := decodeBody[models.User](t, meResp)
	assert.Equal(t, models.RoleAdmin, me.Role)
	assert.Equal(t, "admin@demo.local", me.Email)
}

func TestMe_Unauthorized(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "malformed header", header: "Token abc"},
		{name: "garbage token", header: "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, ts.URL+"/auth/me", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestPasswordResetFlow(t *testing.T) {
	s, ts := newTestServer(t)
	require.NoError(t, s.SeedDemoUsers("demo-pass-123"))

	// The request endpoint answers 200 whether or not the address exists.
	resp := postJSON(t, ts.URL+"/auth/request-password-reset", map[string]string{"email": "nobody@x.y"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/auth/request-password-reset", map[string]string{"email": "youth@demo.local"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The token is delivered out of band; mint one directly for the test.
	token, ok := s.store.IssueResetToken("youth@demo.local")
	require.True(t, ok)

	resp = postJSON(t, ts.URL+"/auth/reset-password", map[string]string{
		"token": token, "newPassword": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Old password is dead, new one works.
	resp = postJSON(t, ts.URL+"/auth/login", map[string]string{"email": "youth@demo.local", "password": "demo-pass-123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/auth/login", map[string]string{"email": "youth@demo.local", "password": "brand-new-pass"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A token cannot be redeemed twice.
	resp = postJSON(t, ts.URL+"/auth/reset-password", map[string]string{
		"token": token, "newPassword": "another-pass-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetPassword_Validation(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/auth/reset-password", map[string]string{"token": "", "newPassword": "longenough"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/auth/reset-password", map[string]string{"token": "whatever", "newPassword": "short"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	payload := decodeBody[struct {
		Errors map[string][]string `json:"errors"`
	}](t, resp)
	assert.Contains(t, payload.Errors, "newPassword")
}

func TestHealthAndMetrics(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "devserver_requests_total")
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", defaultTokenTTL, Claims{UserID: "u1", Role: models.RoleEmployer})
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleEmployer, claims.Role)

	_, err = ParseToken("other-secret", token)
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret-pass")
	require.NoError(t, err)
	require.NoError(t, CheckPassword(hash, "secret-pass"))
	require.Error(t, CheckPassword(hash, "wrong"))
}
