package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wrenlabs/slate/internal/models"
)

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected wildcard origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Expose-Headers"), "X-New-Access-Token") {
		t.Error("expected X-New-Access-Token in exposed headers")
	}
}

func TestCorrelationID(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Correlation-ID"); got != "req-42" {
		t.Errorf("expected correlation id req-42, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected a generated correlation id")
	}
}

func TestBearerMiddleware_InvalidToken(t *testing.T) {
	srv, _ := newTestServer(t)

	// Even public paths reject a malformed bearer token outright
	rec := doRequest(t, srv, http.MethodGet, "/api/health", "garbage", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed token, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Errorf("expected WWW-Authenticate challenge, got %q", rec.Header().Get("WWW-Authenticate"))
	}
}

func TestBearerMiddleware_NoHeaderPassesThrough(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// staleToken signs a token more than half way through its lifetime.
func staleToken(t *testing.T, srv *Server, account *models.Account) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      account.ID,
		"email":    account.Email,
		"username": account.Username,
		"role":     account.Role,
		"iss":      "slate-server",
		"iat":      now.Add(-50 * time.Minute).Unix(),
		"exp":      now.Add(10 * time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(srv.app.Config.Auth.JWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestSlidingRefresh(t *testing.T) {
	srv, _ := newTestServer(t)
	account := createTestAccount(t, srv, "ref@example.com", "ref", "password123", models.RoleUser)

	rec := doRequest(t, srv, http.MethodGet, "/api/user/update-finances", staleToken(t, srv, account), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	newToken := rec.Header().Get("X-New-Access-Token")
	if newToken == "" {
		t.Fatal("expected a reissued token for a stale session")
	}
	if _, _, err := validateJWT(newToken, []byte(srv.app.Config.Auth.JWTSecret)); err != nil {
		t.Errorf("reissued token failed validation: %v", err)
	}
	if rec.Header().Get("X-New-Token-Expires-In") == "" {
		t.Error("expected X-New-Token-Expires-In alongside the reissued token")
	}

	// Fresh tokens are not reissued
	fresh := loginToken(t, srv, "ref@example.com", "password123")
	rec = doRequest(t, srv, http.MethodGet, "/api/user/update-finances", fresh, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-New-Access-Token") != "" {
		t.Error("did not expect a reissued token for a fresh session")
	}
}

func TestSlidingRefresh_Disabled(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.app.Config.Auth.SlidingRefresh = false
	account := createTestAccount(t, srv, "off@example.com", "off", "password123", models.RoleUser)

	rec := doRequest(t, srv, http.MethodGet, "/api/user/update-finances", staleToken(t, srv, account), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-New-Access-Token") != "" {
		t.Error("did not expect a reissued token with sliding refresh disabled")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	srv, _ := newTestServer(t)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := applyMiddleware(panicking, srv.app.Logger, srv.app.Config)

	req := httptest.NewRequest(http.MethodGet, "/api/anything", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}
