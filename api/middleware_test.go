package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/aumai/alignment/internal/config"
	"github.com/aumai/alignment/internal/evaluation"
	"github.com/aumai/alignment/internal/marketplace"
)

func newAuthedServer(t *testing.T, apiKey string) *Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("AUMAI_API_KEY", apiKey)
	t.Setenv("AUMAI_DISABLE_AUTH", "")
	t.Setenv("AUMAI_CORS_ORIGINS", "")

	registry := marketplace.NewRegistry()
	runner := evaluation.NewRunner(registry, nil)
	s, err := NewServer(config.Default(), registry, runner, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func TestAuth_MissingConfiguration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("AUMAI_API_KEY", "")
	t.Setenv("AUMAI_DISABLE_AUTH", "")

	registry := marketplace.NewRegistry()
	runner := evaluation.NewRunner(registry, nil)
	if _, err := NewServer(config.Default(), registry, runner, nil); err == nil {
		t.Fatalf("NewServer: expected error without auth configuration")
	}
}

func TestAuth_APIKey(t *testing.T) {
	s := newAuthedServer(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no key: got %d want %d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: got %d want %d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid key: got %d want %d", rec.Code, http.StatusOK)
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("AUMAI_API_KEY", "")
	t.Setenv("AUMAI_DISABLE_AUTH", "true")
	t.Setenv("AUMAI_CORS_ORIGINS", "https://app.example.com")

	registry := marketplace.NewRegistry()
	runner := evaluation.NewRunner(registry, nil)
	s, err := NewServer(config.Default(), registry, runner, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow-origin: got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("disallowed origin got header %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: got %d want %d", rec.Code, http.StatusNoContent)
	}
}

func TestCORS_Wildcard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("AUMAI_API_KEY", "")
	t.Setenv("AUMAI_DISABLE_AUTH", "true")
	t.Setenv("AUMAI_CORS_ORIGINS", "*")

	registry := marketplace.NewRegistry()
	runner := evaluation.NewRunner(registry, nil)
	s, err := NewServer(config.Default(), registry, runner, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin: got %q want %q", got, "*")
	}
}
