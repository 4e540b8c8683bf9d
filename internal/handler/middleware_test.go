package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mwangikc/orderdesk/internal/auth"
)

func protectedEcho(t *testing.T, issuer *auth.TokenIssuer) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			t.Error("claims missing from authenticated request context")
		}
		w.WriteHeader(http.StatusOK)
	})
	return RequireAuth(issuer)(next)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour, time.Hour)
	handler := protectedEcho(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if resp := decodeError(t, rec.Body); resp.Error.Code != "UNAUTHORIZED" {
		t.Errorf("code = %s, want UNAUTHORIZED", resp.Error.Code)
	}
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour, time.Hour)
	handler := protectedEcho(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthGarbageToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour, time.Hour)
	handler := protectedEcho(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour, time.Hour)
	handler := protectedEcho(t, issuer)

	pair, err := issuer.IssuePair("user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for refresh token on a protected route", rec.Code)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour, time.Hour)
	handler := protectedEcho(t, issuer)

	pair, err := issuer.IssuePair("user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
}
