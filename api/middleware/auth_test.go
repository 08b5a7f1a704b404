package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lapulperia/lapulperia-backend/pkg/auth/session"
)

type fakeResolver struct {
	sessions map[string]string
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (string, error) {
	userID, ok := f.sessions[token]
	if !ok {
		return "", session.ErrSessionNotFound
	}
	return userID, nil
}

func protectedHandler(t *testing.T, wantUserID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok || userID != wantUserID {
			t.Errorf("user id in context = %q, ok=%v", userID, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthAcceptsCookieToken(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{"tok_abc": "user_abc123def456"}}
	handler := Auth(resolver, "session_token", nil)(protectedHandler(t, "user_abc123def456"))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok_abc"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{"tok_abc": "user_abc123def456"}}
	handler := Auth(resolver, "session_token", nil)(protectedHandler(t, "user_abc123def456"))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer tok_abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthCookieWinsOverHeader(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{
		"tok_cookie": "user_cookie123456",
		"tok_header": "user_header123456",
	}}
	handler := Auth(resolver, "session_token", nil)(protectedHandler(t, "user_cookie123456"))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok_cookie"})
	req.Header.Set("Authorization", "Bearer tok_header")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{}}
	called := false
	handler := Auth(resolver, "session_token", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if called {
		t.Fatalf("next handler should not run")
	}
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{}}
	handler := Auth(resolver, "session_token", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok_expired"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}
