//go:build !integration

package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/config"
	"tree-service-leads/internal/infra/logging"
)

const testSecret = "0123456789abcdef-secret"

func newTestSessions(emails ...string) *Sessions {
	logger := zerolog.Nop()
	auth := NewAuthManager(testSecret, false, "", time.Hour)
	return NewSessions(auth, config.AdminConfig{APIKey: "key-1", Emails: emails}, &logger)
}

func login(t *testing.T, s *Sessions, email, key string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(loginRequest{Email: email, APIKey: key})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Login(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	s := newTestSessions("boss@example.com")

	t.Run("success sets cookie and returns token", func(t *testing.T) {
		rec := login(t, s, "  Boss@Example.com ", "key-1")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
		}
		var resp sessionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if !resp.OK || resp.Token == "" || resp.Email != "boss@example.com" {
			t.Fatalf("unexpected response %+v", resp)
		}
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != SessionCookieName || !cookies[0].HttpOnly {
			t.Fatalf("expected HttpOnly session cookie, got %+v", cookies)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		if rec := login(t, s, "boss@example.com", "nope"); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("not on allowlist", func(t *testing.T) {
		if rec := login(t, s, "intern@example.com", "key-1"); rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/session", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		s.Login(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("disabled without api key", func(t *testing.T) {
		logger := zerolog.Nop()
		off := NewSessions(NewAuthManager(testSecret, false, "", 0), config.AdminConfig{}, &logger)
		if rec := login(t, off, "boss@example.com", ""); rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	s := newTestSessions("boss@example.com")
	var seen string
	protected := s.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.AdminFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := login(t, s, "boss@example.com", "key-1")
	var resp sessionResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		out := httptest.NewRecorder()
		protected.ServeHTTP(out, req)
		if out.Code != http.StatusNoContent || seen != "boss@example.com" {
			t.Fatalf("expected pass-through, got %d admin=%q", out.Code, seen)
		}
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		req.AddCookie(rec.Result().Cookies()[0])
		out := httptest.NewRecorder()
		protected.ServeHTTP(out, req)
		if out.Code != http.StatusNoContent {
			t.Fatalf("expected pass-through, got %d", out.Code)
		}
	})

	t.Run("missing", func(t *testing.T) {
		out := httptest.NewRecorder()
		protected.ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
		if out.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", out.Code)
		}
	})

	t.Run("forged", func(t *testing.T) {
		other := NewAuthManager("another-secret-of-16b", false, "", time.Hour)
		tok, _ := other.Mint(httptest.NewRecorder(), "boss@example.com")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		out := httptest.NewRecorder()
		protected.ServeHTTP(out, req)
		if out.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", out.Code)
		}
	})

	t.Run("removed from allowlist", func(t *testing.T) {
		tok, _ := s.auth.Mint(httptest.NewRecorder(), "former@example.com")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		out := httptest.NewRecorder()
		protected.ServeHTTP(out, req)
		if out.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", out.Code)
		}
	})
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestSessions("boss@example.com")
	rec := httptest.NewRecorder()
	s.Logout(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil))
	c := rec.Result().Cookies()
	if rec.Code != http.StatusOK || len(c) != 1 || c[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %d %+v", rec.Code, c)
	}
}
