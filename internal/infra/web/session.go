package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/config"
	"tree-service-leads/internal/infra/logging"
)

// Sessions serves admin login/logout and guards admin routes.
type Sessions struct {
	auth   *AuthManager
	apiKey string
	admins map[string]struct{}
	log    *zerolog.Logger
}

func NewSessions(auth *AuthManager, cfg config.AdminConfig, logger *zerolog.Logger) *Sessions {
	admins := make(map[string]struct{}, len(cfg.Emails))
	for _, e := range cfg.Emails {
		admins[normalizeEmail(e)] = struct{}{}
	}
	return &Sessions{
		auth:   auth,
		apiKey: cfg.APIKey,
		admins: admins,
		log:    logging.Component(logger, "admin_sessions"),
	}
}

type loginRequest struct {
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

type sessionResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token,omitempty"`
	Email string `json:"email,omitempty"`
	Error string `json:"error,omitempty"`
}

// Login handles POST /api/v1/session.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request) {
	if !s.enabled() {
		s.log.Error().Msg("admin login attempted but api key or jwt secret is not configured")
		writeJSON(w, http.StatusServiceUnavailable, sessionResponse{Error: "Admin login is not configured."})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, sessionResponse{Error: "Invalid request body"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(s.apiKey)) != 1 {
		writeJSON(w, http.StatusUnauthorized, sessionResponse{Error: "Invalid credentials."})
		return
	}
	email := normalizeEmail(req.Email)
	if !s.isAdmin(email) {
		s.log.Warn().Str("email", email).Msg("login rejected: not an admin")
		writeJSON(w, http.StatusForbidden, sessionResponse{Error: "Not an admin."})
		return
	}

	token, err := s.auth.Mint(w, email)
	if err != nil {
		s.log.Error().Err(err).Msg("mint session")
		writeJSON(w, http.StatusInternalServerError, sessionResponse{Error: "Failed to create session"})
		return
	}
	s.log.Info().Str("email", email).Msg("admin signed in")
	writeJSON(w, http.StatusOK, sessionResponse{OK: true, Token: token, Email: email})
}

// Logout handles DELETE /api/v1/session.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	writeJSON(w, http.StatusOK, sessionResponse{OK: true})
}

// RequireAdmin rejects requests without a valid session (401) or whose
// subject is no longer on the allowlist (403).
func (s *Sessions) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			status := "Unauthorized"
			if errors.Is(err, ErrInvalidToken) {
				status = "Unauthorized: invalid session"
			}
			writeJSON(w, http.StatusUnauthorized, sessionResponse{Error: status})
			return
		}
		if !s.isAdmin(claims.Subject) {
			writeJSON(w, http.StatusForbidden, sessionResponse{Error: "Forbidden"})
			return
		}
		next.ServeHTTP(w, r.WithContext(logging.WithAdmin(r.Context(), claims.Subject)))
	})
}

func (s *Sessions) enabled() bool {
	return s.apiKey != "" && len(s.auth.cfg.HMACSecret) > 0
}

func (s *Sessions) isAdmin(email string) bool {
	if email == "" {
		return false
	}
	_, ok := s.admins[email]
	return ok
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
