// Package http serves the public routes: the inbound SMS webhook, the
// contact form and the liveness probe.
package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/infra/logging"
	"tree-service-leads/internal/usecase"
)

const (
	TwiMLOptOut   = `<?xml version="1.0" encoding="UTF-8"?><Response><Message>You're unsubscribed. We won't text again.</Message></Response>`
	TwiMLInterest = `<?xml version="1.0" encoding="UTF-8"?><Response><Message>Thanks! We'll call you shortly.</Message></Response>`
)

type Server struct {
	inbound     usecase.InboundUseCase
	submissions usecase.SubmissionUseCase
	log         *zerolog.Logger
}

func NewServer(inbound usecase.InboundUseCase, submissions usecase.SubmissionUseCase, logger *zerolog.Logger) *Server {
	return &Server{
		inbound:     inbound,
		submissions: submissions,
		log:         logging.Component(logger, "public_http"),
	}
}

// Register attaches the public routes. limit guards the two write routes.
func (s *Server) Register(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Get("/health", s.handleHealthCheck)
	r.Get("/api/inbound-sms", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
	// Carrier webhooks arrive from a few gateway addresses and are never
	// redelivered, so only the contact form is limited per IP.
	r.Post("/api/inbound-sms", s.handleInboundSMS)
	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/api/contact", s.handleContact)
	})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

func (s *Server) handleInboundSMS(w http.ResponseWriter, r *http.Request) {
	// An unreadable form is treated as empty fields, which fails the phone check.
	_ = r.ParseForm()
	from, body := r.PostForm.Get("From"), r.PostForm.Get("Body")

	intent, err := s.inbound.HandleSMS(r.Context(), from, body)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		l := logging.With(r.Context(), s.log)
		l.Error().Msg("inbound sms: datastore not configured")
		writeText(w, http.StatusServiceUnavailable, "Service unavailable")
		return
	case err != nil:
		writeText(w, http.StatusBadRequest, "Invalid phone")
		return
	}

	switch intent {
	case usecase.IntentOptOut:
		writeXML(w, TwiMLOptOut)
	case usecase.IntentInterest:
		writeXML(w, TwiMLInterest)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

type contactResponse struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleContact accepts the form as JSON or as a form post.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var in model.FormInput
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, contactResponse{Error: "Invalid request body"})
			return
		}
	} else {
		_ = r.ParseForm()
		in = model.FormInput{
			Name:    r.PostForm.Get("name"),
			Phone:   r.PostForm.Get("phone"),
			Address: r.PostForm.Get("address"),
			Email:   r.PostForm.Get("email"),
			Message: r.PostForm.Get("message"),
		}
	}

	sub, err := s.submissions.Submit(r.Context(), in)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrNotConfigured):
			writeJSON(w, http.StatusServiceUnavailable, contactResponse{Error: domain.MsgFormUnavailable})
		case errors.As(err, &ve):
			writeJSON(w, http.StatusBadRequest, contactResponse{Error: ve.Message})
		default:
			writeJSON(w, http.StatusInternalServerError, contactResponse{Error: "Something went wrong. Please call us instead."})
		}
		return
	}
	writeJSON(w, http.StatusOK, contactResponse{OK: true, ID: sub.ID})
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func writeXML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
