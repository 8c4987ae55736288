// Package apiv1 serves the admin JSON API under /api/v1.
package apiv1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/infra/api"
	"tree-service-leads/internal/infra/logging"
	"tree-service-leads/internal/usecase"
)

// Deps are the use cases behind the admin API.
type Deps struct {
	Jobs        usecase.JobUseCase
	Config      usecase.ConfigUseCase
	Lists       usecase.ListUseCase
	Contacts    usecase.ContactUseCase
	Submissions usecase.SubmissionUseCase
	Stats       usecase.StatsUseCase
}

type Server struct {
	Deps
	pollInterval   time.Duration
	requestTimeout time.Duration
	log            *zerolog.Logger
}

// NewServer builds the admin API. requestTimeout bounds every route except
// the job watch stream; zero disables it.
func NewServer(d Deps, pollInterval, requestTimeout time.Duration, logger *zerolog.Logger) *Server {
	return &Server{
		Deps:           d,
		pollInterval:   pollInterval,
		requestTimeout: requestTimeout,
		log:            logging.Component(logger, "apiv1"),
	}
}

// RegisterAPIV1 mounts the admin routes on r. mws wrap every route, and is
// where the admin guard goes.
func RegisterAPIV1(r chi.Router, srv *Server, mws ...func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mws...)

		// Streams outlive any request deadline.
		r.Get("/jobs/{id}/watch", srv.watchJob)

		r.Group(func(r chi.Router) {
			if srv.requestTimeout > 0 {
				r.Use(api.Timeout(srv.requestTimeout))
			}

			r.Get("/dashboard", srv.dashboard)

			r.Get("/config", srv.getConfig)
			r.Put("/config", srv.saveConfig)

			r.Get("/jobs", srv.listJobs)
			r.Post("/jobs", srv.createJob)
			r.Get("/jobs/{id}", srv.getJob)

			r.Get("/lists/metadata", srv.listMetadata)
			r.Get("/lists/preview/{listID}", srv.listPreview)
			r.Get("/lists/sms", srv.smsRows)

			r.Get("/opt-outs", srv.listOptOuts)
			r.Post("/opt-outs", srv.addOptOut)
			r.Get("/opt-outs/export", srv.exportOptOuts)
			r.Patch("/opt-outs/{id}", srv.updateOptOut)
			r.Delete("/opt-outs/{id}", srv.deleteOptOut)

			r.Get("/warm-leads", srv.listWarmLeads)
			r.Get("/warm-leads/export", srv.exportWarmLeads)
			r.Patch("/warm-leads/{id}", srv.updateWarmLead)
			r.Delete("/warm-leads/{id}", srv.deleteWarmLead)

			r.Get("/contacts/{phone}", srv.getContact)
			r.Get("/contacts/{phone}/notes", srv.listNotes)
			r.Post("/contacts/{phone}/notes", srv.addNote)
			r.Patch("/notes/{id}", srv.updateNote)
			r.Delete("/notes/{id}", srv.deleteNote)

			r.Get("/submissions", srv.listSubmissions)
			r.Patch("/submissions/{id}", srv.updateSubmission)
			r.Delete("/submissions/{id}", srv.deleteSubmission)
		})
	})
}

// Result is the shape of every mutation response.
type Result struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// Items wraps list responses.
type Items[T any] struct {
	Items []T `json:"items"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, code int, id string) {
	writeJSON(w, code, Result{OK: true, ID: id})
}

// fail maps domain errors onto status codes. Validation messages and the
// not-configured message are shown verbatim.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, Result{Error: ve.Message})
	case errors.Is(err, domain.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, Result{Error: domain.MsgNotConfigured})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Result{Error: "Not found."})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, Result{Error: "Invalid request."})
	default:
		l := logging.With(r.Context(), s.log)
		l.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, Result{Error: err.Error()})
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, Result{Error: "Invalid request body"})
		return false
	}
	return true
}

func pageParam(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 0 {
		return 0
	}
	return p
}
