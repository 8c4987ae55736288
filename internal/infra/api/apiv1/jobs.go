package apiv1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/infra/logging"
	"tree-service-leads/internal/infra/scheduler"
)

type createJobRequest struct {
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.Jobs.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Items[*model.Job]{Items: jobs})
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if !decode(w, r, &req) {
		return
	}
	action, err := model.ParseJobAction(req.Action)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	job, err := s.Jobs.Create(r.Context(), action, req.Fields)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusCreated, job.ID)
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.Jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// watchJob streams one "data:" event per poll and a final "done" event.
// The poller lives as long as the request.
func (s *Server) watchJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := logging.WithJobID(r.Context(), id)

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeJSON(w, http.StatusInternalServerError, Result{Error: "Streaming unsupported."})
		return
	}
	// Without a datastore no read can ever succeed. A missing row is only
	// unknown and is left to the poller.
	if _, err := s.Jobs.Get(ctx, id); errors.Is(err, domain.ErrNotConfigured) {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	l := logging.With(ctx, s.log)
	send := func(p scheduler.Progress) {
		b, err := json.Marshal(p)
		if err != nil {
			l.Error().Err(err).Msg("encode progress")
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
			return
		}
		flusher.Flush()
	}

	poller := scheduler.NewJobPoller(s.Jobs, id, s.pollInterval, send, s.log)
	poller.Start(ctx)
	select {
	case <-poller.Done():
	case <-ctx.Done():
	}
	poller.Stop()

	if ctx.Err() != nil {
		l.Debug().Msg("watch closed by client")
		return
	}
	_, _ = fmt.Fprint(w, "event: done\ndata: {}\n\n")
	flusher.Flush()
}
