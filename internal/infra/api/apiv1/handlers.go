package apiv1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/infra/export"
)

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.Stats.Dashboard(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ConfigResponse holds the stored row (null when absent) and the settings
// jobs will actually use.
type ConfigResponse struct {
	Config    *model.AppConfig       `json:"config"`
	Effective model.CampaignSettings `json:"effective"`
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.Config.Get(r.Context())
	if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrNotConfigured) {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ConfigResponse{Config: cfg, Effective: cfg.Effective()})
}

func (s *Server) saveConfig(w http.ResponseWriter, r *http.Request) {
	var form model.AppConfigForm
	if !decode(w, r, &form) {
		return
	}
	cfg, err := s.Config.Save(r.Context(), form)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, cfg.ID)
}

func (s *Server) listMetadata(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Lists.Metadata(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Items[*model.ListMetadata]{Items: rows})
}

func (s *Server) listPreview(w http.ResponseWriter, r *http.Request) {
	p, err := s.Lists.Preview(r.Context(), chi.URLParam(r, "listID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) smsRows(w http.ResponseWriter, r *http.Request) {
	page, err := s.Lists.SmsRows(r.Context(), pageParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) listOptOuts(w http.ResponseWriter, r *http.Request) {
	page, err := s.Lists.OptOuts(r.Context(), pageParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type optOutRequest struct {
	PhoneNumber string `json:"phone_number"`
	Source      string `json:"source"`
}

func (s *Server) addOptOut(w http.ResponseWriter, r *http.Request) {
	var req optOutRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := s.Lists.AddOptOut(r.Context(), req.PhoneNumber, req.Source)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusCreated, o.ID)
}

func (s *Server) updateOptOut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch model.OptOutPatch
	if !decode(w, r, &patch) {
		return
	}
	if err := s.Lists.UpdateOptOut(r.Context(), id, patch); err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, id)
}

func (s *Server) deleteOptOut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Lists.DeleteOptOut(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, id)
}

func (s *Server) exportOptOuts(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Lists.AllOptOuts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sendExport(w, r, export.OptOuts(rows))
}

func (s *Server) listWarmLeads(w http.ResponseWriter, r *http.Request) {
	page, err := s.Lists.WarmLeads(r.Context(), pageParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) updateWarmLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch model.WarmLeadPatch
	if !decode(w, r, &patch) {
		return
	}
	if err := s.Lists.UpdateWarmLead(r.Context(), id, patch); err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, id)
}

func (s *Server) deleteWarmLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Lists.DeleteWarmLead(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, id)
}

func (s *Server) exportWarmLeads(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Lists.AllWarmLeads(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sendExport(w, r, export.WarmLeads(rows))
}

func (s *Server) sendExport(w http.ResponseWriter, r *http.Request, t export.Table) {
	format := r.URL.Query().Get("format")
	body, contentType, err := export.Render(t, format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Result{Error: "Unsupported export format."})
		return
	}
	ext := export.FormatCSV
	if contentType == export.ContentTypeXLSX {
		ext = export.FormatXLSX
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+t.Name+"."+ext+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) getContact(w http.ResponseWriter, r *http.Request) {
	c, err := s.Contacts.Get(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.Contacts.ListNotes(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Items[*model.ContactNote]{Items: notes})
}

type noteRequest struct {
	Note string `json:"note"`
}

func (s *Server) addNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := s.Contacts.AddNote(r.Context(), chi.URLParam(r, "phone"), req.Note)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusCreated, n.ID)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req noteRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.Contacts.UpdateNote(r.Context(), id, req.Note); err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, id)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Contacts.DeleteNote(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, id)
}

func (s *Server) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.Submissions.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Items[*model.FormSubmission]{Items: subs})
}

func (s *Server) updateSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch model.FormSubmissionPatch
	if !decode(w, r, &patch) {
		return
	}
	if err := s.Submissions.Update(r.Context(), id, patch); err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, id)
}

func (s *Server) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Submissions.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, id)
}
