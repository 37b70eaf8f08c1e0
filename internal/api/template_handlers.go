package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parabens-app/parabens-server/internal/http/response"
	"github.com/parabens-app/parabens-server/internal/service"
)

// handleListTemplates returns the company's email templates, default first.
// GET /api/v1/companies/{companyID}/templates
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.templateService.List(r.Context(), companyID(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, templates, s.logger)
}

// handleUpsertTemplate creates or replaces the template for a tag slot.
// POST /api/v1/companies/{companyID}/templates
func (s *Server) handleUpsertTemplate(w http.ResponseWriter, r *http.Request) {
	var req service.TemplateRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	tmpl, err := s.templateService.Upsert(r.Context(), companyID(r), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, tmpl, s.logger)
}

// handleDeleteTemplate deletes a template.
// DELETE /api/v1/companies/{companyID}/templates/{id}
func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "id")
	if templateID == "" {
		response.BadRequest(w, "Template ID is required", s.logger)
		return
	}

	if err := s.templateService.Delete(r.Context(), companyID(r), templateID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
