package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parabens-app/parabens-server/internal/http/response"
	"github.com/parabens-app/parabens-server/internal/service"
)

// handleListTags returns the company's tags.
// GET /api/v1/companies/{companyID}/tags
func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tagService.List(r.Context(), companyID(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, tags, s.logger)
}

// handleCreateTag creates a tag.
// POST /api/v1/companies/{companyID}/tags
func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req service.TagRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	tag, err := s.tagService.Create(r.Context(), companyID(r), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, tag, s.logger)
}

// handleDeleteTag deletes a tag along with its template and person associations.
// DELETE /api/v1/companies/{companyID}/tags/{id}
func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "id")
	if tagID == "" {
		response.BadRequest(w, "Tag ID is required", s.logger)
		return
	}

	if err := s.tagService.Delete(r.Context(), companyID(r), tagID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
