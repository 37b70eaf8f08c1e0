package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/parabens-app/parabens-server/internal/http/response"
	"github.com/parabens-app/parabens-server/internal/service"
)

// handleListCompanies returns the companies the authenticated user belongs to.
// GET /api/v1/companies
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())

	companies, err := s.companyService.ListForUser(r.Context(), user.ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, companies, s.logger)
}

// handleCreateCompany creates a company and attaches the creator to it.
// POST /api/v1/companies
func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())

	var req service.CreateCompanyRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	company, err := s.companyService.Create(r.Context(), user, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, company, s.logger)
}
