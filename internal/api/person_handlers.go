package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parabens-app/parabens-server/internal/http/response"
	"github.com/parabens-app/parabens-server/internal/service"
)

// maxImportSize caps uploaded spreadsheets at 10 MiB.
const maxImportSize = 10 << 20

// handleListPeople returns the company roster.
// GET /api/v1/companies/{companyID}/people
func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.personService.List(r.Context(), companyID(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, people, s.logger)
}

// handleCreatePerson adds a person to the roster.
// POST /api/v1/companies/{companyID}/people
func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req service.PersonRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	person, err := s.personService.Create(r.Context(), companyID(r), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, person, s.logger)
}

// handleUpdatePerson replaces a person's details and tags.
// PUT /api/v1/companies/{companyID}/people/{id}
func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "id")
	if personID == "" {
		response.BadRequest(w, "Person ID is required", s.logger)
		return
	}

	var req service.PersonRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	person, err := s.personService.Update(r.Context(), companyID(r), personID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, person, s.logger)
}

// handleDeletePerson removes a person from the roster.
// DELETE /api/v1/companies/{companyID}/people/{id}
func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "id")
	if personID == "" {
		response.BadRequest(w, "Person ID is required", s.logger)
		return
	}

	if err := s.personService.Delete(r.Context(), companyID(r), personID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleBulkCreatePeople inserts a batch of people in one transaction.
// POST /api/v1/companies/{companyID}/people/bulk
func (s *Server) handleBulkCreatePeople(w http.ResponseWriter, r *http.Request) {
	var req service.BulkPeopleRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.personService.BulkCreate(r.Context(), companyID(r), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}

// handleImportPeople imports a roster from an uploaded .xlsx spreadsheet.
// POST /api/v1/companies/{companyID}/people/import (multipart, field "file")
func (s *Server) handleImportPeople(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		response.BadRequest(w, "Invalid multipart upload", s.logger)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing spreadsheet file", s.logger)
		return
	}
	defer file.Close()

	result, err := s.personService.ImportSpreadsheet(r.Context(), companyID(r), file)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}

// handleExportPeople streams the roster as an .xlsx download.
// GET /api/v1/companies/{companyID}/export/people
func (s *Server) handleExportPeople(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="aniversariantes.xlsx"`)

	if err := s.personService.ExportRoster(r.Context(), companyID(r), w); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("Failed to export roster", "error", err, "company_id", companyID(r))
	}
}
