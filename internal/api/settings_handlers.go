package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/parabens-app/parabens-server/internal/http/response"
	"github.com/parabens-app/parabens-server/internal/service"
)

// handleGetSettings returns the company's SMTP settings. The password is
// never serialized.
// GET /api/v1/companies/{companyID}/settings
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsService.Get(r.Context(), companyID(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, settings, s.logger)
}

// handleUpdateSettings replaces the company's SMTP settings. A blank
// password keeps the stored one.
// PUT /api/v1/companies/{companyID}/settings
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateSettingsRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	settings, err := s.settingsService.Update(r.Context(), companyID(r), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, settings, s.logger)
}

// handleSendTestEmail sends a one-off test message using the stored settings.
// POST /api/v1/companies/{companyID}/settings/test-email
func (s *Server) handleSendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req service.TestEmailRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.settingsService.SendTestEmail(r.Context(), companyID(r), req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"status": "sent"}, s.logger)
}

// handleExportSettings streams the SMTP configuration as a text download.
// The password is omitted.
// GET /api/v1/companies/{companyID}/export/settings
func (s *Server) handleExportSettings(w http.ResponseWriter, r *http.Request) {
	content, err := s.settingsService.ExportText(r.Context(), companyID(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="config.txt"`)
	if _, err := w.Write([]byte(content)); err != nil {
		s.logger.Error("Failed to write settings export", "error", err)
	}
}
