package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/parabens-app/parabens-server/internal/domain"
	domainerrors "github.com/parabens-app/parabens-server/internal/errors"
	"github.com/parabens-app/parabens-server/internal/mail"
	"github.com/parabens-app/parabens-server/internal/store"
)

// SettingsService manages per-company SMTP configuration.
type SettingsService struct {
	store  store.Store
	sender mail.Sender
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(st store.Store, sender mail.Sender, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: st, sender: sender, logger: logger}
}

// UpdateSettingsRequest replaces a company's SMTP configuration.
// A blank password keeps the stored secret.
type UpdateSettingsRequest struct {
	SMTPHost      string `json:"smtp_host" validate:"max=255"`
	SMTPPort      int    `json:"smtp_port" validate:"gte=0,lte=65535"`
	SMTPUser      string `json:"smtp_user" validate:"max=255"`
	SMTPPass      string `json:"smtp_pass"`
	EmailTemplate string `json:"email_template"`
}

// TestEmailRequest sends a one-off message to verify SMTP settings.
type TestEmailRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Get returns the company's settings, creating the row on first access.
func (s *SettingsService) Get(ctx context.Context, companyID string) (*domain.Settings, error) {
	return s.store.GetOrCreateSettings(ctx, companyID)
}

// Update replaces the company's settings. The stored SMTP password is kept
// when the request leaves it blank, so clients never need to echo secrets.
func (s *SettingsService) Update(ctx context.Context, companyID string, req UpdateSettingsRequest) (*domain.Settings, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	settings, err := s.store.GetOrCreateSettings(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	settings.SMTPHost = req.SMTPHost
	settings.SMTPPort = req.SMTPPort
	settings.SMTPUser = req.SMTPUser
	settings.EmailTemplate = req.EmailTemplate
	if req.SMTPPass != "" {
		settings.SMTPPass = req.SMTPPass
	}
	settings.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	s.logger.Info("Settings updated", "company_id", companyID)
	return settings, nil
}

// SendTestEmail delivers a test message synchronously; transport errors are
// surfaced to the caller instead of being swallowed like scan failures are.
func (s *SettingsService) SendTestEmail(ctx context.Context, companyID string, req TestEmailRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	settings, err := s.store.GetOrCreateSettings(ctx, companyID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !settings.SMTPConfigured() {
		return domainerrors.NotConfigured("SMTP not configured for this company")
	}

	subject := req.Subject
	if subject == "" {
		subject = "Teste - Felicitações de Aniversário"
	}
	body := req.Body
	if body == "" {
		body = settings.EmailTemplate
	}
	body = strings.ReplaceAll(body, "{name}", "Test User")

	msg := &mail.Message{
		To:       req.Email,
		Subject:  subject,
		TextBody: body,
		HTMLBody: body,
	}

	if err := s.sender.Send(ctx, settings, msg); err != nil {
		s.logger.Error("Test email failed", "company_id", companyID, "error", err)
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "test email failed")
	}

	s.logger.Info("Test email sent", "company_id", companyID, "to", req.Email)
	return nil
}

// ExportText renders the settings as the plain-text download format.
func (s *SettingsService) ExportText(ctx context.Context, companyID string) (string, error) {
	settings, err := s.store.GetOrCreateSettings(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}

	content := fmt.Sprintf("SMTP Host: %s\nSMTP Port: %d\nSMTP User: %s\nTemplate: \n%s",
		settings.SMTPHost, settings.SMTPPort, settings.SMTPUser, settings.EmailTemplate)
	return content, nil
}
