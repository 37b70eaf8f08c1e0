package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parabens-app/parabens-server/internal/domain"
	domainerrors "github.com/parabens-app/parabens-server/internal/errors"
	"github.com/parabens-app/parabens-server/internal/id"
	"github.com/parabens-app/parabens-server/internal/store"
)

// TemplateService manages a company's email templates.
type TemplateService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTemplateService creates a new template service.
func NewTemplateService(st store.Store, logger *slog.Logger) *TemplateService {
	return &TemplateService{store: st, logger: logger}
}

// TemplateRequest upserts the template for a tag slot.
// An empty tag_id addresses the company default.
type TemplateRequest struct {
	TagID   string `json:"tag_id"`
	Subject string `json:"subject" validate:"required,max=255"`
	Body    string `json:"body" validate:"required"`
}

// List returns the company's templates, default first.
func (s *TemplateService) List(ctx context.Context, companyID string) ([]*domain.EmailTemplate, error) {
	return s.store.ListTemplates(ctx, companyID)
}

// Upsert creates or replaces the template for (company, tag).
func (s *TemplateService) Upsert(ctx context.Context, companyID string, req TemplateRequest) (*domain.EmailTemplate, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.TagID != "" {
		if _, err := s.store.GetTag(ctx, companyID, req.TagID); err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.Validation("unknown tag: " + req.TagID)
			}
			return nil, err
		}
	}

	templateID, err := id.Generate("tpl")
	if err != nil {
		return nil, fmt.Errorf("generate template ID: %w", err)
	}

	now := time.Now().UTC()
	tmpl := &domain.EmailTemplate{
		ID:        templateID,
		CompanyID: companyID,
		TagID:     req.TagID,
		Subject:   req.Subject,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.UpsertTemplate(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("upsert template: %w", err)
	}

	s.logger.Info("Template saved", "company_id", companyID, "tag_id", req.TagID)
	return tmpl, nil
}

// Delete removes a template.
func (s *TemplateService) Delete(ctx context.Context, companyID, templateID string) error {
	if err := s.store.DeleteTemplate(ctx, companyID, templateID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("template not found")
		}
		return err
	}
	return nil
}
