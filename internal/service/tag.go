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

// TagService manages a company's tags.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st store.Store, logger *slog.Logger) *TagService {
	return &TagService{store: st, logger: logger}
}

// TagRequest contains the data for a new tag.
type TagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

// List returns the company's tags.
func (s *TagService) List(ctx context.Context, companyID string) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx, companyID)
}

// Create adds a tag to the company.
func (s *TagService) Create(ctx context.Context, companyID string, req TagRequest) (*domain.Tag, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	now := time.Now().UTC()
	tag := &domain.Tag{
		ID:        tagID,
		CompanyID: companyID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("tag already exists")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	return tag, nil
}

// Delete removes a tag; associations and its template cascade away.
func (s *TagService) Delete(ctx context.Context, companyID, tagID string) error {
	if err := s.store.DeleteTag(ctx, companyID, tagID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag not found")
		}
		return err
	}
	return nil
}
