package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/id"
	"github.com/parabens-app/parabens-server/internal/store"
)

// CompanyService manages tenants.
type CompanyService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCompanyService creates a new company service.
func NewCompanyService(st store.Store, logger *slog.Logger) *CompanyService {
	return &CompanyService{store: st, logger: logger}
}

// CreateCompanyRequest contains the data for a new tenant.
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// ListForUser returns the companies the user belongs to.
func (s *CompanyService) ListForUser(ctx context.Context, userID string) ([]*domain.Company, error) {
	companies, err := s.store.ListCompaniesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []*domain.Company{}
	}
	return companies, nil
}

// Create adds a company, attaches the creator as a member, and eagerly
// creates the company's settings row.
func (s *CompanyService) Create(ctx context.Context, creator *domain.User, req CreateCompanyRequest) (*domain.Company, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	companyID, err := id.Generate("co")
	if err != nil {
		return nil, fmt.Errorf("generate company ID: %w", err)
	}

	now := time.Now().UTC()
	company := &domain.Company{
		ID:        companyID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}

	memberships := append(creator.CompanyIDs, company.ID)
	if err := s.store.SetUserCompanies(ctx, creator.ID, memberships); err != nil {
		return nil, fmt.Errorf("attach creator: %w", err)
	}

	if _, err := s.store.GetOrCreateSettings(ctx, company.ID); err != nil {
		return nil, fmt.Errorf("create settings: %w", err)
	}

	s.logger.Info("Company created", "company_id", company.ID, "by", creator.ID)
	return company, nil
}
