package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/parabens-app/parabens-server/internal/domain"
	domainerrors "github.com/parabens-app/parabens-server/internal/errors"
	"github.com/parabens-app/parabens-server/internal/id"
	"github.com/parabens-app/parabens-server/internal/importer"
	"github.com/parabens-app/parabens-server/internal/store"
)

// PersonService manages a company's roster.
type PersonService struct {
	store  store.Store
	logger *slog.Logger
}

// NewPersonService creates a new person service.
func NewPersonService(st store.Store, logger *slog.Logger) *PersonService {
	return &PersonService{store: st, logger: logger}
}

// PersonRequest contains the data for creating or updating a roster entry.
type PersonRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=128"`
	Email     string   `json:"email" validate:"required,email"`
	Birthdate string   `json:"birthdate" validate:"required,datetime=2006-01-02"`
	Role      string   `json:"role" validate:"max=128"`
	TagIDs    []string `json:"tag_ids"`
}

// BulkPeopleRequest carries roster entries posted directly (not via xlsx).
type BulkPeopleRequest struct {
	People []BulkPersonEntry `json:"people" validate:"required,min=1,dive"`
}

// BulkPersonEntry is one row of a bulk insert. TagName is resolved
// find-or-create within the company.
type BulkPersonEntry struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Birthdate string `json:"birthdate" validate:"required,datetime=2006-01-02"`
	Role      string `json:"role"`
	TagName   string `json:"tag_name"`
}

// ImportResult reports how many people a bulk operation added and how many
// rows were skipped as duplicates.
type ImportResult struct {
	Count   int `json:"count"`
	Skipped int `json:"skipped"`
}

// List returns the company roster.
func (s *PersonService) List(ctx context.Context, companyID string) ([]*domain.Person, error) {
	people, err := s.store.ListPeople(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if people == nil {
		people = []*domain.Person{}
	}
	return people, nil
}

// Create adds a person to the company roster.
func (s *PersonService) Create(ctx context.Context, companyID string, req PersonRequest) (*domain.Person, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	birthdate, err := time.Parse("2006-01-02", req.Birthdate)
	if err != nil {
		return nil, domainerrors.Validation("invalid birthdate")
	}

	tags, err := s.resolveTags(ctx, companyID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	personID, err := id.Generate("per")
	if err != nil {
		return nil, fmt.Errorf("generate person ID: %w", err)
	}

	now := time.Now().UTC()
	person := &domain.Person{
		ID:        personID,
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Birthdate: birthdate,
		Role:      req.Role,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      tags,
	}

	if err := s.store.CreatePerson(ctx, person); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already on roster")
		}
		return nil, fmt.Errorf("create person: %w", err)
	}

	return s.store.GetPerson(ctx, companyID, person.ID)
}

// Update replaces a person's fields and tag set.
func (s *PersonService) Update(ctx context.Context, companyID, personID string, req PersonRequest) (*domain.Person, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	birthdate, err := time.Parse("2006-01-02", req.Birthdate)
	if err != nil {
		return nil, domainerrors.Validation("invalid birthdate")
	}

	person, err := s.store.GetPerson(ctx, companyID, personID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("person not found")
		}
		return nil, err
	}

	tags, err := s.resolveTags(ctx, companyID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	person.Name = req.Name
	person.Email = req.Email
	person.Birthdate = birthdate
	person.Role = req.Role
	person.Tags = tags
	person.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdatePerson(ctx, person); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already on roster")
		}
		return nil, fmt.Errorf("update person: %w", err)
	}

	return s.store.GetPerson(ctx, companyID, personID)
}

// Delete removes a person from the roster.
func (s *PersonService) Delete(ctx context.Context, companyID, personID string) error {
	if err := s.store.DeletePerson(ctx, companyID, personID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("person not found")
		}
		return err
	}
	return nil
}

// BulkCreate inserts posted roster entries in one transaction. Tag names
// are resolved find-or-create; rows whose email already exists in the
// company are skipped, and the result reports inserted and skipped counts.
func (s *PersonService) BulkCreate(ctx context.Context, companyID string, req BulkPeopleRequest) (*ImportResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	rows := make([]*importer.Row, 0, len(req.People))
	for _, entry := range req.People {
		birthdate, err := time.Parse("2006-01-02", entry.Birthdate)
		if err != nil {
			return nil, domainerrors.Validation("invalid birthdate for " + entry.Email)
		}
		rows = append(rows, &importer.Row{
			Name:      entry.Name,
			Email:     entry.Email,
			Birthdate: birthdate,
			Role:      entry.Role,
			TagName:   entry.TagName,
		})
	}

	return s.importRows(ctx, companyID, rows)
}

// ImportSpreadsheet parses an uploaded xlsx roster and inserts it in one
// transaction.
func (s *PersonService) ImportSpreadsheet(ctx context.Context, companyID string, r io.Reader) (*ImportResult, error) {
	rows, err := importer.ReadRoster(r)
	if err != nil {
		return nil, err
	}
	return s.importRows(ctx, companyID, rows)
}

// ExportRoster writes the company roster as an xlsx workbook.
func (s *PersonService) ExportRoster(ctx context.Context, companyID string, w io.Writer) error {
	people, err := s.store.ListPeople(ctx, companyID)
	if err != nil {
		return err
	}
	return importer.WriteRoster(w, people)
}

func (s *PersonService) importRows(ctx context.Context, companyID string, rows []*importer.Row) (*ImportResult, error) {
	// Tag rows are resolved up front with find-or-create, so a tag named
	// only by skipped duplicate rows still exists afterwards.
	tagCache := map[string]*domain.Tag{}

	people := make([]*domain.Person, 0, len(rows))
	for _, row := range rows {
		var tags []*domain.Tag
		if row.TagName != "" {
			tag, ok := tagCache[row.TagName]
			if !ok {
				var err error
				tag, err = s.store.FindOrCreateTagByName(ctx, companyID, row.TagName)
				if err != nil {
					return nil, fmt.Errorf("resolve tag %q: %w", row.TagName, err)
				}
				tagCache[row.TagName] = tag
			}
			tags = []*domain.Tag{tag}
		}

		personID, err := id.Generate("per")
		if err != nil {
			return nil, fmt.Errorf("generate person ID: %w", err)
		}

		now := time.Now().UTC()
		people = append(people, &domain.Person{
			ID:        personID,
			CompanyID: companyID,
			Name:      row.Name,
			Email:     row.Email,
			Birthdate: row.Birthdate,
			Role:      row.Role,
			CreatedAt: now,
			UpdatedAt: now,
			Tags:      tags,
		})
	}

	created, err := s.store.BulkCreatePeople(ctx, companyID, people)
	if err != nil {
		return nil, fmt.Errorf("bulk create: %w", err)
	}

	skipped := len(people) - created
	s.logger.Info("Roster imported",
		"company_id", companyID, "count", created, "skipped", skipped)
	return &ImportResult{Count: created, Skipped: skipped}, nil
}

// resolveTags verifies each tag ID belongs to the company and loads it.
func (s *PersonService) resolveTags(ctx context.Context, companyID string, tagIDs []string) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	for _, tagID := range tagIDs {
		tag, err := s.store.GetTag(ctx, companyID, tagID)
		if err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.Validation("unknown tag: " + tagID)
			}
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
