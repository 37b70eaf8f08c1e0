package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/id"
	"github.com/parabens-app/parabens-server/internal/store"
)

const tagColumns = `id, company_id, created_at, updated_at, name`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.CompanyID,
		&createdAt,
		&updatedAt,
		&t.Name,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag.
// Returns store.ErrAlreadyExists on a duplicate name within the company.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, company_id, created_at, updated_at, name)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID,
		t.CompanyID,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
		t.Name,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("tag already exists: " + t.Name)
		}
		return err
	}
	return nil
}

// GetTag retrieves a tag by ID within a company.
// Returns store.ErrNotFound if the tag does not exist in that company.
func (s *Store) GetTag(ctx context.Context, companyID, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ? AND company_id = ?`, tagID, companyID)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns a company's tags ordered by name.
func (s *Store) ListTags(ctx context.Context, companyID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE company_id = ? ORDER BY name ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// DeleteTag removes a tag. Foreign keys cascade the person associations
// and any template bound to the tag.
// Returns store.ErrNotFound if the tag does not exist in the company.
func (s *Store) DeleteTag(ctx context.Context, companyID, tagID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND company_id = ?`, tagID, companyID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// FindOrCreateTagByName finds a company tag by name or creates a new one.
// This is the import path's key: roster rows reference tags by name.
func (s *Store) FindOrCreateTagByName(ctx context.Context, companyID, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE company_id = ? AND name = ?`, companyID, name)

	existing, err := scanTag(row)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag id: %w", err)
	}

	now := time.Now().UTC()
	t := &domain.Tag{
		ID:        tagID,
		CompanyID: companyID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.CreateTag(ctx, t); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Race: another request created it between lookup and insert.
			row := s.db.QueryRowContext(ctx,
				`SELECT `+tagColumns+` FROM tags WHERE company_id = ? AND name = ?`, companyID, name)
			return scanTag(row)
		}
		return nil, err
	}

	return t, nil
}
