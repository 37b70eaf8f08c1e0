package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/store"
)

const companyColumns = `id, created_at, updated_at, name`

func scanCompany(scanner interface{ Scan(dest ...any) error }) (*domain.Company, error) {
	var c domain.Company
	var createdAt, updatedAt string

	if err := scanner.Scan(&c.ID, &createdAt, &updatedAt, &c.Name); err != nil {
		return nil, err
	}

	var err error
	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCompany inserts a new company.
func (s *Store) CreateCompany(ctx context.Context, company *domain.Company) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, created_at, updated_at, name)
		VALUES (?, ?, ?, ?)`,
		company.ID,
		formatTime(company.CreatedAt),
		formatTime(company.UpdatedAt),
		company.Name,
	)
	return err
}

// GetCompany retrieves a company by ID.
// Returns store.ErrNotFound if the company does not exist.
func (s *Store) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)

	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCompany performs a full row update on an existing company.
func (s *Store) UpdateCompany(ctx context.Context, company *domain.Company) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE companies SET updated_at = ?, name = ? WHERE id = ?`,
		formatTime(company.UpdatedAt),
		company.Name,
		company.ID,
	)
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

// DeleteCompany removes a company. Foreign keys cascade the roster, tags,
// templates, settings and memberships.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
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

// ListCompanies returns all companies ordered by creation time.
func (s *Store) ListCompanies(ctx context.Context) ([]*domain.Company, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// ListCompaniesForUser returns the companies the user is a member of.
func (s *Store) ListCompaniesForUser(ctx context.Context, userID string) ([]*domain.Company, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.created_at, c.updated_at, c.name
		FROM companies c
		JOIN user_companies uc ON uc.company_id = c.id
		WHERE uc.user_id = ?
		ORDER BY c.created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// IsUserMember reports whether the user belongs to the company.
func (s *Store) IsUserMember(ctx context.Context, userID, companyID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_companies WHERE user_id = ? AND company_id = ?`,
		userID, companyID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
