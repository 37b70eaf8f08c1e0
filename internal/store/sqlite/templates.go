package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/store"
)

const templateColumns = `id, company_id, tag_id, created_at, updated_at, subject, body`

func scanTemplate(scanner interface{ Scan(dest ...any) error }) (*domain.EmailTemplate, error) {
	var t domain.EmailTemplate

	var (
		tagID     sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.CompanyID,
		&tagID,
		&createdAt,
		&updatedAt,
		&t.Subject,
		&t.Body,
	)
	if err != nil {
		return nil, err
	}

	if tagID.Valid {
		t.TagID = tagID.String
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

// UpsertTemplate creates or replaces the template for (company, tag).
// An empty TagID addresses the company default slot. The incoming ID is
// ignored when a row already occupies the slot; the existing row keeps
// its identity and gets the new subject and body.
func (s *Store) UpsertTemplate(ctx context.Context, tmpl *domain.EmailTemplate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existingID string
	var row *sql.Row
	if tmpl.TagID == "" {
		row = tx.QueryRowContext(ctx,
			`SELECT id FROM email_templates WHERE company_id = ? AND tag_id IS NULL`,
			tmpl.CompanyID)
	} else {
		row = tx.QueryRowContext(ctx,
			`SELECT id FROM email_templates WHERE company_id = ? AND tag_id = ?`,
			tmpl.CompanyID, tmpl.TagID)
	}

	err = row.Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO email_templates (id, company_id, tag_id, created_at, updated_at, subject, body)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tmpl.ID,
			tmpl.CompanyID,
			nullString(tmpl.TagID),
			formatTime(tmpl.CreatedAt),
			formatTime(tmpl.UpdatedAt),
			tmpl.Subject,
			tmpl.Body,
		)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if _, err := tx.ExecContext(ctx, `
			UPDATE email_templates SET updated_at = ?, subject = ?, body = ? WHERE id = ?`,
			formatTime(tmpl.UpdatedAt),
			tmpl.Subject,
			tmpl.Body,
			existingID,
		); err != nil {
			return err
		}
		tmpl.ID = existingID
	}

	return tx.Commit()
}

// ListTemplates returns a company's templates, default first, then by tag ID.
func (s *Store) ListTemplates(ctx context.Context, companyID string) ([]*domain.EmailTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM email_templates
		 WHERE company_id = ? ORDER BY tag_id IS NOT NULL, tag_id ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*domain.EmailTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if templates == nil {
		templates = []*domain.EmailTemplate{}
	}

	return templates, nil
}

// DeleteTemplate removes a template.
// Returns store.ErrNotFound if the template does not exist in the company.
func (s *Store) DeleteTemplate(ctx context.Context, companyID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM email_templates WHERE id = ? AND company_id = ?`, id, companyID)
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
