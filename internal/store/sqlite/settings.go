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

const settingsColumns = `id, company_id, created_at, updated_at, smtp_host, smtp_port, smtp_user, smtp_pass, email_template`

func scanSettings(scanner interface{ Scan(dest ...any) error }) (*domain.Settings, error) {
	var st domain.Settings

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&st.ID,
		&st.CompanyID,
		&createdAt,
		&updatedAt,
		&st.SMTPHost,
		&st.SMTPPort,
		&st.SMTPUser,
		&st.SMTPPass,
		&st.EmailTemplate,
	)
	if err != nil {
		return nil, err
	}

	st.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	st.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

// GetOrCreateSettings returns the company's settings row, creating an empty
// one on first access.
func (s *Store) GetOrCreateSettings(ctx context.Context, companyID string) (*domain.Settings, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM settings WHERE company_id = ?`, companyID)

	existing, err := scanSettings(row)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	settingsID, err := id.Generate("set")
	if err != nil {
		return nil, fmt.Errorf("generate settings id: %w", err)
	}

	now := time.Now().UTC()
	st := &domain.Settings{
		ID:        settingsID,
		CompanyID: companyID,
		SMTPPort:  587,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, company_id, created_at, updated_at, smtp_host, smtp_port, smtp_user, smtp_pass, email_template)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID,
		st.CompanyID,
		formatTime(st.CreatedAt),
		formatTime(st.UpdatedAt),
		st.SMTPHost,
		st.SMTPPort,
		st.SMTPUser,
		st.SMTPPass,
		st.EmailTemplate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Race: another request created the row first.
			row := s.db.QueryRowContext(ctx,
				`SELECT `+settingsColumns+` FROM settings WHERE company_id = ?`, companyID)
			return scanSettings(row)
		}
		return nil, err
	}

	return st, nil
}

// UpdateSettings performs a full row update keyed by company.
// Returns store.ErrNotFound if no settings row exists for the company.
func (s *Store) UpdateSettings(ctx context.Context, settings *domain.Settings) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE settings SET
			updated_at = ?,
			smtp_host = ?,
			smtp_port = ?,
			smtp_user = ?,
			smtp_pass = ?,
			email_template = ?
		WHERE company_id = ?`,
		formatTime(settings.UpdatedAt),
		settings.SMTPHost,
		settings.SMTPPort,
		settings.SMTPUser,
		settings.SMTPPass,
		settings.EmailTemplate,
		settings.CompanyID,
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
