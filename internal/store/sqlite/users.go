package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, username, password_hash, role`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt string
		updatedAt string
		role      string
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&u.Username,
		&u.PasswordHash,
		&role,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)

	return &u, nil
}

// loadUserCompanies populates u.CompanyIDs from the membership table.
func (s *Store) loadUserCompanies(ctx context.Context, u *domain.User) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company_id FROM user_companies WHERE user_id = ? ORDER BY company_id ASC`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		u.CompanyIDs = append(u.CompanyIDs, id)
	}
	return rows.Err()
}

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists if the username is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	usernameLower := strings.ToLower(strings.TrimSpace(user.Username))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, updated_at, username, username_lower, password_hash, role)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		user.Username,
		usernameLower,
		user.PasswordHash,
		string(user.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("username already taken")
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID, with company memberships populated.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadUserCompanies(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByUsername retrieves a user by username, case-insensitively.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	lower := strings.ToLower(strings.TrimSpace(username))
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username_lower = ?`, lower)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadUserCompanies(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser performs a full row update on an existing user.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	usernameLower := strings.ToLower(strings.TrimSpace(user.Username))

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			updated_at = ?,
			username = ?,
			username_lower = ?,
			password_hash = ?,
			role = ?
		WHERE id = ?`,
		formatTime(user.UpdatedAt),
		user.Username,
		usernameLower,
		user.PasswordHash,
		string(user.Role),
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("username already taken")
		}
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

// DeleteUser removes a user and their company memberships.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
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

// ListUsers returns all users ordered by creation time, memberships populated.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, u := range users {
		if err := s.loadUserCompanies(ctx, u); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// SetUserCompanies replaces a user's company memberships in one transaction.
func (s *Store) SetUserCompanies(ctx context.Context, userID string, companyIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_companies WHERE user_id = ?`, userID); err != nil {
		return err
	}

	for _, companyID := range companyIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_companies (user_id, company_id) VALUES (?, ?)`,
			userID, companyID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
