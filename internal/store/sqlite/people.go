package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/store"
)

const personColumns = `id, company_id, created_at, updated_at, name, email, birthdate, role, last_greeted_on`

func scanPerson(scanner interface{ Scan(dest ...any) error }) (*domain.Person, error) {
	var p domain.Person

	var (
		createdAt     string
		updatedAt     string
		birthdate     string
		lastGreetedOn sql.NullString
	)

	err := scanner.Scan(
		&p.ID,
		&p.CompanyID,
		&createdAt,
		&updatedAt,
		&p.Name,
		&p.Email,
		&birthdate,
		&p.Role,
		&lastGreetedOn,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	p.Birthdate, err = parseDate(birthdate)
	if err != nil {
		return nil, err
	}
	if lastGreetedOn.Valid {
		p.LastGreetedOn = lastGreetedOn.String
	}

	return &p, nil
}

// loadPeopleTags populates Tags for each person in one query.
// Tags come back ordered by tag ID ascending; template resolution
// depends on that order being stable.
func (s *Store) loadPeopleTags(ctx context.Context, people []*domain.Person) error {
	if len(people) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Person, len(people))
	placeholders := make([]string, 0, len(people))
	args := make([]any, 0, len(people))
	for _, p := range people {
		p.Tags = []*domain.Tag{}
		byID[p.ID] = p
		placeholders = append(placeholders, "?")
		args = append(args, p.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.person_id, t.id, t.company_id, t.created_at, t.updated_at, t.name
		FROM person_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.person_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY t.id ASC`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var personID string
		var t domain.Tag
		var createdAt, updatedAt string
		if err := rows.Scan(&personID, &t.ID, &t.CompanyID, &createdAt, &updatedAt, &t.Name); err != nil {
			return err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return err
		}
		if p, ok := byID[personID]; ok {
			p.Tags = append(p.Tags, &t)
		}
	}
	return rows.Err()
}

// insertPerson inserts a person row and its tag associations using the
// given execer (a *sql.DB or *sql.Tx).
func insertPerson(ctx context.Context, exec interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, p *domain.Person) error {
	emailLower := strings.ToLower(strings.TrimSpace(p.Email))

	_, err := exec.ExecContext(ctx, `
		INSERT INTO people (id, company_id, created_at, updated_at, name, email, email_lower, birthdate, role, last_greeted_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.CompanyID,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
		p.Name,
		p.Email,
		emailLower,
		formatDate(p.Birthdate),
		p.Role,
		nullString(p.LastGreetedOn),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("email already on roster: " + p.Email)
		}
		return err
	}

	for _, t := range p.Tags {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO person_tags (person_id, tag_id) VALUES (?, ?)`,
			p.ID, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// CreatePerson inserts a new person with their tag associations.
// Returns store.ErrAlreadyExists if the email is already on the company roster.
func (s *Store) CreatePerson(ctx context.Context, person *domain.Person) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertPerson(ctx, tx, person); err != nil {
		return err
	}
	return tx.Commit()
}

// GetPerson retrieves a person by ID within a company, tags populated.
// Returns store.ErrNotFound if no such person exists in that company.
func (s *Store) GetPerson(ctx context.Context, companyID, id string) (*domain.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = ? AND company_id = ?`, id, companyID)

	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadPeopleTags(ctx, []*domain.Person{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePerson updates a person row and replaces their tag associations.
// Returns store.ErrNotFound if the person does not exist in the company.
func (s *Store) UpdatePerson(ctx context.Context, person *domain.Person) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	emailLower := strings.ToLower(strings.TrimSpace(person.Email))

	result, err := tx.ExecContext(ctx, `
		UPDATE people SET
			updated_at = ?,
			name = ?,
			email = ?,
			email_lower = ?,
			birthdate = ?,
			role = ?
		WHERE id = ? AND company_id = ?`,
		formatTime(person.UpdatedAt),
		person.Name,
		person.Email,
		emailLower,
		formatDate(person.Birthdate),
		person.Role,
		person.ID,
		person.CompanyID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("email already on roster: " + person.Email)
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

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM person_tags WHERE person_id = ?`, person.ID); err != nil {
		return err
	}
	for _, t := range person.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO person_tags (person_id, tag_id) VALUES (?, ?)`,
			person.ID, t.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeletePerson removes a person from a company roster.
// Returns store.ErrNotFound if the person does not exist in the company.
func (s *Store) DeletePerson(ctx context.Context, companyID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM people WHERE id = ? AND company_id = ?`, id, companyID)
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

// ListPeople returns a company's roster ordered by name, tags populated.
func (s *Store) ListPeople(ctx context.Context, companyID string) ([]*domain.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE company_id = ? ORDER BY name ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []*domain.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadPeopleTags(ctx, people); err != nil {
		return nil, err
	}
	return people, nil
}

// BulkCreatePeople inserts a batch of people in a single transaction.
// Rows whose email is already on the company roster are skipped, not
// batch-aborted. Returns the number of people actually inserted.
func (s *Store) BulkCreatePeople(ctx context.Context, companyID string, people []*domain.Person) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	created := 0
	for _, p := range people {
		p.CompanyID = companyID
		emailLower := strings.ToLower(strings.TrimSpace(p.Email))

		result, err := tx.ExecContext(ctx, `
			INSERT INTO people (id, company_id, created_at, updated_at, name, email, email_lower, birthdate, role, last_greeted_on)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(company_id, email_lower) DO NOTHING`,
			p.ID,
			p.CompanyID,
			formatTime(p.CreatedAt),
			formatTime(p.UpdatedAt),
			p.Name,
			p.Email,
			emailLower,
			formatDate(p.Birthdate),
			p.Role,
			nullString(p.LastGreetedOn),
		)
		if err != nil {
			return 0, err
		}

		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			// duplicate email, skip the row and its tags
			continue
		}

		for _, t := range p.Tags {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO person_tags (person_id, tag_id) VALUES (?, ?)`,
				p.ID, t.ID); err != nil {
				return 0, err
			}
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return created, nil
}

// SetPersonTags replaces a person's tag associations.
// Returns store.ErrNotFound if the person does not exist in the company.
func (s *Store) SetPersonTags(ctx context.Context, companyID, personID string, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM people WHERE id = ? AND company_id = ?`,
		personID, companyID).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM person_tags WHERE person_id = ?`, personID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO person_tags (person_id, tag_id) VALUES (?, ?)`,
			personID, tagID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SetLastGreeted stamps the date of the last birthday mail sent to a person.
// Returns store.ErrNotFound if the person does not exist in the company.
func (s *Store) SetLastGreeted(ctx context.Context, companyID, personID string, day time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE people SET last_greeted_on = ? WHERE id = ? AND company_id = ?`,
		formatDate(day), personID, companyID)
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
