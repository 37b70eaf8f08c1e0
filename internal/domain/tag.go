package domain

import "time"

// Tag groups people within a company (e.g. a department or location) and
// selects which email template they receive. Names are the find-or-create
// key during spreadsheet import, scoped per company.
type Tag struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
