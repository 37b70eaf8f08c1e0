package domain

import "time"

// Company is the tenant boundary. People, tags, templates and settings all
// belong to exactly one company and are never visible across companies.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
