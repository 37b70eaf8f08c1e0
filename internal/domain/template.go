package domain

import "time"

// EmailTemplate is a birthday message template owned by a company.
// TagID selects which people receive it; an empty TagID marks the
// company-wide default. At most one template exists per (company, tag)
// pair, including at most one default per company.
type EmailTemplate struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	TagID     string    `json:"tag_id,omitempty"` // empty = company default
	Subject   string    `json:"subject"`
	Body      string    `json:"body"` // HTML with {name} placeholders
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDefault reports whether this is the company-wide fallback template.
func (t *EmailTemplate) IsDefault() bool {
	return t.TagID == ""
}
