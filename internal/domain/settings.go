package domain

import "time"

// Settings holds a company's SMTP credentials and the legacy free-text
// template. One row per company, created lazily on first read.
type Settings struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`

	SMTPHost string `json:"smtp_host"`
	SMTPPort int    `json:"smtp_port"`
	SMTPUser string `json:"smtp_user"`
	SMTPPass string `json:"-"` // never serialized to clients

	// EmailTemplate is the legacy plain-text template with literal newlines.
	// Used only when the company has no EmailTemplate rows at all.
	EmailTemplate string `json:"email_template"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SMTPConfigured reports whether the settings carry enough credentials to
// dial. Companies without both a username and a password are skipped by
// the daily scan.
func (s *Settings) SMTPConfigured() bool {
	return s.SMTPUser != "" && s.SMTPPass != ""
}
