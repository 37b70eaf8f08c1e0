package domain

import "time"

// Person is a birthday recipient on a company's roster.
type Person struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`

	// Birthdate is a calendar date. The year matters only for age display;
	// birthday matching compares month and day of the UTC calendar components.
	Birthdate time.Time `json:"birthdate"`

	// Role is an optional free-text title (e.g. "Gerente", "Estagiário").
	Role string `json:"role,omitempty"`

	// LastGreetedOn is the date (YYYY-MM-DD) of the last birthday mail sent to
	// this person. Makes repeated scheduler ticks within a day idempotent.
	LastGreetedOn string `json:"last_greeted_on,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Tags are the person's assigned tags, populated by the store on read,
	// ordered by tag ID ascending so template resolution is deterministic.
	Tags []*Tag `json:"tags"`
}

// BirthdayOn reports whether the person's birthday falls on the given day.
// The comparison uses the stored birthdate's UTC calendar components; no
// timezone conversion is performed.
func (p *Person) BirthdayOn(day time.Time) bool {
	bd := p.Birthdate.UTC()
	return bd.Month() == day.Month() && bd.Day() == day.Day()
}

// AgeOn returns the age the person turns in the given day's year.
func (p *Person) AgeOn(day time.Time) int {
	return day.Year() - p.Birthdate.UTC().Year()
}

// GreetedOn reports whether the person was already greeted on the given day.
func (p *Person) GreetedOn(day time.Time) bool {
	return p.LastGreetedOn == day.UTC().Format("2006-01-02")
}
