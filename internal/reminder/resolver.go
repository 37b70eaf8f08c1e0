// Package reminder implements the birthday greeting engine: template
// resolution, placeholder rendering, and the daily scan that dispatches
// mail through each company's SMTP transport.
package reminder

import (
	"github.com/parabens-app/parabens-server/internal/domain"
)

// Tier identifies which fallback level produced a resolution.
type Tier string

const (
	// TierTag means a template bound to one of the person's tags matched.
	TierTag Tier = "tag"
	// TierDefault means the company-wide default template was used.
	TierDefault Tier = "default"
	// TierLegacy means the free-text settings template was used.
	TierLegacy Tier = "legacy"
)

// legacySubject is the fixed subject used with the legacy settings template,
// which carries no subject of its own.
const legacySubject = "Felicitações de Aniversário"

// Resolution is the outcome of template resolution for one person.
type Resolution struct {
	Subject string
	Body    string
	Tier    Tier
}

// Resolve picks the template for a person. Tag-bound templates win, tried in
// the person's tag order (ascending tag ID, as loaded from the store), then
// the company default, then the legacy settings template. Resolution never
// fails; with nothing configured it returns an empty legacy body.
func Resolve(person *domain.Person, templates []*domain.EmailTemplate, settings *domain.Settings) Resolution {
	byTag := make(map[string]*domain.EmailTemplate, len(templates))
	var fallback *domain.EmailTemplate
	for _, t := range templates {
		if t.IsDefault() {
			fallback = t
		} else {
			byTag[t.TagID] = t
		}
	}

	for _, tag := range person.Tags {
		if t, ok := byTag[tag.ID]; ok {
			return Resolution{Subject: subjectOrDefault(t.Subject), Body: t.Body, Tier: TierTag}
		}
	}

	if fallback != nil {
		return Resolution{Subject: subjectOrDefault(fallback.Subject), Body: fallback.Body, Tier: TierDefault}
	}

	return Resolution{Subject: legacySubject, Body: settings.EmailTemplate, Tier: TierLegacy}
}

// subjectOrDefault substitutes the generic subject for templates saved
// without one.
func subjectOrDefault(s string) string {
	if s == "" {
		return legacySubject
	}
	return s
}
