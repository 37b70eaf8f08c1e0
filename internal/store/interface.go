// Package store defines the persistence interface for the Parabéns server.
//
// Every tenant-scoped operation takes an explicit companyID; there is no
// ambient tenant context. Implementations must scope reads and writes so one
// company can never see or touch another company's rows.
package store

import (
	"context"
	"time"

	"github.com/parabens-app/parabens-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)
	SetUserCompanies(ctx context.Context, userID string, companyIDs []string) error

	// Companies
	CreateCompany(ctx context.Context, company *domain.Company) error
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, company *domain.Company) error
	DeleteCompany(ctx context.Context, id string) error
	ListCompanies(ctx context.Context) ([]*domain.Company, error)
	ListCompaniesForUser(ctx context.Context, userID string) ([]*domain.Company, error)
	IsUserMember(ctx context.Context, userID, companyID string) (bool, error)

	// People
	CreatePerson(ctx context.Context, person *domain.Person) error
	GetPerson(ctx context.Context, companyID, id string) (*domain.Person, error)
	UpdatePerson(ctx context.Context, person *domain.Person) error
	DeletePerson(ctx context.Context, companyID, id string) error
	ListPeople(ctx context.Context, companyID string) ([]*domain.Person, error)
	BulkCreatePeople(ctx context.Context, companyID string, people []*domain.Person) (int, error)
	SetPersonTags(ctx context.Context, companyID, personID string, tagIDs []string) error
	SetLastGreeted(ctx context.Context, companyID, personID string, day time.Time) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, companyID, id string) (*domain.Tag, error)
	ListTags(ctx context.Context, companyID string) ([]*domain.Tag, error)
	DeleteTag(ctx context.Context, companyID, id string) error
	FindOrCreateTagByName(ctx context.Context, companyID, name string) (*domain.Tag, error)

	// Email templates
	UpsertTemplate(ctx context.Context, tmpl *domain.EmailTemplate) error
	ListTemplates(ctx context.Context, companyID string) ([]*domain.EmailTemplate, error)
	DeleteTemplate(ctx context.Context, companyID, id string) error

	// Settings
	GetOrCreateSettings(ctx context.Context, companyID string) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, settings *domain.Settings) error
}
