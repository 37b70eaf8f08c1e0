package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/id"
	"github.com/parabens-app/parabens-server/internal/store"
)

func newTestUser(username string, role domain.Role) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:           id.MustGenerate("usr"),
		Username:     username,
		PasswordHash: "$argon2id$fake",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("Carla", domain.RoleAdmin)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Username != "Carla" {
		t.Errorf("Username = %q, want Carla", got.Username)
	}
	if got.Role != domain.RoleAdmin {
		t.Errorf("Role = %q, want admin", got.Role)
	}
}

func TestGetUserByUsernameCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("Carla", domain.RoleMember)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := s.GetUserByUsername(ctx, "  CARLA ")
	if err != nil {
		t.Fatalf("get user by username: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID = %q, want %q", got.ID, u.ID)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, newTestUser("carla", domain.RoleMember)); err != nil {
		t.Fatalf("create user: %v", err)
	}

	err := s.CreateUser(ctx, newTestUser("Carla", domain.RoleMember))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("to-delete", domain.RoleMember)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := s.GetUser(ctx, u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.DeleteUser(ctx, u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSetUserCompanies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("carla", domain.RoleMember)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	c1 := newTestCompany(t, s, "Acme")
	c2 := newTestCompany(t, s, "Globex")

	if err := s.SetUserCompanies(ctx, u.ID, []string{c1.ID, c2.ID}); err != nil {
		t.Fatalf("set companies: %v", err)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if len(got.CompanyIDs) != 2 {
		t.Fatalf("got %d memberships, want 2", len(got.CompanyIDs))
	}

	// Replacement drops the old set.
	if err := s.SetUserCompanies(ctx, u.ID, []string{c2.ID}); err != nil {
		t.Fatalf("replace companies: %v", err)
	}
	got, err = s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if len(got.CompanyIDs) != 1 || got.CompanyIDs[0] != c2.ID {
		t.Errorf("memberships = %v, want [%s]", got.CompanyIDs, c2.ID)
	}

	ok, err := s.IsUserMember(ctx, u.ID, c1.ID)
	if err != nil {
		t.Fatalf("is member: %v", err)
	}
	if ok {
		t.Error("expected membership in c1 to be removed")
	}
}

func TestCountUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}

	if err := s.CreateUser(ctx, newTestUser("one", domain.RoleAdmin)); err != nil {
		t.Fatalf("create user: %v", err)
	}

	n, err = s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
