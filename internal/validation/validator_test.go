package validation

import (
	"testing"

	domainerrors "github.com/parabens-app/parabens-server/internal/errors"
)

type sampleRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role,omitempty" validate:"omitempty,oneof=admin member"`
}

func TestValidatePasses(t *testing.T) {
	v := New()

	err := v.Validate(sampleRequest{Name: "Ana", Email: "ana@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}
}

func TestValidateReturnsDomainError(t *testing.T) {
	v := New()

	err := v.Validate(sampleRequest{Name: "A", Email: "not-an-email", Role: "owner"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if domainErr.Code != domainerrors.CodeValidation {
		t.Errorf("Code = %v, want %v", domainErr.Code, domainerrors.CodeValidation)
	}

	details, ok := domainErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("expected map[string]string details, got %T", domainErr.Details)
	}
	for _, field := range []string{"name", "email", "role"} {
		if _, present := details[field]; !present {
			t.Errorf("expected error for field %q, details: %v", field, details)
		}
	}
}

func TestValidateUsesJSONTagNames(t *testing.T) {
	v := New()

	err := v.Validate(sampleRequest{Email: "ana@example.com"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	details := domainErr.Details.(map[string]string)
	if _, present := details["Name"]; present {
		t.Error("expected json tag name, found Go field name in details")
	}
	if _, present := details["name"]; !present {
		t.Errorf("expected json tag name in details, got %v", details)
	}
}
