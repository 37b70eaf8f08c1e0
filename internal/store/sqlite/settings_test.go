package sqlite

import (
	"context"
	"testing"
	"time"
)

func TestGetOrCreateSettingsLazy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := newTestCompany(t, s, "Acme")

	st, err := s.GetOrCreateSettings(ctx, c.ID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if st.CompanyID != c.ID {
		t.Errorf("CompanyID = %q", st.CompanyID)
	}
	if st.SMTPPort != 587 {
		t.Errorf("default SMTPPort = %d, want 587", st.SMTPPort)
	}
	if st.SMTPConfigured() {
		t.Error("fresh settings should not be configured")
	}

	again, err := s.GetOrCreateSettings(ctx, c.ID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.ID != st.ID {
		t.Errorf("expected same row, got %q and %q", st.ID, again.ID)
	}
}

func TestUpdateSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := newTestCompany(t, s, "Acme")

	st, err := s.GetOrCreateSettings(ctx, c.ID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	st.SMTPHost = "smtp.acme.com"
	st.SMTPPort = 465
	st.SMTPUser = "mailer"
	st.SMTPPass = "secret"
	st.EmailTemplate = "Feliz aniversário, {name}!"
	st.UpdatedAt = time.Now().UTC()
	if err := s.UpdateSettings(ctx, st); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetOrCreateSettings(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SMTPHost != "smtp.acme.com" || got.SMTPPort != 465 {
		t.Errorf("unexpected settings: %+v", got)
	}
	if got.SMTPPass != "secret" {
		t.Errorf("SMTPPass = %q", got.SMTPPass)
	}
	if !got.SMTPConfigured() {
		t.Error("settings with user and pass should be configured")
	}
}

func TestSettingsIsolatedPerCompany(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	acme := newTestCompany(t, s, "Acme")
	globex := newTestCompany(t, s, "Globex")

	st, err := s.GetOrCreateSettings(ctx, acme.ID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	st.SMTPUser = "acme-mailer"
	st.SMTPPass = "acme-secret"
	st.UpdatedAt = time.Now().UTC()
	if err := s.UpdateSettings(ctx, st); err != nil {
		t.Fatalf("update: %v", err)
	}

	other, err := s.GetOrCreateSettings(ctx, globex.ID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if other.SMTPUser != "" || other.SMTPPass != "" {
		t.Errorf("credentials leaked across companies: %+v", other)
	}
}
