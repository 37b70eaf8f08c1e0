// Package main provides a tool to seed the database with demo data.
//
// It creates an admin user, a demo company with a small roster, a tag with
// its own template, and a default template. Useful for local development.
//
// Usage:
//
//	DB_PATH=~/Parabens/parabens.db go run ./cmd/seed
//	DB_PATH=~/Parabens/parabens.db go run ./cmd/seed --run-scan  # Also run a birthday scan now
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/parabens-app/parabens-server/internal/auth"
	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/id"
	"github.com/parabens-app/parabens-server/internal/mail"
	"github.com/parabens-app/parabens-server/internal/reminder"
	"github.com/parabens-app/parabens-server/internal/store/sqlite"
)

var runScan = flag.Bool("run-scan", false, "Run a birthday scan after seeding")

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, "Parabens", "parabens.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	// Admin user with a well-known password for local use.
	hash, err := auth.HashPassword("password123")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &domain.User{
		ID:           id.MustGenerate("usr"),
		Username:     "admin",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin (already seeded?): %v", err)
	}
	fmt.Println("Created user: admin / password123")

	company := &domain.Company{
		ID:        id.MustGenerate("co"),
		Name:      "Empresa Demo",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateCompany(ctx, company); err != nil {
		log.Fatalf("Failed to create company: %v", err)
	}
	if err := s.SetUserCompanies(ctx, admin.ID, []string{company.ID}); err != nil {
		log.Fatalf("Failed to attach admin to company: %v", err)
	}

	tag := &domain.Tag{
		ID:        id.MustGenerate("tag"),
		CompanyID: company.ID,
		Name:      "diretoria",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateTag(ctx, tag); err != nil {
		log.Fatalf("Failed to create tag: %v", err)
	}

	// One person with a birthday today so --run-scan has something to do.
	people := []*domain.Person{
		{
			ID: id.MustGenerate("per"), CompanyID: company.ID,
			Name: "Ana Souza", Email: "ana@example.com",
			Birthdate: time.Date(1990, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
			Role:      "Diretora", Tags: []*domain.Tag{tag},
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: id.MustGenerate("per"), CompanyID: company.ID,
			Name: "Bruno Lima", Email: "bruno@example.com",
			Birthdate: time.Date(1985, 12, 25, 0, 0, 0, 0, time.UTC),
			Role:      "Analista",
			CreatedAt: now, UpdatedAt: now,
		},
	}
	for _, p := range people {
		if err := s.CreatePerson(ctx, p); err != nil {
			log.Fatalf("Failed to create person %s: %v", p.Name, err)
		}
	}
	fmt.Printf("Created company %q with %d people\n", company.Name, len(people))

	templates := []*domain.EmailTemplate{
		{
			ID: id.MustGenerate("tpl"), CompanyID: company.ID,
			Subject:   "Feliz Aniversário!",
			Body:      "<p>Parabéns, {name}! Tudo de bom.</p>",
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: id.MustGenerate("tpl"), CompanyID: company.ID, TagID: tag.ID,
			Subject:   "Parabéns da diretoria",
			Body:      "<p>Caro(a) {name}, a diretoria deseja um ótimo dia!</p>",
			CreatedAt: now, UpdatedAt: now,
		},
	}
	for _, tmpl := range templates {
		if err := s.UpsertTemplate(ctx, tmpl); err != nil {
			log.Fatalf("Failed to create template: %v", err)
		}
	}

	settings, err := s.GetOrCreateSettings(ctx, company.ID)
	if err != nil {
		log.Fatalf("Failed to create settings: %v", err)
	}
	settings.SMTPHost = envOr("SMTP_HOST", "")
	settings.SMTPUser = envOr("SMTP_USER", "")
	settings.SMTPPass = envOr("SMTP_PASS", "")
	settings.EmailTemplate = "Feliz aniversário, {name}!"
	settings.UpdatedAt = time.Now().UTC()
	if err := s.UpdateSettings(ctx, settings); err != nil {
		log.Fatalf("Failed to update settings: %v", err)
	}

	fmt.Println("Seed complete")

	if *runScan {
		engine := reminder.NewEngine(s, mail.NewGomailSender(), logger)
		if err := engine.RunOnce(ctx, time.Now()); err != nil {
			log.Fatalf("Birthday scan failed: %v", err)
		}
		fmt.Println("Birthday scan finished")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
