package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/mail"
	"github.com/parabens-app/parabens-server/internal/store"
)

// Engine runs the daily birthday scan over every company.
type Engine struct {
	store  store.Store
	sender mail.Sender
	logger *slog.Logger
}

// NewEngine creates the scan engine.
func NewEngine(st store.Store, sender mail.Sender, logger *slog.Logger) *Engine {
	return &Engine{store: st, sender: sender, logger: logger}
}

// RunOnce performs a single scan tick for the given day. Company and person
// failures are logged and isolated; the only error returned is a failure to
// enumerate companies, which leaves nothing to scan.
func (e *Engine) RunOnce(ctx context.Context, now time.Time) error {
	e.logger.Info("Checking for birthdays", "date", now.UTC().Format("2006-01-02"))

	companies, err := e.store.ListCompanies(ctx)
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}

	for _, company := range companies {
		if err := e.scanCompany(ctx, company, now); err != nil {
			e.logger.Error("Company scan failed", "company", company.Name, "error", err)
		}
	}
	return nil
}

func (e *Engine) scanCompany(ctx context.Context, company *domain.Company, now time.Time) error {
	settings, err := e.store.GetOrCreateSettings(ctx, company.ID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if !settings.SMTPConfigured() {
		e.logger.Info("Skipping company: SMTP not configured", "company", company.Name)
		return nil
	}

	people, err := e.store.ListPeople(ctx, company.ID)
	if err != nil {
		return fmt.Errorf("list people: %w", err)
	}

	var birthdays []*domain.Person
	for _, p := range people {
		if !p.BirthdayOn(now) {
			continue
		}
		if p.GreetedOn(now) {
			e.logger.Info("Skipping person: already greeted today",
				"company", company.Name, "person", p.Name)
			continue
		}
		birthdays = append(birthdays, p)
	}
	if len(birthdays) == 0 {
		return nil
	}

	templates, err := e.store.ListTemplates(ctx, company.ID)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	for _, person := range birthdays {
		res := Resolve(person, templates, settings)
		rendered := Render(res, person.Name)

		msg := &mail.Message{
			To:       person.Email,
			Subject:  rendered.Subject,
			TextBody: rendered.TextBody,
			HTMLBody: rendered.HTMLBody,
		}

		if err := e.sender.Send(ctx, settings, msg); err != nil {
			e.logger.Error("Failed to send birthday email",
				"company", company.Name, "person", person.Name, "error", err)
			continue
		}

		e.logger.Info("Email sent",
			"company", company.Name, "person", person.Name,
			"to", person.Email, "template", string(res.Tier))

		// Marker write failure risks a duplicate on a repeated tick, but the
		// mail is already out, so log and move on.
		if err := e.store.SetLastGreeted(ctx, company.ID, person.ID, now); err != nil {
			e.logger.Error("Failed to record greeting marker",
				"company", company.Name, "person", person.Name, "error", err)
		}
	}

	return nil
}

// Scheduler triggers the engine once a day at the configured time.
type Scheduler struct {
	engine *Engine
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler wires the engine to a cron entry at hour:minute (server local time).
func NewScheduler(engine *Engine, hour, minute int, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New()
	spec := fmt.Sprintf("%d %d * * *", minute, hour)

	_, err := c.AddFunc(spec, func() {
		if err := engine.RunOnce(context.Background(), time.Now()); err != nil {
			logger.Error("Birthday scan failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule birthday scan: %w", err)
	}

	return &Scheduler{engine: engine, cron: c, logger: logger}, nil
}

// Start begins the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("Birthday scheduler started")
	s.cron.Start()
}

// Stop halts the cron loop and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Birthday scheduler stopped")
}
