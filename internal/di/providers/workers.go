package providers

import (
	"github.com/samber/do/v2"

	"github.com/parabens-app/parabens-server/internal/config"
	"github.com/parabens-app/parabens-server/internal/logger"
	"github.com/parabens-app/parabens-server/internal/mail"
	"github.com/parabens-app/parabens-server/internal/reminder"
)

// ProvideReminderEngine provides the birthday scan engine.
func ProvideReminderEngine(i do.Injector) (*reminder.Engine, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sender := do.MustInvoke[mail.Sender](i)
	log := do.MustInvoke[*logger.Logger](i)

	return reminder.NewEngine(storeHandle.Store, sender, log.Logger), nil
}

// SchedulerHandle wraps the cron scheduler with shutdown capability.
// When the scheduler is disabled via config, Scheduler is nil.
type SchedulerHandle struct {
	*reminder.Scheduler
}

// Shutdown implements do.Shutdownable.
func (h *SchedulerHandle) Shutdown() error {
	if h.Scheduler != nil {
		h.Stop()
	}
	return nil
}

// ProvideScheduler provides the started daily scan scheduler.
func ProvideScheduler(i do.Injector) (*SchedulerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	engine := do.MustInvoke[*reminder.Engine](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Scheduler.Enabled {
		log.Info("Birthday scheduler disabled by config")
		return &SchedulerHandle{}, nil
	}

	scheduler, err := reminder.NewScheduler(engine, cfg.Scheduler.SendHour, cfg.Scheduler.SendMinute, log.Logger)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	log.Info("Birthday scheduler scheduled",
		"hour", cfg.Scheduler.SendHour, "minute", cfg.Scheduler.SendMinute)

	return &SchedulerHandle{Scheduler: scheduler}, nil
}
