// Package di provides dependency injection configuration for the Parabéns server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/parabens-app/parabens-server/internal/auth"
	"github.com/parabens-app/parabens-server/internal/config"
	"github.com/parabens-app/parabens-server/internal/di/providers"
	"github.com/parabens-app/parabens-server/internal/logger"
	"github.com/parabens-app/parabens-server/internal/mail"
	"github.com/parabens-app/parabens-server/internal/reminder"
	"github.com/parabens-app/parabens-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Mail transport
	do.Provide(injector, providers.ProvideMailSender)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideCompanyService)
	do.Provide(injector, providers.ProvidePersonService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideTemplateService)
	do.Provide(injector, providers.ProvideSettingsService)

	// Birthday scan worker
	do.Provide(injector, providers.ProvideReminderEngine)
	do.Provide(injector, providers.ProvideScheduler)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[mail.Sender](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.CompanyService](injector)
	_ = do.MustInvoke[*service.PersonService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.TemplateService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)

	_ = do.MustInvoke[*reminder.Engine](injector)
	_ = do.MustInvoke[*providers.SchedulerHandle](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
