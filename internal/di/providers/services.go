package providers

import (
	"github.com/samber/do/v2"

	"github.com/parabens-app/parabens-server/internal/auth"
	"github.com/parabens-app/parabens-server/internal/logger"
	"github.com/parabens-app/parabens-server/internal/mail"
	"github.com/parabens-app/parabens-server/internal/service"
)

// ProvideMailSender provides the SMTP mail transport.
func ProvideMailSender(i do.Injector) (mail.Sender, error) {
	return mail.NewGomailSender(), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, log.Logger), nil
}

// ProvideUserService provides the user management service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, log.Logger), nil
}

// ProvideCompanyService provides the company service.
func ProvideCompanyService(i do.Injector) (*service.CompanyService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCompanyService(storeHandle.Store, log.Logger), nil
}

// ProvidePersonService provides the roster service.
func ProvidePersonService(i do.Injector) (*service.PersonService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPersonService(storeHandle.Store, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideTemplateService provides the email template service.
func ProvideTemplateService(i do.Injector) (*service.TemplateService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTemplateService(storeHandle.Store, log.Logger), nil
}

// ProvideSettingsService provides the SMTP settings service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sender := do.MustInvoke[mail.Sender](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(storeHandle.Store, sender, log.Logger), nil
}
