package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/parabens-app/parabens-server/internal/api"
	"github.com/parabens-app/parabens-server/internal/config"
	"github.com/parabens-app/parabens-server/internal/logger"
	"github.com/parabens-app/parabens-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the started HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	authService := do.MustInvoke[*service.AuthService](i)
	userService := do.MustInvoke[*service.UserService](i)
	companyService := do.MustInvoke[*service.CompanyService](i)
	personService := do.MustInvoke[*service.PersonService](i)
	tagService := do.MustInvoke[*service.TagService](i)
	templateService := do.MustInvoke[*service.TemplateService](i)
	settingsService := do.MustInvoke[*service.SettingsService](i)

	handler := api.NewServer(
		storeHandle.Store,
		authService,
		userService,
		companyService,
		personService,
		tagService,
		templateService,
		settingsService,
		log.Logger,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: server}, nil
}
