// Package api provides the HTTP API server and handlers for the Parabéns application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/parabens-app/parabens-server/internal/http/response"
	"github.com/parabens-app/parabens-server/internal/service"
	"github.com/parabens-app/parabens-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	authService     *service.AuthService
	userService     *service.UserService
	companyService  *service.CompanyService
	personService   *service.PersonService
	tagService      *service.TagService
	templateService *service.TemplateService
	settingsService *service.SettingsService
	router          *chi.Mux
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, authService *service.AuthService, userService *service.UserService, companyService *service.CompanyService, personService *service.PersonService, tagService *service.TagService, templateService *service.TemplateService, settingsService *service.SettingsService, logger *slog.Logger) *Server {
	s := &Server{
		store:           st,
		authService:     authService,
		userService:     userService,
		companyService:  companyService,
		personService:   personService,
		tagService:      tagService,
		templateService: templateService,
		settingsService: settingsService,
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Get("/setup-check", s.handleSetupCheck)
		})

		// Companies the authenticated user belongs to.
		r.Route("/companies", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListCompanies)
			r.With(s.requireAdmin).Post("/", s.handleCreateCompany)

			// Everything under a company is scoped by membership.
			r.Route("/{companyID}", func(r chi.Router) {
				r.Use(s.requireCompanyMember)

				r.Route("/people", func(r chi.Router) {
					r.Get("/", s.handleListPeople)
					r.Post("/", s.handleCreatePerson)
					r.Post("/bulk", s.handleBulkCreatePeople)
					r.Post("/import", s.handleImportPeople)
					r.Put("/{id}", s.handleUpdatePerson)
					r.Delete("/{id}", s.handleDeletePerson)
				})

				r.Route("/tags", func(r chi.Router) {
					r.Get("/", s.handleListTags)
					r.Post("/", s.handleCreateTag)
					r.Delete("/{id}", s.handleDeleteTag)
				})

				r.Route("/templates", func(r chi.Router) {
					r.Get("/", s.handleListTemplates)
					r.Post("/", s.handleUpsertTemplate)
					r.Delete("/{id}", s.handleDeleteTemplate)
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", s.handleGetSettings)
					r.Put("/", s.handleUpdateSettings)
					r.Post("/test-email", s.handleSendTestEmail)
				})

				r.Route("/export", func(r chi.Router) {
					r.Get("/people", s.handleExportPeople)
					r.Get("/settings", s.handleExportSettings)
				})
			})
		})

		// User management (admin only).
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Use(s.requireAdmin)
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Put("/{id}/companies", s.handleSetUserCompanies)
			r.Put("/{id}/password", s.handleChangePassword)
			r.Delete("/{id}", s.handleDeleteUser)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
