package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parabens-app/parabens-server/internal/auth"
	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/mail"
	"github.com/parabens-app/parabens-server/internal/service"
	"github.com/parabens-app/parabens-server/internal/store/sqlite"
)

// nullSender swallows mail in handler tests.
type nullSender struct{}

func (nullSender) Send(context.Context, *domain.Settings, *mail.Message) error { return nil }

// envelope mirrors the response wrapper with a typed data field.
type envelope[T any] struct {
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(hex.EncodeToString(key), time.Hour)
	require.NoError(t, err)

	sender := nullSender{}
	authSvc := service.NewAuthService(st, tokens, logger)
	return NewServer(
		st,
		authSvc,
		service.NewUserService(st, logger),
		service.NewCompanyService(st, logger),
		service.NewPersonService(st, logger),
		service.NewTagService(st, logger),
		service.NewTemplateService(st, logger),
		service.NewSettingsService(st, sender, logger),
		logger,
	)
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		require.NoError(t, json.MarshalWrite(buf, body))
		reader = buf
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.UnmarshalRead(rec.Body, &env))
	return env
}

// registerAndLogin registers a user through the API and returns its token.
func registerAndLogin(t *testing.T, srv *Server, username string) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decode[service.LoginResponse](t, rec)
	require.NotEmpty(t, env.Data.AccessToken)
	return env.Data.AccessToken
}

func createCompanyViaAPI(t *testing.T, srv *Server, token, name string) *domain.Company {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/companies", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decode[*domain.Company](t, rec)
	return env.Data
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/auth/setup-check", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"has_users":false`)

	token := registerAndLogin(t, srv, "admin")
	assert.NotEmpty(t, token)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/auth/setup-check", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"has_users":true`)

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCompanyRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/companies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/companies", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCompanyMembershipEnforced(t *testing.T) {
	srv := newTestServer(t)

	adminToken := registerAndLogin(t, srv, "admin")
	memberToken := registerAndLogin(t, srv, "member")

	company := createCompanyViaAPI(t, srv, adminToken, "Acme")

	// The member is not attached to Acme.
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/companies/"+company.ID+"/people", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The admin creator can see the roster.
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/companies/"+company.ID+"/people", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Members cannot create companies.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/companies", memberToken, map[string]string{"name": "Globex"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPersonCRUDOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "admin")
	company := createCompanyViaAPI(t, srv, token, "Acme")
	base := "/api/v1/companies/" + company.ID

	rec := doJSON(t, srv, http.MethodPost, base+"/people", token, map[string]any{
		"name": "Ana", "email": "ana@acme.com", "birthdate": "1990-03-15", "role": "Gerente",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[*domain.Person](t, rec)
	require.NotEmpty(t, created.Data.ID)

	// Validation failures come back as 400 with details.
	rec = doJSON(t, srv, http.MethodPost, base+"/people", token, map[string]any{
		"name": "Bob", "email": "not-an-email", "birthdate": "1990-03-15",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate email is a conflict.
	rec = doJSON(t, srv, http.MethodPost, base+"/people", token, map[string]any{
		"name": "Clone", "email": "ANA@acme.com", "birthdate": "1991-01-01",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, srv, http.MethodPut, base+"/people/"+created.Data.ID, token, map[string]any{
		"name": "Ana Maria", "email": "ana@acme.com", "birthdate": "1990-03-15",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[*domain.Person](t, rec)
	assert.Equal(t, "Ana Maria", updated.Data.Name)

	rec = doJSON(t, srv, http.MethodDelete, base+"/people/"+created.Data.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, base+"/people/"+created.Data.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkPeopleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "admin")
	company := createCompanyViaAPI(t, srv, token, "Acme")

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/companies/"+company.ID+"/people/bulk", token, map[string]any{
		"people": []map[string]any{
			{"name": "Ana", "email": "ana@acme.com", "birthdate": "1990-03-15", "tag_name": "vendas"},
			{"name": "Bob", "email": "bob@acme.com", "birthdate": "1988-12-01"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decode[*service.ImportResult](t, rec)
	assert.Equal(t, 2, env.Data.Count)
}

func TestTagAndTemplateRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "admin")
	company := createCompanyViaAPI(t, srv, token, "Acme")
	base := "/api/v1/companies/" + company.ID

	rec := doJSON(t, srv, http.MethodPost, base+"/tags", token, map[string]string{"name": "vendas"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tag := decode[*domain.Tag](t, rec)

	rec = doJSON(t, srv, http.MethodPost, base+"/templates", token, map[string]string{
		"tag_id": tag.Data.ID, "subject": "Parabéns!", "body": "<p>Feliz aniversário, {name}!</p>",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, base+"/templates", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	templates := decode[[]*domain.EmailTemplate](t, rec)
	require.Len(t, templates.Data, 1)
	assert.Equal(t, tag.Data.ID, templates.Data[0].TagID)

	rec = doJSON(t, srv, http.MethodDelete, base+"/tags/"+tag.Data.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Deleting the tag cascades to its template.
	rec = doJSON(t, srv, http.MethodGet, base+"/templates", token, nil)
	templates = decode[[]*domain.EmailTemplate](t, rec)
	assert.Empty(t, templates.Data)
}

func TestSettingsRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "admin")
	company := createCompanyViaAPI(t, srv, token, "Acme")
	base := "/api/v1/companies/" + company.ID + "/settings"

	rec := doJSON(t, srv, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	settings := decode[*domain.Settings](t, rec)
	assert.Equal(t, 587, settings.Data.SMTPPort)

	rec = doJSON(t, srv, http.MethodPut, base, token, map[string]any{
		"smtp_host": "smtp.acme.com", "smtp_port": 465, "smtp_user": "mailer", "smtp_pass": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret", "password must never be serialized")

	// Test email against the configured company goes through the null sender.
	rec = doJSON(t, srv, http.MethodPost, base+"/test-email", token, map[string]string{"email": "me@acme.com"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestExportSettingsDownload(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "admin")
	company := createCompanyViaAPI(t, srv, token, "Acme")

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/companies/"+company.ID+"/settings", token, map[string]any{
		"smtp_host": "smtp.acme.com", "smtp_port": 587, "smtp_user": "mailer", "smtp_pass": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/companies/"+company.ID+"/export/settings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "config.txt")
	assert.Contains(t, rec.Body.String(), "SMTP Host: smtp.acme.com")
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestUserRoutesRequireAdmin(t *testing.T) {
	srv := newTestServer(t)

	adminToken := registerAndLogin(t, srv, "admin")
	memberToken := registerAndLogin(t, srv, "member")

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/users", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]*domain.User](t, rec)
	assert.Len(t, users.Data, 2)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	srv := newTestServer(t)
	adminToken := registerAndLogin(t, srv, "admin")

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]*domain.User](t, rec)
	require.Len(t, users.Data, 1)

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/users/"+users.Data[0].ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
