package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OrdemServico-api/internal/application/auth"
	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	"github.com/jhoicas/OrdemServico-api/internal/application/usecase"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	apphttp "github.com/jhoicas/OrdemServico-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks de repositorio
// ──────────────────────────────────────────────────────────────────────────────

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, u *entity.User) error { return m.Called(ctx, u).Error(0) }
func (m *mockUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}
func (m *mockUsers) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}
func (m *mockUsers) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]*entity.User)
	return l, args.Error(1)
}

type stubServices struct{ list []*entity.StandardService }

func (s stubServices) Create(context.Context, *entity.StandardService) error { return nil }
func (s stubServices) List(context.Context) ([]*entity.StandardService, error) {
	return s.list, nil
}
func (s stubServices) SearchActive(_ context.Context, term string, _ int) ([]*entity.StandardService, error) {
	var out []*entity.StandardService
	for _, svc := range s.list {
		if svc.IsActive && strings.Contains(strings.ToLower(svc.Name), strings.ToLower(term)) {
			out = append(out, svc)
		}
	}
	return out, nil
}

func newRouterApp(t *testing.T, users *mockUsers) *fiber.App {
	t.Helper()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		CatalogUC: usecase.NewCatalogUseCase(stubServices{list: []*entity.StandardService{
			{ID: "1", Name: "Troca de óleo", IsActive: true},
			{ID: "2", Name: "Alinhamento", IsActive: true},
		}}),
		JWTSecret: testJWTSecret,
	})
	return app
}

func jsonRequest(method, path, body, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_DevuelveTokenUsableEnRutasProtegidas(t *testing.T) {
	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	admin := &entity.User{ID: testUserID, Username: "admin", PasswordHash: hash, IsAdmin: true, IsActive: true}

	users := &mockUsers{}
	users.On("GetByUsername", mock.Anything, "admin").Return(admin, nil)
	users.On("GetByID", mock.Anything, testUserID).Return(admin, nil)
	app := newRouterApp(t, users)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`, ""), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "admin", login.User.Role)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/auth/me", "", "Bearer "+login.Token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_CredencialesInvalidas401(t *testing.T) {
	users := &mockUsers{}
	users.On("GetByUsername", mock.Anything, "nadie").Return(nil, nil)
	app := newRouterApp(t, users)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login", `{"username":"nadie","password":"x"}`, ""), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/auth/login", `{"username":""}`, ""), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsers_SoloAdmin(t *testing.T) {
	users := &mockUsers{}
	users.On("List", mock.Anything).Return([]*entity.User{{ID: "u1", Username: "admin", IsAdmin: true}}, nil)
	app := newRouterApp(t, users)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/users", "", tokenForRole(t, entity.RoleProfissional)), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/users", "", tokenForRole(t, entity.RoleAdmin)), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister_UsuarioDuplicado409(t *testing.T) {
	users := &mockUsers{}
	users.On("GetByUsername", mock.Anything, "mecanico").Return(&entity.User{ID: "x"}, nil)
	app := newRouterApp(t, users)

	body := `{"username":"mecanico","email":"m@x.com","password":"123456"}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/users", body, tokenForRole(t, entity.RoleAdmin)), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServices_AutocompleteYListado(t *testing.T) {
	app := newRouterApp(t, &mockUsers{})
	token := tokenForRole(t, entity.RoleProfissional)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/services?q=oleo", "", token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []dto.StandardServiceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	assert.Empty(t, found, "la búsqueda distingue acentos")

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/services?q=alin", "", token), -1)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	require.Len(t, found, 1)
	assert.Equal(t, "Alinhamento", found[0].Name)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/services", "", ""), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
