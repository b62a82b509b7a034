package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nexusmart.com/internal/auth"
	"nexusmart.com/internal/config"
	"nexusmart.com/internal/domain"
	"nexusmart.com/internal/infra"
	"nexusmart.com/internal/service"
)

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	accounts domain.AccountService
	tokens   domain.TokenService
	catalog  domain.CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, infra.AutoMigrate(db))

	cfg := &config.Config{
		Server:     config.ServerConfig{AppName: "nexusmart-test"},
		Pagination: config.PaginationConfig{PageSize: 10, MaxPageSize: 50},
	}

	issuer := auth.NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	accounts := service.NewAccountService(db)
	tokens := service.NewTokenService(accounts, issuer)
	catalog := service.NewCatalogService(db, nil, cfg.Pagination)

	enforcer, err := auth.InitCasbin(db)
	require.NoError(t, err)

	app := NewServer(cfg)
	NewRouter(app, cfg, accounts, tokens, catalog, enforcer).RegisterRoutes()

	return &testEnv{app: app, db: db, accounts: accounts, tokens: tokens, catalog: catalog}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/register/", fiber.Map{
		"email":    "user@test.com",
		"password": "TestPass123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "User registered successfully", body["message"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "user@test.com", user["email"])
	assert.NotZero(t, user["id"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/register/", fiber.Map{
		"email": "user@test.com", "password": "TestPass123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/register/", fiber.Map{
		"email": "user@test.com", "password": "OtherPass456",
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Field-level error shape: {field: [messages]}
	body := decodeBody(t, resp)
	assert.Contains(t, body, "email")
}

func TestRegisterRejectsEmptyEmail(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/register/", fiber.Map{
		"email": "", "password": "TestPass123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/register/", fiber.Map{
		"email": "user@test.com", "password": "TestPass123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/login/", fiber.Map{
		"email": "user@test.com", "password": "TestPass123",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["access"])
	assert.NotEmpty(t, body["refresh"])

	resp = env.request(t, http.MethodPost, "/api/auth/login/", fiber.Map{
		"email": "user@test.com", "password": "WrongPass999",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTokenRefreshEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.CreateUser(ctx, "user@test.com", "TestPass123", domain.UserFields{})
	require.NoError(t, err)
	pair, err := env.tokens.Authenticate(ctx, "user@test.com", "TestPass123")
	require.NoError(t, err)

	resp := env.request(t, http.MethodPost, "/api/auth/token/refresh/", fiber.Map{
		"refresh": pair.Refresh,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["access"])

	resp = env.request(t, http.MethodPost, "/api/auth/token/refresh/", fiber.Map{
		"refresh": "not-a-token",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetMeRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp := env.request(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, err := env.accounts.CreateUser(ctx, "user@test.com", "TestPass123", domain.UserFields{})
	require.NoError(t, err)
	pair, err := env.tokens.Authenticate(ctx, "user@test.com", "TestPass123")
	require.NoError(t, err)

	resp = env.request(t, http.MethodGet, "/api/auth/me", nil, pair.Access)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "user@test.com", body["email"])
}

func seedElectronics(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()

	category, err := env.catalog.CreateCategory(ctx, domain.CategoryInput{Name: "Electronics"})
	require.NoError(t, err)
	require.Equal(t, "electronics", category.Slug)

	cheap := mustDecimal(t, "50.00")
	expensive := mustDecimal(t, "600.00")
	_, err = env.catalog.CreateProduct(ctx, domain.ProductInput{
		CategoryID: category.ID, Name: "Budget Phone", Price: &cheap,
	})
	require.NoError(t, err)
	_, err = env.catalog.CreateProduct(ctx, domain.ProductInput{
		CategoryID: category.ID, Name: "Flagship Phone", Price: &expensive,
	})
	require.NoError(t, err)
}

func TestProductListEndpoint(t *testing.T) {
	env := newTestEnv(t)
	seedElectronics(t, env)

	resp := env.request(t, http.MethodGet, "/api/products/?category_name=electro&max_price=100", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["Data"].([]interface{})
	require.Len(t, data, 1)
	product := data[0].(map[string]interface{})
	assert.Equal(t, "Budget Phone", product["name"])
	assert.Equal(t, "Electronics", product["category"].(map[string]interface{})["name"])

	pagination := body["Pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["Total"])
	assert.Equal(t, false, pagination["HasNext"])
}

func TestProductListPaginationIndicators(t *testing.T) {
	env := newTestEnv(t)
	seedElectronics(t, env) // 2 products

	// Last page of size 1: previous exists, next does not.
	resp := env.request(t, http.MethodGet, "/api/products/?page=2&page_size=1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pagination := decodeBody(t, resp)["Pagination"].(map[string]interface{})
	assert.Equal(t, true, pagination["HasPrev"])
	assert.Equal(t, false, pagination["HasNext"])

	// Far past the end: neither neighbor page holds data.
	resp = env.request(t, http.MethodGet, "/api/products/?page=9&page_size=1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pagination = decodeBody(t, resp)["Pagination"].(map[string]interface{})
	assert.Equal(t, false, pagination["HasPrev"])
	assert.Equal(t, false, pagination["HasNext"])

	// First page past the end by one: the previous page is the real
	// last page, so HasPrev stays true.
	resp = env.request(t, http.MethodGet, "/api/products/?page=3&page_size=1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pagination = decodeBody(t, resp)["Pagination"].(map[string]interface{})
	assert.Equal(t, true, pagination["HasPrev"])
	assert.Equal(t, false, pagination["HasNext"])
}

func TestProductListRejectsUnknownOrdering(t *testing.T) {
	env := newTestEnv(t)
	seedElectronics(t, env)

	resp := env.request(t, http.MethodGet, "/api/products/?ordering=stock", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductDetailNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/products/missing-product", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalogWritesRequireStaff(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := fiber.Map{"name": "Electronics"}

	// Anonymous
	resp := env.request(t, http.MethodPost, "/api/categories/", payload, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Regular user: authenticated but not staff
	_, err := env.accounts.CreateUser(ctx, "user@test.com", "TestPass123", domain.UserFields{})
	require.NoError(t, err)
	userPair, err := env.tokens.Authenticate(ctx, "user@test.com", "TestPass123")
	require.NoError(t, err)
	resp = env.request(t, http.MethodPost, "/api/categories/", payload, userPair.Access)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Superuser inherits staff permissions
	_, err = env.accounts.CreateSuperuser(ctx, "admin@test.com", "AdminPass123", domain.UserFields{})
	require.NoError(t, err)
	adminPair, err := env.tokens.Authenticate(ctx, "admin@test.com", "AdminPass123")
	require.NoError(t, err)
	resp = env.request(t, http.MethodPost, "/api/categories/", payload, adminPair.Access)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
