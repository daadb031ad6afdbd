package property

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/middleware"
	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/storage/memory"
	"github.com/rajivgeraev/realty-api/internal/utils"
)

func newTestApp(t *testing.T, store *memory.Store) (*fiber.App, *utils.JWTService) {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret"}
	jwtService := utils.NewJWTService("test-secret")

	app := fiber.New()
	service := NewPropertyService(cfg, store)
	service.SetupRoutes(app, middleware.AuthMiddleware(jwtService), middleware.OptionalAuthMiddleware(jwtService))
	return app, jwtService
}

func doRequest(t *testing.T, app *fiber.App, method, target, token, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func seedProperty(t *testing.T, store *memory.Store, ownerID uuid.UUID, title, price string) *models.Property {
	t.Helper()
	p := &models.Property{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        title,
		Location:     "Екатеринбург",
		PropertyType: models.PropertyTypeHouse,
		Price:        decimal.RequireFromString(price),
	}
	require.NoError(t, store.CreateProperty(context.Background(), p))
	return p
}

func TestCreateProperty(t *testing.T) {
	store := memory.NewStore()
	app, jwtService := newTestApp(t, store)

	owner := uuid.New()
	token, err := jwtService.GenerateToken(owner)
	require.NoError(t, err)

	// Цена может приходить числом
	resp, payload := doRequest(t, app, "POST", "/properties", token,
		`{"title":"Дом с верандой","location":"Тула","price":250000,"property_type":"house","bedrooms":4}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	property, ok := payload["property"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Дом с верандой", property["title"])
	assert.Equal(t, owner.String(), property["owner_id"])
	assert.Equal(t, "250000", property["price"])
	assert.Equal(t, false, property["is_sold"])

	// И строкой
	resp, _ = doRequest(t, app, "POST", "/properties", token,
		`{"title":"Квартира","location":"Тула","price":"180000.50","property_type":"apartment"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreatePropertyValidation(t *testing.T) {
	store := memory.NewStore()
	app, jwtService := newTestApp(t, store)

	token, err := jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)

	// Без названия
	resp, payload := doRequest(t, app, "POST", "/properties", token,
		`{"location":"Тула","price":100000}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad_request", payload["error"])

	// Нулевая цена
	resp, payload = doRequest(t, app, "POST", "/properties", token,
		`{"title":"Дом","location":"Тула","price":0}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad_request", payload["error"])

	// Без токена
	resp, _ = doRequest(t, app, "POST", "/properties", "",
		`{"title":"Дом","location":"Тула","price":100000}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestListPropertiesExcludesSold(t *testing.T) {
	store := memory.NewStore()
	app, _ := newTestApp(t, store)

	owner := uuid.New()
	seedProperty(t, store, owner, "Доступный дом", "100000.00")
	sold := seedProperty(t, store, owner, "Проданный дом", "120000.00")
	sold.IsSold = true
	require.NoError(t, store.CreateProperty(context.Background(), sold))

	// Каталог публичный, токен не нужен
	resp, payload := doRequest(t, app, "GET", "/properties", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), payload["total"])

	properties, ok := payload["properties"].([]any)
	require.True(t, ok)
	require.Len(t, properties, 1)
	first := properties[0].(map[string]any)
	assert.Equal(t, "Доступный дом", first["title"])
}

func TestListPropertiesFilters(t *testing.T) {
	store := memory.NewStore()
	app, _ := newTestApp(t, store)

	owner := uuid.New()
	seedProperty(t, store, owner, "Дешевый дом", "80000.00")
	seedProperty(t, store, owner, "Дорогой дом", "300000.00")

	resp, payload := doRequest(t, app, "GET", "/properties?min_price=100000", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), payload["total"])

	resp, payload = doRequest(t, app, "GET", "/properties?search=дешевый", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), payload["total"])

	resp, payload = doRequest(t, app, "GET", "/properties?property_type=apartment", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), payload["total"])
}

func TestGetProperty(t *testing.T) {
	store := memory.NewStore()
	app, jwtService := newTestApp(t, store)

	owner := uuid.New()
	prop := seedProperty(t, store, owner, "Дом у реки", "100000.00")

	// Анонимный запрос: карточка доступна, is_owner=false
	resp, payload := doRequest(t, app, "GET", "/properties/"+prop.ID.String(), "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, payload["is_owner"])
	property, ok := payload["property"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Дом у реки", property["title"])

	// Владелец с токеном видит is_owner=true
	ownerToken, err := jwtService.GenerateToken(owner)
	require.NoError(t, err)
	resp, payload = doRequest(t, app, "GET", "/properties/"+prop.ID.String(), ownerToken, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["is_owner"])

	// Чужой токен — is_owner=false
	strangerToken, err := jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)
	resp, payload = doRequest(t, app, "GET", "/properties/"+prop.ID.String(), strangerToken, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, payload["is_owner"])

	resp, payload = doRequest(t, app, "GET", "/properties/"+uuid.NewString(), "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", payload["error"])
}

func TestMyPropertiesIncludesSold(t *testing.T) {
	store := memory.NewStore()
	app, jwtService := newTestApp(t, store)

	owner := uuid.New()
	seedProperty(t, store, owner, "Доступный дом", "100000.00")
	sold := seedProperty(t, store, owner, "Проданный дом", "120000.00")
	sold.IsSold = true
	require.NoError(t, store.CreateProperty(context.Background(), sold))
	seedProperty(t, store, uuid.New(), "Чужой дом", "90000.00")

	token, err := jwtService.GenerateToken(owner)
	require.NoError(t, err)

	// В отличие от каталога, владелец видит и проданные объекты
	resp, payload := doRequest(t, app, "GET", "/properties/mine", token, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), payload["count"])
}

func TestUpdatePropertyOwnerOnly(t *testing.T) {
	store := memory.NewStore()
	app, jwtService := newTestApp(t, store)

	owner := uuid.New()
	stranger := uuid.New()
	prop := seedProperty(t, store, owner, "Дом", "100000.00")

	ownerToken, err := jwtService.GenerateToken(owner)
	require.NoError(t, err)
	strangerToken, err := jwtService.GenerateToken(stranger)
	require.NoError(t, err)

	body := `{"title":"Дом после ремонта","location":"Екатеринбург","price":130000}`

	resp, payload := doRequest(t, app, "PUT", "/properties/"+prop.ID.String(), strangerToken, body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", payload["error"])

	resp, payload = doRequest(t, app, "PUT", "/properties/"+prop.ID.String(), ownerToken, body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	property, ok := payload["property"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Дом после ремонта", property["title"])
}

func TestDeletePropertyOwnerOnly(t *testing.T) {
	store := memory.NewStore()
	app, jwtService := newTestApp(t, store)

	owner := uuid.New()
	stranger := uuid.New()
	prop := seedProperty(t, store, owner, "Дом", "100000.00")

	ownerToken, err := jwtService.GenerateToken(owner)
	require.NoError(t, err)
	strangerToken, err := jwtService.GenerateToken(stranger)
	require.NoError(t, err)

	resp, payload := doRequest(t, app, "DELETE", "/properties/"+prop.ID.String(), strangerToken, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", payload["error"])

	resp, _ = doRequest(t, app, "DELETE", "/properties/"+prop.ID.String(), ownerToken, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, payload = doRequest(t, app, "DELETE", "/properties/"+prop.ID.String(), ownerToken, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", payload["error"])
}
