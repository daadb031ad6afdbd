package favorite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/realty-api/internal/config"
	"github.com/rajivgeraev/realty-api/internal/middleware"
	"github.com/rajivgeraev/realty-api/internal/storage/memory"
	"github.com/rajivgeraev/realty-api/internal/utils"
)

func newTestApp(t *testing.T, store *memory.Store) (*fiber.App, *utils.JWTService) {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret"}
	jwtService := utils.NewJWTService("test-secret")

	app := fiber.New()
	service := NewFavoriteService(cfg, NewRegistry(store))
	service.SetupRoutes(app, middleware.AuthMiddleware(jwtService))
	return app, jwtService
}

func doRequest(t *testing.T, app *fiber.App, method, target, token string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func TestFavoriteHandlers(t *testing.T) {
	store := memory.NewStore()
	app, jwtService := newTestApp(t, store)

	prop := seedProperty(t, store)
	token, err := jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)

	target := "/properties/" + prop.ID.String() + "/favorite"

	// Первое добавление создает запись
	resp, payload := doRequest(t, app, "POST", target, token)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, payload["created"])

	// Повторное добавление — успех без новой записи
	resp, payload = doRequest(t, app, "POST", target, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, payload["created"])

	resp, payload = doRequest(t, app, "GET", "/favorites/mine", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), payload["count"])

	favorites, ok := payload["favorites"].([]any)
	require.True(t, ok)
	require.Len(t, favorites, 1)
	first := favorites[0].(map[string]any)
	property, ok := first["property"].(map[string]any)
	require.True(t, ok, "запись избранного должна включать сводку по объекту")
	assert.Equal(t, prop.Title, property["title"])

	resp, _ = doRequest(t, app, "DELETE", target, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Удаление отсутствующей записи
	resp, payload = doRequest(t, app, "DELETE", target, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "not_favorited", payload["error"])
}

func TestFavoriteHandlersNotFound(t *testing.T) {
	store := memory.NewStore()
	app, jwtService := newTestApp(t, store)

	token, err := jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)

	resp, payload := doRequest(t, app, "POST", "/properties/"+uuid.NewString()+"/favorite", token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", payload["error"])
}

func TestFavoriteHandlersUnauthorized(t *testing.T) {
	store := memory.NewStore()
	app, _ := newTestApp(t, store)

	prop := seedProperty(t, store)

	resp, _ := doRequest(t, app, "POST", "/properties/"+prop.ID.String()+"/favorite", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/favorites/mine", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
