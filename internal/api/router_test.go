package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pocketchat/internal/api"
	"pocketchat/internal/interfaces/mocks"
	"pocketchat/internal/service"
)

func TestRouter(t *testing.T) {
	mockSession := mocks.NewMockSessionService(t)
	mockSettings := mocks.NewMockSettingsService(t)
	mockModels := mocks.NewMockModelService(t)
	router := api.NewRouter(
		api.NewChatHandler(mockSession, mockSettings),
		api.NewModelHandler(mockModels),
		[]string{"http://localhost:5173"},
	)

	t.Run("Health check", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("Versioned route reaches its handler", func(t *testing.T) {
		mockModels.On("List", mock.Anything).Return([]service.ModelInfo{{Name: "gpt-4", Default: true}}, nil).Once()

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/models", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "gpt-4")
	})

	t.Run("Metrics are exposed with route patterns", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `pocketchat_http_requests_total{method="GET",route="/api/v1/models",status="200"}`)
	})

	t.Run("CORS preflight for allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/chats", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Unknown route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/nope", strings.NewReader("")))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
