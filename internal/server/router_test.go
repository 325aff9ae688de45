package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/exhibit-api/internal/handler"
	"github.com/noah-isme/exhibit-api/internal/models"
	"github.com/noah-isme/exhibit-api/internal/service"
)

type stubTokens struct{}

func (stubTokens) ValidateToken(string) (*models.JWTClaims, error) {
	return nil, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	return NewRouter(RouterConfig{
		APIPrefix:      "/api/v1",
		ServiceName:    "exhibit-api",
		EnableMetrics:  true,
		Logger:         zap.NewNop(),
		Metrics:        metrics,
		Tokens:         stubTokens{},
		Submissions:    handler.NewSubmissionHandler(nil),
		Discovery:      handler.NewDiscoveryHandler(nil, nil),
		MetricsHandler: handler.NewMetricsHandler(metrics, nil),
	})
}

func TestRouterRegistersSubmissionRoutes(t *testing.T) {
	routes := map[string]bool{}
	for _, route := range testRouter().Routes() {
		routes[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /api/v1/submissions",
		"POST /api/v1/submissions",
		"GET /api/v1/submissions/:id",
		"PUT /api/v1/submissions/:id",
		"DELETE /api/v1/submissions/:id",
		"POST /api/v1/submissions/:id/submit",
		"POST /api/v1/submissions/:id/review",
		"POST /api/v1/submissions/:id/publish",
		"GET /api/v1/submissions/:id/history",
		"GET /api/v1/submissions/stats/export",
		"GET /api/v1/public/submissions",
		"GET /api/v1/public/submissions/:id",
		"POST /api/v1/public/submissions/:id/ratings",
	} {
		assert.True(t, routes[want], want)
	}
	assert.False(t, routes["GET /docs/*any"])
}

func TestRouterRejectsAnonymousSubmissionAccess(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/submissions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
