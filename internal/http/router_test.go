package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"notifyd/internal/config"
	"notifyd/internal/http/controller"
	"notifyd/internal/metrics"
)

func TestRouterOperationalEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	m.RoutingMisses.Inc()

	cfg := &config.Config{OTELServiceName: "notifyd"}
	handler := controller.NewHandler(cfg, nil, nil, nil, nil, nil, nil, zap.NewNop())
	router := NewRouter(cfg, handler, m, zap.NewNop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "notifyd_routing_misses_total 1")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}
