package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"notifyd/internal/config"
	"notifyd/internal/http/controller"
	"notifyd/internal/http/middleware"
	"notifyd/internal/metrics"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.RequestID(),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	recipients := router.Group("/recipients/:id")
	recipients.GET("/devices", handler.ListDevices)
	recipients.POST("/devices", handler.RegisterDevice)
	recipients.DELETE("/devices/:token", handler.UnregisterDevice)
	recipients.GET("/preferences", handler.GetPreferences)
	recipients.PUT("/preferences", handler.UpdatePreferences)

	router.POST("/admin/alerts", handler.RaiseAlert)
	router.POST("/events/:topic", handler.PublishEvent)

	router.GET("/sse/:recipient", handler.SSE)
	router.GET("/ws/:recipient", handler.WebSocket)

	return router
}
