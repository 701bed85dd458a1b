package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// quietPaths are probed constantly and only logged at debug level.
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

func ZapLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := requestFields(c, time.Since(start))
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			logger.Error("request failed", append(fields, zap.String("errors", errs.String()))...)
			return
		}
		if ce := logger.Check(levelFor(c), "request completed"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func requestFields(c *gin.Context, latency time.Duration) []zap.Field {
	path := c.Request.URL.Path
	if raw := c.Request.URL.RawQuery; raw != "" {
		path += "?" + raw
	}
	fields := []zap.Field{
		zap.Int("status", c.Writer.Status()),
		zap.String("method", c.Request.Method),
		zap.String("path", path),
		zap.String("route", c.FullPath()),
		zap.String("client_ip", c.ClientIP()),
		zap.Duration("latency", latency),
	}
	if id := requestID(c); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if recipient := c.Param("id"); recipient != "" {
		fields = append(fields, zap.String("recipient_id", recipient))
	} else if recipient := c.Param("recipient"); recipient != "" {
		fields = append(fields, zap.String("recipient_id", recipient))
	}
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	return fields
}

func levelFor(c *gin.Context) zapcore.Level {
	status := c.Writer.Status()
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	}
	if _, ok := quietPaths[c.Request.URL.Path]; ok {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}
