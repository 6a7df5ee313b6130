package middlewares

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

type RequestLoggerClient interface {
	InfoWithContextf(ctx context.Context, format string, args ...any)
	WarningWithContextf(ctx context.Context, format string, args ...any)
}

// RequestLogger opens a server span per request and logs its outcome.
func RequestLogger(logger RequestLoggerClient) gin.HandlerFunc {
	tracer := otel.Tracer("github.com/tnqbao/gau-wiki-gateway/http")

	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(c.Request.Method),
				semconv.HTTPRoute(route),
			),
		)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(semconv.HTTPResponseStatusCode(status), attribute.Int64("http.duration_ms", time.Since(start).Milliseconds()))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
			logger.WarningWithContextf(ctx, "[HTTP] %s %s -> %d (%s)", c.Request.Method, route, status, time.Since(start))
			return
		}
		logger.InfoWithContextf(ctx, "[HTTP] %s %s -> %d (%s)", c.Request.Method, route, status, time.Since(start))
	}
}
