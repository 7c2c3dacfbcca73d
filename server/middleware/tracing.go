package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/linekit/logger"
	"github.com/kbukum/linekit/observability"
)

// Tracing starts an http.request span per request. Pipeline runs started by
// the handler become its children.
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanHTTPRequest,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", c.FullPath()),
			))
		defer span.End()
		if id, ok := logger.RequestIDFromContext(ctx); ok {
			span.SetAttributes(attribute.String(observability.AttrRequestID, id))
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if last := c.Errors.Last(); last != nil && status >= 500 {
			observability.SetSpanError(ctx, last.Err)
		}
	}
}
