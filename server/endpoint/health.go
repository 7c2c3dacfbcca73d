package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/linekit/observability"
	"github.com/kbukum/linekit/version"
)

// Health returns a handler that aggregates checks into a service health
// report. A down service answers 503.
func Health(serviceName string, checks ...observability.HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.CheckHealth(c.Request.Context(), serviceName, version.Version, checks...)

		httpStatus := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			httpStatus = http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, gin.H{
			"status":     sh.Status,
			"service":    sh.Service,
			"version":    sh.Version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": sh.Components,
		})
	}
}
