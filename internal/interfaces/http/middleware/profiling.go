package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
)

// ProfilingLabels tags CPU samples taken while serving an API request with
// its route, method and owner kind, so Pyroscope can split cart reads from
// merges. Install it after CartOwner.
func ProfilingLabels() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := map[string]string{
			"route":  route,
			"method": c.Request.Method,
		}
		if _, ok := c.Get(OwnerKey); ok {
			labels["owner_kind"] = ownerKind(GetOwner(c))
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
