package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voiceorder/observability"
	"github.com/kbukum/voiceorder/provider"
	"github.com/kbukum/voiceorder/version"
)

// HealthResponse is the body of /health.
type HealthResponse struct {
	*observability.ServiceHealth
	Timestamp string `json:"timestamp"`
}

// Health reports the service and every checker. Any component down gives 503.
func Health(serviceName string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.CheckAll(c.Request.Context(), serviceName, version.Get().Short(), checkers...)
		status := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, HealthResponse{
			ServiceHealth: sh,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ProviderCheck reports p as up when it is available. An unavailable
// critical provider is down; any other is degraded, since the service still
// answers with its fallbacks.
func ProviderCheck(p provider.Provider, critical bool) observability.HealthChecker {
	return observability.HealthCheckFunc(func(ctx context.Context) observability.Health {
		h := observability.Health{Name: p.Name(), Status: observability.HealthStatusUp}
		if p.IsAvailable(ctx) {
			return h
		}
		h.Message = "unavailable"
		h.Status = observability.HealthStatusDegraded
		if critical {
			h.Status = observability.HealthStatusDown
		}
		return h
	})
}
