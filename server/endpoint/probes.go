package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicenote/component"
	"github.com/kbukum/voicenote/version"
)

// HealthChecker reports the current health of each transcription backend.
type HealthChecker func(ctx context.Context) []component.Health

type probe struct {
	Status     string             `json:"status"`
	Service    string             `json:"service"`
	Timestamp  string             `json:"timestamp"`
	Components []component.Health `json:"components,omitempty"`
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// Health aggregates the backend reports. Only an unhealthy aggregate answers
// 503; degraded still answers 200 so editors keep using the daemon.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var components []component.Health
		if checker != nil {
			components = checker(c.Request.Context())
		}
		status := component.Aggregate(components)
		code := http.StatusOK
		if status == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, probe{Status: string(status), Service: serviceName, Timestamp: now(), Components: components})
	}
}

// Liveness answers 200 while the process serves requests. Editors poll it
// before offering the daemon as a backend.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, probe{Status: "alive", Service: serviceName, Timestamp: now()})
	}
}

// Version serves the build description.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, version.GetVersionInfo())
	}
}
