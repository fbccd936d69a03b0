package component

import (
	"context"

	"github.com/kbukum/voicenote/provider"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string         `json:"name"`
	Status  HealthStatus   `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// FromProvider converts a provider health report into a component Health.
func FromProvider(name string, h provider.HealthStatus) Health {
	status := StatusHealthy
	switch h.Status {
	case provider.StatusDegraded:
		status = StatusDegraded
	case provider.StatusUnavailable:
		status = StatusUnhealthy
	}
	return Health{Name: name, Status: status, Message: h.Message, Details: h.Details}
}

// Check probes p and reports it under its own name.
func Check(ctx context.Context, p provider.Provider) Health {
	return FromProvider(p.Name(), provider.Check(ctx, p))
}

// Aggregate folds component statuses into one: any unhealthy component makes
// the whole unhealthy, otherwise any degraded one makes it degraded.
func Aggregate(components []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range components {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
