package provider

import "context"

// Provider is implemented by every transcription backend.
type Provider interface {
	Name() string
	// IsAvailable reports whether the backend could accept a request now.
	IsAvailable(ctx context.Context) bool
}

// Status is a coarse health level.
type Status int

const (
	StatusHealthy Status = iota
	// StatusDegraded means requests may succeed but something is off, such
	// as a configured model file that is missing.
	StatusDegraded
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// HealthStatus is a detailed health report. Details carries resolved
// executable paths, endpoints and similar facts shown by doctor.
type HealthStatus struct {
	Status  Status
	Message string
	Details map[string]any
}

// HealthChecker is implemented by providers that can explain their state.
type HealthChecker interface {
	Health(ctx context.Context) HealthStatus
}

// Check returns the detailed health of p. Providers that do not implement
// HealthChecker are reported from IsAvailable alone.
func Check(ctx context.Context, p Provider) HealthStatus {
	if hc, ok := p.(HealthChecker); ok {
		return hc.Health(ctx)
	}
	if p.IsAvailable(ctx) {
		return HealthStatus{Status: StatusHealthy}
	}
	return HealthStatus{Status: StatusUnavailable, Message: p.Name() + " is not available"}
}
