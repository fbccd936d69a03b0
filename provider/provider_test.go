package provider

import (
	"context"
	"testing"
)

type plainProvider struct {
	name      string
	available bool
}

func (p plainProvider) Name() string                     { return p.name }
func (p plainProvider) IsAvailable(context.Context) bool { return p.available }

type checkedProvider struct{ plainProvider }

func (checkedProvider) Health(context.Context) HealthStatus {
	return HealthStatus{Status: StatusDegraded, Message: "model file missing"}
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		p        Provider
		want     Status
		wantText string
	}{
		{"available", plainProvider{"remote", true}, StatusHealthy, ""},
		{"unavailable", plainProvider{"remote", false}, StatusUnavailable, "remote is not available"},
		{"health checker", checkedProvider{plainProvider{"local", true}}, StatusDegraded, "model file missing"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Check(ctx, tc.p)
			if got.Status != tc.want || got.Message != tc.wantText {
				t.Errorf("Check() = %+v, want status %v message %q", got, tc.want, tc.wantText)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{
		StatusHealthy:     "healthy",
		StatusDegraded:    "degraded",
		StatusUnavailable: "unavailable",
		Status(42):        "unknown",
	} {
		if s.String() != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
