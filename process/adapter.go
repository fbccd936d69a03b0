package process

import (
	"context"
	"time"

	"github.com/kbukum/voicenote/provider"
)

var (
	_ Runner            = (*Adapter)(nil)
	_ provider.Provider = (*Adapter)(nil)
)

// Config configures a process adapter.
type Config struct {
	// Name identifies this adapter instance.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// GracePeriod is the default grace period for SIGTERM to SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds every run. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// Adapter bounds each run with the configured timeout and fills in the
// grace period before delegating to the next Runner.
type Adapter struct {
	config Config
	next   Runner
}

// NewAdapter creates a process adapter. A nil next runs commands directly.
func NewAdapter(cfg Config, next Runner) *Adapter {
	if next == nil {
		next = Default
	}
	return &Adapter{config: cfg, next: next}
}

// Run executes a command, applying adapter-level defaults.
func (a *Adapter) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 && a.config.GracePeriod > 0 {
		cmd.GracePeriod = a.config.GracePeriod
	}
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}
	return a.next.Run(ctx, cmd)
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// IsAvailable reports true; executables are resolved per command.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	return true
}
