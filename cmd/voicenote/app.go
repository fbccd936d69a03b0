package main

import (
	"context"
	"fmt"
	"io"

	"github.com/kbukum/voicenote/component"
	"github.com/kbukum/voicenote/dictation"
	"github.com/kbukum/voicenote/logger"
	"github.com/kbukum/voicenote/note"
	"github.com/kbukum/voicenote/observability"
	"github.com/kbukum/voicenote/process"
	"github.com/kbukum/voicenote/storage/local"
	localbackend "github.com/kbukum/voicenote/transcription/local"
	"github.com/kbukum/voicenote/transcription/remote"
	"github.com/kbukum/voicenote/version"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg      *AppConfig
	log      *logger.Logger
	store    *local.Storage
	backends dictation.Backends
	metrics  *observability.Metrics
	shutdown observability.ShutdownFunc
}

// newApp initializes logging and telemetry and opens the vault.
func newApp(ctx context.Context, cfg *AppConfig, logOut io.Writer) (*app, error) {
	if logOut != nil {
		cfg.Logging.Writer = logOut
	}
	logger.Init(cfg.Logging)
	log := logger.WithComponent(serviceName)

	shutdown, err := observability.Setup(ctx, cfg.Telemetry, cfg.Name, version.GetShortVersion(), cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	metrics, err := observability.NewDefaultMetrics()
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("metrics: %w", err)
	}

	store, err := local.NewStorage(cfg.Vault)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("vault: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		metrics:  metrics,
		shutdown: shutdown,
		backends: dictation.Backends{
			Local: localbackend.New(process.Default,
				localbackend.WithSettings(cfg.Whisper),
				localbackend.WithLogger(logger.WithComponent(localbackend.Name))),
			Remote: remote.New(
				remote.WithSettings(cfg.Whisper),
				remote.WithLogger(logger.WithComponent(remote.Name))),
		},
	}
	log.Debug("application initialized", logger.Fields(
		"vault", store.BasePath(),
		logger.FieldBackend, cfg.Whisper.Backend,
		"telemetry", cfg.Telemetry.Enabled(),
	))
	return a, nil
}

// orchestrator builds an orchestrator reporting notices to n and applying
// transcripts to ws.
func (a *app) orchestrator(n dictation.Notifier, ws note.Workspace) *dictation.Orchestrator {
	return dictation.New(a.backends, a.store, ws,
		dictation.WithNotifier(n),
		dictation.WithMetrics(a.metrics),
		dictation.WithLogger(logger.WithComponent("dictation")),
	)
}

// health probes both backends.
func (a *app) health(ctx context.Context) []component.Health {
	return []component.Health{
		component.Check(ctx, a.backends.Remote),
		component.Check(ctx, a.backends.Local),
	}
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		a.log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
}
