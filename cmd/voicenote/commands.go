package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/kbukum/voicenote/component"
	"github.com/kbukum/voicenote/dictation"
	"github.com/kbukum/voicenote/logger"
	"github.com/kbukum/voicenote/note"
	"github.com/kbukum/voicenote/note/vault"
	"github.com/kbukum/voicenote/server"
	"github.com/kbukum/voicenote/settings"
	"github.com/kbukum/voicenote/util"
	"github.com/kbukum/voicenote/validation"
	"github.com/kbukum/voicenote/version"
)

// TranscribeCmd transcribes one recording file.
type TranscribeCmd struct {
	Audio   string `arg:"" type:"existingfile" help:"Recording to transcribe."`
	Vault   string `help:"Vault root directory. Overrides the config." type:"existingdir" placeholder:"DIR"`
	Note    string `help:"Vault-relative note to insert into at the cursor." placeholder:"PATH"`
	Line    int    `help:"Cursor line in the note, from 0."`
	Ch      int    `help:"Cursor column in characters, from 0."`
	Backend string `help:"Backend to use (remote or local). Overrides the config."`
	JSON    bool   `help:"Print the outcome as JSON."`
}

// Run executes the dictation pipeline once.
func (c *TranscribeCmd) Run(rc *runContext) error {
	cfg, err := rc.load()
	if err != nil {
		return err
	}
	if c.Vault != "" {
		cfg.Vault = c.Vault
	}
	if appErr := validation.New().
		OneOf("backend", c.Backend, string(settings.BackendRemote), string(settings.BackendLocal)).
		Check(c.Note != "" || (c.Line == 0 && c.Ch == 0), "note", "is required with --line or --ch").
		Validate(); appErr != nil {
		return appErr
	}
	if c.Backend != "" {
		cfg.Whisper.Backend = settings.Backend(c.Backend)
	}

	a, err := newApp(rc.ctx, cfg, rc.stderr)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	audio, err := os.ReadFile(c.Audio)
	if err != nil {
		return err
	}

	v := vault.New(a.store, vault.WithLogger(logger.WithComponent("vault")))
	if c.Note != "" {
		if appErr := validation.New().Min("line", c.Line, 0).Min("ch", c.Ch, 0).Validate(); appErr != nil {
			return appErr
		}
		if err := v.SetActive(rc.ctx, c.Note, note.Position{Line: c.Line, Ch: c.Ch}); err != nil {
			return err
		}
	}

	notices := dictation.NotifierFunc(func(msg string) { fmt.Fprintln(rc.stderr, msg) })
	out := a.orchestrator(notices, v).Process(rc.ctx, audio, filepath.Base(c.Audio), cfg.Whisper)

	if c.JSON {
		enc := json.NewEncoder(rc.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else if out.Text != "" {
		fmt.Fprintln(rc.stdout, out.Text)
	}
	if out.Failed() {
		return exitCode(1)
	}
	return nil
}

// ServeCmd runs the HTTP daemon until interrupted.
type ServeCmd struct {
	Addr string `help:"Listen address host:port. Overrides the config." placeholder:"HOST:PORT"`
}

// Run starts the server and blocks until SIGINT or SIGTERM.
func (c *ServeCmd) Run(rc *runContext) error {
	cfg, err := rc.load()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		host, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return fmt.Errorf("--addr: %w", err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("--addr: invalid port %q", port)
		}
		cfg.Server.Host, cfg.Server.Port = host, p
		if err := cfg.Server.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(rc.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, rc.stderr)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	noticeLog := logger.WithComponent("notices")
	notices := dictation.NotifierFunc(func(msg string) { noticeLog.Info(msg) })

	srv := server.New(cfg.Server, a.log)
	srv.ApplyDefaults(cfg.Name, a.health)
	srv.RegisterTranscriptions(server.NewTranscriptionHandler(a.orchestrator(notices, nil), a.store, cfg.Whisper, a.log))
	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(rc.stderr, "voicenote listening on http://%s\n", srv.Addr())

	<-ctx.Done()
	return srv.Stop(context.Background())
}

// DoctorCmd prints whether each backend can run.
type DoctorCmd struct{}

// Run reports backend health. It fails when the selected backend is unhealthy.
func (c *DoctorCmd) Run(rc *runContext) error {
	cfg, err := rc.load()
	if err != nil {
		return err
	}
	a, err := newApp(rc.ctx, cfg, rc.stderr)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	selected, err := a.backends.For(cfg.Whisper)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(rc.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "vault\t%s\n", a.store.BasePath())
	fmt.Fprintf(w, "backend\t%s\n", cfg.Whisper.Backend)
	fmt.Fprintf(w, "api_url\t%s\n", cfg.Whisper.APIURL)
	fmt.Fprintf(w, "api_key\t%s\n", maskedKey(cfg.Whisper.APIKey))
	fmt.Fprintf(w, "local_model_path\t%s\n", cfg.Whisper.LocalModelPath)
	fmt.Fprintln(w)

	failed := false
	for _, h := range a.health(rc.ctx) {
		mark := " "
		if h.Name == selected.Name() {
			mark = "*"
			failed = h.Status == component.StatusUnhealthy
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\n", mark, h.Name, h.Status, h.Message)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed {
		return exitCode(1)
	}
	return nil
}

func maskedKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return util.MaskSecret(key, 7)
}

// VersionCmd prints the build version.
type VersionCmd struct{}

// Run prints the version line.
func (c *VersionCmd) Run(rc *runContext) error {
	_, err := fmt.Fprintf(rc.stdout, "%s %s\n", serviceName, version.GetFullVersion())
	return err
}
