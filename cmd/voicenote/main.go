// Command voicenote transcribes dictated recordings into a notes vault with
// a local whisper.cpp pipeline or a remote whisper-compatible API.
//
//	voicenote transcribe rec1.webm --vault ~/notes
//	voicenote transcribe rec1.webm --note daily.md --line 3 --ch 0
//	voicenote serve --addr 127.0.0.1:8080
//	voicenote doctor
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the command line grammar.
type CLI struct {
	Config string `short:"c" help:"Path to config.yml." type:"existingfile" placeholder:"FILE"`
	Debug  bool   `help:"Show debug notices and debug logs."`

	Transcribe TranscribeCmd `cmd:"" help:"Transcribe a recording into the vault."`
	Serve      ServeCmd      `cmd:"" help:"Run the HTTP daemon for host editors."`
	Doctor     DoctorCmd     `cmd:"" help:"Report transcription backend availability."`
	Version    VersionCmd    `cmd:"" help:"Print build version."`
}

// runContext is bound to every command's Run method.
type runContext struct {
	ctx        context.Context
	configFile string
	debug      bool
	stdout     io.Writer
	stderr     io.Writer
}

// load reads the configuration and applies global flags.
func (rc *runContext) load() (*AppConfig, error) {
	cfg, err := loadConfig(rc.configFile)
	if err != nil {
		return nil, err
	}
	if rc.debug {
		cfg.Debug, cfg.Whisper.Debug = true, true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// exitCode is returned by commands that already reported their failure.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, executes the selected command and returns the process
// exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	exited := -1
	parser, err := kong.New(&cli,
		kong.Name(serviceName),
		kong.Description("Dictate into your notes with whisper."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exited = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if exited >= 0 {
		return exited
	}
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	err = kctx.Run(&runContext{
		ctx:        ctx,
		configFile: cli.Config,
		debug:      cli.Debug,
		stdout:     stdout,
		stderr:     stderr,
	})
	var code exitCode
	switch {
	case err == nil:
		return 0
	case stderrors.As(err, &code):
		return int(code)
	default:
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return 1
	}
}
