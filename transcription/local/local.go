// Package local runs transcription on this machine: the recording is
// normalized to 16 kHz mono PCM by ffmpeg and handed to whisper.cpp.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/logger"
	"github.com/kbukum/voicenote/observability"
	"github.com/kbukum/voicenote/process"
	"github.com/kbukum/voicenote/settings"
	"github.com/kbukum/voicenote/transcription"
)

// Name is the backend name reported by Name().
const Name = "local-whisper"

const (
	scratchPrefix = "local-whisper-"
	inputBase     = "input"
	textSuffix    = ".txt"
)

var _ transcription.Backend = (*Backend)(nil)

// Backend is the local pipeline. It is safe for concurrent use; each call
// owns its own scratch directory.
type Backend struct {
	runner   process.Runner
	tempDir  string
	settings settings.Settings
	log      *logger.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithTempDir sets the root the scratch directories are created under.
// The default is os.TempDir().
func WithTempDir(dir string) Option {
	return func(b *Backend) { b.tempDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Backend) { b.log = l }
}

// WithSettings sets the settings IsAvailable and Health check against.
func WithSettings(s settings.Settings) Option {
	return func(b *Backend) { b.settings = s }
}

// New creates the local backend. A nil runner executes commands directly.
func New(runner process.Runner, opts ...Option) *Backend {
	if runner == nil {
		runner = process.Default
	}
	b := &Backend{runner: runner, settings: settings.Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.WithComponent(Name)
	}
	return b
}

// Name returns the backend name.
func (b *Backend) Name() string { return Name }

// Transcribe normalizes req.Audio, runs the recognizer on it and returns the
// trimmed text it wrote. The scratch directory is removed before returning.
// Both tools run in the caller's working directory, so relative model and
// binary paths resolve the same way Health checks them.
func (b *Backend) Transcribe(ctx context.Context, req transcription.Request, s settings.Settings) (string, error) {
	if s.LocalModelPath == "" {
		return "", errors.Configuration("local_model_path", "Local model path is not set.")
	}

	dir, err := os.MkdirTemp(b.tempDir, scratchPrefix)
	if err != nil {
		return "", errors.Internal(fmt.Errorf("create scratch dir: %w", err))
	}
	defer b.cleanup(dir)

	log := b.log.WithContext(ctx)
	runner := process.NewAdapter(process.Config{Name: Name, Timeout: s.LocalTimeout}, b.runner)

	ext := req.Extension()
	inPath := filepath.Join(dir, inputBase+"."+ext)
	wavPath := filepath.Join(dir, inputBase+"."+transcription.CanonicalExtension)

	if err := os.WriteFile(inPath, req.Audio, 0o600); err != nil {
		return "", errors.Internal(fmt.Errorf("write input: %w", err))
	}

	// A canonical input is written straight to the canonical path.
	if ext != transcription.CanonicalExtension {
		if err := b.normalize(ctx, runner, s, inPath, wavPath); err != nil {
			return "", err
		}
	}

	if s.Debug {
		b.logWAV(log, wavPath)
	}

	if err := b.recognize(ctx, runner, s, wavPath); err != nil {
		return "", err
	}

	outPath := wavPath + textSuffix
	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", errors.ResultMissing(filepath.Base(outPath), err)
	}

	text := strings.TrimSpace(string(data))
	log.Debug("recognizer finished", logger.Fields("chars", len(text)))
	return text, nil
}

func (b *Backend) normalize(ctx context.Context, runner process.Runner, s settings.Settings, inPath, wavPath string) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanNormalize)
	cmd := process.Command{
		Binary: orDefault(s.FFmpegPath, settings.DefaultFFmpegPath),
		Args:   NormalizeArgs(inPath, wavPath),
	}
	b.log.WithContext(ctx).Debug("normalizing audio", logger.Fields("command", cmd.String()))
	res, err := runner.Run(ctx, cmd)
	observability.EndSpan(span, err)
	if err != nil {
		return errors.Normalization(diagnostic(res, err), err)
	}
	return nil
}

func (b *Backend) recognize(ctx context.Context, runner process.Runner, s settings.Settings, wavPath string) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanRecognize)
	cmd := process.Command{
		Binary: orDefault(s.LocalBinaryPath, settings.DefaultLocalBinaryPath),
		Args:   RecognizeArgs(s.LocalModelPath, wavPath),
	}
	b.log.WithContext(ctx).Debug("running recognizer", logger.Fields("command", cmd.String()))
	res, err := runner.Run(ctx, cmd)
	observability.EndSpan(span, err)
	if err != nil {
		return errors.Recognition(diagnostic(res, err), err)
	}
	return nil
}

// NormalizeArgs returns the ffmpeg arguments converting in to 16 kHz mono
// signed 16-bit PCM at out, overwriting out.
func NormalizeArgs(in, out string) []string {
	return []string{"-y", "-i", in, "-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le", out}
}

// RecognizeArgs returns the whisper.cpp arguments for a plain-text
// transcription of wav. The text lands at wav + ".txt".
func RecognizeArgs(model, wav string) []string {
	return []string{"-m", model, "-f", wav, "-otxt"}
}

// cleanup removes the scratch directory. Failures are logged only.
func (b *Backend) cleanup(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		b.log.Warn("failed to remove scratch dir", logger.Fields(logger.FieldPath, dir, logger.FieldError, err.Error()))
	}
}

// diagnostic prefers the process output and falls back to the error text,
// which is all there is when the executable never started.
func diagnostic(res *process.Result, err error) string {
	if d := res.Diagnostic(); d != "" {
		return d
	}
	return err.Error()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
