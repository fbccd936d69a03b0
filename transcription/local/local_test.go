package local

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/logger"
	"github.com/kbukum/voicenote/process"
	"github.com/kbukum/voicenote/provider"
	"github.com/kbukum/voicenote/settings"
	"github.com/kbukum/voicenote/transcription"
)

// fakeRunner stands in for ffmpeg and whisper-cli. By default the normalizer
// copies its input to its output and the recognizer writes "hello world".
type fakeRunner struct {
	mu    sync.Mutex
	calls []process.Command
	seen  [][]byte // recognizer input contents, per recognizer call

	normalize func(ctx context.Context, cmd process.Command) (*process.Result, error)
	recognize func(ctx context.Context, cmd process.Command) (*process.Result, error)
}

func (f *fakeRunner) Run(ctx context.Context, cmd process.Command) (*process.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	switch filepath.Base(cmd.Binary) {
	case "ffmpeg":
		if f.normalize != nil {
			return f.normalize(ctx, cmd)
		}
		data, err := os.ReadFile(cmd.Args[2])
		if err != nil {
			return nil, err
		}
		return &process.Result{}, os.WriteFile(cmd.Args[len(cmd.Args)-1], data, 0o600)
	default:
		data, _ := os.ReadFile(cmd.Args[3])
		f.mu.Lock()
		f.seen = append(f.seen, data)
		f.mu.Unlock()
		if f.recognize != nil {
			return f.recognize(ctx, cmd)
		}
		return &process.Result{}, os.WriteFile(cmd.Args[3]+".txt", []byte("  hello world \n"), 0o600)
	}
}

func (f *fakeRunner) binaries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = filepath.Base(c.Binary)
	}
	return out
}

func localSettings() settings.Settings {
	s := settings.Default()
	s.Backend = settings.BackendLocal
	s.LocalModelPath = "/models/ggml-base.en.bin"
	return s
}

func newTestBackend(t *testing.T, r process.Runner) (*Backend, string) {
	t.Helper()
	root := t.TempDir()
	return New(r, WithTempDir(root), WithLogger(logger.NewNop())), root
}

func assertNoScratch(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read temp root: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected scratch root to be empty, found %d entries (first %q)", len(entries), entries[0].Name())
	}
}

func TestTranscribeNormalizesThenRecognizes(t *testing.T) {
	fr := &fakeRunner{}
	b, root := newTestBackend(t, fr)

	text, err := b.Transcribe(context.Background(), transcription.Request{Audio: []byte("webm-bytes"), FileName: "rec1.webm"}, localSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Errorf("expected trimmed text, got %q", text)
	}

	if got := fr.binaries(); !reflect.DeepEqual(got, []string{"ffmpeg", "whisper-cli"}) {
		t.Fatalf("expected ffmpeg then whisper-cli, got %v", got)
	}

	norm, rec := fr.calls[0], fr.calls[1]
	in, out := norm.Args[2], norm.Args[len(norm.Args)-1]
	if filepath.Base(in) != "input.webm" {
		t.Errorf("expected normalizer input input.webm, got %s", in)
	}
	if !reflect.DeepEqual(norm.Args, NormalizeArgs(in, out)) {
		t.Errorf("unexpected normalizer args %v", norm.Args)
	}
	if filepath.Base(out) != "input.wav" {
		t.Errorf("expected canonical output input.wav, got %s", out)
	}
	if !reflect.DeepEqual(rec.Args, RecognizeArgs("/models/ggml-base.en.bin", out)) {
		t.Errorf("recognizer must receive the canonical path, got %v", rec.Args)
	}
	if !strings.HasPrefix(filepath.Base(filepath.Dir(in)), scratchPrefix) {
		t.Errorf("expected scratch dir prefix %q, got %s", scratchPrefix, in)
	}
	if norm.Dir != "" || rec.Dir != "" {
		t.Errorf("tools must run in the caller's working directory, got %q and %q", norm.Dir, rec.Dir)
	}
	assertNoScratch(t, root)
}

func TestTranscribeRecognizerOnlySeesCanonicalPath(t *testing.T) {
	for _, name := range []string{"a.webm", "b.MP3", "c.ogg", "d.m4a", "noext"} {
		t.Run(name, func(t *testing.T) {
			fr := &fakeRunner{}
			b, _ := newTestBackend(t, fr)
			if _, err := b.Transcribe(context.Background(), transcription.Request{Audio: []byte("x"), FileName: name}, localSettings()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(fr.calls) != 2 {
				t.Fatalf("expected 2 invocations, got %d", len(fr.calls))
			}
			if got := filepath.Base(fr.calls[1].Args[3]); got != "input.wav" {
				t.Errorf("recognizer got %s", got)
			}
		})
	}
}

func TestTranscribeCanonicalInputSkipsNormalizer(t *testing.T) {
	fr := &fakeRunner{}
	b, root := newTestBackend(t, fr)
	audioBytes := []byte("RIFF....WAVEfmt canonical")

	text, err := b.Transcribe(context.Background(), transcription.Request{Audio: audioBytes, FileName: "Take.WAV"}, localSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Errorf("unexpected text %q", text)
	}
	if got := fr.binaries(); !reflect.DeepEqual(got, []string{"whisper-cli"}) {
		t.Fatalf("expected recognizer only, got %v", got)
	}
	if !bytes.Equal(fr.seen[0], audioBytes) {
		t.Errorf("canonical input must reach the recognizer byte-for-byte")
	}
	assertNoScratch(t, root)
}

func TestTranscribeFailuresCleanUp(t *testing.T) {
	tests := []struct {
		name      string
		runner    *fakeRunner
		wantCode  errors.ErrorCode
		wantDiag  string
		wantCalls int
	}{
		{
			name: "normalizer exits non-zero",
			runner: &fakeRunner{normalize: func(_ context.Context, _ process.Command) (*process.Result, error) {
				return &process.Result{ExitCode: 1, Stderr: []byte("Invalid data found when processing input\n")},
					fmt.Errorf("process: ffmpeg exited with code 1")
			}},
			wantCode:  errors.ErrCodeNormalization,
			wantDiag:  "Invalid data found when processing input",
			wantCalls: 1,
		},
		{
			name: "normalizer not found",
			runner: &fakeRunner{normalize: func(_ context.Context, _ process.Command) (*process.Result, error) {
				return nil, fmt.Errorf("%w: ffmpeg", process.ErrNotFound)
			}},
			wantCode:  errors.ErrCodeNormalization,
			wantDiag:  "process: executable not found: ffmpeg",
			wantCalls: 1,
		},
		{
			name: "recognizer exits non-zero",
			runner: &fakeRunner{recognize: func(_ context.Context, _ process.Command) (*process.Result, error) {
				return &process.Result{ExitCode: 2, Stderr: []byte("failed to load model")},
					fmt.Errorf("process: whisper-cli exited with code 2")
			}},
			wantCode:  errors.ErrCodeRecognition,
			wantDiag:  "failed to load model",
			wantCalls: 2,
		},
		{
			name: "recognizer not found",
			runner: &fakeRunner{recognize: func(_ context.Context, _ process.Command) (*process.Result, error) {
				return &process.Result{ExitCode: -1}, fmt.Errorf("%w: whisper-cli", process.ErrNotFound)
			}},
			wantCode:  errors.ErrCodeRecognition,
			wantDiag:  "process: executable not found: whisper-cli",
			wantCalls: 2,
		},
		{
			name: "recognizer writes no output",
			runner: &fakeRunner{recognize: func(_ context.Context, _ process.Command) (*process.Result, error) {
				return &process.Result{}, nil
			}},
			wantCode:  errors.ErrCodeResultMissing,
			wantCalls: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, root := newTestBackend(t, tc.runner)
			text, err := b.Transcribe(context.Background(), transcription.Request{Audio: []byte("x"), FileName: "rec.webm"}, localSettings())
			if err == nil {
				t.Fatalf("expected error, got text %q", text)
			}
			if !errors.HasCode(err, tc.wantCode) {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
			if tc.wantDiag != "" {
				appErr, _ := errors.AsAppError(err)
				if appErr.Diagnostic() != tc.wantDiag {
					t.Errorf("expected diagnostic %q, got %q", tc.wantDiag, appErr.Diagnostic())
				}
				if !strings.Contains(appErr.Error(), tc.wantDiag) {
					t.Errorf("expected message to carry diagnostic, got %q", appErr.Error())
				}
			}
			if len(tc.runner.calls) != tc.wantCalls {
				t.Errorf("expected %d invocations, got %d", tc.wantCalls, len(tc.runner.calls))
			}
			assertNoScratch(t, root)
		})
	}
}

func TestTranscribeMissingModelPath(t *testing.T) {
	fr := &fakeRunner{}
	b, root := newTestBackend(t, fr)
	s := localSettings()
	s.LocalModelPath = ""

	_, err := b.Transcribe(context.Background(), transcription.Request{Audio: []byte("x"), FileName: "rec.webm"}, s)
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
	if len(fr.calls) != 0 {
		t.Errorf("expected no subprocess, got %d", len(fr.calls))
	}
	assertNoScratch(t, root)
}

func TestTranscribeDefaultBinaries(t *testing.T) {
	fr := &fakeRunner{}
	b, _ := newTestBackend(t, fr)
	s := settings.Settings{Backend: settings.BackendLocal, LocalModelPath: "m.bin"}

	if _, err := b.Transcribe(context.Background(), transcription.Request{Audio: []byte("x"), FileName: "a.ogg"}, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fr.calls[0].Binary != settings.DefaultFFmpegPath || fr.calls[1].Binary != settings.DefaultLocalBinaryPath {
		t.Errorf("expected default binaries, got %s and %s", fr.calls[0].Binary, fr.calls[1].Binary)
	}
}

func TestTranscribeConfiguredBinariesVerbatim(t *testing.T) {
	fr := &fakeRunner{}
	b, _ := newTestBackend(t, fr)
	s := localSettings()
	s.FFmpegPath = "/opt/bin/ffmpeg"
	s.LocalBinaryPath = "/opt/whisper/main"

	if _, err := b.Transcribe(context.Background(), transcription.Request{Audio: []byte("x"), FileName: "a.ogg"}, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fr.calls[0].Binary != "/opt/bin/ffmpeg" || fr.calls[1].Binary != "/opt/whisper/main" {
		t.Errorf("expected configured binaries, got %s and %s", fr.calls[0].Binary, fr.calls[1].Binary)
	}
}

func TestTranscribeRelativePathsResolveFromCaller(t *testing.T) {
	work := t.TempDir()
	if err := os.MkdirAll(filepath.Join(work, "models"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, "models", "ggml-base.en.bin"), []byte("model"), 0o600); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\n[ -f \"$2\" ] || { echo \"model $2 not found in $(pwd)\" >&2; exit 1; }\necho 'from relative model' > \"$4.txt\"\n"
	if err := os.WriteFile(filepath.Join(work, "whisper-cli"), []byte(script), 0o700); err != nil {
		t.Fatal(err)
	}
	t.Chdir(work)

	s := localSettings()
	s.LocalModelPath = filepath.Join("models", "ggml-base.en.bin")
	s.LocalBinaryPath = "./whisper-cli"
	b := New(process.Default, WithTempDir(t.TempDir()), WithLogger(logger.NewNop()))

	text, err := b.Transcribe(context.Background(), transcription.Request{Audio: []byte("RIFF"), FileName: "rec.wav"}, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "from relative model" {
		t.Errorf("got %q", text)
	}
}

func TestTranscribeLocalTimeout(t *testing.T) {
	var hadDeadline bool
	fr := &fakeRunner{recognize: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
		_, hadDeadline = ctx.Deadline()
		return &process.Result{}, os.WriteFile(cmd.Args[3]+".txt", []byte("ok"), 0o600)
	}}
	b, _ := newTestBackend(t, fr)
	s := localSettings()
	s.LocalTimeout = time.Minute

	if _, err := b.Transcribe(context.Background(), transcription.Request{Audio: []byte("x"), FileName: "a.wav"}, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hadDeadline {
		t.Error("expected local_timeout to bound the recognizer")
	}
}

func TestTranscribeConcurrentScratchDirs(t *testing.T) {
	fr := &fakeRunner{}
	b, root := newTestBackend(t, fr)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := b.Transcribe(context.Background(), transcription.Request{Audio: []byte{byte(i)}, FileName: "rec.webm"}, localSettings())
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	dirs := make(map[string]bool)
	for _, c := range fr.calls {
		if filepath.Base(c.Binary) == "ffmpeg" {
			dirs[filepath.Dir(c.Args[2])] = true
		}
	}
	if len(dirs) != 8 {
		t.Errorf("expected 8 distinct scratch dirs, got %d", len(dirs))
	}
	assertNoScratch(t, root)
}

func TestTranscribeDebugInspectsCanonicalWAV(t *testing.T) {
	fr := &fakeRunner{normalize: func(_ context.Context, cmd process.Command) (*process.Result, error) {
		return &process.Result{}, writeTestWAV(cmd.Args[len(cmd.Args)-1], 16000, 8000)
	}}
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "debug", Format: "json", Writer: &buf}, "test")
	b := New(fr, WithTempDir(t.TempDir()), WithLogger(log))
	s := localSettings()
	s.Debug = true

	if _, err := b.Transcribe(context.Background(), transcription.Request{Audio: []byte("x"), FileName: "a.webm"}, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"sample_rate":16000`) {
		t.Errorf("expected canonical audio debug line, got %q", buf.String())
	}
}

func TestInspectWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	if err := writeTestWAV(path, 16000, 16000); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	info, err := inspectWAV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.SampleRate != 16000 || info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("unexpected header %+v", info)
	}
	if info.Duration < 0 || info.Duration > 2*time.Second {
		t.Errorf("implausible duration %v for one second of audio", info.Duration)
	}

	bad := filepath.Join(t.TempDir(), "bad.wav")
	_ = os.WriteFile(bad, []byte("not a wav"), 0o600)
	if _, err := inspectWAV(bad); err == nil {
		t.Error("expected error for invalid wav")
	}
}

func TestHealth(t *testing.T) {
	model := filepath.Join(t.TempDir(), "ggml.bin")
	if err := os.WriteFile(model, []byte("model"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		s        settings.Settings
		want     provider.Status
		wantText string
	}{
		{"all present", settings.Settings{FFmpegPath: "sh", LocalBinaryPath: "sh", LocalModelPath: model}, provider.StatusHealthy, ""},
		{"missing normalizer", settings.Settings{FFmpegPath: "/nonexistent/ffmpeg", LocalBinaryPath: "sh", LocalModelPath: model}, provider.StatusUnavailable, "/nonexistent/ffmpeg not found"},
		{"no model path", settings.Settings{FFmpegPath: "sh", LocalBinaryPath: "sh"}, provider.StatusUnavailable, "local_model_path is not set"},
		{"model is a dir", settings.Settings{FFmpegPath: "sh", LocalBinaryPath: "sh", LocalModelPath: filepath.Dir(model)}, provider.StatusUnavailable, "not found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := New(nil, WithSettings(tc.s), WithLogger(logger.NewNop()))
			h := b.Health(context.Background())
			if h.Status != tc.want {
				t.Fatalf("expected %s, got %s (%s)", tc.want, h.Status, h.Message)
			}
			if !strings.Contains(h.Message, tc.wantText) {
				t.Errorf("expected message to contain %q, got %q", tc.wantText, h.Message)
			}
			if b.IsAvailable(context.Background()) != (tc.want == provider.StatusHealthy) {
				t.Error("IsAvailable disagrees with Health")
			}
		})
	}
}

func TestName(t *testing.T) {
	if New(nil).Name() != "local-whisper" {
		t.Error("unexpected name")
	}
}

// writeTestWAV writes n samples of 16-bit mono silence at rate.
func writeTestWAV(path string, rate, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, n),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
