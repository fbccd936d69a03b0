// Package remote transcribes through an OpenAI-compatible HTTP endpoint with
// a single multipart upload per recording.
package remote

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/httpclient"
	"github.com/kbukum/voicenote/logger"
	"github.com/kbukum/voicenote/observability"
	"github.com/kbukum/voicenote/settings"
	"github.com/kbukum/voicenote/transcription"
	"github.com/kbukum/voicenote/version"
)

// Name is the backend name reported by Name().
const Name = "remote-whisper"

var _ transcription.Backend = (*Backend)(nil)

// Backend uploads recordings to the configured endpoint. No retries are made.
type Backend struct {
	transport http.RoundTripper
	settings  settings.Settings
	log       *logger.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithTransport replaces the HTTP transport of every request.
func WithTransport(rt http.RoundTripper) Option {
	return func(b *Backend) { b.transport = rt }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Backend) { b.log = l }
}

// WithSettings sets the settings IsAvailable checks against.
func WithSettings(s settings.Settings) Option {
	return func(b *Backend) { b.settings = s }
}

// New creates the remote backend.
func New(opts ...Option) *Backend {
	b := &Backend{settings: settings.Default()}
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

// IsAvailable reports whether a credential and endpoint are configured. The
// endpoint is not contacted.
func (b *Backend) IsAvailable(_ context.Context) bool {
	return b.settings.APIKey != "" && b.settings.APIURL != ""
}

// Transcribe uploads req and extracts the transcript from the response.
func (b *Backend) Transcribe(ctx context.Context, req transcription.Request, s settings.Settings) (string, error) {
	if s.APIKey == "" {
		return "", errors.Configuration("api_key", "API key missing in settings.")
	}
	if s.APIURL == "" {
		return "", errors.Configuration("api_url", "API URL missing in settings.")
	}

	client := b.client(s)

	ctx, span := observability.StartSpan(ctx, observability.SpanUpload)
	resp, err := client.PostForm(ctx, s.APIURL, uploadForm(req, s))
	observability.EndSpan(span, err)
	log := b.log.WithContext(ctx)
	if err != nil {
		log.Warn("remote transcription failed", logger.Fields(
			logger.FieldStatus, httpclient.StatusCode(err),
			"timeout", httpclient.IsTimeout(err),
			logger.FieldError, err.Error(),
		))
		return "", errors.Remote(err)
	}

	text := ExtractText(resp.Body)
	if text == "" && !json.Valid(resp.Body) {
		log.Debug("response is not JSON, treating as empty", logger.Fields("content_type", resp.Header.Get("Content-Type")))
	}
	log.Debug("remote transcription received", logger.Fields(
		logger.FieldStatus, resp.StatusCode,
		"chars", len(text),
	))
	return text, nil
}

func (b *Backend) client(s settings.Settings) *httpclient.Client {
	timeout := s.APITimeout
	if timeout <= 0 {
		timeout = settings.DefaultAPITimeout
	}
	var opts []httpclient.Option
	if b.transport != nil {
		opts = append(opts, httpclient.WithTransport(b.transport))
	}
	return httpclient.New(httpclient.Config{
		Timeout:     timeout,
		BearerToken: s.APIKey,
		Headers:     map[string]string{"User-Agent": version.UserAgent()},
	}, opts...)
}

// uploadForm builds the multipart form: file, model, language and, when
// set, prompt.
func uploadForm(req transcription.Request, s settings.Settings) *httpclient.Form {
	form := httpclient.NewForm().
		File("file", fileName(req), mimetype.Detect(req.Audio).String(), req.Audio).
		Set("model", s.Model).
		Set("language", s.Language)
	if s.Prompt != "" {
		form.Set("prompt", s.Prompt)
	}
	return form
}

func fileName(req transcription.Request) string {
	if req.FileName == "" {
		return "recording." + transcription.DefaultExtension
	}
	return req.FileName
}

// ExtractText returns the first non-empty transcript among the top-level
// "text", the top-level "result" and the "text" of the first "results"
// element. A body with none of them, including one that is not JSON at all,
// yields "".
func ExtractText(body []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return ""
	}
	if s := stringField(obj, "text"); s != "" {
		return s
	}
	if s := stringField(obj, "result"); s != "" {
		return s
	}
	if results, ok := obj["results"].([]any); ok && len(results) > 0 {
		if first, ok := results[0].(map[string]any); ok {
			return stringField(first, "text")
		}
	}
	return ""
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
