// Package dictation turns one recording into a transcript placed in the
// vault. Process saves the audio if asked, runs the selected backend and
// applies the text, reporting every step through a Notifier.
package dictation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/logger"
	"github.com/kbukum/voicenote/note"
	"github.com/kbukum/voicenote/observability"
	"github.com/kbukum/voicenote/settings"
	"github.com/kbukum/voicenote/storage"
	"github.com/kbukum/voicenote/transcription"
)

// Orchestrator runs transcription requests. It holds no per-request state
// and is safe for concurrent use.
type Orchestrator struct {
	backends Backends
	store    storage.Storage
	ws       note.Workspace
	notifier Notifier
	metrics  *observability.Metrics
	log      *logger.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNotifier sets where user notices go.
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

// WithMetrics records request and stage metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// New creates an orchestrator. store receives saved recordings and ws the
// transcripts; either may be nil, which makes that stage fail softly.
func New(backends Backends, store storage.Storage, ws note.Workspace, opts ...Option) *Orchestrator {
	o := &Orchestrator{backends: backends, store: store, ws: ws}
	for _, opt := range opts {
		opt(o)
	}
	if o.notifier == nil {
		o.notifier = nopNotifier{}
	}
	if o.log == nil {
		o.log = logger.WithComponent("dictation")
	}
	return o
}

// WithWorkspace returns a copy of o that applies transcripts to ws.
func (o *Orchestrator) WithWorkspace(ws note.Workspace) *Orchestrator {
	c := *o
	c.ws = ws
	return &c
}

// Process transcribes audio and applies the text. s is read only.
func (o *Orchestrator) Process(ctx context.Context, audio []byte, fileName string, s settings.Settings) (out Outcome) {
	req := transcription.Request{Audio: audio, FileName: fileName}
	out = Outcome{
		RequestID: uuid.NewString(),
		NotePath:  note.NotePath(fileName, s),
	}

	ctx = logger.ContextWithRequestID(ctx, out.RequestID)
	log := o.log.WithContext(ctx)
	oc := observability.NewOperation("process", out.RequestID, string(s.Backend), o.metrics)
	ctx, span := oc.Begin(ctx, observability.SpanProcess, len(audio))
	defer func() {
		oc.Finish(ctx, span, string(out.Kind), out.Err)
		log.Info("request finished", logger.Fields(
			logger.FieldStatus, out.Kind,
			logger.FieldBackend, s.Backend,
			logger.FieldDuration, oc.Elapsed().Milliseconds(),
			"warnings", len(out.Warnings),
		))
	}()

	if s.Debug {
		o.notice(noticeAudioSize + req.SizeKB())
	}

	if s.SaveAudioFile {
		audioPath := note.AudioPath(fileName, s)
		if err := o.saveAudio(ctx, oc, audioPath, audio); err != nil {
			msg := noticeSaveFailed + errors.Message(err)
			log.Warn("audio not saved", logger.Fields(logger.FieldPath, audioPath, logger.FieldError, err.Error()))
			out.warn(StageAudioSave, msg, err)
			o.notice(msg)
		} else {
			out.AudioPath = audioPath
			if s.Debug {
				o.notice(noticeAudioSaved)
			}
		}
	}

	text, err := o.transcribe(ctx, oc, req, s)
	if err != nil {
		out.Kind, out.Stage, out.Err = KindFailed, StageTranscription, err
		log.Error("transcription failed", logger.Fields(logger.FieldStage, StageTranscription, logger.FieldError, err.Error()))
		if errors.HasCode(err, errors.ErrCodeConfiguration) {
			o.notice(errors.Message(err))
		} else {
			o.notice(noticeTranscribeFail + errors.Message(err))
		}
		return out
	}
	if text == "" {
		out.Kind = KindEmpty
		o.notice(noticeEmpty)
		return out
	}
	out.Kind, out.Text = KindTranscribed, text

	res, err := o.apply(ctx, oc, note.ApplyRequest{
		Transcript: text,
		NotePath:   out.NotePath,
		AudioPath:  out.AudioPath,
		CreateNew:  s.CreateNewFileAfterRecording,
	})
	out.Result = res
	if err != nil {
		msg := noticeInsertFailed + errors.Message(err)
		log.Warn("transcript not applied", logger.Fields(logger.FieldStage, StageResultInsertion, logger.FieldError, err.Error()))
		out.warn(StageResultInsertion, msg, err)
		o.notice(msg)
		return out
	}
	out.Applied = true
	o.notice(noticeSuccess)
	return out
}

func (o *Orchestrator) saveAudio(ctx context.Context, oc *observability.Operation, path string, audio []byte) (err error) {
	ctx, end := oc.Stage(ctx, observability.SpanSaveAudio, string(StageAudioSave))
	defer func() { end(errorCode(err), err) }()

	if o.store == nil {
		return errors.Configuration("save_audio_file_path", "No audio storage is configured.")
	}
	// A repeated recording name replaces the older audio; only notes are exclusive.
	return storage.UploadBytes(ctx, o.store, path, audio)
}

func (o *Orchestrator) transcribe(ctx context.Context, oc *observability.Operation, req transcription.Request, s settings.Settings) (text string, err error) {
	ctx, end := oc.Stage(ctx, observability.SpanTranscribe, string(StageTranscription))
	defer func() { end(errorCode(err), err) }()

	backend, err := o.backends.For(s)
	if err != nil {
		return "", err
	}
	if s.Debug {
		if s.IsLocal() {
			o.notice(noticeUsingLocal)
		} else if s.APIKey != "" {
			o.notice(noticeUploading)
		}
	}
	observability.SetSpanAttribute(ctx, observability.AttrBackend, backend.Name())

	text, err = backend.Transcribe(ctx, req, s)
	if err != nil && !errors.IsAppError(err) {
		err = errors.New(errors.ErrCodeInternal, fmt.Sprintf("%s: %v", backend.Name(), err), http.StatusInternalServerError).WithCause(err)
	}
	return text, err
}

func (o *Orchestrator) apply(ctx context.Context, oc *observability.Operation, req note.ApplyRequest) (res note.Result, err error) {
	ctx, end := oc.Stage(ctx, observability.SpanApplyResult, string(StageResultInsertion))
	defer func() { end(errorCode(err), err) }()
	return note.Apply(ctx, o.ws, req)
}

func (o *Orchestrator) notice(msg string) {
	o.notifier.Notice(msg)
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return string(errors.ErrCodeInternal)
}
