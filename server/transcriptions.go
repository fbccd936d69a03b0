package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicenote/dictation"
	apperrors "github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/logger"
	"github.com/kbukum/voicenote/note"
	"github.com/kbukum/voicenote/note/vault"
	"github.com/kbukum/voicenote/settings"
	"github.com/kbukum/voicenote/storage"
	"github.com/kbukum/voicenote/util"
)

// Multipart form fields accepted by POST /v1/transcriptions.
const (
	FormFile = "file"
	FormNote = "note"
	FormLine = "line"
	FormCh   = "ch"
)

// defaultUploadName is used when the client sends no usable file name.
const defaultUploadName = "recording.webm"

// TranscriptionHandler runs one dictation request per upload. Each request
// gets its own vault so the active note never leaks between requests.
type TranscriptionHandler struct {
	orchestrator *dictation.Orchestrator
	store        storage.Storage
	settings     settings.Settings
	log          *logger.Logger
}

// NewTranscriptionHandler creates a handler over the vault in store. s is
// copied and used, unchanged, by every request.
func NewTranscriptionHandler(o *dictation.Orchestrator, store storage.Storage, s settings.Settings, log *logger.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{
		orchestrator: o,
		store:        store,
		settings:     s,
		log:          log.WithComponent("transcriptions"),
	}
}

// TranscriptionResponse is the JSON body returned for every processed upload.
type TranscriptionResponse struct {
	dictation.Outcome
	// Opened lists notes the request opened for the user.
	Opened []string             `json:"opened,omitempty"`
	Error  *apperrors.ErrorBody `json:"error,omitempty"`
}

// Handle serves POST /v1/transcriptions.
func (h *TranscriptionHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	fh, err := c.FormFile(FormFile)
	if err != nil {
		RespondWithError(c, uploadError(err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		RespondWithError(c, apperrors.InvalidInput(FormFile, err.Error()))
		return
	}
	audio, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		RespondWithError(c, uploadError(err))
		return
	}

	v := vault.New(h.store, vault.WithLogger(h.log))
	if path := c.PostForm(FormNote); path != "" {
		pos, err := cursorFromForm(c)
		if err != nil {
			RespondWithError(c, err)
			return
		}
		if err := v.SetActive(ctx, path, pos); err != nil {
			RespondWithError(c, err)
			return
		}
	}

	name := util.SanitizeFileName(fh.Filename)
	if name == "" {
		name = defaultUploadName
	}
	out := h.orchestrator.WithWorkspace(v).Process(ctx, audio, name, h.settings)
	resp := TranscriptionResponse{Outcome: out, Opened: v.Opened()}
	status := http.StatusOK
	if out.Failed() {
		appErr, ok := apperrors.AsAppError(out.Err)
		if !ok {
			appErr = apperrors.Internal(out.Err)
		}
		body := appErr.ToResponse().Error
		resp.Error = &body
		status = statusOf(appErr)
	}
	h.log.WithContext(ctx).Debug("transcription served", logger.Fields(
		logger.FieldStatus, status,
		"kind", out.Kind,
		"dictation_request_id", out.RequestID,
	))
	c.JSON(status, resp)
}

func cursorFromForm(c *gin.Context) (note.Position, error) {
	var pos note.Position
	for _, f := range []struct {
		name string
		dst  *int
	}{{FormLine, &pos.Line}, {FormCh, &pos.Ch}} {
		raw := c.PostForm(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return pos, apperrors.InvalidInput(f.name, f.name+" must be a non-negative integer")
		}
		*f.dst = n
	}
	return pos, nil
}

func uploadError(err error) *apperrors.AppError {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "Recording exceeds the upload limit.", http.StatusRequestEntityTooLarge).
			WithDetail("limit", tooLarge.Limit)
	}
	if stderrors.Is(err, http.ErrMissingFile) {
		return apperrors.InvalidInput(FormFile, "multipart field file is required")
	}
	return apperrors.InvalidInput(FormFile, err.Error())
}
