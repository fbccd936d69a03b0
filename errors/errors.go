package errors

import (
	"fmt"
	"maps"
	"net/http"
	"strings"
)

// DetailDiagnostic is the details key holding captured tool or server output.
const DetailDiagnostic = "diagnostic"

// AppError is the error every voicenote stage reports. HTTPStatus and Cause
// stay out of the JSON body.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// Error appends the cause unless the message already quotes it.
func (e *AppError) Error() string {
	if e.Cause == nil || strings.Contains(e.Message, e.Cause.Error()) {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause records the underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges details into the error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	maps.Copy(e.Details, details)
	return e
}

// WithDetail sets one detail.
func (e *AppError) WithDetail(key string, value any) *AppError {
	return e.WithDetails(map[string]any{key: value})
}

// Diagnostic returns the captured tool or server output, if any.
func (e *AppError) Diagnostic() string {
	s, _ := e.Details[DetailDiagnostic].(string)
	return s
}

// New builds an AppError; Retryable follows the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Retryable: IsRetryableCode(code)}
}

// Configuration reports a missing or invalid setting.
func Configuration(field, reason string) *AppError {
	return New(ErrCodeConfiguration, reason, http.StatusUnprocessableEntity).WithDetail("field", field)
}

// Normalization reports an audio normalizer failure. The diagnostic is
// appended to the message so users see the tool output.
func Normalization(diagnostic string, cause error) *AppError {
	return toolFailure(ErrCodeNormalization, "Audio normalization failed.", diagnostic, cause)
}

// Recognition reports a speech recognizer failure.
func Recognition(diagnostic string, cause error) *AppError {
	return toolFailure(ErrCodeRecognition, "Speech recognition failed.", diagnostic, cause)
}

func toolFailure(code ErrorCode, msg, diagnostic string, cause error) *AppError {
	if d := strings.TrimSpace(diagnostic); d != "" {
		msg += "\n" + d
	}
	return New(code, msg, http.StatusBadGateway).
		WithDetail(DetailDiagnostic, diagnostic).
		WithCause(cause)
}

// ResultMissing reports a recognizer run that left no readable output.
func ResultMissing(path string, cause error) *AppError {
	msg := fmt.Sprintf("Recognizer produced no readable output at %s.", path)
	return New(ErrCodeResultMissing, msg, http.StatusBadGateway).WithDetail("path", path).WithCause(cause)
}

// Remote reports a transport or HTTP failure of the remote service.
func Remote(cause error) *AppError {
	msg := "Remote transcription request failed."
	if cause != nil {
		msg = fmt.Sprintf("Remote transcription request failed: %v", cause)
	}
	return New(ErrCodeRemote, msg, http.StatusBadGateway).WithCause(cause)
}

// PathConflict reports a document that already exists.
func PathConflict(path string) *AppError {
	msg := fmt.Sprintf("A document already exists at %s.", path)
	return New(ErrCodePathConflict, msg, http.StatusConflict).WithDetail("path", path)
}

// NoActiveEditor reports an insertion without an editor or cursor.
func NoActiveEditor() *AppError {
	return New(ErrCodeNoActiveEditor, "No active editor to insert the transcript into.", http.StatusConflict)
}

// NotFound reports a missing resource; id is optional.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), http.StatusNotFound).
		WithDetail("resource", resource)
	if id != "" {
		e.Details["id"] = id
	}
	return e
}

// InvalidInput reports a bad request field.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "Invalid input: "+reason, http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation reports failed checks summarized in message.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.", http.StatusInternalServerError).WithCause(cause)
}
