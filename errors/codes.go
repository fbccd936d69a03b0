package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Transcription pipeline errors. None of these are retried.
const (
	// ErrCodeConfiguration indicates a required setting is missing or invalid.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeNormalization indicates the audio normalizer failed or was not found.
	ErrCodeNormalization ErrorCode = "NORMALIZATION_FAILED"
	// ErrCodeRecognition indicates the speech recognizer failed or was not found.
	ErrCodeRecognition ErrorCode = "RECOGNITION_FAILED"
	// ErrCodeResultMissing indicates the recognizer ran but left no readable output.
	ErrCodeResultMissing ErrorCode = "RESULT_MISSING"
	// ErrCodeRemote indicates a network or HTTP failure talking to the remote service.
	ErrCodeRemote ErrorCode = "REMOTE_ERROR"
)

// Result application errors. These never invalidate a produced transcript.
const (
	// ErrCodePathConflict indicates a document already exists at the target path.
	ErrCodePathConflict ErrorCode = "PATH_CONFLICT"
	// ErrCodeNoActiveEditor indicates insertion was requested without an editor.
	ErrCodeNoActiveEditor ErrorCode = "NO_ACTIVE_EDITOR"
)

// Generic errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConfiguration:  false,
	ErrCodeNormalization:  false,
	ErrCodeRecognition:    false,
	ErrCodeResultMissing:  false,
	ErrCodeRemote:         false,
	ErrCodePathConflict:   false,
	ErrCodeNoActiveEditor: false,
	ErrCodeInternal:       false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
