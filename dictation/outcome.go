package dictation

import "github.com/kbukum/voicenote/note"

// Kind tags an Outcome.
type Kind string

const (
	// KindTranscribed means a non-empty transcript was produced.
	KindTranscribed Kind = "transcribed"
	// KindEmpty means the backend succeeded but returned no text.
	KindEmpty Kind = "empty"
	// KindFailed means transcription did not complete.
	KindFailed Kind = "failed"
)

// Stage names a step of Process.
type Stage string

const (
	StageAudioSave       Stage = "audio_save"
	StageTranscription   Stage = "transcription"
	StageResultInsertion Stage = "result_insertion"
)

// Warning is a stage failure that did not fail the request.
type Warning struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Outcome is the result of one Process call.
type Outcome struct {
	RequestID string `json:"request_id"`
	Kind      Kind   `json:"kind"`
	Text      string `json:"text,omitempty"`
	// Stage and Err are set when Kind is KindFailed.
	Stage Stage `json:"stage,omitempty"`
	Err   error `json:"-"`

	Warnings []Warning `json:"warnings,omitempty"`
	// AudioPath is set when the recording was saved.
	AudioPath string `json:"audio_path,omitempty"`
	NotePath  string `json:"note_path,omitempty"`
	// Applied is true when the transcript reached the vault.
	Applied bool        `json:"applied"`
	Result  note.Result `json:"result"`
}

// Failed reports whether the request failed.
func (o Outcome) Failed() bool { return o.Kind == KindFailed }

func (o *Outcome) warn(stage Stage, msg string, err error) {
	o.Warnings = append(o.Warnings, Warning{Stage: stage, Message: msg, Err: err})
}
