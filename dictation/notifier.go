package dictation

// Notifier shows short messages to the user.
type Notifier interface {
	Notice(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Notice calls f.
func (f NotifierFunc) Notice(msg string) { f(msg) }

type nopNotifier struct{}

func (nopNotifier) Notice(string) {}

// User-facing notices.
const (
	noticeAudioSize      = "Audio size: "
	noticeAudioSaved     = "Audio saved."
	noticeSaveFailed     = "Error saving audio: "
	noticeUsingLocal     = "Using local whisper.cpp backend…"
	noticeUploading      = "Uploading audio to remote API…"
	noticeTranscribeFail = "Error transcribing audio: "
	noticeEmpty          = "No transcription returned."
	noticeSuccess        = "Audio parsed successfully."
	noticeInsertFailed   = "Error inserting transcript: "
)
