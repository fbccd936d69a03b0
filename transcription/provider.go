package transcription

import (
	"context"

	"github.com/kbukum/voicenote/provider"
	"github.com/kbukum/voicenote/settings"
)

// Backend turns audio into transcript text. An empty string with a nil error
// means the backend produced no transcription.
type Backend interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe converts the request audio using the given settings.
	Transcribe(ctx context.Context, req Request, s settings.Settings) (string, error)
}
