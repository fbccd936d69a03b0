package dictation

import (
	"github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/settings"
	"github.com/kbukum/voicenote/transcription"
)

// Backends holds the two transcription backends.
type Backends struct {
	Local  transcription.Backend
	Remote transcription.Backend
}

// For returns the backend selected by s.Backend.
func (b Backends) For(s settings.Settings) (transcription.Backend, error) {
	var backend transcription.Backend
	switch s.Backend {
	case settings.BackendLocal:
		backend = b.Local
	case settings.BackendRemote, "":
		backend = b.Remote
	default:
		return nil, errors.Configuration("backend", "Unknown backend "+string(s.Backend)+".")
	}
	if backend == nil {
		return nil, errors.Configuration("backend", "Backend "+string(s.Backend)+" is not configured.")
	}
	return backend, nil
}
