package transcription

import (
	"fmt"
	"strings"
)

const (
	// DefaultExtension is assumed when the file name carries none.
	DefaultExtension = "webm"
	// CanonicalExtension is the normalized container the local recognizer reads.
	CanonicalExtension = "wav"
)

// Request is one audio payload to transcribe. It lives for a single call.
type Request struct {
	// Audio is the raw recording.
	Audio []byte
	// FileName is the original name, used for its extension and base name.
	FileName string
}

// Extension returns the lower-cased extension of FileName without the dot,
// or DefaultExtension when there is none.
func (r Request) Extension() string {
	i := strings.LastIndexByte(r.FileName, '.')
	if i < 0 || i == len(r.FileName)-1 || strings.ContainsAny(r.FileName[i:], `/\`) {
		return DefaultExtension
	}
	return strings.ToLower(r.FileName[i+1:])
}

// SizeKB formats the payload size in decimal kilobytes, as debug notices show it.
func (r Request) SizeKB() string {
	return fmt.Sprintf("%.1f KB", float64(len(r.Audio))/1000)
}
