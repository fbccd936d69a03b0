// Package transcription defines the Backend interface shared by the two
// speech-to-text backends and the Request they receive.
//
// # Backends
//
//   - transcription/local: normalizes audio with ffmpeg and runs whisper.cpp
//   - transcription/remote: uploads audio to an OpenAI-compatible HTTP API
//
// Exactly one backend serves a request, chosen by settings.Backend.
package transcription
