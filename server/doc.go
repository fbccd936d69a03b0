// Package server is the voicenote HTTP daemon host editors talk to. A Gin
// engine is mounted on a ServeMux and served with h2c, so clients may use
// HTTP/1.1 or cleartext HTTP/2.
//
// # Middleware
//
// server/middleware provides the standard net/http chain applied around
// every route: Recovery, RequestID, CORS, BodySizeLimit and RequestLogger.
//
// # Endpoints
//
//   - POST /v1/transcriptions: multipart upload (file, optional note, line, ch)
//   - GET /health: backend availability
//   - GET /alive: liveness
//   - GET /version: build version information
package server
