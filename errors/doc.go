// Package errors provides the coded error type shared by every stage of a
// transcription request. Each stage converts its local failures into an
// *AppError so callers can branch on Code and show Message to the user.
package errors
