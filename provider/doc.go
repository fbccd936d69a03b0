// Package provider defines the capability interface shared by transcription
// backends: a name, an availability probe and optional detailed health.
package provider
