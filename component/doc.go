// Package component defines the health report shared by the server's
// /health endpoint and the doctor command. Transcription backends report
// through provider.HealthStatus and are converted here.
package component
