// Package version reports the voicenote build: version, commit, branch and
// build time. The values are set at compile time via -ldflags and fall back
// to the module's VCS build info:
//
//	go build -ldflags "-X github.com/kbukum/voicenote/version.Version=1.0.0" ./cmd/voicenote
package version
