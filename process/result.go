package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process never started or was killed.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// Diagnostic returns the trimmed stderr, or stdout when stderr is empty.
// Nil results yield "".
func (r *Result) Diagnostic() string {
	if r == nil {
		return ""
	}
	if s := strings.TrimSpace(string(r.Stderr)); s != "" {
		return s
	}
	return strings.TrimSpace(string(r.Stdout))
}
