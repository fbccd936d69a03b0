package process

import (
	"io"
	"strings"
	"time"
)

// Command describes one subprocess invocation.
type Command struct {
	// Binary is an executable path or a bare name looked up on PATH.
	Binary string
	Args   []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env entries (key=value) are appended to the parent environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod separates SIGTERM from SIGKILL on cancellation. Zero means 5s.
	GracePeriod time.Duration
}

// String renders the command line for logs. Arguments containing spaces
// are quoted.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, s := range append([]string{c.Binary}, c.Args...) {
		if s == "" || strings.ContainsAny(s, " \t\"'") {
			s = "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
