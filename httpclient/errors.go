package httpclient

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxExcerpt bounds how much of a response body Error() prints.
const maxExcerpt = 512

// Kind says how a request failed.
type Kind int

const (
	// KindTimeout: the deadline or the context expired.
	KindTimeout Kind = iota + 1
	// KindConnection: no usable response (refused, DNS, reset).
	KindConnection
	// KindStatus: the server answered outside 2xx.
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindStatus:
		return "status"
	}
	return "unknown"
}

// Error is a failed request.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		msg := fmt.Sprintf("HTTP %d", e.StatusCode)
		if excerpt := bodyExcerpt(e.Body); excerpt != "" {
			msg += ": " + excerpt
		}
		return msg
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// bodyExcerpt trims body and cuts it at maxExcerpt bytes on a rune boundary.
func bodyExcerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxExcerpt {
		return s
	}
	cut := maxExcerpt
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// IsTimeout reports whether err is a timed-out request.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTimeout
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
