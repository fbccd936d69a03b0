package util

import (
	"path"
	"strings"
	"unicode"
)

// SanitizeString trims whitespace and removes control characters from s.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeFileName reduces a client-supplied name to a bare file name that is
// safe to place under a vault folder. Directories are dropped and "" is
// returned when nothing usable remains.
func SanitizeFileName(name string) string {
	name = SanitizeString(strings.ReplaceAll(name, `\`, "/"))
	name = path.Base(name)
	switch name {
	case ".", "..", "/":
		return ""
	}
	return name
}
