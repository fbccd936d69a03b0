package util

import (
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix string
	factor int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize converts a size such as "25MB", "512 KB" or "1024" into bytes.
// Units are binary and case-insensitive. Empty, malformed or negative input
// yields defaultBytes.
func ParseSize(s string, defaultBytes int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBytes
	}
	factor := int64(1)
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			factor = u.factor
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return defaultBytes
	}
	return n * factor
}

// MaskSecret keeps the first visible runes of s and replaces the rest with
// "***". Strings no longer than visible are masked entirely.
func MaskSecret(s string, visible int) string {
	r := []rune(s)
	if len(r) <= visible {
		return "***"
	}
	return string(r[:visible]) + "***"
}
