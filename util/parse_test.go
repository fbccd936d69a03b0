package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"25MB", 25 << 20},
		{"512KB", 512 << 10},
		{"512 kb", 512 << 10},
		{"2GB", 2 << 30},
		{"1024", 1024},
		{"800B", 800},
		{"  10mb  ", 10 << 20},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseSize(tc.input, 0); got != tc.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseSizeFallsBackToDefault(t *testing.T) {
	const def = int64(5 << 20)
	for _, in := range []string{"", "invalid", "MB", "-3MB", "1.5MB"} {
		if got := ParseSize(in, def); got != def {
			t.Errorf("ParseSize(%q) = %d, want default %d", in, got, def)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input   string
		visible int
		want    string
	}{
		{"sk-proj-abcdef0123456789", 7, "sk-proj***"},
		{"short", 10, "***"},
		{"exactly10!", 10, "***"},
		{"", 5, "***"},
		{"ключ-секрет", 4, "ключ***"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := MaskSecret(tc.input, tc.visible); got != tc.want {
				t.Errorf("MaskSecret(%q, %d) = %q, want %q", tc.input, tc.visible, got, tc.want)
			}
		})
	}
}
