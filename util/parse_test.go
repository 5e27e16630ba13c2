package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"10MB", 10 << 20},
		{"11MB", 11 << 20},
		{"512KB", 512 << 10},
		{"2GB", 2 << 30},
		{"10485760", 10 << 20},
		{"64B", 64},
		{"  10 mb ", 10 << 20},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseSize(tc.input, 0); got != tc.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseSizeFallback(t *testing.T) {
	const fallback = int64(10 << 20)
	for _, in := range []string{"", "big", "-5MB", "1.5MB"} {
		if got := ParseSize(in, fallback); got != fallback {
			t.Errorf("ParseSize(%q) = %d, want fallback", in, got)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input   string
		visible int
		want    string
	}{
		{"sk-or-v1-abcdef", 5, "sk-or***"},
		{"key", 4, "***"},
		{"", 2, "***"},
	}
	for _, tc := range tests {
		if got := MaskSecret(tc.input, tc.visible); got != tc.want {
			t.Errorf("MaskSecret(%q, %d) = %q, want %q", tc.input, tc.visible, got, tc.want)
		}
	}
}
