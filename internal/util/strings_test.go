package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"longer than max", "hello world", 8, "hello..."},
		{"max too small", "hello", 3, "..."},
		{"empty string", "", 10, ""},
		{"multibyte runes", "日本語のテキスト", 6, "日本語..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateRunes(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxChars int
		want     string
	}{
		{"shorter than max", "abc", 10, "abc"},
		{"exactly max", "abcde", 5, "abcde"},
		{"cut mid string", "abcdef", 4, "abcd"},
		{"zero budget", "abc", 0, ""},
		{"negative budget", "abc", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateChars(tt.input, tt.maxChars)
			if got != tt.want {
				t.Errorf("TruncateChars(%q, %d) = %q, want %q", tt.input, tt.maxChars, got, tt.want)
			}
		})
	}
}

func TestTruncateCharsRuneBoundary(t *testing.T) {
	// "日" is 3 bytes; a cut at 4 bytes must not split the second rune.
	got := TruncateChars("日本", 4)
	if !utf8.ValidString(got) {
		t.Errorf("TruncateChars produced invalid UTF-8: %q", got)
	}
	if got != "日" {
		t.Errorf("TruncateChars(%q, 4) = %q, want %q", "日本", got, "日")
	}
}

func TestTruncateCharsNeverExceedsBudget(t *testing.T) {
	input := strings.Repeat("語", 100)
	for budget := 0; budget < 20; budget++ {
		got := TruncateChars(input, budget)
		if len(got) > budget {
			t.Errorf("TruncateChars budget %d produced %d bytes", budget, len(got))
		}
	}
}
