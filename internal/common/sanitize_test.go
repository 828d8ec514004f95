package common

import "testing"

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "https://example.com/page", "https://example.com/page"},
		{"whitespace", "  https://example.com \n", "https://example.com"},
		{"trailing comma", "https://example.com,", "https://example.com"},
		{"trailing period", "https://example.com/page.", "https://example.com/page"},
		{"markdown link", "[read this](https://example.com/article)", "https://example.com/article"},
		{"wrapped in parens", "(https://example.com)", "https://example.com"},
		{"angle brackets", "<https://example.com>", "https://example.com"},
		{"quoted", `"https://example.com"`, "https://example.com"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.input); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
