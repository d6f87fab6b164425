package postgres

import "testing"

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		name   string
		needle string
		want   string
	}{
		{"lowercases", "Ruth", "%ruth%"},
		{"mixed case with space", "Ruth Boaz", "%ruth boaz%"},
		{"escapes percent", "100%", `%100\%%`},
		{"escapes underscore", "a_b", `%a\_b%`},
		{"escapes backslash", `a\b`, `%a\\b%`},
		{"empty", "", "%%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := searchPattern(tt.needle); got != tt.want {
				t.Errorf("searchPattern(%q) = %q, want %q", tt.needle, got, tt.want)
			}
		})
	}
}
