// ABOUTME: Tests for shared CLI utility functions
// ABOUTME: Covers truncation, flag validation and norma scope parsing

package commands

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than limit", "corto", 10, "corto"},
		{"exactly at limit", "diez..chars", 11, "diez..chars"},
		{"over limit", "texto bastante largo", 10, "texto b..."},
		{"tiny limit", "texto", 3, "tex"},
		{"multibyte runes", "artículo único", 10, "artícul..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestValidatePositiveInt(t *testing.T) {
	if err := validatePositiveInt(5, "k"); err != nil {
		t.Errorf("unexpected error for positive value: %v", err)
	}
	if err := validatePositiveInt(0, "k"); err == nil {
		t.Error("expected error for zero")
	}
	if err := validatePositiveInt(-1, "k"); err == nil {
		t.Error("expected error for negative value")
	}
}

func TestParseNormaScope(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int64
	}{
		{"empty widens scope", "", nil},
		{"all widens scope", "all", nil},
		{"all uppercase widens scope", "ALL", nil},
		{"non-numeric widens scope", "todas", nil},
		{"numeric id", "42", ptr(42)},
		{"surrounding whitespace", " 7 ", ptr(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseNormaScope(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("parseNormaScope(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("parseNormaScope(%q) = %d, want %d", tt.input, *got, *tt.want)
			}
		})
	}
}

func ptr(v int64) *int64 { return &v }
