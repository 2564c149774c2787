// ABOUTME: Tests for the structural fragment validator
// ABOUTME: Covers length, dot-run, and page-number rejection rules
package retrieval

import (
	"strings"
	"testing"
)

func TestIsValid_TooShort(t *testing.T) {
	v := NewValidator(80)

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"one word", "artículo"},
		{"79 chars", strings.Repeat("a", 79)},
		// 79 runes but 158 bytes; accented text must be measured in runes.
		{"79 accented runes", strings.Repeat("á", 79)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v.IsValid(tt.text) {
				t.Errorf("IsValid(%q) = true, want false", tt.text)
			}
		})
	}
}

func TestIsValid_DotRuns(t *testing.T) {
	v := NewValidator(80)
	base := strings.Repeat("contenido normativo ", 6)

	// Four dots are fine; only runs of five or more mark an index line.
	if !v.IsValid(base + "....") {
		t.Error("four dots should be allowed")
	}

	indexLine := base + "Capítulo II ..... otras disposiciones"
	if v.IsValid(indexLine) {
		t.Errorf("IsValid with 5-dot run = true, want false")
	}
}

func TestIsValid_PageNumberTail(t *testing.T) {
	v := NewValidator(80)
	base := strings.Repeat("texto del artículo sobre conservación de datos ", 3)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"ends with page number", base + " 42", false},
		{"page number and trailing space", base + " 7  ", false},
		{"three digit page", base + " 123", false},
		{"four digits is not a page", base + " 2024", true},
		{"digits mid-text", base + " 42 y siguientes disposiciones legales", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsValid(tt.text); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsValid_CleanFragment(t *testing.T) {
	v := NewValidator(80)
	text := "El responsable del tratamiento adoptará las medidas técnicas y organizativas apropiadas para garantizar la seguridad de los datos personales."

	if !v.IsValid(text) {
		t.Error("clean fragment should be valid")
	}
}
