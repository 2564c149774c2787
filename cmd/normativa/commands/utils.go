// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Consolidates flag validation and formatting helpers
package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// parseNormaScope turns the --norma flag into a search scope. The empty
// string, "all" and any non-numeric value widen the search to the whole
// corpus; a numeric value scopes it to that norma.
func parseNormaScope(value string) *int64 {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
