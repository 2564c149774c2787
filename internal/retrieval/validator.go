// ABOUTME: Structural validator for retrieved norma fragments
// ABOUTME: Rejects index lines, page-number artifacts, and too-short snippets
package retrieval

import "regexp"

var (
	// Runs of five or more dots mark table-of-contents / index lines.
	dotRunRe = regexp.MustCompile(`\.{5,}`)
	// A trailing "  42" style tail is a page-number artifact.
	pageNumberRe = regexp.MustCompile(`\s\d{1,3}\s*$`)
)

// Validator filters fragments that are structurally unusable as sources.
type Validator struct {
	minLen int
}

// NewValidator creates a validator with the given minimum fragment length.
func NewValidator(minLen int) *Validator {
	return &Validator{minLen: minLen}
}

// IsValid reports whether the fragment text is usable. All rules must pass.
// The minimum length counts runes, not bytes, so accented text is not
// measured longer than it reads.
func (v *Validator) IsValid(text string) bool {
	if len([]rune(text)) < v.minLen {
		return false
	}
	if dotRunRe.MatchString(text) {
		return false
	}
	if pageNumberRe.MatchString(text) {
		return false
	}
	return true
}
