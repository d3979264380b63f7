package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// variantNameRegex matches names safe to use in file names and CSV columns.
var variantNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateVariantName validates a user-supplied variant label.
//
// Names end up in export file names and table headers, so the rules are
// conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - Letters, digits, dot, dash and underscore only, starting alphanumeric
//   - No ".." sequences
func ValidateVariantName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidVariant, "variant name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidVariant, "variant name too long (max 64 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidVariant, "variant name contains invalid characters: %q", "..")
	}
	if !variantNameRegex.MatchString(name) {
		return New(ErrCodeInvalidVariant, "invalid variant name: %q", name)
	}
	return nil
}

// runIDRegex matches the canonical lowercase form of a UUID.
var runIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateRunID validates a run identifier as produced by the pipeline.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run ID cannot be empty")
	}
	if !runIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid run ID: %q", id)
	}
	return nil
}

// ValidateFormat checks format against the allowed output formats.
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a connection URL for one of the given schemes,
// for example "redis" or "mongodb".
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
