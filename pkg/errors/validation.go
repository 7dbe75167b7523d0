package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// MaxTolerance bounds the accepted absolute tolerance. Anything larger would
// accept almost any placement and points at a unit mix-up in the input.
const MaxTolerance = 1e3

// ValidateTolerance checks an absolute distance tolerance.
// It must be finite, strictly positive, and not larger than MaxTolerance.
func ValidateTolerance(tol float64) error {
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return New(ErrCodeInvalidTolerance, "tolerance must be finite, got %g", tol)
	}
	if tol <= 0 {
		return New(ErrCodeInvalidTolerance, "tolerance must be positive, got %g", tol)
	}
	if tol > MaxTolerance {
		return New(ErrCodeInvalidTolerance, "tolerance too large (max %g), got %g", float64(MaxTolerance), tol)
	}
	return nil
}

// wellNameRegex matches names like "well_0", "B-12" or "P3.a".
var wellNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateWellName validates a well identifier from a survey file.
//
// Names label points in rendered output and key measurements, so they must be
// non-empty, at most 64 characters, free of control characters, and made of
// letters, digits, dot, dash and underscore.
func ValidateWellName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidWellName, "well name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidWellName, "well name too long (max 64 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidWellName, "well name contains invalid control characters")
		}
	}
	if !wellNameRegex.MatchString(name) {
		return New(ErrCodeInvalidWellName, "invalid well name: %q", name)
	}
	return nil
}

// ValidatePath validates an output path supplied through the API.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
