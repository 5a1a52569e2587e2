package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateFinite rejects NaN and infinite values for the named parameter.
// Form values such as "inf" or "nan" parse successfully with strconv but
// would make the pattern planner meaningless.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParameter, "%s must be a finite number", name)
	}
	return nil
}

// ValidatePositive rejects values that are not strictly greater than zero.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidParameter, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateNonNegative rejects negative values.
func ValidateNonNegative(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidParameter, "%s must not be negative, got %g", name, v)
	}
	return nil
}

// ValidateOutputPath validates a file path the CLI is about to write to.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory")
	}

	return nil
}
