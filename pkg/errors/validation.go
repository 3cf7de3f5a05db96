package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateExportFilename validates the name of an export file.
// It must be a plain basename (no directories) ending in ".json".
func ValidateExportFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "export filename cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "export filename too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "export filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "export filename cannot contain path separators")
	}

	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "export filename cannot be a hidden file")
	}

	if !strings.EqualFold(filepath.Ext(name), ".json") {
		return New(ErrCodeInvalidPath, "export filename must end in .json: %q", name)
	}

	return nil
}

// ValidatePath validates a user-supplied input or catalog path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
