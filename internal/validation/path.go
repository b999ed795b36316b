package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

/* ValidateFilePath validates a file path for safety */
func ValidateFilePath(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	path = strings.TrimSpace(path)

	/* Check for path traversal attempts */
	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains path traversal attempt: %s", fieldName, path)
	}

	/* Check for null bytes */
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%s contains null byte", fieldName)
	}

	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%s points to non-existent file: %w", fieldName, err)
		}
	}

	return nil
}
