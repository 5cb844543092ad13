package util

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateFileName checks that name can be used as a data file setting:
//   - Not blank
//   - No control characters
//   - Not a bare directory reference ("." or "..")
//   - Must not end with a path separator
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name must not be blank")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("file name %q contains control characters", name)
		}
	}

	if base := filepath.Base(name); base == "." || base == ".." {
		return fmt.Errorf("file name %q refers to a directory", name)
	}

	if strings.HasSuffix(name, "/") || strings.HasSuffix(name, string(filepath.Separator)) {
		return fmt.Errorf("file name must not end with a path separator, got %q", name)
	}

	return nil
}
