package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// ValidatePrinterName validates a printer name passed to the print executable
func ValidatePrinterName(name string) error {
	if len(name) > 256 {
		return fmt.Errorf("printer name too long: %d bytes", len(name))
	}
	if controlChars.MatchString(name) {
		return fmt.Errorf("printer name contains control characters: %q", name)
	}
	return nil
}

// ValidateTaxRate validates a consumption tax rate (0.1 = 10%)
func ValidateTaxRate(rate float64) error {
	if rate < 0 || rate >= 1 {
		return fmt.Errorf("tax rate must be in [0, 1): %.3f", rate)
	}
	return nil
}

// ValidateOutputPath validates a requested PDF output path (empty is allowed)
func ValidateOutputPath(path string) error {
	if path == "" {
		return nil
	}
	if controlChars.MatchString(path) {
		return fmt.Errorf("output path contains control characters: %q", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("output path must end in .pdf: %s", path)
	}
	return nil
}
