package core

import (
	"strings"

	"github.com/github/go-spdx/v2/spdxexp"
)

// ValidLicense reports whether license is a valid SPDX license expression.
func ValidLicense(license string) bool {
	license = strings.TrimSpace(license)
	if license == "" {
		return false
	}
	valid, _ := spdxexp.ValidateLicenses([]string{license})
	return valid
}
