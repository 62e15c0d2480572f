package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// projectNameRE matches valid Python project names (PEP 508).
var projectNameRE = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// ValidateProjectName checks that name is a usable Python project name.
// Project names end up in index URLs, so anything that could escape the
// project path is rejected before the PEP 508 pattern is applied.
func ValidateProjectName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "project name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "project name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "project name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "project name contains invalid characters: %q", pattern)
		}
	}
	if !projectNameRE.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid Python project name: %q", name)
	}
	return nil
}

// ValidateIndexURL checks that rawURL is an absolute http or https URL.
func ValidateIndexURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "index URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "parse index URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidURL, "index URL must use http or https scheme: %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "index URL has no host: %q", rawURL)
	}
	return nil
}
