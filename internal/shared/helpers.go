// Package shared provides common utility functions used across multiple
// packages in the si-components codebase.
package shared

import (
	"fmt"
	"strings"
	"unicode"
)

// SafeFilename lowercases a component name, turns spaces and "::" into
// underscores and drops everything that is not alphanumeric, '_', '-' or '.'.
func SafeFilename(name string) string {
	replaced := strings.NewReplacer("::", "_", " ", "_").Replace(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range replaced {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

// Slug turns a schema or socket name into a lowercase dash separated token,
// e.g. "AWS::EC2::VPC" -> "aws-ec2-vpc".
func Slug(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer("::", "-", " ", "-", "_", "-")
	return replacer.Replace(lower)
}

// ShortID returns at most the first eight characters of an identifier.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// MaskSecret hides all but the last four characters of a credential.
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "***"
	}
	return "***" + value[len(value)-4:]
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, body)
}
