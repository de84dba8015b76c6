package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL accepts absolute http(s) URLs with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", raw)
	}

	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", raw)
	}

	return nil
}

// NormalizeURL drops trailing slashes so paths can be appended.
func NormalizeURL(raw string) string {
	return strings.TrimRight(raw, "/")
}
