package util

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// ValidateURL validates an absolute http or https URL string.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme == "" {
		return fmt.Errorf("URL must have a scheme (http or https)")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got: %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return fmt.Errorf("URL must not carry a query or fragment")
	}

	return nil
}

// ValidatePort validates a port number.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got: %d", port)
	}
	return nil
}

// ValidateNonNegativePort validates a port number (0 is allowed for auto-assign).
func ValidateNonNegativePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got: %d", port)
	}
	return nil
}

// ValidateDuration validates a duration is not negative.
func ValidateDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("duration cannot be negative: %v", d)
	}
	return nil
}

// ValidateHTTPMethod validates an HTTP method.
func ValidateHTTPMethod(method string) error {
	validMethods := map[string]bool{
		"GET":     true,
		"POST":    true,
		"PUT":     true,
		"DELETE":  true,
		"PATCH":   true,
		"HEAD":    true,
		"OPTIONS": true,
		"TRACE":   true,
	}

	if !validMethods[strings.ToUpper(method)] {
		return fmt.Errorf("invalid HTTP method: %s", method)
	}

	return nil
}

// ValidateIPAddress validates an IP address (v4 or v6).
func ValidateIPAddress(ip string) error {
	if ip == "" {
		return fmt.Errorf("IP address cannot be empty")
	}

	if net.ParseIP(ip) == nil {
		return fmt.Errorf("invalid IP address: %s", ip)
	}

	return nil
}

// ValidatePathPattern validates an Ant-style route pattern. Wildcards
// must fill a whole segment and "**" may only be the last segment.
func ValidatePathPattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("path pattern cannot be empty")
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("path pattern must start with '/': %s", pattern)
	}

	segments := strings.FieldsFunc(pattern, func(r rune) bool { return r == '/' })
	for i, seg := range segments {
		switch {
		case seg == "**":
			if i != len(segments)-1 {
				return fmt.Errorf("'**' must be the last segment: %s", pattern)
			}
		case seg == "*":
		case strings.Contains(seg, "*"):
			return fmt.Errorf("wildcards must fill a whole segment: %s", pattern)
		}
	}
	return nil
}
