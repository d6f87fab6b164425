// Package inputval validates user-supplied input before it reaches the
// stores. It provides standalone predicate helpers for ad-hoc checks and
// a struct tag based Validate for request payloads.
package inputval

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// IsValidEmail reports whether s looks like a deliverable email address.
// Single-label domains (user@localhost) are accepted since they are
// common in dev and test environments. Display-name forms such as
// "Name <user@host>" are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}

	local, domain := s[:at], s[at+1:]
	return validEmailLocal(local) && validEmailDomain(domain)
}

func validEmailLocal(local string) bool {
	if local == "" || len(local) > 64 {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	if strings.Contains(local, "..") {
		return false
	}
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("!#$%&'*+-/=?^_`{|}~.", r):
		default:
			return false
		}
	}
	return true
}

func validEmailDomain(domain string) bool {
	if domain == "" || len(domain) > 255 {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	if strings.Contains(domain, "..") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			default:
				return false
			}
		}
	}
	return true
}

// allowedGivingMethods is the canonical list of contribution payment
// methods, in display order.
var allowedGivingMethods = []string{"cash", "check", "card", "transfer"}

// IsValidGivingMethod reports whether method is a recognized contribution
// payment method. Comparison is case-insensitive and whitespace is
// trimmed.
func IsValidGivingMethod(method string) bool {
	method = strings.ToLower(strings.TrimSpace(method))
	for _, m := range allowedGivingMethods {
		if method == m {
			return true
		}
	}
	return false
}

// AllowedGivingMethodsList returns the canonical method list for use in
// error messages and API documentation.
func AllowedGivingMethodsList() []string {
	out := make([]string, len(allowedGivingMethods))
	copy(out, allowedGivingMethods)
	return out
}

// IsValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsValidPhone reports whether s looks like a dialable phone number:
// an optional leading +, then 7 to 15 digits, with spaces, dashes,
// dots, and parentheses permitted as separators.
func IsValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
// Used for gateway endpoint configuration.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	var rest string
	switch {
	case strings.HasPrefix(lower, "http://"):
		rest = s[len("http://"):]
	case strings.HasPrefix(lower, "https://"):
		rest = s[len("https://"):]
	default:
		return false
	}
	host := rest
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		host = rest[:i]
	}
	return host != "" && !strings.ContainsAny(host, " \t")
}

// IsValidUUID reports whether s parses as a UUID.
func IsValidUUID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
