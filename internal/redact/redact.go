// Package redact masks sensitive values before evidence leaves the engine.
// Every excerpt that ends up in a finding, report, or audit record passes
// through Excerpt first.
package redact

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	reCard  = regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`)
	rePhone = regexp.MustCompile(`\b\d{3}[- ]?\d{3}[- ]?\d{4}\b`)
	reToken = regexp.MustCompile(`\b[A-Za-z0-9+/]{20,}\b`)
)

// Excerpt masks emails, card numbers, phone numbers, and long token-like
// strings in an evidence snippet.
func Excerpt(s string) string {
	s = reEmail.ReplaceAllString(s, "****@****.***")
	s = reCard.ReplaceAllString(s, "****-****-****-****")
	s = rePhone.ReplaceAllString(s, "***-***-****")
	s = reToken.ReplaceAllString(s, "****[REDACTED]****")
	return s
}

// Value masks a matched value for display, keeping just enough of the
// head and tail to recognize it.
func Value(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

// LuhnValid reports whether a candidate card number passes the Luhn
// checksum. Separators (space, dash) are ignored.
func LuhnValid(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	if len(s) < 12 {
		return false
	}
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
