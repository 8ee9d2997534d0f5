// Package asin extracts Amazon Standard Identification Numbers from product
// URLs.
package asin

import (
	"regexp"

	"github.com/aleister1102/urlpurifier/internal/urlhandler"
)

// Length is the number of characters in an ASIN.
const Length = 10

// Path patterns are tried in this order; the first match wins. Matching is
// case-insensitive and the ID must be followed by "/", "?" or the end of
// the path.
var pathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})(?:[/?]|$)`),
	regexp.MustCompile(`(?i)/product/([A-Z0-9]{10})(?:[/?]|$)`),
}

var exactASIN = regexp.MustCompile(`(?i)^[A-Z0-9]{10}$`)

// queryKeys are looked up in order with exact key comparison.
var queryKeys = []string{"asin", "ASIN"}

// Extract returns the ASIN found in u and true, or "" and false. The
// returned value keeps the case it had in the URL.
func Extract(u *urlhandler.ParsedURL) (string, bool) {
	if id, ok := FromPath(u.EscapedPath()); ok {
		return id, true
	}

	for _, key := range queryKeys {
		if value, ok := u.Get(key); ok && value != "" {
			// Only the first non-empty lookup is considered, even when its
			// value is not a valid ASIN.
			if IsValid(value) {
				return value, true
			}
			return "", false
		}
	}
	return "", false
}

// FromPath applies the path patterns to an escaped URL path.
func FromPath(path string) (string, bool) {
	for _, re := range pathPatterns {
		if m := re.FindStringSubmatch(path); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// IsValid reports whether s is exactly ten ASCII letters or digits.
func IsValid(s string) bool {
	return exactASIN.MatchString(s)
}
