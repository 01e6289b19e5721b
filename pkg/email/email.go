package email

import (
	"regexp"
	"strings"
)

// Same loose shape the checkout form enforces client-side.
var pattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Valid reports whether s looks like a deliverable address.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// Normalize trims the address and lower-cases the domain. The local part is
// kept as typed.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		return s
	}
	return s[:at] + strings.ToLower(s[at:])
}

// Redact keeps the first rune of the local part and the domain, for logs
// that need to distinguish customers without revealing them.
func Redact(s string) string {
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return "***"
	}
	first := []rune(s[:at])[0]
	return string(first) + "***" + s[at:]
}
