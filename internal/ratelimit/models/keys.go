package models

import "strings"

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so a client-controlled value containing ':' cannot address another bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// IPKey is the bucket key of a client IP within a scope.
func IPKey(scope Scope, ip string) string {
	return "rl:" + string(scope) + ":ip:" + SanitizeKeySegment(ip)
}
