package models

import "time"

// Scope names a rate limited operation. It is the first key segment.
type Scope string

const (
	ScopeCheckout Scope = "checkout"
	ScopeDownload Scope = "download"
)

// Policy is the allowance of one scope.
type Policy struct {
	Limit  int
	Window time.Duration
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}
