package testutil

import (
	"net/http"
	"time"

	"swissshield/pkg/requestcontext"
)

// WithRequestID stamps req as if the request ID middleware had run.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithClient sets the client IP and user agent the metadata middleware
// would have extracted.
func WithClient(req *http.Request, ip, userAgent string) *http.Request {
	req.Header.Set("User-Agent", userAgent)
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, userAgent))
}

// WithRequestTime pins the request time seen by handlers and services.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
